package asci

import (
	"fmt"
	"time"

	"ascigo/internal/contrib"
	"ascigo/internal/core"
	"ascigo/internal/dist"
	"ascigo/internal/excite"
	"ascigo/internal/util"
)

// Term is a determinant of the wavefunction with its coefficient and
// diagonal Hamiltonian element.
type Term struct {
	Det   core.Det
	Coeff float64
	Diag  float64
}

// Class is an excitation class of a generated determinant.
type Class int

const (
	ClassAA   Class = iota // alpha single
	ClassAAAA              // alpha double
	ClassAABB              // alpha single with beta single
	ClassBB                // beta single
	ClassBBBB              // beta double
	numClasses
)

var classNames = [numClasses]string{"aa", "aaaa", "aabb", "bb", "bbbb"}

func (c Class) String() string {
	if c >= 0 && c < numClasses {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Classes lists every excitation class.
func Classes() []Class {
	return []Class{ClassAA, ClassAAAA, ClassAABB, ClassBB, ClassBBBB}
}

// SearchStats counts what one Search call produced.
type SearchStats struct {
	Counts      [numClasses]int
	Roots       int
	Constraints int
	Elapsed     time.Duration
}

// Total returns the number of generated contributions.
func (s SearchStats) Total() int {
	var n int
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// Add folds o into s.
func (s *SearchStats) Add(o SearchStats) {
	for c := range s.Counts {
		s.Counts[c] += o.Counts[c]
	}
	s.Roots += o.Roots
	s.Constraints += o.Constraints
	s.Elapsed += o.Elapsed
}

// Searcher generates the contributions of a rank's constraints. It is not
// safe for concurrent use; give each goroutine its own Searcher.
type Searcher struct {
	Norb    int
	Verbose bool
	// Observe, if set, is called once per class after each Search.
	Observe func(class Class, n int)

	gen *contrib.Generator
}

// NewSearcher returns a searcher that drops contributions with
// |coeff * h| < tol.
func NewSearcher(h *Hamiltonian, tol float64) (*Searcher, error) {
	if h == nil || h.Ints == nil {
		return nil, fmt.Errorf("asci: hamiltonian missing")
	}
	gen, err := contrib.NewGenerator(h.Ints, h.Diag, h.E0, tol)
	if err != nil {
		return nil, fmt.Errorf("asci: %w", err)
	}
	return &Searcher{Norb: h.Ints.Norb, gen: gen}, nil
}

// Search appends to buf the contributions of every term of wfn excited
// under the constraints of a. Alpha singles, alpha doubles and mixed doubles
// are generated for each constraint; beta singles and doubles only for the
// constraint the alpha string owns.
func (s *Searcher) Search(a dist.Assignment, wfn []Term, buf *contrib.Buffer) SearchStats {
	start := time.Now()
	stats := SearchStats{Roots: len(wfn), Constraints: len(a.Units)}
	pl := util.NewProgressLogger(uint64(len(a.Units)), fmt.Sprintf("[rank %2d] search: ", a.Rank), s.Verbose)

	count := func(c Class, before int) {
		stats.Counts[c] += buf.Len() - before
	}
	for _, u := range a.Units {
		m := core.MasksFor(s.Norb, u.Constraint)
		for _, t := range wfn {
			r := contrib.NewRoot(t.Det, t.Coeff, t.Diag, contrib.Alpha)
			n := buf.Len()
			s.gen.SinglesSS(r, m, buf)
			count(ClassAA, n)

			n = buf.Len()
			s.gen.DoublesSS(r, m, buf)
			count(ClassAAAA, n)

			n = buf.Len()
			s.gen.DoublesOS(r, m, buf)
			count(ClassAABB, n)

			if !excite.Owns(r.Same, m) {
				continue
			}
			rb := contrib.NewRoot(t.Det, t.Coeff, t.Diag, contrib.Beta)
			n = buf.Len()
			s.gen.SinglesSSAll(rb, buf)
			count(ClassBB, n)

			n = buf.Len()
			s.gen.DoublesSSAll(rb, buf)
			count(ClassBBBB, n)
		}
		pl.Log()
	}
	pl.Finalize()

	stats.Elapsed = time.Since(start)
	if s.Observe != nil {
		for _, c := range Classes() {
			s.Observe(c, stats.Counts[c])
		}
	}
	return stats
}
