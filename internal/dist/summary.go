package dist

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"ascigo/internal/core"
)

// Summary describes the load balance of a Plan.
type Summary struct {
	Policy       core.Policy
	Ranks        int
	Units        int
	Triplets     int
	Quads        int
	Total        uint64
	Loads        []uint64
	Max, Min     uint64
	Mean, StdDev float64
	// Imbalance is Max / Mean (1 is perfect balance, 0 for an empty plan).
	Imbalance    float64
	MaxUnit      uint64
	Threshold    uint64
	Split        int
	Unsplittable int
	Fingerprint  uint64
}

// Summary computes load statistics over the ranks of the plan.
func (p *Plan) Summary() Summary {
	s := Summary{
		Policy:       p.Policy,
		Ranks:        p.Size,
		Units:        len(p.Units),
		Total:        p.Total,
		Loads:        append([]uint64(nil), p.Loads...),
		MaxUnit:      p.MaxUnit(),
		Threshold:    p.Threshold,
		Split:        len(p.Split),
		Unsplittable: len(p.Unsplittable),
		Fingerprint:  p.Fingerprint(),
	}
	for _, u := range p.Units {
		if u.Constraint.Kind == core.KindQuad {
			s.Quads++
		} else {
			s.Triplets++
		}
	}
	if len(p.Loads) == 0 {
		return s
	}

	loads := make([]float64, len(p.Loads))
	s.Min = p.Loads[0]
	for r, l := range p.Loads {
		loads[r] = float64(l)
		s.Max = max(s.Max, l)
		s.Min = min(s.Min, l)
	}
	s.Mean, s.StdDev = stat.PopMeanStdDev(loads, nil)
	if s.Mean > 0 {
		s.Imbalance = float64(s.Max) / s.Mean
	}
	return s
}

func (s Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "policy=%s ranks=%d units=%d (triplets=%d quads=%d) total=%d\n",
		s.Policy, s.Ranks, s.Units, s.Triplets, s.Quads, s.Total)
	fmt.Fprintf(&sb, "load max=%d min=%d mean=%.1f stddev=%.1f imbalance=%.3f max_unit=%d\n",
		s.Max, s.Min, s.Mean, s.StdDev, s.Imbalance, s.MaxUnit)
	if s.Policy == core.PolicyHistogram34 {
		fmt.Fprintf(&sb, "split threshold=%d split=%d unsplittable=%d\n", s.Threshold, s.Split, s.Unsplittable)
	}
	for r, l := range s.Loads {
		fmt.Fprintf(&sb, "  [rank %2d] assigned %d of %d\n", r, l, s.Total)
	}
	fmt.Fprintf(&sb, "fingerprint=%016x", s.Fingerprint)
	return sb.String()
}
