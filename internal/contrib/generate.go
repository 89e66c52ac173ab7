package contrib

import (
	"fmt"
	"math"

	"ascigo/internal/core"
	"ascigo/internal/excite"
)

// Spin names a channel of a determinant.
type Spin int

const (
	Alpha Spin = iota
	Beta
)

func (s Spin) String() string {
	if s == Beta {
		return "beta"
	}
	return "alpha"
}

// Root is a determinant of the wavefunction seen from the channel being
// excited. Same and Other are spin strings in the low half of a core.Det.
type Root struct {
	Coeff float64
	Same  core.Det
	Other core.Det
	Spin  Spin    // channel Same belongs to
	Diag  float64 // diagonal Hamiltonian element of the root
}

// NewRoot splits a full determinant so that spin is the excited channel.
func NewRoot(det core.Det, coeff, diag float64, spin Spin) Root {
	r := Root{Coeff: coeff, Diag: diag, Spin: spin, Same: det.Alpha(), Other: det.Beta()}
	if spin == Beta {
		r.Same, r.Other = r.Other, r.Same
	}
	return r
}

// compose rebuilds a full determinant from the two channels of r.
func (r Root) compose(same, other core.Det) core.Det {
	if r.Spin == Beta {
		return core.Compose(other, same)
	}
	return core.Compose(same, other)
}

// Generator turns constrained excitations of a root into contributions
// coeff * sign * h / (E0 - h_diag). It keeps scratch space and is not safe
// for concurrent use.
type Generator struct {
	Ints *Integrals
	Diag DiagEvaluator
	E0   float64
	// Tol drops a candidate when |coeff * h| < Tol, before its sign and
	// denominator are computed.
	Tol float64

	occ, vir []core.Det
}

// NewGenerator validates the integrals and returns a generator.
func NewGenerator(ints *Integrals, diag DiagEvaluator, e0, tol float64) (*Generator, error) {
	if err := core.CheckOrbitals(ints.Norb); err != nil {
		return nil, err
	}
	if err := ints.Validate(); err != nil {
		return nil, fmt.Errorf("contrib.NewGenerator: %w", err)
	}
	if diag == nil {
		return nil, fmt.Errorf("contrib.NewGenerator: diagonal evaluator missing")
	}
	return &Generator{Ints: ints, Diag: diag, E0: e0, Tol: tol}, nil
}

func (g *Generator) skip(coeff, h float64) bool {
	return math.Abs(coeff*h) < g.Tol
}

// singles emits the single excitations o x v of the same channel.
func (g *Generator) singles(r Root, o, v core.Det, buf *Buffer) {
	if o.IsZero() || v.IsZero() {
		return
	}
	norb := g.Ints.Norb
	var sb, ob, ib, ab [core.SpinBits]int
	occSame := r.Same.Indices(sb[:0])
	occOther := r.Other.And(core.FullMask(norb)).Indices(ob[:0])
	vir := v.Indices(ab[:0])

	for _, i := range o.Indices(ib[:0]) {
		for _, a := range vir {
			h := g.Ints.T.At(i, a)
			for _, p := range occSame {
				h += g.Ints.G3.At(p, a, i)
			}
			for _, p := range occOther {
				h += g.Ints.V3.At(p, a, i)
			}
			if g.skip(r.Coeff, h) {
				continue
			}

			h *= SingleExcitationSign(r.Same, a, i)
			h /= g.E0 - g.Diag.FastDiagSingle(r.Diag, i, a)
			buf.Append(r.compose(r.Same.Flip(i).Flip(a), r.Other), r.Coeff*h)
		}
	}
}

// ssDoubles emits the same-spin doubles occ x vir.
func (g *Generator) ssDoubles(r Root, occ, vir []core.Det, buf *Buffer) {
	for _, ij := range occ {
		i, j := ij.Ffs(), ij.Fls()
		exIJ := r.Same.Xor(ij)
		for _, ab := range vir {
			a, b := ab.Ffs(), ab.Fls()
			gabij := g.Ints.G.At(b, j, a, i)
			if g.skip(r.Coeff, gabij) {
				continue
			}

			exSpin := exIJ.Or(ab)
			h := DoublesSign(r.Same, exSpin, ij.Or(ab)) * gabij
			h /= g.E0 - g.Diag.FastDiagSSDouble(r.Diag, i, j, a, b)
			buf.Append(r.compose(exSpin, r.Other), r.Coeff*h)
		}
	}
}

// SinglesSS appends the same-spin singles of r owned by the constraint.
func (g *Generator) SinglesSS(r Root, m core.Masks, buf *Buffer) {
	o, v := excite.SingleExcitations(r.Same, m)
	g.singles(r, o, v, buf)
}

// DoublesSS appends the same-spin doubles of r owned by the constraint.
func (g *Generator) DoublesSS(r Root, m core.Masks, buf *Buffer) {
	g.occ, g.vir = excite.DoubleExcitations(r.Same, m, g.occ[:0], g.vir[:0])
	if len(g.occ) == 0 || len(g.vir) == 0 {
		return
	}
	g.ssDoubles(r, g.occ, g.vir, buf)
}

// DoublesOS appends the opposite-spin doubles whose same-channel part is a
// single owned by the constraint. The other channel is excited freely.
func (g *Generator) DoublesOS(r Root, m core.Masks, buf *Buffer) {
	o, v := excite.SingleExcitations(r.Same, m)
	if o.IsZero() || v.IsZero() {
		return
	}
	full := core.FullMask(g.Ints.Norb)
	var ib, ab, jb, bb [core.SpinBits]int
	vir := v.Indices(ab[:0])
	occOther := r.Other.And(full).Indices(jb[:0])
	virOther := r.Other.Not().And(full).Indices(bb[:0])

	for _, i := range o.Indices(ib[:0]) {
		for _, a := range vir {
			exSame := r.Same.Flip(i).Flip(a)
			signSame := SingleExcitationSign(r.Same, a, i)
			for _, j := range occOther {
				for _, b := range virOther {
					vaibj := g.Ints.V.At(a, i, b, j)
					if g.skip(r.Coeff, vaibj) {
						continue
					}

					h := signSame * SingleExcitationSign(r.Other, b, j) * vaibj
					h /= g.E0 - g.Diag.FastDiagOSDouble(r.Diag, i, j, a, b)
					buf.Append(r.compose(exSame, r.Other.Flip(j).Flip(b)), r.Coeff*h)
				}
			}
		}
	}
}

// SinglesSSAll appends every same-spin single of r.
func (g *Generator) SinglesSSAll(r Root, buf *Buffer) {
	full := core.FullMask(g.Ints.Norb)
	g.singles(r, r.Same.And(full), r.Same.Not().And(full), buf)
}

// DoublesSSAll appends every same-spin double of r.
func (g *Generator) DoublesSSAll(r Root, buf *Buffer) {
	full := core.FullMask(g.Ints.Norb)
	var ob, vb [core.SpinBits]int
	g.occ = pairs(g.occ[:0], r.Same.And(full).Indices(ob[:0]))
	g.vir = pairs(g.vir[:0], r.Same.Not().And(full).Indices(vb[:0]))
	g.ssDoubles(r, g.occ, g.vir, buf)
}

func pairs(out []core.Det, idx []int) []core.Det {
	for x := range idx {
		for y := 0; y < x; y++ {
			out = append(out, core.BitMask(idx[x]).Set(idx[y]))
		}
	}
	return out
}
