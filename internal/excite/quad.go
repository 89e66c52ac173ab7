package excite

import (
	"slices"

	"ascigo/internal/core"
)

// quadParts splits quadruplet masks into the masks of its leading triplet and
// the residual lowest index.
func quadParts(m core.Masks) (core.Masks, int) {
	if m.Constraint.Kind != core.KindQuad {
		panic("excite.quadParts: constraint " + m.Constraint.String() + " is not a quadruplet")
	}
	t := m.Constraint.Triplet()
	tm := core.Masks{
		Constraint: t,
		Mask:       t.Mask(),
		Overfill:   m.Overfill,
		Boundary:   core.BelowMask(t.Lowest()),
	}
	return tm, m.Constraint.Lowest()
}

// QuadSingleExcitations returns the occupied and virtual orbitals of the
// single excitations of det owned by the quadruplet. Candidates come from
// the leading triplet and are kept only when the excited string reproduces
// the four flagged bits at and above the lowest one.
func QuadSingleExcitations(det core.Det, m core.Masks) (o, v core.Det) {
	tm, l := quadParts(m)
	to, tv := TripletSingleExcitations(det, tm)
	if to.IsZero() || tv.IsZero() {
		return core.Det{}, core.Det{}
	}

	var ib, ab [core.SpinBits]int
	vir := tv.Indices(ab[:0])
	for _, i := range to.Indices(ib[:0]) {
		temp := det.Flip(i)
		for _, a := range vir {
			if core.SatisfiesQuad(temp.Flip(a), m.Mask, l) {
				o = o.Set(i)
				v = v.Set(a)
			}
		}
	}
	if o.IsZero() || v.IsZero() {
		return core.Det{}, core.Det{}
	}
	return o, v
}

// QuadSingles appends the single excitations of det owned by the quadruplet.
func QuadSingles(det core.Det, m core.Masks, out []core.Det) []core.Det {
	o, v := QuadSingleExcitations(det, m)
	if o.IsZero() || v.IsZero() {
		return out
	}
	return applySingles(out, det, o, v)
}

// CountQuadSingles returns the number of single excitations of det owned by
// the quadruplet.
func CountQuadSingles(det core.Det, m core.Masks) uint64 {
	o, v := QuadSingleExcitations(det, m)
	return uint64(o.Count()) * uint64(v.Count())
}

// QuadDoubleExcitations appends the sorted, de-duplicated occupied and
// virtual pair masks of the double excitations of det owned by the
// quadruplet.
func QuadDoubleExcitations(det core.Det, m core.Masks, occ, vir []core.Det) ([]core.Det, []core.Det) {
	tm, l := quadParts(m)
	tocc, tvir := TripletDoubleExcitations(det, tm, nil, nil)
	if len(tocc) == 0 || len(tvir) == 0 {
		return occ, vir
	}

	occ0, vir0 := len(occ), len(vir)
	for _, ij := range tocc {
		temp := det.Xor(ij)
		for _, ab := range tvir {
			if core.SatisfiesQuad(temp.Or(ab), m.Mask, l) {
				occ = append(occ, ij)
				vir = append(vir, ab)
			}
		}
	}
	if len(occ) == occ0 {
		return occ, vir
	}
	return append(occ[:occ0], sortUnique(occ[occ0:])...), append(vir[:vir0], sortUnique(vir[vir0:])...)
}

func sortUnique(ds []core.Det) []core.Det {
	slices.SortFunc(ds, core.Det.Compare)
	return slices.Compact(ds)
}

// QuadDoubles appends the double excitations of det owned by the quadruplet.
func QuadDoubles(det core.Det, m core.Masks, out []core.Det) []core.Det {
	occ, vir := QuadDoubleExcitations(det, m, nil, nil)
	return applyDoubles(out, det, occ, vir)
}

// CountQuadDoubles returns the number of double excitations of det owned by
// the quadruplet. Unlike the triplet count it has to filter candidates.
func CountQuadDoubles(det core.Det, m core.Masks) uint64 {
	occ, vir := QuadDoubleExcitations(det, m, nil, nil)
	return uint64(len(occ)) * uint64(len(vir))
}
