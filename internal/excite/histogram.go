package excite

import (
	"ascigo/internal/core"
)

// Owns reports whether det, restricted to the bits at or above the lowest
// flagged orbital, is exactly the constraint mask. An owning string also
// carries the excitations that leave its own channel untouched.
func Owns(det core.Det, m core.Masks) bool {
	return det.And(m.Mask).Count() == int(m.Constraint.Kind) &&
		det.Xor(m.Mask).Shr(m.Constraint.Lowest()).IsZero()
}

// CountSingles dispatches on the constraint kind.
func CountSingles(det core.Det, m core.Masks) uint64 {
	if m.Constraint.Kind == core.KindQuad {
		return CountQuadSingles(det, m)
	}
	return CountTripletSingles(det, m)
}

// CountDoubles dispatches on the constraint kind.
func CountDoubles(det core.Det, m core.Masks) uint64 {
	if m.Constraint.Kind == core.KindQuad {
		return CountQuadDoubles(det, m)
	}
	return CountTripletDoubles(det, m)
}

// SingleExcitations dispatches on the constraint kind.
func SingleExcitations(det core.Det, m core.Masks) (o, v core.Det) {
	if m.Constraint.Kind == core.KindQuad {
		return QuadSingleExcitations(det, m)
	}
	return TripletSingleExcitations(det, m)
}

// DoubleExcitations dispatches on the constraint kind.
func DoubleExcitations(det core.Det, m core.Masks, occ, vir []core.Det) ([]core.Det, []core.Det) {
	if m.Constraint.Kind == core.KindQuad {
		return QuadDoubleExcitations(det, m, occ, vir)
	}
	return TripletDoubleExcitations(det, m, occ, vir)
}

// Histogram estimates how many determinants the pair (det, constraint)
// generates, given the single (nos) and double (nod) excitation counts of the
// other spin channel:
//
//	same-spin singles + same-spin doubles + singles x other singles
//	+ (other singles + other doubles + 1) if det owns the constraint
func Histogram(det core.Det, m core.Masks, nos, nod uint64) uint64 {
	ns := CountSingles(det, m)
	nd := CountDoubles(det, m)

	ndet := ns + nd + ns*nos
	if Owns(det, m) {
		ndet += nos + nod + 1
	}
	return ndet
}

// TripletHistogram is Histogram for triplet masks.
func TripletHistogram(det core.Det, m core.Masks, nos, nod uint64) uint64 {
	if m.Constraint.Kind != core.KindTriplet {
		panic("excite.TripletHistogram: constraint " + m.Constraint.String() + " is not a triplet")
	}
	return Histogram(det, m, nos, nod)
}

// QuadHistogram is Histogram for quadruplet masks.
func QuadHistogram(det core.Det, m core.Masks, nos, nod uint64) uint64 {
	if m.Constraint.Kind != core.KindQuad {
		panic("excite.QuadHistogram: constraint " + m.Constraint.String() + " is not a quadruplet")
	}
	return Histogram(det, m, nos, nod)
}

// OtherSpinCounts returns the number of unconstrained single and double
// excitations of a string with nocc electrons in norb orbitals.
func OtherSpinCounts(nocc, norb int) (singles, doubles uint64) {
	if nocc < 0 || nocc > norb {
		return 0, 0
	}
	no := uint64(nocc)
	nv := uint64(norb - nocc)
	return no * nv, choose2(no) * choose2(nv)
}
