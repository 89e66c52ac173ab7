package excite

import (
	"ascigo/internal/core"
)

// tripletStart computes the shared occupied/virtual starting sets.
func tripletStart(det core.Det, m core.Masks) (o, v core.Det) {
	o = det.Xor(m.Mask)
	v = det.Not().And(m.Overfill).And(m.Boundary)
	return o, v
}

// TripletSingleExcitations returns the occupied orbitals o and virtual
// orbitals v such that every flip of one bit of o and one bit of v is a
// single excitation of det owned by the triplet. Both are empty when det is
// not owned.
func TripletSingleExcitations(det core.Det, m core.Masks) (o, v core.Det) {
	if det.And(m.Mask).Count() < 2 {
		return core.Det{}, core.Det{}
	}
	o, v = tripletStart(det, m)
	if ot := o.And(m.Mask); !ot.IsZero() {
		v = ot
		o = o.Xor(v)
	}

	outside := o.AndNot(m.Boundary)
	switch outside.Count() {
	case 0:
	case 1:
		o = outside
	default:
		return core.Det{}, core.Det{}
	}
	return o, v
}

// TripletSingles appends the single excitations of det owned by the triplet.
func TripletSingles(det core.Det, m core.Masks, out []core.Det) []core.Det {
	o, v := TripletSingleExcitations(det, m)
	if o.IsZero() || v.IsZero() {
		return out
	}
	return applySingles(out, det, o, v)
}

// CountTripletSingles returns the number of single excitations of det owned
// by the triplet without materializing them.
func CountTripletSingles(det core.Det, m core.Masks) uint64 {
	o, v := TripletSingleExcitations(det, m)
	return uint64(o.Count()) * uint64(v.Count())
}

// TripletDoubleExcitations appends the occupied pair masks (ij) and virtual
// pair masks (ab) whose combinations (det ^ ij) | ab are the double
// excitations of det owned by the triplet.
func TripletDoubleExcitations(det core.Det, m core.Masks, occ, vir []core.Det) ([]core.Det, []core.Det) {
	if det.And(m.Mask).IsZero() {
		return occ, vir
	}
	o, v := tripletStart(det, m)
	if ot := o.And(m.Mask); ot.Count() >= 2 {
		v = ot
		o = o.Xor(v)
	}

	var buf [core.SpinBits]int
	virIdx := v.Indices(buf[:0])
	vir0 := len(vir)
	if ot := o.And(m.Mask); ot.Count() == 1 {
		for _, a := range virIdx {
			vir = append(vir, ot.Flip(a))
		}
		o = o.Xor(ot)
	} else {
		vir = appendPairs(vir, virIdx)
	}

	outside := o.AndNot(m.Boundary)
	switch outside.Count() {
	case 1:
		for _, i := range o.And(m.Boundary).Indices(buf[:0]) {
			occ = append(occ, outside.Flip(i))
		}
	case 0, 2:
		if outside.Count() == 2 {
			o = outside
		}
		occ = appendPairs(occ, o.Indices(buf[:0]))
	default:
		// Not owned: drop the virtual pairs gathered above.
		return occ, vir[:vir0]
	}
	return occ, vir
}

// TripletDoubles appends the double excitations of det owned by the triplet.
func TripletDoubles(det core.Det, m core.Masks, out []core.Det) []core.Det {
	occ, vir := TripletDoubleExcitations(det, m, nil, nil)
	return applyDoubles(out, det, occ, vir)
}

// CountTripletDoubles returns the number of double excitations of det owned
// by the triplet without materializing them.
func CountTripletDoubles(det core.Det, m core.Masks) uint64 {
	if det.And(m.Mask).IsZero() {
		return 0
	}
	o, v := tripletStart(det, m)
	if ot := o.And(m.Mask); ot.Count() >= 2 {
		v = ot
		o = o.Xor(v)
	}

	nvPairs := uint64(v.Count())
	if ot := o.And(m.Mask); ot.Count() == 1 {
		o = o.Xor(ot)
	} else {
		nvPairs = choose2(nvPairs)
	}

	var noPairs uint64
	outside := o.AndNot(m.Boundary)
	switch outside.Count() {
	case 1:
		noPairs = uint64(o.And(m.Boundary).Count())
	case 0, 2:
		if outside.Count() == 2 {
			o = outside
		}
		noPairs = choose2(uint64(o.Count()))
	default:
		return 0
	}
	return noPairs * nvPairs
}
