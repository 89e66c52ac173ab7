package excite

import (
	"ascigo/internal/core"
)

// appendPairs appends every two-bit mask built from idx (i < j order of idx).
func appendPairs(out []core.Det, idx []int) []core.Det {
	for x := 0; x < len(idx); x++ {
		for y := 0; y < x; y++ {
			out = append(out, core.BitMask(idx[x]).Set(idx[y]))
		}
	}
	return out
}

// choose2 returns n*(n-1)/2.
func choose2(n uint64) uint64 {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// applySingles appends det with every (i in o, a in v) pair flipped.
func applySingles(out []core.Det, det, o, v core.Det) []core.Det {
	var ib, ab [core.SpinBits]int
	occ := o.Indices(ib[:0])
	vir := v.Indices(ab[:0])
	for _, i := range occ {
		temp := det.Flip(i)
		for _, a := range vir {
			out = append(out, temp.Flip(a))
		}
	}
	return out
}

// applyDoubles appends (det ^ ij) | ab for every occupied/virtual pair combination.
func applyDoubles(out []core.Det, det core.Det, occ, vir []core.Det) []core.Det {
	for _, ij := range occ {
		temp := det.Xor(ij)
		for _, ab := range vir {
			out = append(out, temp.Or(ab))
		}
	}
	return out
}
