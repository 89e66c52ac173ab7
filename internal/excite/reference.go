package excite

import (
	"ascigo/internal/core"
)

// AllSingles appends every single excitation of det inside norb orbitals,
// regardless of constraint.
func AllSingles(det core.Det, norb int, out []core.Det) []core.Det {
	full := core.FullMask(norb)
	return applySingles(out, det, det.And(full), det.Not().And(full))
}

// AllDoubles appends every double excitation of det inside norb orbitals.
func AllDoubles(det core.Det, norb int, out []core.Det) []core.Det {
	full := core.FullMask(norb)
	var buf [core.SpinBits]int
	occ := appendPairs(nil, det.And(full).Indices(buf[:0]))
	vir := appendPairs(nil, det.Not().And(full).Indices(buf[:0]))
	return applyDoubles(out, det, occ, vir)
}

// CountAllSingles returns len(AllSingles(det, norb, nil)).
func CountAllSingles(det core.Det, norb int) uint64 {
	s, _ := OtherSpinCounts(det.And(core.FullMask(norb)).Count(), norb)
	return s
}

// CountAllDoubles returns len(AllDoubles(det, norb, nil)).
func CountAllDoubles(det core.Det, norb int) uint64 {
	_, d := OtherSpinCounts(det.And(core.FullMask(norb)).Count(), norb)
	return d
}
