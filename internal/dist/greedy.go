package dist

import (
	"slices"

	"ascigo/internal/core"
)

// Greedy performs longest-processing-time-first assignment. It returns the
// units sorted by cost (descending, ties by constraint mask value), the
// owning rank of each sorted unit and the per-rank loads. Each unit goes to
// the least-loaded rank, the lowest rank index winning ties.
//
// The input slice is not modified.
func Greedy(units []core.WorkUnit, size int) ([]core.WorkUnit, []int, []uint64) {
	if size < 1 {
		panic("dist.Greedy: empty process group")
	}
	sorted := slices.Clone(units)
	slices.SortFunc(sorted, func(a, b core.WorkUnit) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		}
		return 0
	})

	owners := make([]int, len(sorted))
	loads := make([]uint64, size)
	for n, u := range sorted {
		minRank := 0
		for r := 1; r < size; r++ {
			if loads[r] < loads[minRank] {
				minRank = r
			}
		}
		loads[minRank] += u.Cost
		owners[n] = minRank
	}
	return sorted, owners, loads
}
