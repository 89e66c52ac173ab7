package excite

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascigo/internal/core"
)

// stringsWith returns every spin string with ne electrons in norb orbitals.
func stringsWith(norb, ne int) []core.Det {
	var out []core.Det
	for bits := uint64(0); bits < 1<<uint(norb); bits++ {
		d := core.Det{bits, 0}
		if d.Count() == ne {
			out = append(out, d)
		}
	}
	return out
}

func forEachTriplet(norb int, fn func(i, j, k int)) {
	for i := 0; i < norb; i++ {
		for j := 0; j < i; j++ {
			for k := 0; k < j; k++ {
				fn(i, j, k)
			}
		}
	}
}

func sorted(ds []core.Det) []core.Det {
	if len(ds) == 0 {
		return nil
	}
	out := slices.Clone(ds)
	slices.SortFunc(out, core.Det.Compare)
	return out
}

func TestTripletScenarioNorb4(t *testing.T) {
	// Both channels occupy {0,1}; only the alpha half is enumerated.
	det := core.Compose(core.Det{0b0011}, core.Det{0b0011}).Alpha()
	m := core.MakeTripletMasks(4, 2, 1, 0)

	o, v := TripletSingleExcitations(det, m)
	assert.Equal(t, core.Det{}, o, "orbitals 0 and 1 are flagged, nothing is left to vacate")
	assert.Equal(t, core.BitMask(2), v, "the unoccupied flagged orbital is the only virtual")
	assert.Equal(t, uint64(o.Count()*v.Count()), CountTripletSingles(det, m))
	assert.Zero(t, CountTripletSingles(det, m))
	assert.Empty(t, TripletSingles(det, m, nil))

	assert.True(t, Owns(det.Set(2), m))
	assert.False(t, Owns(det, m))
}

func TestTripletSinglesRejectOutsideBoundary(t *testing.T) {
	m := core.MakeTripletMasks(8, 4, 3, 2)
	tests := []struct {
		name  string
		det   uint64
		empty bool
	}{
		{"NoOverlap", 0b00000011, true},
		{"SingleOverlap", 0b00010011, true},
		{"TwoOutside", 0b11011000, true},
		{"OneOutside", 0b10011001, false},
		{"Exact", 0b00011101, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, v := TripletSingleExcitations(core.Det{tt.det}, m)
			if tt.empty {
				assert.True(t, o.IsZero() && v.IsZero(), "o=%s v=%s", o.StringN(8), v.StringN(8))
				return
			}
			assert.False(t, o.IsZero())
			assert.False(t, v.IsZero())
		})
	}
}

func TestCountsMatchEnumeration(t *testing.T) {
	const norb = 6
	for ne := 0; ne <= norb; ne++ {
		for _, det := range stringsWith(norb, ne) {
			forEachTriplet(norb, func(i, j, k int) {
				m := core.MakeTripletMasks(norb, i, j, k)
				require.Equal(t, int(CountTripletSingles(det, m)), len(TripletSingles(det, m, nil)),
					"singles %s %v", det.StringN(norb), m.Constraint)
				require.Equal(t, int(CountTripletDoubles(det, m)), len(TripletDoubles(det, m, nil)),
					"doubles %s %v", det.StringN(norb), m.Constraint)

				for l := 0; l < k; l++ {
					q := core.MakeQuadMasks(norb, i, j, k, l)
					require.Equal(t, int(CountQuadSingles(det, q)), len(QuadSingles(det, q, nil)))
					require.Equal(t, int(CountQuadDoubles(det, q)), len(QuadDoubles(det, q, nil)))
				}
			})
		}
	}
}

func TestTripletsPartitionExcitations(t *testing.T) {
	tests := []struct{ norb, ne int }{
		{5, 3}, {6, 3}, {6, 4}, {7, 4}, {6, 6},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("norb%d_ne%d", tt.norb, tt.ne), func(t *testing.T) {
			for _, det := range stringsWith(tt.norb, tt.ne) {
				var singles, doubles []core.Det
				owners := 0
				forEachTriplet(tt.norb, func(i, j, k int) {
					m := core.MakeTripletMasks(tt.norb, i, j, k)
					singles = TripletSingles(det, m, singles)
					doubles = TripletDoubles(det, m, doubles)
					if Owns(det, m) {
						owners++
					}
				})
				require.Equal(t, 1, owners, "det %s", det.StringN(tt.norb))
				require.Equal(t, sorted(AllSingles(det, tt.norb, nil)), sorted(singles), "singles of %s", det.StringN(tt.norb))
				require.Equal(t, sorted(AllDoubles(det, tt.norb, nil)), sorted(doubles), "doubles of %s", det.StringN(tt.norb))
			}
		})
	}
}

func TestHistogramSumsToUnconstrainedTotal(t *testing.T) {
	tests := []struct{ norb, na, nb int }{
		{5, 3, 2}, {6, 3, 3}, {6, 4, 2}, {7, 4, 3}, {6, 5, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("norb%d_%d_%d", tt.norb, tt.na, tt.nb), func(t *testing.T) {
			nos, nod := OtherSpinCounts(tt.nb, tt.norb)
			for _, det := range stringsWith(tt.norb, tt.na) {
				var total uint64
				forEachTriplet(tt.norb, func(i, j, k int) {
					total += TripletHistogram(det, core.MakeTripletMasks(tt.norb, i, j, k), nos, nod)
				})
				ns, nd := CountAllSingles(det, tt.norb), CountAllDoubles(det, tt.norb)
				require.Equal(t, ns+nd+ns*nos+nos+nod+1, total, "det %s", det.StringN(tt.norb))
			}
		})
	}
}

func TestQuadsRefineTriplet(t *testing.T) {
	tests := []struct{ norb, na, nb int }{
		{6, 4, 2}, {7, 4, 3}, {6, 5, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("norb%d_%d_%d", tt.norb, tt.na, tt.nb), func(t *testing.T) {
			nos, nod := OtherSpinCounts(tt.nb, tt.norb)
			for _, det := range stringsWith(tt.norb, tt.na) {
				forEachTriplet(tt.norb, func(i, j, k int) {
					if k == 0 {
						return
					}
					m := core.MakeTripletMasks(tt.norb, i, j, k)
					var qs, qd []core.Det
					var qh uint64
					for l := 0; l < k; l++ {
						q := core.MakeQuadMasks(tt.norb, i, j, k, l)
						qs = QuadSingles(det, q, qs)
						qd = QuadDoubles(det, q, qd)
						qh += QuadHistogram(det, q, nos, nod)
					}
					require.Equal(t, sorted(TripletSingles(det, m, nil)), sorted(qs), "%s %v", det.StringN(tt.norb), m.Constraint)
					require.Equal(t, sorted(TripletDoubles(det, m, nil)), sorted(qd), "%s %v", det.StringN(tt.norb), m.Constraint)
					require.Equal(t, TripletHistogram(det, m, nos, nod), qh)
				})
			}
		})
	}
}

// bruteQuadDoubles scans every double excitation of det and keeps those
// whose result matches q exactly at and above its lowest index.
func bruteQuadDoubles(det core.Det, norb int, q core.Masks) (occ, vir, results []core.Det) {
	full := core.FullMask(norb)
	var buf [core.SpinBits]int
	occPairs := appendPairs(nil, det.And(full).Indices(buf[:0]))
	virPairs := appendPairs(nil, det.Not().And(full).Indices(buf[:0]))
	for _, ij := range occPairs {
		for _, ab := range virPairs {
			ex := det.Xor(ij).Or(ab)
			if core.SatisfiesQuad(ex, q.Mask, q.Constraint.Lowest()) {
				occ = append(occ, ij)
				vir = append(vir, ab)
				results = append(results, ex)
			}
		}
	}
	return sortUnique(occ), sortUnique(vir), sorted(results)
}

func TestQuadDoublesMatchBruteForce(t *testing.T) {
	const norb = 6
	quads := [][4]int{{5, 4, 3, 2}, {5, 4, 3, 1}, {5, 3, 2, 0}, {4, 3, 2, 1}, {5, 4, 1, 0}}
	for _, ne := range []int{3, 4, 5} {
		for _, det := range stringsWith(norb, ne) {
			for _, qi := range quads {
				q := core.MakeQuadMasks(norb, qi[0], qi[1], qi[2], qi[3])
				wantOcc, wantVir, wantDets := bruteQuadDoubles(det, norb, q)
				occ, vir := QuadDoubleExcitations(det, q, nil, nil)
				require.Equal(t, wantOcc, nilIfEmpty(occ), "occ pairs of %s under %v", det.StringN(norb), q.Constraint)
				require.Equal(t, wantVir, nilIfEmpty(vir), "vir pairs of %s under %v", det.StringN(norb), q.Constraint)
				require.Equal(t, wantDets, nilIfEmpty(sorted(QuadDoubles(det, q, nil))))
			}
		}
	}
}

func TestQuadSinglesMatchBruteForce(t *testing.T) {
	const norb = 6
	for _, ne := range []int{4, 5} {
		for _, det := range stringsWith(norb, ne) {
			forEachTriplet(norb, func(i, j, k int) {
				for l := 0; l < k; l++ {
					q := core.MakeQuadMasks(norb, i, j, k, l)
					var want []core.Det
					for _, ex := range AllSingles(det, norb, nil) {
						if core.SatisfiesQuad(ex, q.Mask, l) {
							want = append(want, ex)
						}
					}
					require.Equal(t, sorted(want), sorted(QuadSingles(det, q, nil)), "%s %v", det.StringN(norb), q.Constraint)
				}
			})
		}
	}
}

func nilIfEmpty(ds []core.Det) []core.Det {
	if len(ds) == 0 {
		return nil
	}
	return ds
}

func TestHistogramKindChecks(t *testing.T) {
	det := core.Det{0b1111}
	q := core.MakeQuadMasks(6, 3, 2, 1, 0)
	assert.Panics(t, func() { TripletHistogram(det, q, 0, 0) })
	assert.Panics(t, func() { QuadHistogram(det, core.MakeTripletMasks(6, 3, 2, 1), 0, 0) })
	// The string is the quadruplet itself with nothing left to excite below
	// it, so only the owner term remains.
	assert.True(t, Owns(det, q))
	assert.Equal(t, uint64(1), QuadHistogram(det, q, 0, 0))
	assert.Equal(t, uint64(6), QuadHistogram(det, q, 2, 3))
}

func TestOtherSpinCounts(t *testing.T) {
	tests := []struct {
		nocc, norb int
		s, d       uint64
	}{
		{2, 4, 4, 1},
		{3, 6, 9, 9},
		{0, 5, 0, 0},
		{5, 5, 0, 0},
		{6, 5, 0, 0},
	}
	for _, tt := range tests {
		s, d := OtherSpinCounts(tt.nocc, tt.norb)
		assert.Equal(t, tt.s, s, "singles(%d,%d)", tt.nocc, tt.norb)
		assert.Equal(t, tt.d, d, "doubles(%d,%d)", tt.nocc, tt.norb)
	}
}
