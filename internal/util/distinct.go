package util

import (
	"math/rand/v2"
	"slices"

	"ascigo/internal/core"
)

// DistinctAlpha returns the distinct alpha strings of dets in ascending
// order. Each string is held in the low half of the returned Det.
func DistinctAlpha(dets []core.Det) []core.Det {
	return distinct(dets, core.Det.Alpha)
}

// DistinctBeta returns the distinct beta strings of dets in ascending order.
func DistinctBeta(dets []core.Det) []core.Det {
	return distinct(dets, core.Det.Beta)
}

func distinct(dets []core.Det, half func(core.Det) core.Det) []core.Det {
	out := make([]core.Det, len(dets))
	for n, d := range dets {
		out[n] = half(d)
	}
	slices.SortFunc(out, core.Det.Compare)
	return slices.Compact(out)
}

// RandomDets draws up to n distinct determinants with nalpha alpha and nbeta
// beta electrons in norb orbitals, using a generator seeded with seed. The
// result is shuffled. Fewer than n are returned when the space is smaller.
func RandomDets(norb, nalpha, nbeta, n int, seed uint64) []core.Det {
	if n <= 0 || nalpha > norb || nbeta > norb || nalpha < 0 || nbeta < 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	// Oversample so duplicates rarely leave us short.
	alloc := n + n/20 + 10
	dets := make([]core.Det, 0, alloc)
	for attempt := 0; attempt < 8 && len(dets) < n; attempt++ {
		for len(dets) < cap(dets) {
			dets = append(dets, core.Compose(randomString(rng, norb, nalpha), randomString(rng, norb, nbeta)))
		}
		slices.SortFunc(dets, core.Det.Compare)
		dets = slices.Compact(dets)
		if len(dets) < n {
			dets = slices.Grow(dets, alloc)
		}
	}
	if len(dets) > n {
		rng.Shuffle(len(dets), func(i, j int) { dets[i], dets[j] = dets[j], dets[i] })
		dets = dets[:n]
	}
	rng.Shuffle(len(dets), func(i, j int) { dets[i], dets[j] = dets[j], dets[i] })
	return dets
}

func randomString(rng *rand.Rand, norb, nocc int) core.Det {
	var s core.Det
	for _, p := range rng.Perm(norb)[:nocc] {
		s = s.Set(p)
	}
	return s
}
