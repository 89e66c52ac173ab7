package dist

import (
	"golang.org/x/sync/errgroup"

	"ascigo/internal/core"
)

// Scan costs every strictly descending triplet (i > j > k) of in.Norb
// orbitals and returns the non-empty ones in enumeration order (i ascending,
// then j, then k). The result does not depend on cfg.NumThreads.
func Scan(in Input, cfg core.DistConfig) ([]core.WorkUnit, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	logger := NewScanLogger("Triplet scan", uint64(in.Norb), cfg.Verbose, cfg.Progress)
	logger.Init()

	// One slot per leading orbital so workers never share a slice.
	perI := make([][]core.WorkUnit, in.Norb)
	scanI := func(i int) {
		var units []core.WorkUnit
		for j := 0; j < i; j++ {
			for k := 0; k < j; k++ {
				m := core.MakeTripletMasks(in.Norb, i, j, k)
				if nw := in.Cost(m); nw > 0 {
					units = append(units, core.WorkUnit{Constraint: m.Constraint, Cost: nw})
				}
			}
		}
		perI[i] = units
		logger.Update(len(units))
	}

	if threads := cfg.Threads(); threads > 1 && in.Norb > 1 {
		var g errgroup.Group
		g.SetLimit(threads)
		// Largest i first: it carries the most triplets.
		for i := in.Norb - 1; i >= 0; i-- {
			g.Go(func() error {
				scanI(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < in.Norb; i++ {
			scanI(i)
		}
	}
	logger.Finalize()

	units := make([]core.WorkUnit, 0, numTriplets(in.Norb))
	for _, u := range perI {
		units = append(units, u...)
	}
	return units, nil
}

// ScanQuads costs the quadruplets (i, j, k, l) of triplet t for every l < k
// and returns the non-empty ones with l ascending, plus their total cost.
func ScanQuads(in Input, t core.Constraint) ([]core.WorkUnit, uint64) {
	idx := t.Indices()
	var units []core.WorkUnit
	var total uint64
	for l := 0; l < idx[2]; l++ {
		m := core.MakeQuadMasks(in.Norb, idx[0], idx[1], idx[2], l)
		if nw := in.Cost(m); nw > 0 {
			units = append(units, core.WorkUnit{Constraint: m.Constraint, Cost: nw})
			total += nw
		}
	}
	return units, total
}

// TripletsAll returns every non-empty triplet in enumeration order.
func TripletsAll(in Input, cfg core.DistConfig) ([]core.Constraint, error) {
	units, err := Scan(in, cfg)
	if err != nil {
		return nil, err
	}
	out := make([]core.Constraint, len(units))
	for n, u := range units {
		out[n] = u.Constraint
	}
	return out, nil
}
