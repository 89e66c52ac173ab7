package dist

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"ascigo/internal/core"
)

// VerifyCoverage checks that the ranks' assignments of p are disjoint and
// together hold every unit of p exactly once, with loads matching the
// assigned costs.
func VerifyCoverage(p *Plan) error {
	if len(p.Owners) != len(p.Units) {
		return fmt.Errorf("dist: %d owners for %d units", len(p.Owners), len(p.Units))
	}
	seen := bitset.New(uint(len(p.Units)))
	index := make(map[core.Constraint]int, len(p.Units))
	for n, u := range p.Units {
		if prev, ok := index[u.Constraint]; ok {
			return fmt.Errorf("dist: constraint %v listed at %d and %d", u.Constraint, prev, n)
		}
		index[u.Constraint] = n
	}

	var count int
	for r := 0; r < p.Size; r++ {
		a, err := p.Assignment(r)
		if err != nil {
			return err
		}
		var load uint64
		for _, u := range a.Units {
			n := index[u.Constraint]
			if seen.Test(uint(n)) {
				return fmt.Errorf("dist: constraint %v assigned twice", u.Constraint)
			}
			seen.Set(uint(n))
			load += u.Cost
		}
		if load != a.Load {
			return fmt.Errorf("dist: rank %d holds cost %d but load table says %d", r, load, a.Load)
		}
		count += len(a.Units)
	}
	if count != len(p.Units) || seen.Count() != uint(len(p.Units)) {
		return fmt.Errorf("dist: %d of %d units assigned", seen.Count(), len(p.Units))
	}
	return nil
}
