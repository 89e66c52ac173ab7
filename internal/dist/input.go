package dist

import (
	"fmt"

	"ascigo/internal/core"
	"ascigo/internal/excite"
)

// Input is the data every rank costs constraints from. It must be identical
// on all ranks.
type Input struct {
	Norb    int
	Strings []core.Det // distinct strings of the constrained channel
	NSOther uint64     // single excitations of the other channel
	NDOther uint64     // double excitations of the other channel
}

// Validate checks the orbital count, that every string fits in it and that
// every string holds at least one triplet's worth of electrons.
func (in Input) Validate() error {
	if err := core.CheckOrbitals(in.Norb); err != nil {
		return fmt.Errorf("dist: %w", err)
	}
	full := core.FullMask(in.Norb)
	for n, s := range in.Strings {
		if !s.AndNot(full).IsZero() {
			return fmt.Errorf("dist: string %d (%s) has orbitals beyond norb %d: %w", n, s, in.Norb, core.ErrOrbitalBudget)
		}
		if s.Count() < int(core.KindTriplet) {
			return fmt.Errorf("dist: string %d (%s) has %d electrons: %w", n, s, s.Count(), core.ErrTooFewElectrons)
		}
	}
	return nil
}

// Cost sums the histogram of every string for one constraint.
func (in Input) Cost(m core.Masks) uint64 {
	var nw uint64
	for _, s := range in.Strings {
		nw += excite.Histogram(s, m, in.NSOther, in.NDOther)
	}
	return nw
}

// numTriplets returns C(norb, 3).
func numTriplets(norb int) int {
	n := norb
	return n * (n - 1) * (n - 2) / 6
}
