package asci

import (
	"fmt"

	"ascigo/internal/core"
	"ascigo/internal/dist"
	"ascigo/internal/excite"
	"ascigo/internal/util"
)

// Workload is the replicated input of a distribution: the distinct alpha
// strings of the wavefunction and the electron counts that size the beta
// excitation space.
type Workload struct {
	Norb    int
	NAlpha  int
	NBeta   int
	Strings []core.Det
}

// NewWorkload checks that every determinant has nalpha alpha and nbeta beta
// electrons inside norb orbitals and collects its distinct alpha strings.
// The alpha channel carries the constraints and needs at least 3 electrons.
func NewWorkload(norb, nalpha, nbeta int, dets []core.Det) (*Workload, error) {
	if err := core.CheckOrbitals(norb); err != nil {
		return nil, fmt.Errorf("asci: %w", err)
	}
	if nalpha < 0 || nalpha > norb || nbeta < 0 || nbeta > norb {
		return nil, fmt.Errorf("asci: %d alpha and %d beta electrons do not fit %d orbitals", nalpha, nbeta, norb)
	}
	if nalpha < int(core.KindTriplet) {
		return nil, fmt.Errorf("asci: %d alpha electrons: %w", nalpha, core.ErrTooFewElectrons)
	}
	full := core.FullMask(norb)
	for n, d := range dets {
		a, b := d.Alpha(), d.Beta()
		if !a.AndNot(full).IsZero() || !b.AndNot(full).IsZero() {
			return nil, fmt.Errorf("asci: determinant %d (%s) has orbitals beyond norb %d: %w", n, d, norb, core.ErrOrbitalBudget)
		}
		if a.Count() != nalpha || b.Count() != nbeta {
			return nil, fmt.Errorf("asci: determinant %d (%s) has %d/%d electrons, want %d/%d",
				n, d, a.Count(), b.Count(), nalpha, nbeta)
		}
	}
	return &Workload{
		Norb:    norb,
		NAlpha:  nalpha,
		NBeta:   nbeta,
		Strings: util.DistinctAlpha(dets),
	}, nil
}

// Input returns the distributor input of the workload.
func (w *Workload) Input() dist.Input {
	nos, nod := excite.OtherSpinCounts(w.NBeta, w.Norb)
	return dist.Input{Norb: w.Norb, Strings: w.Strings, NSOther: nos, NDOther: nod}
}

// Distribute runs the configured policy and returns the plan and the calling
// rank's assignment.
func (w *Workload) Distribute(comm dist.Comm, cfg core.DistConfig) (*dist.Plan, dist.Assignment, error) {
	return dist.Distribute(w.Input(), comm, cfg)
}
