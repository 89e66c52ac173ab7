package dist

import (
	"fmt"
	"time"

	"ascigo/internal/core"
)

// Timings stores timings for the stages of a distribution.
type Timings struct {
	Scan   time.Duration
	Split  time.Duration
	Assign time.Duration
}

// Plan is the global outcome of a distribution. Every rank builds the same
// Plan; Assignment extracts one rank's share.
type Plan struct {
	Policy core.Policy
	Size   int
	Units  []core.WorkUnit // in assignment order
	Owners []int           // owning rank of Units[n]
	Loads  []uint64        // assigned cost per rank
	Total  uint64          // total estimated work

	// Threshold is the cost above which a triplet was split (histogram34).
	Threshold uint64
	// Split lists the triplets replaced by their quadruplets.
	Split []core.Constraint
	// Unsplittable lists triplets above Threshold that stayed whole because
	// their quadruplets do not account for their cost.
	Unsplittable []core.Constraint

	Timings Timings
}

func newPlan(policy core.Policy, size int, units []core.WorkUnit, owners []int) *Plan {
	p := &Plan{
		Policy: policy,
		Size:   size,
		Units:  units,
		Owners: owners,
		Loads:  make([]uint64, size),
	}
	for n, u := range units {
		p.Loads[owners[n]] += u.Cost
		p.Total += u.Cost
	}
	return p
}

// Assignment is one rank's share of a Plan.
type Assignment struct {
	Rank     int
	Triplets []core.Constraint
	Quads    []core.Constraint
	Units    []core.WorkUnit
	Load     uint64
	Total    uint64
}

// Assignment returns the share of rank.
func (p *Plan) Assignment(rank int) (Assignment, error) {
	if rank < 0 || rank >= p.Size {
		return Assignment{}, fmt.Errorf("dist: rank %d of %d: %w", rank, p.Size, core.ErrRankOutOfRange)
	}
	a := Assignment{Rank: rank, Load: p.Loads[rank], Total: p.Total}
	for n, u := range p.Units {
		if p.Owners[n] != rank {
			continue
		}
		a.Units = append(a.Units, u)
		switch u.Constraint.Kind {
		case core.KindTriplet:
			a.Triplets = append(a.Triplets, u.Constraint)
		case core.KindQuad:
			a.Quads = append(a.Quads, u.Constraint)
		}
	}
	return a, nil
}

// Constraints returns the rank's constraints in assignment order.
func (a Assignment) Constraints() []core.Constraint {
	out := make([]core.Constraint, len(a.Units))
	for n, u := range a.Units {
		out[n] = u.Constraint
	}
	return out
}

// MaxUnit returns the largest unit cost in the plan.
func (p *Plan) MaxUnit() uint64 {
	var m uint64
	for _, u := range p.Units {
		m = max(m, u.Cost)
	}
	return m
}

// Fingerprint hashes the plan's units, owners and loads. Ranks that agree on
// the plan agree on the fingerprint.
func (p *Plan) Fingerprint() uint64 {
	h := core.NewDigest(uint64(p.Size))
	h.WriteUint64(uint64(p.Policy))
	for n, u := range p.Units {
		h.WriteConstraint(u.Constraint)
		h.WriteUint64(u.Cost)
		h.WriteUint64(uint64(p.Owners[n]))
	}
	for _, l := range p.Loads {
		h.WriteUint64(l)
	}
	return h.Sum64()
}
