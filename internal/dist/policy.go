package dist

import (
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"ascigo/internal/core"
	"ascigo/internal/util"
)

// TripletsHistogram assigns every non-empty triplet with Greedy.
func TripletsHistogram(in Input, comm Comm, cfg core.DistConfig) (*Plan, error) {
	if err := checkComm(comm); err != nil {
		return nil, err
	}
	start := time.Now()
	units, err := Scan(in, cfg)
	if err != nil {
		return nil, err
	}
	scanned := time.Now()

	sorted, owners, _ := Greedy(units, comm.Size())
	p := newPlan(core.PolicyHistogram, comm.Size(), sorted, owners)
	p.Timings = Timings{Scan: scanned.Sub(start), Assign: time.Since(scanned)}
	logPlan(p, comm, cfg)
	return p, nil
}

// Histogram34 splits every triplet costing more than
// SplitFactor * total / size into its quadruplets, then assigns the mixed
// pool with Greedy. A triplet is only replaced when its non-empty
// quadruplets account for all of its cost; otherwise it stays whole and is
// reported in Plan.Unsplittable.
func Histogram34(in Input, comm Comm, cfg core.DistConfig) (*Plan, error) {
	if err := checkComm(comm); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()
	units, err := Scan(in, cfg)
	if err != nil {
		return nil, err
	}
	scanned := time.Now()

	var total uint64
	for _, u := range units {
		total += u.Cost
	}
	threshold := uint64(cfg.SplitFactor * float64(total) / float64(comm.Size()))

	var heavy []int
	for n, u := range units {
		if u.Cost > threshold {
			heavy = append(heavy, n)
		}
	}

	quads := make([][]core.WorkUnit, len(heavy))
	quadCost := make([]uint64, len(heavy))
	splitOne := func(h int) {
		quads[h], quadCost[h] = ScanQuads(in, units[heavy[h]].Constraint)
	}
	if threads := cfg.Threads(); threads > 1 && len(heavy) > 1 {
		var g errgroup.Group
		g.SetLimit(threads)
		for h := range heavy {
			g.Go(func() error {
				splitOne(h)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for h := range heavy {
			splitOne(h)
		}
	}

	var split, unsplittable []core.Constraint
	replaced := make(map[int]bool, len(heavy))
	pool := make([]core.WorkUnit, 0, len(units))
	for h, n := range heavy {
		t := units[n]
		if len(quads[h]) == 0 || quadCost[h] != t.Cost {
			unsplittable = append(unsplittable, t.Constraint)
			continue
		}
		split = append(split, t.Constraint)
		replaced[n] = true
	}
	for n, u := range units {
		if !replaced[n] {
			pool = append(pool, u)
		}
	}
	for h, n := range heavy {
		if replaced[n] {
			pool = append(pool, quads[h]...)
		}
	}
	splitDone := time.Now()

	sorted, owners, _ := Greedy(pool, comm.Size())
	p := newPlan(core.PolicyHistogram34, comm.Size(), sorted, owners)
	p.Threshold = threshold
	p.Split = split
	p.Unsplittable = unsplittable
	p.Timings = Timings{
		Scan:   scanned.Sub(start),
		Split:  splitDone.Sub(scanned),
		Assign: time.Since(splitDone),
	}
	util.Log(cfg.Verbose && comm.Rank() == 0, "[rank %2d] split %d triplets above %d, %d could not be split",
		comm.Rank(), len(split), threshold, len(unsplittable))
	logPlan(p, comm, cfg)
	return p, nil
}

// TripletsRandom shuffles the non-empty triplets with a generator seeded by
// cfg.Seed and deals them round-robin: position n goes to rank n mod size.
func TripletsRandom(in Input, comm Comm, cfg core.DistConfig) (*Plan, error) {
	if err := checkComm(comm); err != nil {
		return nil, err
	}
	start := time.Now()
	units, err := Scan(in, cfg)
	if err != nil {
		return nil, err
	}
	scanned := time.Now()

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))
	rng.Shuffle(len(units), func(a, b int) { units[a], units[b] = units[b], units[a] })

	rr := core.NewRoundRobin(comm.Size())
	owners := make([]int, len(units))
	for n := range units {
		owners[n] = rr.Owner(n)
	}
	p := newPlan(core.PolicyRandom, comm.Size(), units, owners)
	p.Timings = Timings{Scan: scanned.Sub(start), Assign: time.Since(scanned)}
	logPlan(p, comm, cfg)
	return p, nil
}

// Distribute runs the policy selected by cfg and returns the plan together
// with the calling rank's assignment.
func Distribute(in Input, comm Comm, cfg core.DistConfig) (*Plan, Assignment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, Assignment{}, fmt.Errorf("dist: %w", err)
	}
	var (
		p   *Plan
		err error
	)
	switch cfg.Policy {
	case core.PolicyHistogram:
		p, err = TripletsHistogram(in, comm, cfg)
	case core.PolicyHistogram34:
		p, err = Histogram34(in, comm, cfg)
	case core.PolicyRandom:
		p, err = TripletsRandom(in, comm, cfg)
	default:
		return nil, Assignment{}, fmt.Errorf("dist: unknown policy %v", cfg.Policy)
	}
	if err != nil {
		return nil, Assignment{}, err
	}
	a, err := p.Assignment(comm.Rank())
	if err != nil {
		return nil, Assignment{}, err
	}
	return p, a, nil
}

func logPlan(p *Plan, comm Comm, cfg core.DistConfig) {
	r := comm.Rank()
	util.Log(cfg.Verbose && r == 0, "[rank %2d] AFTER LOCAL WORK = %d TOTAL WORK = %d", r, p.Loads[r], p.Total)
}
