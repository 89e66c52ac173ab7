package core

import (
	"fmt"
	"runtime"
	"strings"
)

// Defaults for distribution.
const (
	DefaultSplitFactor = 0.8
	DefaultSeed        = uint64(155039)
)

// Policy selects how constraints are assigned to ranks.
type Policy int

const (
	// PolicyHistogram balances triplet costs with greedy LPT assignment.
	PolicyHistogram Policy = iota
	// PolicyHistogram34 splits overloaded triplets into quadruplets before assignment.
	PolicyHistogram34
	// PolicyRandom shuffles non-empty triplets and deals them round-robin.
	PolicyRandom
)

var policyNames = map[Policy]string{
	PolicyHistogram:   "histogram",
	PolicyHistogram34: "histogram34",
	PolicyRandom:      "random",
}

func (p Policy) String() string {
	if s, ok := policyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps a policy name to its value.
func ParsePolicy(s string) (Policy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for p, n := range policyNames {
		if n == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown distribution policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	if _, ok := policyNames[p]; !ok {
		return nil, fmt.Errorf("unknown distribution policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Policy) UnmarshalText(b []byte) error {
	v, err := ParsePolicy(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// DistConfig holds parameters for distributing constraints over ranks.
type DistConfig struct {
	Policy      Policy
	SplitFactor float64 // Fraction of the even share above which a triplet is split
	Seed        uint64  // Shuffle seed for PolicyRandom
	NumThreads  int     // Goroutines used for the cost scan
	Verbose     bool
	// Progress, if set, is called after each outer orbital of the scan.
	// Calls may come from several goroutines.
	Progress func(done, total uint64)
}

// DefaultDistConfig creates a configuration with default values.
func DefaultDistConfig() DistConfig {
	return DistConfig{
		Policy:      PolicyHistogram34,
		SplitFactor: DefaultSplitFactor,
		Seed:        DefaultSeed,
		NumThreads:  runtime.NumCPU(),
		Verbose:     false,
	}
}

// Validate checks the configuration for values no policy can work with.
func (c DistConfig) Validate() error {
	if _, ok := policyNames[c.Policy]; !ok {
		return fmt.Errorf("unknown distribution policy %d", int(c.Policy))
	}
	if !(c.SplitFactor > 0) {
		return fmt.Errorf("split factor must be positive, got %v", c.SplitFactor)
	}
	if c.NumThreads < 0 {
		return fmt.Errorf("thread count must not be negative, got %d", c.NumThreads)
	}
	return nil
}

// Threads returns the effective goroutine count (at least 1).
func (c DistConfig) Threads() int {
	if c.NumThreads < 1 {
		return 1
	}
	return c.NumThreads
}

// CheckOrbitals validates an active orbital count against the bit budget.
func CheckOrbitals(norb int) error {
	if norb < 1 || norb > SpinBits {
		return fmt.Errorf("norb %d outside 1..%d: %w", norb, SpinBits, ErrOrbitalBudget)
	}
	return nil
}
