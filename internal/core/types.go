package core

import (
	"errors"
	"fmt"
)

// WorkUnit pairs a constraint with its estimated number of generated determinants.
type WorkUnit struct {
	Constraint Constraint
	Cost       uint64
}

// Less orders work units for greedy assignment: larger cost first, then by
// constraint mask value.
func (w WorkUnit) Less(other WorkUnit) bool {
	if w.Cost != other.Cost {
		return w.Cost > other.Cost
	}
	return w.Constraint.Less(other.Constraint)
}

func (w WorkUnit) String() string {
	return fmt.Sprintf("{%s %v: %d}", w.Constraint.Kind, w.Constraint, w.Cost)
}

// --- Error Types ---

var (
	// ErrEmptyGroup is returned when a process group has no ranks.
	ErrEmptyGroup = errors.New("process group has no ranks")
	// ErrRankOutOfRange is returned when a rank index is not inside its group.
	ErrRankOutOfRange = errors.New("rank out of range")
	// ErrOrbitalBudget is returned when an orbital index or count exceeds the bit budget.
	ErrOrbitalBudget = errors.New("orbital index exceeds bit budget")
	// ErrIndexOrder is returned when a constraint tuple is not strictly descending.
	ErrIndexOrder = errors.New("constraint indices not strictly descending")
	// ErrTooFewElectrons is returned when a constrained string has fewer
	// electrons than a triplet has orbitals, so no constraint can own it.
	ErrTooFewElectrons = errors.New("fewer than 3 electrons in constrained channel")
)

// ConstraintError reports an invalid orbital tuple.
type ConstraintError struct {
	Idx []int
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("invalid constraint %v: %v", e.Idx, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}
