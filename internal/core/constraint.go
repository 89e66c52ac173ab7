package core

import (
	"fmt"
)

// Kind tags the arity of a constraint.
type Kind uint8

const (
	KindTriplet Kind = 3
	KindQuad    Kind = 4
)

func (k Kind) String() string {
	switch k {
	case KindTriplet:
		return "triplet"
	case KindQuad:
		return "quad"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Constraint names a canonical orbital tuple (i > j > k [> l]) used to
// partition excitation generation. Only the first Kind entries of Idx are
// meaningful; the rest are zero so that Constraint is comparable.
type Constraint struct {
	Kind Kind
	Idx  [4]uint8
}

// NewTriplet validates and builds a triplet constraint.
func NewTriplet(i, j, k int) (Constraint, error) {
	c := Constraint{Kind: KindTriplet}
	if err := c.fill(i, j, k); err != nil {
		return Constraint{}, err
	}
	return c, nil
}

// NewQuad validates and builds a quadruplet constraint.
func NewQuad(i, j, k, l int) (Constraint, error) {
	c := Constraint{Kind: KindQuad}
	if err := c.fill(i, j, k, l); err != nil {
		return Constraint{}, err
	}
	return c, nil
}

// MustTriplet is NewTriplet that panics on invalid input.
func MustTriplet(i, j, k int) Constraint {
	c, err := NewTriplet(i, j, k)
	if err != nil {
		panic(err)
	}
	return c
}

// MustQuad is NewQuad that panics on invalid input.
func MustQuad(i, j, k, l int) Constraint {
	c, err := NewQuad(i, j, k, l)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Constraint) fill(idx ...int) error {
	for n, v := range idx {
		if v < 0 || v >= SpinBits {
			return &ConstraintError{Idx: idx, Err: ErrOrbitalBudget}
		}
		if n > 0 && v >= idx[n-1] {
			return &ConstraintError{Idx: idx, Err: ErrIndexOrder}
		}
		c.Idx[n] = uint8(v)
	}
	return nil
}

// Indices returns the constraint's orbital tuple, highest first.
func (c Constraint) Indices() []int {
	out := make([]int, c.Kind)
	for n := range out {
		out[n] = int(c.Idx[n])
	}
	return out
}

// Lowest returns the smallest flagged orbital index.
func (c Constraint) Lowest() int {
	return int(c.Idx[c.Kind-1])
}

// Mask returns the determinant with exactly the constraint's orbitals set.
func (c Constraint) Mask() Det {
	var m Det
	for n := 0; n < int(c.Kind); n++ {
		m = m.Set(int(c.Idx[n]))
	}
	return m
}

// Triplet returns the leading triplet of a quadruplet (or c itself).
func (c Constraint) Triplet() Constraint {
	return Constraint{Kind: KindTriplet, Idx: [4]uint8{c.Idx[0], c.Idx[1], c.Idx[2], 0}}
}

// Less orders constraints by mask value. Triplets and quadruplets never share
// a mask, so this is a strict total order over both kinds.
func (c Constraint) Less(o Constraint) bool {
	return c.Mask().Less(o.Mask())
}

func (c Constraint) String() string {
	if c.Kind == KindQuad {
		return fmt.Sprintf("(%d,%d,%d,%d)", c.Idx[0], c.Idx[1], c.Idx[2], c.Idx[3])
	}
	return fmt.Sprintf("(%d,%d,%d)", c.Idx[0], c.Idx[1], c.Idx[2])
}

// Masks bundles the bit masks derived from a constraint.
type Masks struct {
	Constraint Constraint
	Mask       Det // flagged orbitals
	Overfill   Det // orbitals inside the active space
	Boundary   Det // bits strictly below the lowest flagged orbital
}

// MakeTripletMasks derives (T, overfill, boundary) for i > j > k.
// Out-of-range or non-descending indices are fatal.
func MakeTripletMasks(norb, i, j, k int) Masks {
	return MasksFor(norb, MustTriplet(i, j, k))
}

// MakeQuadMasks derives (Q, overfill, boundary) for i > j > k > l. The
// boundary is taken relative to l only.
func MakeQuadMasks(norb, i, j, k, l int) Masks {
	return MasksFor(norb, MustQuad(i, j, k, l))
}

// MasksFor derives the masks of an already validated constraint.
func MasksFor(norb int, c Constraint) Masks {
	if norb < 0 || norb > SpinBits {
		panic(fmt.Sprintf("MasksFor: norb %d exceeds %d orbitals", norb, SpinBits))
	}
	return Masks{
		Constraint: c,
		Mask:       c.Mask(),
		Overfill:   FullMask(norb),
		Boundary:   BelowMask(c.Lowest()),
	}
}

// SatisfiesQuad reports whether det, restricted to bits at or above qmin,
// reproduces exactly the four flagged bits of q.
func SatisfiesQuad(det, q Det, qmin int) bool {
	return det.And(q).Count() == 4 && det.Xor(q).Shr(qmin).IsZero()
}
