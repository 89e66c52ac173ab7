package contrib

import (
	"ascigo/internal/core"
)

// SingleExcitationSign returns the fermionic phase of moving an electron
// between orbitals p and q of s: -1 raised to the number of occupied
// orbitals strictly between them.
func SingleExcitationSign(s core.Det, p, q int) float64 {
	if p > q {
		p, q = q, p
	}
	if q-p < 2 {
		return 1
	}
	between := core.BelowMask(q).AndNot(core.FullMask(p + 1))
	if s.And(between).Count()&1 == 1 {
		return -1
	}
	return 1
}

// DoublesSign returns the phase of the double excitation bra -> ket, where
// ex = bra ^ ket holds the four changed orbitals. The excitation is applied
// as two singles, each pairing the lowest remaining hole with the lowest
// remaining particle.
func DoublesSign(bra, ket, ex core.Det) float64 {
	o1 := bra.And(ex).Ffs()
	v1 := ket.And(ex).Ffs()
	sign := SingleExcitationSign(bra, v1, o1)

	bra = bra.Flip(o1).Flip(v1)
	ex = ex.Flip(o1).Flip(v1)

	o2 := bra.And(ex).Ffs()
	v2 := ket.And(ex).Ffs()
	return sign * SingleExcitationSign(bra, v2, o2)
}
