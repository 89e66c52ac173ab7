package core

import (
	"fmt"
	"math/bits"
	"strings"
)

// Bit budget of a determinant.
const (
	DetBits  = 128
	SpinBits = DetBits / 2 // Width of one spin channel; also the max orbital count.
)

// Det is a fixed-width occupation bit-vector. Bits 0..SpinBits-1 hold the
// alpha channel and bits SpinBits..DetBits-1 the beta channel.
// Det is a value type: every operation returns a new Det.
type Det [2]uint64

// BitMask returns a Det with only bit i set.
func BitMask(i int) Det {
	checkIndex("BitMask", i)
	var d Det
	d[i>>6] = 1 << uint(i&63)
	return d
}

// FullMask returns a Det with the low n bits set.
func FullMask(n int) Det {
	if n < 0 || n > DetBits {
		panic(fmt.Sprintf("FullMask: width %d out of bounds", n))
	}
	switch {
	case n == 0:
		return Det{}
	case n < 64:
		return Det{1<<uint(n) - 1, 0}
	case n == 64:
		return Det{^uint64(0), 0}
	case n < 128:
		return Det{^uint64(0), 1<<uint(n-64) - 1}
	}
	return Det{^uint64(0), ^uint64(0)}
}

// BelowMask returns a Det with every bit strictly below i set.
func BelowMask(i int) Det {
	checkIndex("BelowMask", i)
	return FullMask(i)
}

// Compose builds a full determinant from two spin strings held in the low half.
func Compose(alpha, beta Det) Det {
	return Det{alpha[0], beta[0]}
}

func checkIndex(op string, i int) {
	if i < 0 || i >= DetBits {
		panic(fmt.Sprintf("%s: position %d out of bounds", op, i))
	}
}

// Test reports whether bit i is set.
func (d Det) Test(i int) bool {
	checkIndex("Det.Test", i)
	return d[i>>6]&(1<<uint(i&63)) != 0
}

// Set returns d with bit i set.
func (d Det) Set(i int) Det {
	checkIndex("Det.Set", i)
	d[i>>6] |= 1 << uint(i&63)
	return d
}

// Clear returns d with bit i cleared.
func (d Det) Clear(i int) Det {
	checkIndex("Det.Clear", i)
	d[i>>6] &^= 1 << uint(i&63)
	return d
}

// Flip returns d with bit i toggled.
func (d Det) Flip(i int) Det {
	checkIndex("Det.Flip", i)
	d[i>>6] ^= 1 << uint(i&63)
	return d
}

// Count returns the number of set bits.
func (d Det) Count() int {
	return bits.OnesCount64(d[0]) + bits.OnesCount64(d[1])
}

// IsZero reports whether no bit is set.
func (d Det) IsZero() bool {
	return d[0] == 0 && d[1] == 0
}

// Ffs returns the index of the lowest set bit, or -1 if d is zero.
func (d Det) Ffs() int {
	if d[0] != 0 {
		return bits.TrailingZeros64(d[0])
	}
	if d[1] != 0 {
		return 64 + bits.TrailingZeros64(d[1])
	}
	return -1
}

// Fls returns the index of the highest set bit, or -1 if d is zero.
func (d Det) Fls() int {
	if d[1] != 0 {
		return 64 + bits.Len64(d[1]) - 1
	}
	if d[0] != 0 {
		return bits.Len64(d[0]) - 1
	}
	return -1
}

func (d Det) And(o Det) Det    { return Det{d[0] & o[0], d[1] & o[1]} }
func (d Det) Or(o Det) Det     { return Det{d[0] | o[0], d[1] | o[1]} }
func (d Det) Xor(o Det) Det    { return Det{d[0] ^ o[0], d[1] ^ o[1]} }
func (d Det) AndNot(o Det) Det { return Det{d[0] &^ o[0], d[1] &^ o[1]} }
func (d Det) Not() Det         { return Det{^d[0], ^d[1]} }

// Shl shifts d left by n bits, dropping bits shifted past the top.
func (d Det) Shl(n int) Det {
	switch {
	case n <= 0:
		return d
	case n >= DetBits:
		return Det{}
	case n >= 64:
		return Det{0, d[0] << uint(n-64)}
	}
	return Det{d[0] << uint(n), d[1]<<uint(n) | d[0]>>uint(64-n)}
}

// Shr shifts d right by n bits.
func (d Det) Shr(n int) Det {
	switch {
	case n <= 0:
		return d
	case n >= DetBits:
		return Det{}
	case n >= 64:
		return Det{d[1] >> uint(n-64), 0}
	}
	return Det{d[0]>>uint(n) | d[1]<<uint(64-n), d[1] >> uint(n)}
}

// Lo returns the low word (alpha channel).
func (d Det) Lo() uint64 { return d[0] }

// Hi returns the high word (beta channel).
func (d Det) Hi() uint64 { return d[1] }

// Alpha returns the alpha string in the low half.
func (d Det) Alpha() Det { return Det{d[0], 0} }

// Beta returns the beta string moved to the low half.
func (d Det) Beta() Det { return Det{d[1], 0} }

// Compare orders determinants by their unsigned 128-bit value.
func (d Det) Compare(o Det) int {
	switch {
	case d[1] != o[1]:
		if d[1] < o[1] {
			return -1
		}
		return 1
	case d[0] != o[0]:
		if d[0] < o[0] {
			return -1
		}
		return 1
	}
	return 0
}

// Less reports whether d sorts before o.
func (d Det) Less(o Det) bool { return d.Compare(o) < 0 }

// Indices appends the set bit positions of d to buf in ascending order.
func (d Det) Indices(buf []int) []int {
	for w, word := range d {
		for word != 0 {
			buf = append(buf, w<<6+bits.TrailingZeros64(word))
			word &= word - 1
		}
	}
	return buf
}

// StringN renders the low n bits, most significant first.
func (d Det) StringN(n int) string {
	var sb strings.Builder
	for i := n - 1; i >= 0; i-- {
		if d.Test(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}

func (d Det) String() string {
	return fmt.Sprintf("%016x%016x", d[1], d[0])
}

// ParseString reads a bit string written most significant bit first.
func ParseString(s string) (Det, error) {
	if len(s) > DetBits {
		return Det{}, fmt.Errorf("bit string of length %d exceeds %d bits: %w", len(s), DetBits, ErrOrbitalBudget)
	}
	var d Det
	for pos, c := range s {
		i := len(s) - 1 - pos
		switch c {
		case '1':
			d = d.Set(i)
		case '0':
		default:
			return Det{}, fmt.Errorf("invalid character %q in bit string %q", c, s)
		}
	}
	return d, nil
}
