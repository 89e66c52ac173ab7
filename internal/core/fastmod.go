package core

import (
	"math/bits"
)

// M32 represents the 64-bit magic constant for 32-bit fastmod.
type M32 uint64

// ComputeM32 computes the magic number for 32-bit fast modulus.
// M = ceil( (1<<64) / d ), d > 0
func ComputeM32(d uint32) M32 {
	if d == 0 {
		panic("ComputeM32: division by zero")
	}
	return M32(^uint64(0)/uint64(d) + 1)
}

// FastModU32 computes (a % d) given precomputed M.
// Based on lemire/fastmod:
// uint64_t lowbits = M * a;
// return (uint32_t)mul128_u32(lowbits, d);
func FastModU32(a uint32, m M32, d uint32) uint32 {
	lowbits := uint64(m) * uint64(a)
	hi, _ := bits.Mul64(lowbits, uint64(d))
	return uint32(hi)
}

// RoundRobin maps positions onto a fixed number of ranks.
type RoundRobin struct {
	size uint32
	m    M32
}

// NewRoundRobin prepares position % size for repeated use.
func NewRoundRobin(size int) RoundRobin {
	if size <= 0 || size > int(^uint32(0)) {
		panic("NewRoundRobin: size out of range")
	}
	return RoundRobin{size: uint32(size), m: ComputeM32(uint32(size))}
}

// Owner returns pos % size.
func (r RoundRobin) Owner(pos int) int {
	if r.size == 1 {
		return 0
	}
	return int(FastModU32(uint32(pos), r.m, r.size))
}
