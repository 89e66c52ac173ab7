package util

import (
	"math/rand/v2"
)

// RandomSeed returns a fresh seed for shuffling or determinant sampling.
func RandomSeed() uint64 {
	return rand.Uint64()
}
