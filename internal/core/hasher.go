package core

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hash returns a seeded 64-bit xxHash of the determinant.
func (d Det) Hash(seed uint64) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[0:8], d[0])
	binary.LittleEndian.PutUint64(buf[8:16], d[1])
	h := xxhash.NewWithSeed(seed)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

// Digest accumulates an xxHash over a sequence of determinants and integers.
// The zero value is not usable; call NewDigest.
type Digest struct {
	d   *xxhash.Digest
	buf [16]byte
}

// NewDigest returns a digest seeded with seed.
func NewDigest(seed uint64) *Digest {
	return &Digest{d: xxhash.NewWithSeed(seed)}
}

// WriteDet folds a determinant into the digest.
func (h *Digest) WriteDet(d Det) {
	binary.LittleEndian.PutUint64(h.buf[0:8], d[0])
	binary.LittleEndian.PutUint64(h.buf[8:16], d[1])
	_, _ = h.d.Write(h.buf[:])
}

// WriteUint64 folds an integer into the digest.
func (h *Digest) WriteUint64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[0:8], v)
	_, _ = h.d.Write(h.buf[0:8])
}

// WriteConstraint folds a constraint (kind + indices) into the digest.
func (h *Digest) WriteConstraint(c Constraint) {
	h.buf[0] = byte(c.Kind)
	copy(h.buf[1:5], c.Idx[:])
	_, _ = h.d.Write(h.buf[0:5])
}

// Sum64 returns the current hash value.
func (h *Digest) Sum64() uint64 {
	return h.d.Sum64()
}
