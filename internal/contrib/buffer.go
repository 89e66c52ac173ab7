package contrib

import (
	"cmp"
	"math"
	"slices"

	"ascigo/internal/core"
)

// Contribution is one perturbative amplitude of an excited determinant.
type Contribution struct {
	Det   core.Det
	Coeff float64
}

// Buffer collects contributions. It is owned by a single goroutine.
type Buffer struct {
	items []Contribution
}

// NewBuffer returns a buffer with room for capacity contributions.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{items: make([]Contribution, 0, capacity)}
}

// Append adds one contribution.
func (b *Buffer) Append(d core.Det, coeff float64) {
	b.items = append(b.items, Contribution{Det: d, Coeff: coeff})
}

// Len returns the number of stored contributions.
func (b *Buffer) Len() int { return len(b.items) }

// Reset empties the buffer, keeping its storage.
func (b *Buffer) Reset() { b.items = b.items[:0] }

// Items exposes the stored contributions. The slice is invalidated by the
// next Append, Reset or Accumulate.
func (b *Buffer) Items() []Contribution { return b.items }

// Accumulate sorts contributions by determinant and merges duplicates by
// summing their coefficients.
func (b *Buffer) Accumulate() {
	if len(b.items) < 2 {
		return
	}
	slices.SortFunc(b.items, func(x, y Contribution) int { return x.Det.Compare(y.Det) })
	out := b.items[:1]
	for _, c := range b.items[1:] {
		last := &out[len(out)-1]
		if last.Det == c.Det {
			last.Coeff += c.Coeff
			continue
		}
		out = append(out, c)
	}
	b.items = out
}

// Top returns a copy of the n contributions with the largest magnitude,
// largest first. Ties are broken by determinant order.
func (b *Buffer) Top(n int) []Contribution {
	out := slices.Clone(b.items)
	slices.SortFunc(out, func(x, y Contribution) int {
		if c := cmp.Compare(math.Abs(y.Coeff), math.Abs(x.Coeff)); c != 0 {
			return c
		}
		return x.Det.Compare(y.Det)
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// Owner returns the rank that accumulates contributions to d in a group of
// size ranks. Every rank computes the same owner for the same determinant.
func Owner(d core.Det, size int, seed uint64) int {
	return int(d.Hash(seed) % uint64(size))
}

// Shard splits the contributions by owning rank, appending them to the
// buffers of out. len(out) is the group size.
func (b *Buffer) Shard(out []*Buffer, seed uint64) {
	for _, c := range b.items {
		o := out[Owner(c.Det, len(out), seed)]
		o.items = append(o.items, c)
	}
}
