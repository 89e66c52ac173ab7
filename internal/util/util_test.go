package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ascigo/internal/core"
)

func TestDistinctAlpha(t *testing.T) {
	dets := []core.Det{
		core.Compose(core.Det{0b0110, 0}, core.Det{0b0011, 0}),
		core.Compose(core.Det{0b0011, 0}, core.Det{0b0011, 0}),
		core.Compose(core.Det{0b0110, 0}, core.Det{0b1001, 0}),
		core.Compose(core.Det{0b0101, 0}, core.Det{0b0110, 0}),
	}
	assert.Equal(t, []core.Det{{0b0011, 0}, {0b0101, 0}, {0b0110, 0}}, DistinctAlpha(dets))
	assert.Equal(t, []core.Det{{0b0011, 0}, {0b0110, 0}, {0b1001, 0}}, DistinctBeta(dets))
	assert.Empty(t, DistinctAlpha(nil))

	// The input is left alone.
	assert.Equal(t, core.Det{0b0110, 0b0011}, dets[0])
}

func TestRandomDets(t *testing.T) {
	tests := []struct {
		name                  string
		norb, na, nb, n, want int
	}{
		{"sparse", 10, 4, 3, 200, 200},
		{"exhausts space", 4, 2, 2, 100, 36},
		{"zero", 6, 3, 3, 0, 0},
		{"too many electrons", 4, 5, 1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dets := RandomDets(tt.norb, tt.na, tt.nb, tt.n, 7)
			require.Len(t, dets, tt.want)
			seen := make(map[core.Det]bool)
			for _, d := range dets {
				require.False(t, seen[d], "duplicate %v", d)
				seen[d] = true
				assert.Equal(t, tt.na, d.Alpha().Count())
				assert.Equal(t, tt.nb, d.Beta().Count())
				assert.True(t, d.Alpha().AndNot(core.FullMask(tt.norb)).IsZero())
				assert.True(t, d.Beta().AndNot(core.FullMask(tt.norb)).IsZero())
			}
		})
	}

	assert.Equal(t, RandomDets(8, 3, 3, 50, 11), RandomDets(8, 3, 3, 50, 11))
	assert.NotEqual(t, RandomDets(8, 3, 3, 50, 11), RandomDets(8, 3, 3, 50, 12))
}

func TestProgressLogger(t *testing.T) {
	var buf bytes.Buffer
	pl := NewProgressLoggerTo(&buf, 40, "search: ", true)
	for i := 0; i < 40; i++ {
		pl.Log()
	}
	pl.Finalize()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "search: 5%", lines[0])
	assert.Equal(t, "search: 100%", lines[19])
	assert.True(t, strings.HasPrefix(lines[20], "search: 40/40 done"))
	assert.Equal(t, uint64(40), pl.Events())

	buf.Reset()
	quiet := NewProgressLoggerTo(&buf, 10, "x", false)
	quiet.Log()
	quiet.Finalize()
	assert.Zero(t, buf.Len())
	assert.Equal(t, uint64(1), quiet.Events())
}
