package contrib

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"ascigo/internal/core"
	"ascigo/internal/excite"
)

func randomIntegrals(norb int, seed int64) *Integrals {
	rng := rand.New(rand.NewSource(seed))
	fill := func(data []float64) {
		for n := range data {
			data[n] = rng.Float64() - 0.5
		}
	}
	t := mat.NewDense(norb, norb, nil)
	for i := 0; i < norb; i++ {
		for a := 0; a < norb; a++ {
			t.Set(i, a, rng.Float64()-0.5)
		}
	}
	ints := &Integrals{
		Norb: norb,
		T:    t,
		G3:   NewTensor3(norb),
		V3:   NewTensor3(norb),
		G:    NewTensor4(norb),
		V:    NewTensor4(norb),
	}
	fill(ints.G3.Data)
	fill(ints.V3.Data)
	fill(ints.G.Data)
	fill(ints.V.Data)
	return ints
}

func testGenerator(t *testing.T, norb int, tol float64) *Generator {
	t.Helper()
	eps := make([]float64, norb)
	for p := range eps {
		eps[p] = -1 + 0.5*float64(p)
	}
	diag, err := NewOrbitalEnergyDiag(eps, nil, nil)
	require.NoError(t, err)
	g, err := NewGenerator(randomIntegrals(norb, 11), diag, -3.5, tol)
	require.NoError(t, err)
	return g
}

func spinStrings(norb, ne int) []core.Det {
	var out []core.Det
	for bits := uint64(0); bits < 1<<uint(norb); bits++ {
		if d := (core.Det{bits, 0}); d.Count() == ne {
			out = append(out, d)
		}
	}
	return out
}

func forEachTriplet(norb int, fn func(m core.Masks)) {
	for i := 0; i < norb; i++ {
		for j := 0; j < i; j++ {
			for k := 0; k < j; k++ {
				fn(core.MakeTripletMasks(norb, i, j, k))
			}
		}
	}
}

func requireSameContributions(t *testing.T, want, got *Buffer) {
	t.Helper()
	want.Accumulate()
	got.Accumulate()
	require.Equal(t, want.Len(), got.Len())
	for n, w := range want.Items() {
		g := got.Items()[n]
		require.Equal(t, w.Det, g.Det)
		require.InDelta(t, w.Coeff, g.Coeff, 1e-12)
	}
}

func TestConstrainedSameSpinCoversAll(t *testing.T) {
	const norb = 6
	g := testGenerator(t, norb, 0)
	beta := core.Det{0b100001}

	for _, alpha := range spinStrings(norb, 3) {
		r := NewRoot(core.Compose(alpha, beta), 0.7, -2.0, Alpha)

		all, constrained := NewBuffer(0), NewBuffer(0)
		g.SinglesSSAll(r, all)
		g.DoublesSSAll(r, all)
		forEachTriplet(norb, func(m core.Masks) {
			g.SinglesSS(r, m, constrained)
			g.DoublesSS(r, m, constrained)
		})

		ns, nd := excite.CountAllSingles(alpha, norb), excite.CountAllDoubles(alpha, norb)
		require.Equal(t, int(ns+nd), constrained.Len(), "alpha %s", alpha.StringN(norb))
		requireSameContributions(t, all, constrained)
	}
}

func TestDoublesOSCount(t *testing.T) {
	const norb = 6
	g := testGenerator(t, norb, 0)
	beta := core.Det{0b000111}
	nos, _ := excite.OtherSpinCounts(3, norb)

	for _, alpha := range spinStrings(norb, 3) {
		r := NewRoot(core.Compose(alpha, beta), 1, 0, Alpha)
		var total int
		forEachTriplet(norb, func(m core.Masks) {
			buf := NewBuffer(0)
			g.DoublesOS(r, m, buf)
			require.Equal(t, int(excite.CountTripletSingles(alpha, m)*nos), buf.Len())
			for _, c := range buf.Items() {
				assert.Equal(t, 3, c.Det.Alpha().Count())
				assert.Equal(t, 3, c.Det.Beta().Count())
				assert.NotEqual(t, beta, c.Det.Beta())
			}
			total += buf.Len()
		})
		assert.Equal(t, int(excite.CountAllSingles(alpha, norb)*nos), total)
	}
}

func TestQuadsRefineTripletContributions(t *testing.T) {
	const norb = 6
	g := testGenerator(t, norb, 0)
	beta := core.Det{0b000011}

	for _, alpha := range spinStrings(norb, 4) {
		r := NewRoot(core.Compose(alpha, beta), -0.3, 1.0, Alpha)
		forEachTriplet(norb, func(m core.Masks) {
			k := m.Constraint.Lowest()
			if k == 0 {
				return
			}
			trip, quad := NewBuffer(0), NewBuffer(0)
			g.SinglesSS(r, m, trip)
			g.DoublesSS(r, m, trip)
			g.DoublesOS(r, m, trip)
			idx := m.Constraint.Indices()
			for l := 0; l < k; l++ {
				q := core.MakeQuadMasks(norb, idx[0], idx[1], idx[2], l)
				g.SinglesSS(r, q, quad)
				g.DoublesSS(r, q, quad)
				g.DoublesOS(r, q, quad)
			}
			requireSameContributions(t, trip, quad)
		})
	}
}

func TestSingleContributionValue(t *testing.T) {
	const norb = 4
	g := testGenerator(t, norb, 0)
	alpha := core.Det{0b0011}
	beta := core.Det{0b0001}
	r := NewRoot(core.Compose(alpha, beta), 0.5, -1.25, Alpha)

	buf := NewBuffer(0)
	g.SinglesSSAll(r, buf)
	require.Equal(t, 4, buf.Len())

	// 1 -> 3 in alpha.
	want := core.Compose(core.Det{0b1001}, beta)
	var got *Contribution
	for n := range buf.Items() {
		if buf.Items()[n].Det == want {
			got = &buf.Items()[n]
		}
	}
	require.NotNil(t, got)

	in := g.Ints
	h := in.T.At(1, 3)
	for _, p := range []int{0, 1} {
		h += in.G3.At(p, 3, 1)
	}
	h += in.V3.At(0, 3, 1)
	// Orbital 2 is empty, so the phase is +1.
	eps := g.Diag.(*OrbitalEnergyDiag).Eps
	denom := g.E0 - (r.Diag + eps[3] - eps[1])
	assert.InDelta(t, r.Coeff*h/denom, got.Coeff, 1e-12)
}

func TestBetaRootKeepsAlpha(t *testing.T) {
	const norb = 5
	g := testGenerator(t, norb, 0)
	alpha := core.Det{0b00011}
	beta := core.Det{0b01101}
	r := NewRoot(core.Compose(alpha, beta), 1, 0, Beta)
	assert.Equal(t, beta, r.Same)
	assert.Equal(t, alpha, r.Other)

	buf := NewBuffer(0)
	g.SinglesSSAll(r, buf)
	g.DoublesSSAll(r, buf)
	require.Equal(t, int(excite.CountAllSingles(beta, norb)+excite.CountAllDoubles(beta, norb)), buf.Len())
	for _, c := range buf.Items() {
		assert.Equal(t, alpha, c.Det.Alpha())
		assert.Equal(t, 3, c.Det.Beta().Count())
	}
}

func TestToleranceDropsEverything(t *testing.T) {
	const norb = 6
	g := testGenerator(t, norb, math.Inf(1))
	r := NewRoot(core.Compose(core.Det{0b000111}, core.Det{0b000011}), 1, 0, Alpha)
	buf := NewBuffer(0)
	forEachTriplet(norb, func(m core.Masks) {
		g.SinglesSS(r, m, buf)
		g.DoublesSS(r, m, buf)
		g.DoublesOS(r, m, buf)
	})
	g.SinglesSSAll(r, buf)
	g.DoublesSSAll(r, buf)
	assert.Zero(t, buf.Len())
}

func TestNewGeneratorValidates(t *testing.T) {
	diag, err := NewOrbitalEnergyDiag(make([]float64, 4), nil, nil)
	require.NoError(t, err)

	ints := randomIntegrals(4, 1)
	ints.T = nil
	_, err = NewGenerator(ints, diag, 0, 0)
	assert.Error(t, err)

	ints = randomIntegrals(4, 1)
	ints.G.Data = ints.G.Data[:10]
	_, err = NewGenerator(ints, diag, 0, 0)
	assert.Error(t, err)

	ints = randomIntegrals(4, 1)
	ints.Norb = 0
	_, err = NewGenerator(ints, diag, 0, 0)
	assert.ErrorIs(t, err, core.ErrOrbitalBudget)

	_, err = NewGenerator(randomIntegrals(4, 1), nil, 0, 0)
	assert.Error(t, err)
}
