package contrib

import (
	"math/rand"
	"testing"

	"ascigo/internal/core"
)

// phaseOf returns the parity of electrons below p in s as a sign.
func phaseOf(s core.Det, p int) float64 {
	if s.And(core.BelowMask(p)).Count()&1 == 1 {
		return -1
	}
	return 1
}

func TestSingleExcitationSign(t *testing.T) {
	tests := []struct {
		s    uint64
		p, q int
		want float64
	}{
		{0b0011, 0, 2, -1},
		{0b0011, 2, 0, -1},
		{0b0101, 0, 1, 1},
		{0b1101, 0, 4, 1},
		{0b1111, 0, 5, -1},
		{0b0110, 0, 3, 1},
		{0b0010, 0, 3, -1},
	}
	for _, tt := range tests {
		if got := SingleExcitationSign(core.Det{tt.s}, tt.p, tt.q); got != tt.want {
			t.Errorf("SingleExcitationSign(%04b, %d, %d) = %v, want %v", tt.s, tt.p, tt.q, got, tt.want)
		}
	}
}

func TestSingleExcitationSignMatchesOperators(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for iter := 0; iter < 2000; iter++ {
		s := core.Det{rng.Uint64()}
		i, a := rng.Intn(64), rng.Intn(64)
		if !s.Test(i) || s.Test(a) {
			continue
		}
		// a+_a a_i |s>
		want := phaseOf(s, i) * phaseOf(s.Clear(i), a)
		if got := SingleExcitationSign(s, a, i); got != want {
			t.Fatalf("sign of %d->%d in %v = %v, want %v", i, a, s, got, want)
		}
	}
}

func TestDoublesSign(t *testing.T) {
	bra := core.Det{0b0011}
	ket := core.Det{0b1100}
	if got := DoublesSign(bra, ket, bra.Xor(ket)); got != 1 {
		t.Errorf("DoublesSign(0011, 1100) = %v, want 1", got)
	}

	rng := rand.New(rand.NewSource(5))
	for iter := 0; iter < 2000; iter++ {
		bra := core.Det{rng.Uint64() & 0xffff}
		var occ, vir []int
		for p := 0; p < 16; p++ {
			if bra.Test(p) {
				occ = append(occ, p)
			} else {
				vir = append(vir, p)
			}
		}
		if len(occ) < 2 || len(vir) < 2 {
			continue
		}
		rng.Shuffle(len(occ), func(x, y int) { occ[x], occ[y] = occ[y], occ[x] })
		rng.Shuffle(len(vir), func(x, y int) { vir[x], vir[y] = vir[y], vir[x] })
		ket := bra.Flip(occ[0]).Flip(occ[1]).Flip(vir[0]).Flip(vir[1])
		ex := bra.Xor(ket)

		fwd := DoublesSign(bra, ket, ex)
		if rev := DoublesSign(ket, bra, ex); fwd != rev {
			t.Fatalf("DoublesSign not symmetric for %v <-> %v", bra, ket)
		}

		// a+_a a+_b a_j a_i |bra> with i < j and a < b.
		i, j := min(occ[0], occ[1]), max(occ[0], occ[1])
		a, b := min(vir[0], vir[1]), max(vir[0], vir[1])
		s, want := bra, 1.0
		for _, p := range []int{i, j, b, a} {
			want *= phaseOf(s, p)
			s = s.Flip(p)
		}
		if s != ket {
			t.Fatalf("operator string on %v reached %v, want %v", bra, s, ket)
		}
		if fwd != want {
			t.Fatalf("DoublesSign(%v, %v) = %v, want %v", bra, ket, fwd, want)
		}
	}
}
