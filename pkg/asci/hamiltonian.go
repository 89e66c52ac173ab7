package asci

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"ascigo/internal/contrib"
	"ascigo/internal/core"
)

// Hamiltonian bundles what a Searcher needs to price an excitation.
type Hamiltonian struct {
	Ints *contrib.Integrals
	Diag contrib.DiagEvaluator
	Eps  []float64 // orbital energies, for DetDiag
	E0   float64   // reference energy of the current wavefunction
}

// DetDiag approximates the diagonal element of d as the sum of the orbital
// energies of its occupied alpha and beta orbitals.
func (h *Hamiltonian) DetDiag(d core.Det) float64 {
	var e float64
	var buf [core.SpinBits]int
	for _, p := range d.Alpha().Indices(buf[:0]) {
		e += h.Eps[p]
	}
	for _, p := range d.Beta().Indices(buf[:0]) {
		e += h.Eps[p]
	}
	return e
}

// SyntheticHamiltonian builds a reproducible model Hamiltonian on norb
// orbitals: orbital energies rise linearly from -1, integrals are uniform in
// [-scale, scale) with scale 0.1, and the diagonal uses orbital energies with
// Coulomb and exchange corrections. E0 is the diagonal of the aufbau
// determinant with nalpha and nbeta electrons, lowered by 0.1.
func SyntheticHamiltonian(norb, nalpha, nbeta int, seed uint64) (*Hamiltonian, error) {
	if err := core.CheckOrbitals(norb); err != nil {
		return nil, err
	}
	if nalpha < 0 || nalpha > norb || nbeta < 0 || nbeta > norb {
		return nil, fmt.Errorf("asci: %d alpha and %d beta electrons do not fit %d orbitals", nalpha, nbeta, norb)
	}
	const scale = 0.1
	rng := rand.New(rand.NewPCG(seed, seed+1))
	uniform := func() float64 { return scale * (2*rng.Float64() - 1) }

	eps := make([]float64, norb)
	for p := range eps {
		eps[p] = -1 + 0.25*float64(p)
	}
	t := mat.NewDense(norb, norb, nil)
	j := mat.NewDense(norb, norb, nil)
	k := mat.NewDense(norb, norb, nil)
	for p := 0; p < norb; p++ {
		for q := 0; q <= p; q++ {
			tv := uniform()
			jv := scale * (1 + rng.Float64())
			kv := scale * rng.Float64() / 2
			t.Set(p, q, tv)
			t.Set(q, p, tv)
			j.Set(p, q, jv)
			j.Set(q, p, jv)
			k.Set(p, q, kv)
			k.Set(q, p, kv)
		}
	}
	ints := &contrib.Integrals{
		Norb: norb,
		T:    t,
		G3:   contrib.NewTensor3(norb),
		V3:   contrib.NewTensor3(norb),
		G:    contrib.NewTensor4(norb),
		V:    contrib.NewTensor4(norb),
	}
	for _, data := range [][]float64{ints.G3.Data, ints.V3.Data, ints.G.Data, ints.V.Data} {
		for n := range data {
			data[n] = uniform()
		}
	}
	diag, err := contrib.NewOrbitalEnergyDiag(eps, j, k)
	if err != nil {
		return nil, err
	}

	h := &Hamiltonian{Ints: ints, Diag: diag, Eps: eps}
	h.E0 = h.DetDiag(core.Compose(core.FullMask(nalpha), core.FullMask(nbeta))) - 0.1
	return h, nil
}
