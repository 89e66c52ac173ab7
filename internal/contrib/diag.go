package contrib

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// DiagEvaluator approximates the diagonal Hamiltonian element of an excited
// determinant from the diagonal element of its root. Orbital indices are
// spatial; for opposite-spin doubles (i,a) belong to the excited channel and
// (j,b) to the other one.
type DiagEvaluator interface {
	FastDiagSingle(rootDiag float64, i, a int) float64
	FastDiagSSDouble(rootDiag float64, i, j, a, b int) float64
	FastDiagOSDouble(rootDiag float64, i, j, a, b int) float64
}

// OrbitalEnergyDiag shifts the root diagonal by orbital energy differences.
// When J and K are set, the Coulomb and exchange interactions between the
// moved electrons and holes are corrected for as well.
type OrbitalEnergyDiag struct {
	Eps []float64
	J   *mat.Dense // Coulomb integrals (pp|qq)
	K   *mat.Dense // exchange integrals (pq|qp)
}

// NewOrbitalEnergyDiag builds an evaluator for len(eps) orbitals. j and k
// may both be nil.
func NewOrbitalEnergyDiag(eps []float64, j, k *mat.Dense) (*OrbitalEnergyDiag, error) {
	if (j == nil) != (k == nil) {
		return nil, fmt.Errorf("coulomb and exchange matrices must be given together")
	}
	n := len(eps)
	for name, m := range map[string]*mat.Dense{"J": j, "K": k} {
		if m == nil {
			continue
		}
		if r, c := m.Dims(); r < n || c < n {
			return nil, fmt.Errorf("%s is %dx%d, need %d orbitals", name, r, c, n)
		}
	}
	return &OrbitalEnergyDiag{Eps: eps, J: j, K: k}, nil
}

func (d *OrbitalEnergyDiag) jk(p, q int) (float64, float64) {
	if d.J == nil {
		return 0, 0
	}
	return d.J.At(p, q), d.K.At(p, q)
}

// sameSpin returns the interaction of two same-spin orbitals.
func (d *OrbitalEnergyDiag) sameSpin(p, q int) float64 {
	j, k := d.jk(p, q)
	return j - k
}

// otherSpin returns the interaction of two opposite-spin orbitals.
func (d *OrbitalEnergyDiag) otherSpin(p, q int) float64 {
	j, _ := d.jk(p, q)
	return j
}

func (d *OrbitalEnergyDiag) FastDiagSingle(rootDiag float64, i, a int) float64 {
	return rootDiag + d.Eps[a] - d.Eps[i] - d.sameSpin(i, a)
}

func (d *OrbitalEnergyDiag) FastDiagSSDouble(rootDiag float64, i, j, a, b int) float64 {
	h := rootDiag + d.Eps[a] + d.Eps[b] - d.Eps[i] - d.Eps[j]
	h += d.sameSpin(i, j) + d.sameSpin(a, b)
	h -= d.sameSpin(i, a) + d.sameSpin(i, b) + d.sameSpin(j, a) + d.sameSpin(j, b)
	return h
}

func (d *OrbitalEnergyDiag) FastDiagOSDouble(rootDiag float64, i, j, a, b int) float64 {
	h := rootDiag + d.Eps[a] + d.Eps[b] - d.Eps[i] - d.Eps[j]
	h += d.otherSpin(i, j) + d.otherSpin(a, b)
	h -= d.sameSpin(i, a) + d.sameSpin(j, b) + d.otherSpin(i, b) + d.otherSpin(j, a)
	return h
}
