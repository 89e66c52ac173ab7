package contrib

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Tensor3 is a dense three-index array with element (p,q,r) stored at
// Data[p + q*LD + r*LD*LD].
type Tensor3 struct {
	LD   int
	Data []float64
}

// NewTensor3 allocates a zeroed n x n x n tensor.
func NewTensor3(n int) Tensor3 {
	return Tensor3{LD: n, Data: make([]float64, n*n*n)}
}

// At returns element (p,q,r).
func (t Tensor3) At(p, q, r int) float64 {
	return t.Data[p+t.LD*(q+t.LD*r)]
}

// Set stores element (p,q,r).
func (t Tensor3) Set(p, q, r int, v float64) {
	t.Data[p+t.LD*(q+t.LD*r)] = v
}

// Tensor4 is a dense four-index array with element (p,q,r,s) stored at
// Data[p + q*LD + r*LD^2 + s*LD^3].
type Tensor4 struct {
	LD   int
	Data []float64
}

// NewTensor4 allocates a zeroed n^4 tensor.
func NewTensor4(n int) Tensor4 {
	return Tensor4{LD: n, Data: make([]float64, n*n*n*n)}
}

// At returns element (p,q,r,s).
func (t Tensor4) At(p, q, r, s int) float64 {
	return t.Data[p+t.LD*(q+t.LD*(r+t.LD*s))]
}

// Set stores element (p,q,r,s).
func (t Tensor4) Set(p, q, r, s int, v float64) {
	t.Data[p+t.LD*(q+t.LD*(r+t.LD*s))] = v
}

// Integrals bundles the integral views read by the generators.
//
//	T(i,a)       one-body term of the single i -> a
//	G3(p,a,i)    same-spin two-body term of a single, summed over occupied p
//	V3(p,a,i)    opposite-spin two-body term of a single, summed over occupied p
//	G(b,j,a,i)   same-spin double ij -> ab
//	V(a,i,b,j)   opposite-spin double i -> a (same) with j -> b (other)
type Integrals struct {
	Norb int
	T    *mat.Dense
	G3   Tensor3
	V3   Tensor3
	G    Tensor4
	V    Tensor4
}

// Validate checks that every view covers Norb orbitals.
func (in *Integrals) Validate() error {
	if in.T == nil {
		return fmt.Errorf("one-body integrals missing")
	}
	if r, c := in.T.Dims(); r < in.Norb || c < in.Norb {
		return fmt.Errorf("one-body integrals are %dx%d, need %d orbitals", r, c, in.Norb)
	}
	for name, ld := range map[string][2]int{
		"G3": {in.G3.LD, len(in.G3.Data)},
		"V3": {in.V3.LD, len(in.V3.Data)},
	} {
		if ld[0] < in.Norb || ld[1] < ld[0]*ld[0]*ld[0] {
			return fmt.Errorf("%s: leading dimension %d with %d elements does not cover %d orbitals", name, ld[0], ld[1], in.Norb)
		}
	}
	for name, ld := range map[string][2]int{
		"G": {in.G.LD, len(in.G.Data)},
		"V": {in.V.LD, len(in.V.Data)},
	} {
		if ld[0] < in.Norb || ld[1] < ld[0]*ld[0]*ld[0]*ld[0] {
			return fmt.Errorf("%s: leading dimension %d with %d elements does not cover %d orbitals", name, ld[0], ld[1], in.Norb)
		}
	}
	return nil
}
