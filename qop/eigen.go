package qop

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// Eigenvalues returns the eigenvalues of the Hermitian matrix m (m is not
// re-validated as Hermitian; callers that need the Hermitian-predicate check
// itself call CheckHermitianPredicate, which calls this after its own
// Hermiticity test). Implemented via the standard real embedding of a
// Hermitian matrix H = X + iY (X symmetric, Y antisymmetric) into the real
// symmetric matrix R = [[X, -Y], [Y, X]], whose spectrum is the spectrum of H
// with each eigenvalue repeated twice; gonum's mat.EigenSym (dense symmetric
// eigendecomposition, the same family of routine the LAPACK-derived
// gonum/lapack package exposes) does the actual numerical work.
func Eigenvalues(m *Tensor) []float64 {
	d := m.Dim
	r := mat.NewSymDense(2*d, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			v := m.Data[i*d+j]
			x, y := real(v), imag(v)
			r.SetSym(i, j, x)
			r.SetSym(d+i, d+j, x)
			if i != j {
				r.SetSym(i, d+j, -y)
				r.SetSym(d+i, j, y)
			}
		}
	}
	var eig mat.EigenSym
	ok := eig.Factorize(r, false)
	if !ok {
		// Degenerate numerically; fall back to an empty spectrum so callers
		// report a violation rather than silently accepting.
		return nil
	}
	vals := eig.Values(nil)
	out := make([]float64, 0, d)
	for i := 0; i < len(vals); i += 2 {
		out = append(out, vals[i])
	}
	return out
}

// MinEigen returns the smallest eigenvalue of the Hermitian matrix m and a
// corresponding normalized eigenvector. It uses the same real embedding as
// Eigenvalues, then reconstructs a complex eigenvector from the embedded
// real one: for Hermitian H with embedding R = [[X,-Y],[Y,X]], if (p,q) in
// R^2d is an eigenvector of R for eigenvalue λ, then z = p + iq is an
// eigenvector of H for λ — R commutes with the block rotation
// J = [[0,-I],[I,0]] representing multiplication by i, so every R-eigenspace
// is J-invariant and contains a vector of this form.
func MinEigen(m *Tensor) (float64, []complex128) {
	d := m.Dim
	r := mat.NewSymDense(2*d, nil)
	for i := 0; i < d; i++ {
		for j := 0; j < d; j++ {
			v := m.Data[i*d+j]
			x, y := real(v), imag(v)
			r.SetSym(i, j, x)
			r.SetSym(d+i, d+j, x)
			if i != j {
				r.SetSym(i, d+j, -y)
				r.SetSym(d+i, j, y)
			}
		}
	}
	var eig mat.EigenSym
	if !eig.Factorize(r, true) {
		return 0, nil
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	minIdx := 0
	for i, v := range vals {
		if v < vals[minIdx] {
			minIdx = i
		}
	}
	z := make([]complex128, d)
	norm := 0.0
	for k := 0; k < d; k++ {
		p := vecs.At(k, minIdx)
		q := vecs.At(d+k, minIdx)
		z[k] = complex(p, q)
		norm += p*p + q*q
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for k := range z {
			z[k] /= complex(norm, 0)
		}
	}
	return vals[minIdx], z
}

// QuadForm returns v† m v for a vector v of length m.Dim.
func QuadForm(v []complex128, m *Tensor) complex128 {
	d := m.Dim
	var acc complex128
	for r := 0; r < d; r++ {
		var row complex128
		for c := 0; c < d; c++ {
			row += m.Data[r*d+c] * v[c]
		}
		acc += cmplx.Conj(v[r]) * row
	}
	return acc
}
