// Package ud implements the packed UD factorization primitives that back
// every filter in this module: a symmetric positive-definite matrix P is
// carried as U (unit upper-triangular, strictly-upper part packed
// column-major) and D (its positive diagonal), so that
// P = U * diag(D) * U^T, without ever materializing P itself.
package ud

import (
	"fmt"

	"github.com/sigmafold/udkf"
	"gonum.org/v1/gonum/mat"
)

// Epsilon is the degeneracy threshold below which a pivot (an MWGS
// diagonal entry, or a down-dated D entry) is rejected as non-positive
// definite. Matches yafl's YAFL_EPS.
const Epsilon = 1e-15

// Idx returns the packed index of strictly-upper entry (i, j), j > i, in
// column-major upper-triangular packing: index j*(j-1)/2 + i.
func Idx(i, j int) int {
	return j*(j-1)/2 + i
}

// PackedLen returns the number of strictly-upper entries of an n x n unit
// upper-triangular matrix.
func PackedLen(n int) int {
	return n * (n - 1) / 2
}

// Factor holds the UD factorization of an n x n symmetric positive
// definite matrix. U's implicit unit diagonal is never stored; only its
// n*(n-1)/2 strictly-upper entries live in U. D is the length-n diagonal
// and must stay strictly positive.
type Factor struct {
	N int
	U []float64
	D []float64
}

// New allocates a Factor of dimension n, initialized to the identity
// (U = 0, D = 1), which represents P = I.
func New(n int) *Factor {
	d := make([]float64, n)
	for i := range d {
		d[i] = 1.0
	}
	return &Factor{N: n, U: make([]float64, PackedLen(n)), D: d}
}

// At returns the (i, j) entry of the implicit unit upper-triangular
// matrix U: 1 on the diagonal, the packed entry above it, 0 below it.
func (f *Factor) At(i, j int) float64 {
	switch {
	case i == j:
		return 1.0
	case i < j:
		return f.U[Idx(i, j)]
	default:
		return 0.0
	}
}

// Set writes the strictly-upper (i, j) entry, j > i. Panics if i >= j:
// the diagonal is implicit and the lower triangle does not exist.
func (f *Factor) Set(i, j int, v float64) {
	if i >= j {
		panic(fmt.Sprintf("ud: Set(%d,%d) is not a strictly-upper entry", i, j))
	}
	f.U[Idx(i, j)] = v
}

// Copy returns an independent deep copy of f.
func (f *Factor) Copy() *Factor {
	out := &Factor{N: f.N, U: make([]float64, len(f.U)), D: make([]float64, len(f.D))}
	copy(out.U, f.U)
	copy(out.D, f.D)
	return out
}

// CopyFrom overwrites f in place with src's contents. Panics if the
// dimensions differ.
func (f *Factor) CopyFrom(src *Factor) {
	if f.N != src.N {
		panic("ud: CopyFrom dimension mismatch")
	}
	copy(f.U, src.U)
	copy(f.D, src.D)
}

// Zero clears f to U = 0, D = 0, the starting point for building up a
// factor purely from a weighted sum of rank-one contributions (e.g. an
// unscented transform with no prior noise to seed it from). The result
// is not a valid factor (D is not positive) until enough positive
// rank-one terms have been folded in.
func (f *Factor) Zero() {
	for i := range f.U {
		f.U[i] = 0
	}
	for i := range f.D {
		f.D[i] = 0
	}
}

// Valid reports whether every D entry is finite and strictly positive,
// i.e. whether f still represents a legal positive-definite factor.
func (f *Factor) Valid() udkf.Status {
	for _, d := range f.D {
		if !(d > Epsilon) {
			return udkf.StatusNumericalBreakdown
		}
	}
	return udkf.StatusOK
}

// Dense reconstructs the full symmetric matrix P = U*diag(D)*U^T as a
// gonum SymDense. This is intentionally not on any hot path: the whole
// point of the UD representation is to avoid this matrix. It exists for
// tests and diagnostics that need to inspect or plot the covariance.
func (f *Factor) Dense() *mat.SymDense {
	n := f.N
	u := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			u.Set(i, j, f.At(i, j))
		}
	}
	ud := mat.NewDense(n, n, nil)
	ud.Mul(u, mat.NewDiagDense(n, f.D))

	p := mat.NewDense(n, n, nil)
	p.Mul(ud, u.T())

	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, p.At(i, j))
		}
	}
	return sym
}

// Factorize computes the UD factorization of a dense symmetric positive
// definite matrix p (row-major, length n*n, only upper triangle read) and
// returns it as a Factor. This is the inverse of Dense: it is how a
// caller-supplied mat.Symmetric covariance (e.g. from a simulated
// Gaussian noise source) is turned into the UD pair every operation in
// this module expects. Algorithm: the classical UD (modified Cholesky)
// recursion — mathematically the n=m, d=1 specialization of MWGS (see
// Mwgsu), restructured to update the remaining symmetric submatrix in
// place rather than deflate separate row vectors.
func Factorize(n int, p []float64) (*Factor, udkf.Status) {
	if n < 1 || len(p) != n*n {
		return nil, udkf.StatusInvArg2
	}
	// local mutable copy of the upper triangle, row-major n x n
	a := make([]float64, n*n)
	copy(a, p)

	f := New(n)
	for j := n - 1; j >= 0; j-- {
		djj := a[j*n+j]
		if !(djj > Epsilon) {
			return nil, udkf.StatusNumericalBreakdown
		}
		f.D[j] = djj
		alpha := 1.0 / djj
		for k := 0; k < j; k++ {
			beta := a[k*n+j]
			ukj := alpha * beta
			f.Set(k, j, ukj)
			for i := 0; i <= k; i++ {
				a[i*n+k] -= beta * f.At(i, j)
			}
		}
	}
	return f, udkf.StatusOK
}
