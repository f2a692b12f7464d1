// Package jacobian is a test-only finite-difference Jacobian helper. It
// never sits on an estimator's hot path: kalman/ekf and kalman/ukf never
// import it. It exists so test authors can cross-check a hand-written
// JacFunc/JH against a numerical approximation instead of trusting the
// algebra by hand.
package jacobian

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// Of returns the m x n row-major Jacobian of f at x, approximated by
// central finite differences, where m is len(f(x)) and n is len(x). f
// must not retain x or its returned slice.
func Of(f func(x []float64) []float64, x []float64) []float64 {
	n := len(x)
	m := len(f(x))

	wrap := func(y, xv []float64) {
		copy(y, f(xv))
	}

	jac := mat.NewDense(m, n, nil)
	fd.Jacobian(jac, wrap, x, &fd.JacobianSettings{
		Formula: fd.Central,
	})

	out := make([]float64, m*n)
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			out[i*n+j] = jac.At(i, j)
		}
	}
	return out
}
