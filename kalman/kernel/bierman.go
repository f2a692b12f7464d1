// Package kernel implements the scalar measurement-update bodies shared
// by every EKF/UKF variant: the Bierman factor-updating recursion and
// the Joseph covariance-form recursion, each parameterized by an
// adaptive correction factor and a robust influence-function slope so
// the same body serves the plain, adaptive, robust and adaptive-robust
// filters.
package kernel

import (
	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/ud"
)

// BiermanBody runs one scalar Bierman update against fp (the prior
// Up, Dp factor, modified in place to become the posterior) and x (the
// state vector, updated in place). f and v are scratch vectors of
// length fp.N; the caller supplies f = H·Up (the measurement row
// projected onto U) and v = Dp·f; both are destroyed by the call.
//
// r is the (decorrelated, scalar) measurement noise variance, nu the
// innovation, ac the adaptive inflation factor (1.0 if the filter is
// not adaptive) and gdot the robust influence-function slope (1.0 if
// the filter is not robust).
func BiermanBody(fp *ud.Factor, x, f, v []float64, r, nu, ac, gdot float64) udkf.Status {
	n := fp.N
	if len(x) != n || len(f) != n || len(v) != n {
		return udkf.StatusInvArg1
	}

	for k := 0; k < n; k++ {
		fk := gdot * f[k]
		vk := ac * v[k]
		v[k] = vk

		a := r + fk*vk
		fp.D[k] *= ac * r / a

		p := -fk / r
		for j := 0; j < k; j++ {
			ujk := fp.At(j, k)
			vj := v[j]
			fp.Set(j, k, ujk+p*vj)
			v[j] = vj + ujk*vk
		}
		r = a
	}

	// x += K*nu, where K = v/r since r now holds the final innovation
	// variance a computed on the last iteration.
	if st := ud.AddVxN(x, v, nu/r); st.IsErr() {
		return st
	}
	return fp.Valid()
}
