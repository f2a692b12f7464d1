package kernel

import (
	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/ud"
)

// JosephBody runs one scalar Joseph (covariance-form) update against fp
// (the prior Up, Dp factor, overwritten in place with the posterior)
// and x (the state vector, updated in place).
//
// f and v are scratch vectors of length fp.N holding f = H·Up and
// v = Dp·f, both destroyed by the call. k is a scratch vector of length
// fp.N that receives the Kalman gain. w is a scratch buffer of length
// fp.N*(fp.N+1) used as the n x (n+1) MWGS input, and dScratch a scratch
// vector of length fp.N+1 used as its weight vector; both are destroyed
// by the call.
//
// nu is the innovation, a2 the (possibly robust-scaled) measurement
// variance, s the innovation variance r + gdot*fᵀv, ac the adaptive
// inflation factor and gdot the robust influence-function slope.
func JosephBody(fp *ud.Factor, x, f, v, k, w, dScratch []float64, nu, a2, s, ac, gdot float64) udkf.Status {
	n := fp.N
	if len(x) != n || len(f) != n || len(v) != n || len(k) != n {
		return udkf.StatusInvArg1
	}
	if len(w) != n*(n+1) || len(dScratch) != n+1 {
		return udkf.StatusInvArg1
	}
	if !(s > 0) {
		return udkf.StatusInvArg11
	}

	// k = Up.(v*ac/s)
	if st := ud.SetVxN(v, v, ac/s); st.IsErr() {
		return st
	}
	if st := ud.Uv(fp, k, v); st.IsErr() {
		return st
	}

	// f = gdot*f
	if st := ud.SetVxN(f, f, gdot); st.IsErr() {
		return st
	}

	full := ud.View{Data: w, Stride: n + 1, Rows: n, Cols: n + 1}
	left := ud.View{Data: w, Stride: n + 1, Rows: n, Cols: n}

	// left n x n block: gdot*k*f^T - Up
	if st := ud.BSetVVt(left, k, f); st.IsErr() {
		return st
	}
	if st := ud.BSubU(left, fp); st.IsErr() {
		return st
	}
	// last column: k
	if st := ud.BSetV(full, n, k); st.IsErr() {
		return st
	}

	copy(dScratch[:n], fp.D)
	for i := 0; i < n; i++ {
		dScratch[i] *= ac
	}
	dScratch[n] = gdot * a2

	if st := ud.Mwgsu(fp, n+1, w, dScratch); st.IsErr() {
		return st
	}

	if st := ud.AddVxN(x, k, nu); st.IsErr() {
		return st
	}
	return fp.Valid()
}
