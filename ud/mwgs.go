package ud

import "github.com/sigmafold/udkf"

// Mwgsu triangularizes an n x m row-major matrix w (n = dst.N rows, each
// of length m) weighted by the length-m diagonal d, writing the result
// into dst (which must already be sized for dimension n): the UD pair
// such that dst.U*diag(dst.D)*dst.U^T = w*diag(d)*w^T.
//
// w is consumed as scratch (its rows are deflated in place) and must not
// be reused by the caller afterwards. Processes output rows from
// n-1 down to 0: each step sets D[i] = w_i^T*diag(d)*w_i (row i
// dotted with itself), stores U[j,i] = (w_j^T*diag(d)*w_i)/D[i] for
// j < i, and deflates w_j -= U[j,i]*w_i. This is the general
// triangularization both the EKF predict step (applied to the n x 2n
// matrix [F*Up | Uq], weights [Dp|Dq]) and the Joseph-form update
// (applied to the n x (n+1) scratch matrix) are built from.
func Mwgsu(dst *Factor, m int, w []float64, d []float64) udkf.Status {
	n := dst.N
	if len(w) != n*m || len(d) != m {
		return udkf.StatusInvArg1
	}
	for i := n - 1; i >= 0; i-- {
		rowI := w[i*m : i*m+m]
		var sum float64
		for k := 0; k < m; k++ {
			sum += d[k] * rowI[k] * rowI[k]
		}
		if !(sum > Epsilon) {
			return udkf.StatusNumericalBreakdown
		}
		dst.D[i] = sum
		alpha := 1.0 / sum
		for j := 0; j < i; j++ {
			rowJ := w[j*m : j*m+m]
			var sum2 float64
			for k := 0; k < m; k++ {
				sum2 += d[k] * rowJ[k] * rowI[k]
			}
			uji := alpha * sum2
			dst.Set(j, i, uji)
			for k := 0; k < m; k++ {
				rowJ[k] -= uji * rowI[k]
			}
		}
	}
	return udkf.StatusOK
}
