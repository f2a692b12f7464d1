package ukf

import (
	"math"

	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/ud"
)

// AddFunc folds a perturbation delta into pivot scaled by mult, returning
// a fresh state vector. Nil means ordinary vector addition pivot +
// mult*delta; a manifold-valued state (e.g. one carrying a quaternion or
// wrapped angle) supplies its own.
type AddFunc func(pivot, delta []float64, mult float64) []float64

// merweWeights computes the Van der Merwe sigma point weights for state
// dimension n and scaling parameters alpha, beta, kappa. wm and wc each
// have length 2n+1; both carry the central sigma point's weight in the
// last slot, matching the sigma layout produced by merweSigmas and the
// descending-weight processing order required by the unscented
// transform.
func merweWeights(n int, alpha, beta, kappa float64) (wm, wc []float64, lambda float64, status udkf.Status) {
	if n < 1 || alpha <= 0 || alpha > 1 {
		return nil, nil, 0, udkf.StatusInvArg1
	}
	lambda = alpha*alpha*(float64(n)+kappa) - float64(n)
	denom := float64(n) + lambda
	if !(denom > 0) {
		return nil, nil, 0, udkf.StatusInvArg1
	}

	np := 2*n + 1
	wm = make([]float64, np)
	wc = make([]float64, np)

	w := 0.5 / denom
	for i := 0; i < 2*n; i++ {
		wm[i] = w
		wc[i] = w
	}

	wm0 := lambda / denom
	wm[np-1] = wm0
	wc[np-1] = wm0 + (1 - alpha*alpha + beta)

	return wm, wc, lambda, udkf.StatusOK
}

// merweSigmas generates 2n+1 sigma points around state x with covariance
// factor up, writing them row-major into sigmas (a (2n+1) x n buffer).
// Point i is x + delta_i along column i of U_p, point n+i is
// x - delta_i; the final row, index 2n, is x itself. addf, if non-nil,
// replaces the plain vector addition used to fold the perturbation in.
func merweSigmas(n int, x []float64, up *ud.Factor, lambda float64, addf AddFunc, sigmas []float64) udkf.Status {
	np := 2*n + 1
	if len(x) != n || up.N != n || len(sigmas) != np*n {
		return udkf.StatusInvArg1
	}

	center := sigmas[(np-1)*n : (np-1)*n+n]
	copy(center, x)

	col := make([]float64, n)
	for i := 0; i < n; i++ {
		scale := up.D[i] * (float64(n) + lambda)
		if !(scale >= 0) {
			return udkf.StatusNumericalBreakdown
		}
		delta := math.Sqrt(scale)

		for k := 0; k < n; k++ {
			col[k] = up.At(k, i)
		}

		plus := sigmas[i*n : i*n+n]
		minus := sigmas[(n+i)*n : (n+i)*n+n]
		if addf != nil {
			copy(plus, addf(x, col, delta))
			copy(minus, addf(x, col, -delta))
		} else {
			for k := 0; k < n; k++ {
				plus[k] = x[k] + delta*col[k]
				minus[k] = x[k] - delta*col[k]
			}
		}
	}
	return udkf.StatusOK
}
