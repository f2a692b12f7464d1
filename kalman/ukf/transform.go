package ukf

import (
	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/ud"
)

// MeanFunc computes a weighted sigma-point mean, overriding the default
// weighted sum. sigmas is np x nz row-major; wm has length np.
type MeanFunc func(sigmas []float64, np, nz int, wm []float64) []float64

// ResidualFunc computes a - b, overriding plain vector subtraction. Used
// for manifold-valued states or measurements (angles, quaternions) where
// subtraction must wrap or normalize.
type ResidualFunc func(a, b []float64) []float64

// unscentedTransform carries a set of np sigma points (sigmas, np x nz
// row-major) through the weighted mean/covariance recurrence shared by
// the UKF predict and update steps: it computes the mean mu and folds
// the weighted outer products of each point's residual into the factor
// ur, optionally seeded from a prior noise factor un. rscratch is a
// length-nz scratch buffer for the per-point residual.
//
// Rank-one contributions are folded in ascending sigma-point order, 0
// through np-1, so the Van der Merwe center point (index np-1, the
// largest-magnitude weight) is folded in last, against a factor already
// built up from the np-1 regular points.
func unscentedTransform(np, nz int, mu []float64, ur *ud.Factor, sigmas []float64, wm, wc []float64, un *ud.Factor, rscratch []float64, mf MeanFunc, rf ResidualFunc) udkf.Status {
	if len(mu) != nz || ur.N != nz || len(sigmas) != np*nz || len(wm) != np || len(wc) != np || len(rscratch) != nz {
		return udkf.StatusInvArg1
	}

	if mf != nil {
		copy(mu, mf(sigmas, np, nz, wm))
	} else if st := ud.SetVtM(np, nz, mu, wm, sigmas); st.IsErr() {
		return st
	}

	if un != nil {
		ur.CopyFrom(un)
	} else {
		ur.Zero()
	}

	for i := 0; i < np; i++ {
		point := sigmas[i*nz : i*nz+nz]
		if rf != nil {
			copy(rscratch, rf(point, mu))
		} else {
			for k := 0; k < nz; k++ {
				rscratch[k] = point[k] - mu[k]
			}
		}
		if st := ud.UduUpScaled(ur, rscratch, wc[i]); st.IsErr() {
			return st
		}
	}
	return udkf.StatusOK
}
