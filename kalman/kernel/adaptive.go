package kernel

import (
	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/ud"
)

// DefaultChi2 is the default chi-square divergence threshold used by
// the adaptive filters: scipy.stats.chi2.ppf(0.999, 1).
const DefaultChi2 = 10.8275662

// AdaptiveCorrection runs the chi-square divergence test and returns the
// adaptive inflation factor ac (1.0 if no divergence was detected), the
// (possibly corrected) innovation variance s = r + gdot*fᵀv, and a
// status with StatusAnomaly set if the test fired and the innovation
// covariance was inflated. f and v are the same f = H·Up, v = Dp·f pair
// the Bierman/Joseph bodies consume; they are read, not modified. chi2
// must be strictly positive.
func AdaptiveCorrection(f, v []float64, r, nu, gdot, chi2 float64) (ac, s float64, status udkf.Status) {
	if !(chi2 > 0) {
		return 0, 0, udkf.StatusInvArg8
	}
	c, st := ud.Vtv(f, v)
	if st.IsErr() {
		return 0, 0, st
	}
	c *= gdot
	s = r + c

	divergence := gdot*(nu*(nu/chi2)) - s
	if divergence > 0 {
		ac = divergence/c + 1.0
		s = ac*c + r
		status = udkf.StatusAnomaly
	} else {
		ac = 1.0
	}
	return ac, s, status
}
