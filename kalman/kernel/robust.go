package kernel

import "github.com/sigmafold/udkf"

// RobustFunc is an M-estimator influence function (or its derivative),
// evaluated on the normalized innovation t = nu/alpha where alpha is the
// measurement's standard deviation.
type RobustFunc func(t float64) float64

// Robustify applies the robust M-estimator correction to a scalar
// measurement: it returns the reshaped innovation nu' = alpha*g(nu/alpha)
// and the influence function's slope gdot(nu/alpha), used in place of
// the raw innovation and the identity slope by the robust Bierman and
// Joseph bodies.
//
// If g is nil the filter is non-robust: nu is returned unchanged and
// gdot is 1.0. If g is non-nil, gdot must be supplied too.
//
// The returned status carries StatusGlitchLarge when gdot falls below
// ud.Epsilon (the measurement is effectively rejected) or
// StatusGlitchSmall when it falls below 1-2*ud.Epsilon (the measurement
// is downweighted but not rejected).
func Robustify(g, gdot RobustFunc, nu, alpha float64) (newNu, gdotVal float64, status udkf.Status) {
	if g == nil {
		return nu, 1.0, udkf.StatusOK
	}
	if gdot == nil {
		return 0, 0, udkf.StatusInvArg1
	}

	t := nu / alpha
	newNu = alpha * g(t)
	gdotVal = gdot(t)

	const eps = 1e-15
	switch {
	case gdotVal < eps:
		status = udkf.StatusGlitchLarge
	case gdotVal < 1.0-2.0*eps:
		status = udkf.StatusGlitchSmall
	}
	return newNu, gdotVal, status
}

// HuberG is the Huber M-estimator influence function with threshold k:
// identity inside [-k, k], clamped to ±k outside it.
func HuberG(k float64) RobustFunc {
	return func(t float64) float64 {
		switch {
		case t > k:
			return k
		case t < -k:
			return -k
		default:
			return t
		}
	}
}

// HuberGDot is the derivative of HuberG(k): 1 inside the threshold, 0
// outside it.
func HuberGDot(k float64) RobustFunc {
	return func(t float64) float64 {
		if t > k || t < -k {
			return 0.0
		}
		return 1.0
	}
}
