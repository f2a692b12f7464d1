package ekf

import (
	"math"

	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/kalman/kernel"
	"github.com/sigmafold/udkf/ud"
)

// josephScratch returns the n x (n+1) W buffer and length-(n+1) D
// buffer views into e's pre-allocated scratch, sized for the Joseph
// body's MWGS call.
func (e *Estimator) josephScratch() (w, d []float64) {
	n := e.n
	return e.w[:n*(n+1)], e.d[:n+1]
}

// UpdateBierman runs the plain Bierman (factor-updating) scalar update
// over all m measurements.
func (e *Estimator) UpdateBierman(z []float64) udkf.Status {
	if st := e.prepareResidual(z); st.IsErr() {
		return st
	}
	var status udkf.Status
	for i := 0; i < e.m; i++ {
		r := e.scalarPrep(i)
		st := kernel.BiermanBody(e.Up, e.X, e.f, e.v, r, e.y[i], 1.0, 1.0)
		status = status.Or(st)
		if st.IsErr() {
			return status
		}
	}
	return status
}

// UpdateJoseph runs the plain Joseph (covariance-form) scalar update
// over all m measurements.
func (e *Estimator) UpdateJoseph(z []float64) udkf.Status {
	if st := e.prepareResidual(z); st.IsErr() {
		return st
	}
	w, d := e.josephScratch()
	var status udkf.Status
	for i := 0; i < e.m; i++ {
		r := e.scalarPrep(i)
		s, stv := ud.Vtv(e.f, e.v)
		if stv.IsErr() {
			return stv
		}
		s += r
		st := kernel.JosephBody(e.Up, e.X, e.f, e.v, e.k, w, d, e.y[i], r, s, 1.0, 1.0)
		status = status.Or(st)
		if st.IsErr() {
			return status
		}
	}
	return status
}

// UpdateAdaptiveBierman runs the Bierman update with a chi-square
// divergence test that inflates the measurement covariance when the
// innovation is implausibly large for the current filter state.
func (e *Estimator) UpdateAdaptiveBierman(z []float64) udkf.Status {
	if st := e.prepareResidual(z); st.IsErr() {
		return st
	}
	var status udkf.Status
	for i := 0; i < e.m; i++ {
		r := e.scalarPrep(i)
		ac, _, stc := kernel.AdaptiveCorrection(e.f, e.v, r, e.y[i], 1.0, e.cfg.Chi2)
		if stc.IsErr() {
			return stc
		}
		status = status.Or(stc)
		st := kernel.BiermanBody(e.Up, e.X, e.f, e.v, r, e.y[i], ac, 1.0)
		status = status.Or(st)
		if st.IsErr() {
			return status
		}
	}
	return status
}

// UpdateAdaptiveJoseph runs the Joseph update with the same chi-square
// divergence test as UpdateAdaptiveBierman.
func (e *Estimator) UpdateAdaptiveJoseph(z []float64) udkf.Status {
	if st := e.prepareResidual(z); st.IsErr() {
		return st
	}
	w, d := e.josephScratch()
	var status udkf.Status
	for i := 0; i < e.m; i++ {
		r := e.scalarPrep(i)
		ac, s, stc := kernel.AdaptiveCorrection(e.f, e.v, r, e.y[i], 1.0, e.cfg.Chi2)
		if stc.IsErr() {
			return stc
		}
		status = status.Or(stc)
		st := kernel.JosephBody(e.Up, e.X, e.f, e.v, e.k, w, d, e.y[i], r, s, ac, 1.0)
		status = status.Or(st)
		if st.IsErr() {
			return status
		}
	}
	return status
}

// robustify runs the configured robust influence function against
// measurement i's raw residual, reshaping the innovation and computing
// the influence slope gdot. r is the (undecorrelated-by-robustness)
// measurement variance; alpha = sqrt(r) is computed here rather than
// expected pre-stored, so Ur.D always means variance regardless of
// which Update method is called.
func (e *Estimator) robustify(r, nu float64) (newNu, gdot float64, status udkf.Status) {
	return kernel.Robustify(e.cfg.G, e.cfg.GDot, nu, math.Sqrt(r))
}

// UpdateRobustBierman runs the Bierman update with an M-estimator
// influence function applied to each measurement's residual, downweighting
// or rejecting outlying measurements instead of trusting them fully.
func (e *Estimator) UpdateRobustBierman(z []float64) udkf.Status {
	if st := e.prepareResidual(z); st.IsErr() {
		return st
	}
	var status udkf.Status
	for i := 0; i < e.m; i++ {
		r := e.scalarPrep(i)
		nu, gdot, strob := e.robustify(r, e.y[i])
		if strob.IsErr() {
			return strob
		}
		status = status.Or(strob)
		st := kernel.BiermanBody(e.Up, e.X, e.f, e.v, r, nu, 1.0, gdot)
		status = status.Or(st)
		if st.IsErr() {
			return status
		}
	}
	return status
}

// UpdateRobustJoseph runs the Joseph update with the same robust
// influence function as UpdateRobustBierman.
func (e *Estimator) UpdateRobustJoseph(z []float64) udkf.Status {
	if st := e.prepareResidual(z); st.IsErr() {
		return st
	}
	w, d := e.josephScratch()
	var status udkf.Status
	for i := 0; i < e.m; i++ {
		r := e.scalarPrep(i)
		nu, gdot, strob := e.robustify(r, e.y[i])
		if strob.IsErr() {
			return strob
		}
		status = status.Or(strob)
		s, stv := ud.Vtv(e.f, e.v)
		if stv.IsErr() {
			return stv
		}
		s = r + gdot*s
		st := kernel.JosephBody(e.Up, e.X, e.f, e.v, e.k, w, d, nu, r, s, 1.0, gdot)
		status = status.Or(st)
		if st.IsErr() {
			return status
		}
	}
	return status
}

// UpdateAdaptiveRobustBierman combines the chi-square divergence test
// and the robust influence function: the residual is first reshaped by
// the influence function, then tested for divergence.
func (e *Estimator) UpdateAdaptiveRobustBierman(z []float64) udkf.Status {
	if st := e.prepareResidual(z); st.IsErr() {
		return st
	}
	var status udkf.Status
	for i := 0; i < e.m; i++ {
		r := e.scalarPrep(i)
		nu, gdot, strob := e.robustify(r, e.y[i])
		if strob.IsErr() {
			return strob
		}
		status = status.Or(strob)
		ac, _, stc := kernel.AdaptiveCorrection(e.f, e.v, r, nu, gdot, e.cfg.Chi2)
		if stc.IsErr() {
			return stc
		}
		status = status.Or(stc)
		st := kernel.BiermanBody(e.Up, e.X, e.f, e.v, r, nu, ac, gdot)
		status = status.Or(st)
		if st.IsErr() {
			return status
		}
	}
	return status
}

// UpdateAdaptiveRobustJoseph combines the chi-square divergence test and
// the robust influence function in Joseph form.
func (e *Estimator) UpdateAdaptiveRobustJoseph(z []float64) udkf.Status {
	if st := e.prepareResidual(z); st.IsErr() {
		return st
	}
	w, d := e.josephScratch()
	var status udkf.Status
	for i := 0; i < e.m; i++ {
		r := e.scalarPrep(i)
		nu, gdot, strob := e.robustify(r, e.y[i])
		if strob.IsErr() {
			return strob
		}
		status = status.Or(strob)
		ac, s, stc := kernel.AdaptiveCorrection(e.f, e.v, r, nu, gdot, e.cfg.Chi2)
		if stc.IsErr() {
			return stc
		}
		status = status.Or(stc)
		st := kernel.JosephBody(e.Up, e.X, e.f, e.v, e.k, w, d, nu, r, s, ac, gdot)
		status = status.Or(st)
		if st.IsErr() {
			return status
		}
	}
	return status
}
