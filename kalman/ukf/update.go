package ukf

import (
	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/kalman/kernel"
	"github.com/sigmafold/udkf/ud"
)

// prepareMeasurement observes every propagated sigma point through the
// measurement model, writing the np x m measurement sigma matrix.
func (e *Estimator) prepareMeasurement(z []float64) udkf.Status {
	if len(z) != e.m {
		return udkf.StatusInvArg2
	}
	for i := 0; i < e.np; i++ {
		row := e.sigmas[i*e.n : i*e.n+e.n]
		zrow := e.zetas[i*e.m : i*e.m+e.m]
		out := e.H(row)
		if len(out) != e.m {
			return udkf.StatusInvArg1
		}
		copy(zrow, out)
	}
	return udkf.StatusOK
}

// measurementTransform folds the measurement sigma points into (z_p,
// U_s, D_s), optionally seeded with the measurement noise factor.
func (e *Estimator) measurementTransform(withNoise bool) udkf.Status {
	var un *ud.Factor
	if withNoise {
		un = e.Ur
	}
	return unscentedTransform(e.np, e.m, e.zp, e.Us, e.zetas, e.wm, e.wc, un, e.zdiff, e.cfg.MFz, e.cfg.RFz)
}

// crossCovariance accumulates P_zx (stored n x m, state-major, so each
// row can be decorrelated against U_s directly and each scalar
// measurement's contribution extracted as a column).
func (e *Estimator) crossCovariance() udkf.Status {
	for i := range e.Pzx {
		e.Pzx[i] = 0
	}
	for c := 0; c < e.np; c++ {
		srow := e.sigmas[c*e.n : c*e.n+e.n]
		zrow := e.zetas[c*e.m : c*e.m+e.m]

		if e.cfg.RFx != nil {
			copy(e.xdiff, e.cfg.RFx(srow, e.X))
		} else {
			for k := 0; k < e.n; k++ {
				e.xdiff[k] = srow[k] - e.X[k]
			}
		}
		if e.cfg.RFz != nil {
			copy(e.zdiff, e.cfg.RFz(zrow, e.zp))
		} else {
			for k := 0; k < e.m; k++ {
				e.zdiff[k] = zrow[k] - e.zp[k]
			}
		}
		if st := ud.AddVVtXN(e.n, e.m, e.Pzx, e.xdiff, e.zdiff, e.wc[c]); st.IsErr() {
			return st
		}
	}
	return udkf.StatusOK
}

// innovation computes y = zrf(z, z_p) or z - z_p into yRaw.
func (e *Estimator) innovation(z []float64) {
	if e.cfg.ZRF != nil {
		copy(e.yRaw, e.cfg.ZRF(z, e.zp))
		return
	}
	for i := range e.yRaw {
		e.yRaw[i] = z[i] - e.zp[i]
	}
}

// mahalanobis sums d[i]^2/variance[i] for a decorrelated residual.
func mahalanobis(decorr, variance []float64) float64 {
	var s float64
	for i, yi := range decorr {
		s += yi * yi / variance[i]
	}
	return s
}

// decorrelate puts y in decorrelated form and applies the same
// back-substitution to every state-row of P_zx.
func (e *Estimator) decorrelate() udkf.Status {
	copy(e.yDecorr, e.yRaw)
	if st := ud.Ruv(e.Us, e.yDecorr); st.IsErr() {
		return st
	}
	return ud.Rum(e.Us, e.n, e.Pzx)
}

// column extracts measurement i's state-space cross-covariance column
// (P_zx is stored n x m) into col.
func (e *Estimator) column(i int) {
	for k := 0; k < e.n; k++ {
		e.col[k] = e.Pzx[k*e.m+i]
	}
}

// maybeInflate runs the chi-square divergence test described for the
// adaptive UKF update: if the innovation, decorrelated by U_s, is
// implausibly large given the baseline (z_p, U_s, D_s), it inflates D_p, regenerates the sigma
// points and measurement sigma points, and redoes the transform, then
// reports StatusAnomaly. On a quiet measurement it is a no-op beyond the
// baseline transform it was given.
func (e *Estimator) maybeInflate(z []float64) udkf.Status {
	e.innovation(z)
	copy(e.yDecorr, e.yRaw)
	if st := ud.Ruv(e.Us, e.yDecorr); st.IsErr() {
		return st
	}
	delta := mahalanobis(e.yDecorr, e.Us.D)
	chi2 := e.cfg.chi2()
	if !(delta > chi2) {
		return udkf.StatusOK
	}

	if st := e.measurementTransform(false); st.IsErr() {
		return st
	}
	e.innovation(z)
	copy(e.yDecorr, e.yRaw)
	if st := ud.Ruv(e.Us, e.yDecorr); st.IsErr() {
		return st
	}
	c := mahalanobis(e.yDecorr, e.Us.D)

	ac := c * (1/chi2 - 1/delta)
	for i := range e.Up.D {
		e.Up.D[i] *= 1 + ac
	}

	if st := merweSigmas(e.n, e.X, e.Up, e.lambda, e.cfg.AddF, e.sigmas); st.IsErr() {
		return st
	}
	if st := e.prepareMeasurement(z); st.IsErr() {
		return st
	}
	if st := e.measurementTransform(true); st.IsErr() {
		return st
	}
	return udkf.StatusAnomaly
}

// sequentialScalar runs the Bierman kernel against a single decorrelated
// measurement column, in either safe (U_p-basis) or fast (direct D_p
// scaling) form.
func (e *Estimator) sequentialScalar(i int) udkf.Status {
	e.column(i)
	if e.cfg.Fast {
		if st := ud.SetRDV(e.fScr, e.Up.D, e.col); st.IsErr() {
			return st
		}
		copy(e.vScr, e.col)
	} else {
		if st := ud.VtU(e.Up, e.fScr, e.col); st.IsErr() {
			return st
		}
		if st := ud.SetDV(e.vScr, e.Up.D, e.fScr); st.IsErr() {
			return st
		}
	}
	return kernel.BiermanBody(e.Up, e.X, e.fScr, e.vScr, e.Us.D[i], e.yDecorr[i], 1.0, 1.0)
}

// fullMatrixScalar applies measurement i's correction directly to (x,
// U_p, D_p) via a rank-one down-date, without going through the Bierman
// kernel.
func (e *Estimator) fullMatrixScalar(i int) udkf.Status {
	e.column(i)
	if st := ud.AddVxN(e.X, e.col, e.yDecorr[i]/e.Us.D[i]); st.IsErr() {
		return st
	}
	return ud.UduUpScaled(e.Up, e.col, -1.0/e.Us.D[i])
}

// UpdateBierman runs the sequential Bierman-kernel scalar update.
func (e *Estimator) UpdateBierman(z []float64) udkf.Status {
	if st := e.prepareMeasurement(z); st.IsErr() {
		return st
	}
	if st := e.measurementTransform(true); st.IsErr() {
		return st
	}
	if st := e.crossCovariance(); st.IsErr() {
		return st
	}
	e.innovation(z)
	if st := e.decorrelate(); st.IsErr() {
		return st
	}
	for i := 0; i < e.m; i++ {
		if st := e.sequentialScalar(i); st.IsErr() {
			return st
		}
	}
	return udkf.StatusOK
}

// UpdateJoseph runs the full-matrix rank-one correction over all
// measurements.
func (e *Estimator) UpdateJoseph(z []float64) udkf.Status {
	if st := e.prepareMeasurement(z); st.IsErr() {
		return st
	}
	if st := e.measurementTransform(true); st.IsErr() {
		return st
	}
	if st := e.crossCovariance(); st.IsErr() {
		return st
	}
	e.innovation(z)
	if st := e.decorrelate(); st.IsErr() {
		return st
	}
	for i := 0; i < e.m; i++ {
		if st := e.fullMatrixScalar(i); st.IsErr() {
			return st
		}
	}
	return udkf.StatusOK
}

// UpdateAdaptiveBierman runs UpdateBierman with the chi-square
// divergence test: an implausible innovation inflates D_p and
// regenerates sigma points before the scalar loop runs. Rejects
// cfg.Fast, which is unsound combined with the adaptive correction.
func (e *Estimator) UpdateAdaptiveBierman(z []float64) udkf.Status {
	if e.cfg.Fast {
		return udkf.StatusInvArg3
	}
	if st := e.prepareMeasurement(z); st.IsErr() {
		return st
	}
	if st := e.measurementTransform(true); st.IsErr() {
		return st
	}
	status := e.maybeInflate(z)
	if status.IsErr() {
		return status
	}
	if st := e.crossCovariance(); st.IsErr() {
		return st
	}
	e.innovation(z)
	if st := e.decorrelate(); st.IsErr() {
		return st
	}
	for i := 0; i < e.m; i++ {
		if st := e.sequentialScalar(i); st.IsErr() {
			return st
		}
	}
	return status
}

// UpdateAdaptiveJoseph runs UpdateJoseph with the same chi-square
// divergence test as UpdateAdaptiveBierman.
func (e *Estimator) UpdateAdaptiveJoseph(z []float64) udkf.Status {
	if st := e.prepareMeasurement(z); st.IsErr() {
		return st
	}
	if st := e.measurementTransform(true); st.IsErr() {
		return st
	}
	status := e.maybeInflate(z)
	if status.IsErr() {
		return status
	}
	if st := e.crossCovariance(); st.IsErr() {
		return st
	}
	e.innovation(z)
	if st := e.decorrelate(); st.IsErr() {
		return st
	}
	for i := 0; i < e.m; i++ {
		if st := e.fullMatrixScalar(i); st.IsErr() {
			return st
		}
	}
	return status
}
