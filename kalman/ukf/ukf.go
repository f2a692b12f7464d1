// Package ukf implements a UD-factorized Unscented Kalman Filter: sigma
// points generated the Van der Merwe way, carried through the process
// and measurement models, and folded back into a UD covariance factor
// by the same rank-one up/down-date primitives the EKF driver uses,
// never materializing a dense covariance matrix.
package ukf

import (
	"fmt"

	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/kalman/kernel"
	"github.com/sigmafold/udkf/ud"
)

// StateFunc evaluates a vector-valued function of a sigma point, e.g.
// the process model f(sigma) or the measurement model h(sigma). It must
// not retain its argument and must return a freshly allocated slice.
type StateFunc func(sigma []float64) []float64

// Config collects an Estimator's sigma-point shape parameters and
// optional behavior.
type Config struct {
	// Alpha, Beta, Kappa are the Van der Merwe sigma point parameters.
	Alpha, Beta, Kappa float64
	// F is the process model, applied to every sigma point. Nil means
	// f(sigma) = sigma (a random walk).
	F StateFunc
	// AddF folds a sigma-point perturbation into the pivot state for
	// manifold-valued states. Nil means ordinary vector addition.
	AddF AddFunc
	// MFx and RFx override the state-space mean and residual used by
	// the predict-step unscented transform.
	MFx MeanFunc
	RFx ResidualFunc
	// MFz and RFz override the measurement-space mean and residual used
	// by the update-step unscented transform.
	MFz MeanFunc
	RFz ResidualFunc
	// ZRF overrides the default innovation y = z - z_p.
	ZRF ResidualFunc
	// Chi2 is the adaptive divergence threshold. Zero means
	// kernel.DefaultChi2.
	Chi2 float64
	// Fast skips the U_p-basis conversion before the sequential scalar
	// update, using the cross-covariance column directly. Only the
	// sequential Bierman path reads it: UpdateAdaptiveBierman rejects
	// it, and the Joseph variants ignore it.
	Fast bool
}

func (c Config) chi2() float64 {
	if c.Chi2 == 0 {
		return kernel.DefaultChi2
	}
	return c.Chi2
}

// Estimator is a UD-factorized Unscented Kalman Filter for an n-state,
// m-measurement system. Every buffer it owns is allocated once in New
// and reused by Predict/Update: none of them allocate on the hot path.
type Estimator struct {
	n, m, np int

	X  []float64  // current state estimate, length n
	Up *ud.Factor // state covariance factor, dimension n
	Uq *ud.Factor // process noise factor, dimension n
	Ur *ud.Factor // measurement noise factor, dimension m

	H StateFunc

	cfg    Config
	lambda float64
	wm, wc []float64

	sigmas []float64  // np x n, state sigma points
	zetas  []float64  // np x m, measurement sigma points
	Sx     *ud.Factor // state-space transform scratch, dimension n
	Us     *ud.Factor // measurement-space transform scratch, dimension m

	zp      []float64 // predicted measurement mean, length m
	yRaw    []float64 // raw innovation z - z_p, length m
	yDecorr []float64 // innovation decorrelated by U_s, length m
	Pzx     []float64 // cross-covariance, n x m row-major (state-major)

	xdiff, col, fScr, vScr []float64 // length n scratch
	zdiff                  []float64 // length m scratch
}

// New builds an Estimator for an n-state, m-measurement system with
// initial state x0, initial state covariance factor up, process noise
// factor uq, and measurement noise factor ur (dimension m). h is the
// measurement model; cfg configures the sigma point shape and optional
// behavior. up, uq and ur are copied; the caller keeps ownership of the
// originals.
func New(x0 []float64, up, uq, ur *ud.Factor, h StateFunc, cfg Config) (*Estimator, udkf.Status) {
	n := up.N
	m := ur.N
	if n < 2 {
		return nil, udkf.StatusInvArg1
	}
	if len(x0) != n || uq.N != n {
		return nil, udkf.StatusInvArg1
	}
	if m < 1 {
		return nil, udkf.StatusInvArg2
	}
	if h == nil {
		return nil, udkf.StatusInvArg3
	}

	wm, wc, lambda, st := merweWeights(n, cfg.Alpha, cfg.Beta, cfg.Kappa)
	if st.IsErr() {
		return nil, st
	}
	if cfg.Chi2 == 0 {
		cfg.Chi2 = kernel.DefaultChi2
	}

	np := 2*n + 1
	x := make([]float64, n)
	copy(x, x0)

	return &Estimator{
		n: n, m: m, np: np,
		X: x, Up: up.Copy(), Uq: uq.Copy(), Ur: ur.Copy(),
		H:      h,
		cfg:    cfg,
		lambda: lambda,
		wm:     wm, wc: wc,
		sigmas: make([]float64, np*n),
		zetas:  make([]float64, np*m),
		Sx:     ud.New(n),
		Us:     ud.New(m),

		zp:      make([]float64, m),
		yRaw:    make([]float64, m),
		yDecorr: make([]float64, m),
		Pzx:     make([]float64, n*m),

		xdiff: make([]float64, n),
		col:   make([]float64, n),
		fScr:  make([]float64, n),
		vScr:  make([]float64, n),
		zdiff: make([]float64, m),
	}, udkf.StatusOK
}

// Predict regenerates the sigma points around the current state and
// covariance, propagates each through the process model (identity if
// cfg.F is nil), and folds the propagated points back into (X, Up, Dp)
// via the unscented transform seeded with the process noise factor Uq.
func (e *Estimator) Predict() udkf.Status {
	if st := merweSigmas(e.n, e.X, e.Up, e.lambda, e.cfg.AddF, e.sigmas); st.IsErr() {
		return st
	}

	if e.cfg.F != nil {
		for i := 0; i < e.np; i++ {
			row := e.sigmas[i*e.n : i*e.n+e.n]
			out := e.cfg.F(row)
			if len(out) != e.n {
				return udkf.StatusInvArg1
			}
			copy(row, out)
		}
	}

	rscratch := e.xdiff
	if st := unscentedTransform(e.np, e.n, e.X, e.Sx, e.sigmas, e.wm, e.wc, e.Uq, rscratch, e.cfg.MFx, e.cfg.RFx); st.IsErr() {
		return st
	}
	e.Up.CopyFrom(e.Sx)
	return udkf.StatusOK
}

// String renders the Estimator's dimensions for logging.
func (e *Estimator) String() string {
	return fmt.Sprintf("ukf.Estimator{n=%d, m=%d}", e.n, e.m)
}
