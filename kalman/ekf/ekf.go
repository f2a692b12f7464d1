// Package ekf implements a UD-factorized Extended Kalman Filter: an EKF
// that carries its covariance as a (U, D) factor pair and never
// materializes the dense covariance matrix, with eight scalar
// measurement-update variants (plain/adaptive/robust/adaptive-robust,
// each in Bierman or Joseph form) built on top of the shared kernels in
// kalman/kernel.
package ekf

import (
	"fmt"

	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/kalman/kernel"
	"github.com/sigmafold/udkf/ud"
)

// StateFunc evaluates a vector-valued function of the state, e.g. the
// process model f(x) or the measurement model h(x). It must not retain
// x and must return a freshly allocated slice.
type StateFunc func(x []float64) []float64

// JacFunc evaluates a Jacobian at x, returned as a dense row-major
// matrix: n*n for the process Jacobian, n_z*n for the measurement
// Jacobian. It must not retain x.
type JacFunc func(x []float64) []float64

// ResidualFunc computes a measurement residual y = zrf(z, hx), overriding
// the default y = z - hx. Used for measurements with wraparound (e.g.
// angles) where plain subtraction is wrong.
type ResidualFunc func(z, hx []float64) []float64

// Config collects an Estimator's optional behavior: the process model,
// the residual function, and the robust influence function pair. H and
// JH (the measurement model and its Jacobian) are always required and
// passed to New directly.
type Config struct {
	// F is the process model f(x). Nil means f(x) = x (a random walk).
	F StateFunc
	// JF is the process Jacobian, evaluated at the propagated state.
	// Required whenever F is non-nil.
	JF JacFunc
	// ZRF overrides the default residual y = z - h(x).
	ZRF ResidualFunc
	// G and GDot are the robust M-estimator influence function and its
	// derivative. Both nil means no robustification (gdot == 1 always).
	// Required by the Robust* and AdaptiveRobust* Update methods.
	G, GDot kernel.RobustFunc
	// Chi2 is the adaptive divergence threshold. Zero means
	// kernel.DefaultChi2. Used by the Adaptive* and AdaptiveRobust*
	// Update methods.
	Chi2 float64
}

// Estimator is a UD-factorized Extended Kalman Filter for an n-state,
// m-measurement system. Its buffers (y, Hy, and the w/d/f/v/k scratch
// vectors) are allocated once in New and reused by every Predict/Update
// call: none of them allocate on the hot path.
type Estimator struct {
	n, m int

	X  []float64  // current state estimate, length n
	Up *ud.Factor // state covariance factor, dimension n
	Uq *ud.Factor // process noise factor, dimension n
	Ur *ud.Factor // measurement noise factor, dimension m (Ur.D holds the decorrelated per-scalar variances)

	H  StateFunc
	JH JacFunc

	cfg Config

	y  []float64 // residual, length m
	Hy []float64 // measurement Jacobian, m*n row-major
	w  []float64 // MWGS/Joseph scratch, n*2n
	d  []float64 // MWGS/Joseph weight scratch, 2n
	f  []float64 // per-scalar scratch, length n
	v  []float64 // per-scalar scratch, length n
	k  []float64 // per-scalar Kalman gain scratch, length n
}

// New builds an Estimator for an n-state, m-measurement system with
// initial state x0, initial state covariance factor up, process noise
// factor uq, and measurement noise factor ur (dimension m). h and jh are
// the measurement model and its Jacobian; cfg configures the process
// model and the adaptive/robust behavior. up, uq and ur are copied; the
// caller keeps ownership of the originals.
func New(x0 []float64, up, uq, ur *ud.Factor, h StateFunc, jh JacFunc, cfg Config) (*Estimator, udkf.Status) {
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
	if h == nil || jh == nil {
		return nil, udkf.StatusInvArg3
	}
	if cfg.F != nil && cfg.JF == nil {
		return nil, udkf.StatusInvArg3
	}
	if cfg.Chi2 == 0 {
		cfg.Chi2 = kernel.DefaultChi2
	}

	x := make([]float64, n)
	copy(x, x0)

	return &Estimator{
		n: n, m: m,
		X: x, Up: up.Copy(), Uq: uq.Copy(), Ur: ur.Copy(),
		H: h, JH: jh, cfg: cfg,
		y:  make([]float64, m),
		Hy: make([]float64, m*n),
		w:  make([]float64, n*2*n),
		d:  make([]float64, 2*n),
		f:  make([]float64, n),
		v:  make([]float64, n),
		k:  make([]float64, n),
	}, udkf.StatusOK
}

// Predict propagates the state and covariance one step: x <- f(x), then
// Up, Dp <- MWGS triangularization of [F.Up | Uq] weighted by [Dp | Dq].
// If cfg.F is nil, f is the identity and F is the identity Jacobian.
// The process Jacobian, when supplied, is evaluated at the
// already-propagated state, matching the reference implementation this
// module is ported from.
func (e *Estimator) Predict() udkf.Status {
	n := e.n

	var jac []float64
	if e.cfg.F != nil {
		e.X = e.cfg.F(e.X)
		jac = e.cfg.JF(e.X)
		if len(jac) != n*n {
			return udkf.StatusInvArg1
		}
	}

	left := ud.View{Data: e.w, Stride: 2 * n, Rows: n, Cols: n, ColOff: 0}
	right := ud.View{Data: e.w, Stride: 2 * n, Rows: n, Cols: n, ColOff: n}

	if jac != nil {
		if st := ud.BSetDense(left, jac); st.IsErr() {
			return st
		}
	} else {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				v := 0.0
				if i == j {
					v = 1.0
				}
				left.Set(i, j, v)
			}
		}
	}

	if st := ud.BSetBU(left, e.Up); st.IsErr() {
		return st
	}
	if st := ud.BSetU(right, e.Uq); st.IsErr() {
		return st
	}

	copy(e.d[:n], e.Up.D)
	copy(e.d[n:2*n], e.Uq.D)

	return ud.Mwgsu(e.Up, 2*n, e.w, e.d)
}

// scalarPrep computes f = H_i.Up and v = Dp.f for decorrelated
// measurement row i, and returns its scalar variance Ur.D[i].
func (e *Estimator) scalarPrep(i int) float64 {
	h := e.Hy[i*e.n : i*e.n+e.n]
	ud.VtU(e.Up, e.f, h)
	ud.SetDV(e.v, e.Up.D, e.f)
	return e.Ur.D[i]
}

// prepareResidual evaluates h(x) and its Jacobian, computes the
// residual, and decorrelates both the residual and the Jacobian rows by
// Ur so the m scalar updates that follow can assume independent
// measurement noise. Shared by every Update* variant.
func (e *Estimator) prepareResidual(z []float64) udkf.Status {
	if len(z) != e.m {
		return udkf.StatusInvArg2
	}
	hx := e.H(e.X)
	if len(hx) != e.m {
		return udkf.StatusInvArg1
	}
	jac := e.JH(e.X)
	if len(jac) != e.m*e.n {
		return udkf.StatusInvArg1
	}
	copy(e.Hy, jac)

	if e.cfg.ZRF != nil {
		copy(e.y, e.cfg.ZRF(z, hx))
	} else {
		for j := range e.y {
			e.y[j] = z[j] - hx[j]
		}
	}

	if st := ud.Ruv(e.Ur, e.y); st.IsErr() {
		return st
	}
	return ud.Rum(e.Ur, e.m, e.Hy)
}

// String renders the Estimator's dimensions for logging.
func (e *Estimator) String() string {
	return fmt.Sprintf("ekf.Estimator{n=%d, m=%d}", e.n, e.m)
}
