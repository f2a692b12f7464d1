package ud

import "github.com/sigmafold/udkf"

// rank1 applies the Agee-Turner recursive rank-one UDU' modification in
// place: it replaces f's factorization of P with the factorization of
// P + alpha*v*v^T. v is consumed as scratch. Shared by UduUp (alpha > 0)
// and UduDown (alpha < 0); down-dates additionally fail with
// StatusNumericalBreakdown the instant a pivot stops being positive,
// since a down-date is only valid while the result stays positive
// definite.
func rank1(f *Factor, v []float64, alpha float64) udkf.Status {
	n := f.N
	if len(v) != n {
		return udkf.StatusInvArg1
	}
	a := alpha
	for j := n - 1; j >= 0; j-- {
		p := v[j]
		d := f.D[j]
		dNew := d + a*p*p
		if !(dNew > Epsilon) {
			return udkf.StatusNumericalBreakdown
		}
		f.D[j] = dNew
		b := p * a / dNew
		a = d * a / dNew
		for i := 0; i < j; i++ {
			v[i] -= p * f.At(i, j)
			f.Set(i, j, f.At(i, j)+b*v[i])
		}
	}
	return udkf.StatusOK
}

// UduUp updates f in place to the UD factorization of P + v*v^T (a
// positive rank-one update), consuming a scratch copy of v. Used to fold
// a new noise contribution, or a term of a weighted sum of outer
// products, into an existing covariance.
func UduUp(f *Factor, v []float64) udkf.Status {
	scratch := make([]float64, len(v))
	copy(scratch, v)
	return rank1(f, scratch, 1.0)
}

// UduDown updates f in place to the UD factorization of P - v*v^T (a
// negative rank-one down-date), consuming a scratch copy of v. Fails
// with StatusNumericalBreakdown, leaving f unspecified, if the result
// would not be positive definite.
func UduDown(f *Factor, v []float64) udkf.Status {
	scratch := make([]float64, len(v))
	copy(scratch, v)
	return rank1(f, scratch, -1.0)
}

// UduUpScaled updates f in place to the UD factorization of P +
// scale*v*v^T for an arbitrary scale (positive: up-date, negative:
// down-date). Used by the unscented transform, whose sigma-point weights
// w_c can be negative.
func UduUpScaled(f *Factor, v []float64, scale float64) udkf.Status {
	scratch := make([]float64, len(v))
	copy(scratch, v)
	return rank1(f, scratch, scale)
}
