package ud

import "github.com/sigmafold/udkf"

// View is a rectangular window into a row-major scratch buffer (the
// estimator's W scratchpad). It lets the EKF/UKF drivers address
// sub-blocks of W (e.g. the left/right halves stacked for MWGS) without
// copying, mirroring yafl's block macros (bset_u, bset_ut, bset_v,
// bset_vvt, bsub_u, BSET_BU) but with compiler-checked bounds instead of
// #define-based offset arithmetic.
type View struct {
	Data           []float64
	Stride         int // distance between rows in Data
	RowOff, ColOff int
	Rows, Cols     int
}

func (v View) at(i, j int) int {
	return (v.RowOff+i)*v.Stride + v.ColOff + j
}

// At returns the (i, j) entry of the view.
func (v View) At(i, j int) float64 {
	return v.Data[v.at(i, j)]
}

// Set writes the (i, j) entry of the view.
func (v View) Set(i, j int, val float64) {
	v.Data[v.at(i, j)] = val
}

func (v View) checkSquare(n int) udkf.Status {
	if v.Rows != n || v.Cols != n {
		return udkf.StatusInvArg1
	}
	return udkf.StatusOK
}

// BSetDense copies the dense row-major matrix m (dst.Rows x dst.Cols)
// into dst verbatim. Used to seed a block with a Jacobian or other
// ordinary matrix before BSetBU right-multiplies it by a factor.
func BSetDense(dst View, m []float64) udkf.Status {
	if len(m) != dst.Rows*dst.Cols {
		return udkf.StatusInvArg1
	}
	for i := 0; i < dst.Rows; i++ {
		for j := 0; j < dst.Cols; j++ {
			dst.Set(i, j, m[i*dst.Cols+j])
		}
	}
	return udkf.StatusOK
}

// BSetU writes the unit upper-triangular U into the n x n block dst.
func BSetU(dst View, u *Factor) udkf.Status {
	n := u.N
	if st := dst.checkSquare(n); st.IsErr() {
		return st
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dst.Set(i, j, u.At(i, j))
		}
	}
	return udkf.StatusOK
}

// BSetUT writes the transpose U^T into the n x n block dst.
func BSetUT(dst View, u *Factor) udkf.Status {
	n := u.N
	if st := dst.checkSquare(n); st.IsErr() {
		return st
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dst.Set(i, j, u.At(j, i))
		}
	}
	return udkf.StatusOK
}

// BSetV copies vector v into column col of dst.
func BSetV(dst View, col int, v []float64) udkf.Status {
	if len(v) != dst.Rows || col < 0 || col >= dst.Cols {
		return udkf.StatusInvArg1
	}
	for i, val := range v {
		dst.Set(i, col, val)
	}
	return udkf.StatusOK
}

// BSetVVt writes the outer product a*b^T into the dst block, with dst
// shaped len(a) x len(b).
func BSetVVt(dst View, a, b []float64) udkf.Status {
	if dst.Rows != len(a) || dst.Cols != len(b) {
		return udkf.StatusInvArg1
	}
	for i, ai := range a {
		for j, bj := range b {
			dst.Set(i, j, ai*bj)
		}
	}
	return udkf.StatusOK
}

// BSubU subtracts the unit upper-triangular U from the n x n block dst
// in place.
func BSubU(dst View, u *Factor) udkf.Status {
	n := u.N
	if st := dst.checkSquare(n); st.IsErr() {
		return st
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dst.Set(i, j, dst.At(i, j)-u.At(i, j))
		}
	}
	return udkf.StatusOK
}

// BSetBU overwrites the n x n block dst with dst * U, the in-place
// right-multiplication of the block currently in dst by the unit
// upper-triangular factor u. Used by the EKF predict step to turn the
// Jacobian block F sitting in W into F*Up.
func BSetBU(dst View, u *Factor) udkf.Status {
	n := u.N
	if st := dst.checkSquare(n); st.IsErr() {
		return st
	}
	// Right-multiplying by a unit upper-triangular matrix: column j of
	// the result is column j of B plus a combination of columns < j.
	// Process columns right-to-left so each column only ever reads
	// not-yet-overwritten source columns.
	for j := n - 1; j >= 0; j-- {
		for i := 0; i < n; i++ {
			s := dst.At(i, j)
			for k := 0; k < j; k++ {
				s += dst.At(i, k) * u.At(k, j)
			}
			dst.Set(i, j, s)
		}
	}
	return udkf.StatusOK
}
