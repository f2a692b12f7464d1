package ud

import (
	"math"

	"github.com/sigmafold/udkf"
)

// VtU computes dst = U^T * v: dst[j] = v[j] + sum_{i<j} U[i,j]*v[i]. dst
// and v may alias.
func VtU(f *Factor, dst, v []float64) udkf.Status {
	n := f.N
	if len(dst) != n || len(v) != n {
		return udkf.StatusInvArg1
	}
	out := make([]float64, n)
	for j := 0; j < n; j++ {
		s := v[j]
		for i := 0; i < j; i++ {
			s += f.At(i, j) * v[i]
		}
		out[j] = s
	}
	copy(dst, out)
	return udkf.StatusOK
}

// Uv computes k = U * v: k[i] = v[i] + sum_{j>i} U[i,j]*v[j]. dst and v
// may alias.
func Uv(f *Factor, dst, v []float64) udkf.Status {
	n := f.N
	if len(dst) != n || len(v) != n {
		return udkf.StatusInvArg1
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		s := v[i]
		for j := i + 1; j < n; j++ {
			s += f.At(i, j) * v[j]
		}
		out[i] = s
	}
	copy(dst, out)
	return udkf.StatusOK
}

// Vtv computes s = a^T . b.
func Vtv(a, b []float64) (float64, udkf.Status) {
	if len(a) != len(b) {
		return 0, udkf.StatusInvArg1
	}
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s, udkf.StatusOK
}

// SetDV computes r[i] = D[i] * v[i].
func SetDV(dst, d, v []float64) udkf.Status {
	if len(dst) != len(d) || len(d) != len(v) {
		return udkf.StatusInvArg1
	}
	for i := range dst {
		dst[i] = d[i] * v[i]
	}
	return udkf.StatusOK
}

// SetRDV computes r[i] = v[i] / D[i].
func SetRDV(dst, d, v []float64) udkf.Status {
	if len(dst) != len(d) || len(d) != len(v) {
		return udkf.StatusInvArg1
	}
	for i := range dst {
		if d[i] == 0 {
			return udkf.StatusNumericalBreakdown
		}
		dst[i] = v[i] / d[i]
	}
	return udkf.StatusOK
}

// SetVxN computes r = v * s (scale).
func SetVxN(dst, v []float64, s float64) udkf.Status {
	if len(dst) != len(v) {
		return udkf.StatusInvArg1
	}
	for i := range dst {
		dst[i] = v[i] * s
	}
	return udkf.StatusOK
}

// AddVxN computes x += s * v.
func AddVxN(x, v []float64, s float64) udkf.Status {
	if len(x) != len(v) {
		return udkf.StatusInvArg1
	}
	for i := range x {
		val := x[i] + s*v[i]
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return udkf.StatusNumericalBreakdown
		}
		x[i] = val
	}
	return udkf.StatusOK
}

// Ruv solves U*y' = y for y' and overwrites y in place, back-substituting
// against the unit upper-triangular U (highest index first).
func Ruv(f *Factor, y []float64) udkf.Status {
	n := f.N
	if len(y) != n {
		return udkf.StatusInvArg1
	}
	for i := n - 2; i >= 0; i-- {
		s := y[i]
		for j := i + 1; j < n; j++ {
			s -= f.At(i, j) * y[j]
		}
		y[i] = s
	}
	return udkf.StatusOK
}

// Rum applies Ruv to every row of the m x n row-major matrix a in place.
func Rum(f *Factor, m int, a []float64) udkf.Status {
	n := f.N
	if len(a) != m*n {
		return udkf.StatusInvArg1
	}
	for r := 0; r < m; r++ {
		if st := Ruv(f, a[r*n:r*n+n]); st.IsErr() {
			return st
		}
	}
	return udkf.StatusOK
}

// RutV computes y = U^T * y in place (the forward pass dual of Ruv).
func RutV(f *Factor, y []float64) udkf.Status {
	n := f.N
	if len(y) != n {
		return udkf.StatusInvArg1
	}
	tmp := make([]float64, n)
	if st := VtU(f, tmp, y); st.IsErr() {
		return st
	}
	copy(y, tmp)
	return udkf.StatusOK
}

// SetVtM computes r = w^T * M, with M an np x nz row-major matrix and w
// length np: r[j] = sum_i w[i]*M[i,j]. Used to compute a sigma-point
// weighted mean.
func SetVtM(np, nz int, dst, w, m []float64) udkf.Status {
	if len(w) != np || len(m) != np*nz || len(dst) != nz {
		return udkf.StatusInvArg1
	}
	for j := 0; j < nz; j++ {
		dst[j] = 0
	}
	for i := 0; i < np; i++ {
		wi := w[i]
		row := m[i*nz : i*nz+nz]
		for j := 0; j < nz; j++ {
			dst[j] += wi * row[j]
		}
	}
	return udkf.StatusOK
}

// SetVVtXN computes the nz x nx outer-product block dst = s * a * b^T,
// with dst, a, b row-major/flat and dst of length nz*nx.
func SetVVtXN(nz, nx int, dst, a, b []float64, s float64) udkf.Status {
	if len(a) != nz || len(b) != nx || len(dst) != nz*nx {
		return udkf.StatusInvArg1
	}
	for i := 0; i < nz; i++ {
		ai := s * a[i]
		row := dst[i*nx : i*nx+nx]
		for j := 0; j < nx; j++ {
			row[j] = ai * b[j]
		}
	}
	return udkf.StatusOK
}

// AddVVtXN accumulates dst += s * a * b^T, same shapes as SetVVtXN.
func AddVVtXN(nz, nx int, dst, a, b []float64, s float64) udkf.Status {
	if len(a) != nz || len(b) != nx || len(dst) != nz*nx {
		return udkf.StatusInvArg1
	}
	for i := 0; i < nz; i++ {
		ai := s * a[i]
		row := dst[i*nx : i*nx+nx]
		for j := 0; j < nx; j++ {
			row[j] += ai * b[j]
		}
	}
	return udkf.StatusOK
}
