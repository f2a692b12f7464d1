package ud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVtUAndUv(t *testing.T) {
	f := New(3)
	f.Set(0, 1, 2.0)
	f.Set(0, 2, -1.0)
	f.Set(1, 2, 0.5)

	v := []float64{1, 2, 3}
	uv := make([]float64, 3)
	assert.False(t, Uv(f, uv, v).IsErr())
	// k = U*v: k[0]=v0+2*v1-1*v2=1+4-3=2; k[1]=v1+0.5*v2=2+1.5=3.5; k[2]=v2=3
	assert.InDelta(t, 2.0, uv[0], 1e-12)
	assert.InDelta(t, 3.5, uv[1], 1e-12)
	assert.InDelta(t, 3.0, uv[2], 1e-12)

	vtu := make([]float64, 3)
	assert.False(t, VtU(f, vtu, v).IsErr())
	// f = U^T*v: f[0]=v0=1; f[1]=v1+2*v0=2+2=4; f[2]=v2-1*v0+0.5*v1=3-1+1=3
	assert.InDelta(t, 1.0, vtu[0], 1e-12)
	assert.InDelta(t, 4.0, vtu[1], 1e-12)
	assert.InDelta(t, 3.0, vtu[2], 1e-12)
}

func TestVtUAliasing(t *testing.T) {
	f := New(2)
	f.Set(0, 1, 3.0)
	v := []float64{1, 2}
	assert.False(t, VtU(f, v, v).IsErr())
	assert.InDelta(t, 1.0, v[0], 1e-12)
	assert.InDelta(t, 5.0, v[1], 1e-12)
}

func TestVtv(t *testing.T) {
	s, st := Vtv([]float64{1, 2, 3}, []float64{4, 5, 6})
	assert.False(t, st.IsErr())
	assert.InDelta(t, 32.0, s, 1e-12)

	_, st = Vtv([]float64{1}, []float64{1, 2})
	assert.True(t, st.IsErr())
}

func TestSetDVAndSetRDV(t *testing.T) {
	d := []float64{2, 4}
	v := []float64{3, 5}
	dst := make([]float64, 2)
	assert.False(t, SetDV(dst, d, v).IsErr())
	assert.Equal(t, []float64{6, 20}, dst)

	assert.False(t, SetRDV(dst, d, v).IsErr())
	assert.InDelta(t, 1.5, dst[0], 1e-12)
	assert.InDelta(t, 1.25, dst[1], 1e-12)

	assert.True(t, SetRDV(dst, []float64{0, 1}, v).IsErr())
}

func TestRuvBackSubstitution(t *testing.T) {
	f := New(3)
	f.Set(0, 1, 1.0)
	f.Set(1, 2, -2.0)
	f.Set(0, 2, 0.0)

	y := []float64{0, 0, 5}
	assert.False(t, Ruv(f, y).IsErr())
	// y[1] = 0 - (-2)*5 = 10; y[0] = 0 - 1*10 = -10; y[2] unchanged = 5
	assert.InDelta(t, -10.0, y[0], 1e-12)
	assert.InDelta(t, 10.0, y[1], 1e-12)
	assert.InDelta(t, 5.0, y[2], 1e-12)
}

func TestRum(t *testing.T) {
	f := New(2)
	f.Set(0, 1, 1.0)
	a := []float64{0, 1, 0, 2}
	assert.False(t, Rum(f, 2, a).IsErr())
	assert.InDelta(t, -1.0, a[0], 1e-12)
	assert.InDelta(t, 1.0, a[1], 1e-12)
	assert.InDelta(t, -2.0, a[2], 1e-12)
	assert.InDelta(t, 2.0, a[3], 1e-12)
}

func TestSetVtM(t *testing.T) {
	w := []float64{0.5, 0.5}
	m := []float64{1, 2, 3, 4}
	dst := make([]float64, 2)
	assert.False(t, SetVtM(2, 2, dst, w, m).IsErr())
	assert.InDelta(t, 2.0, dst[0], 1e-12)
	assert.InDelta(t, 3.0, dst[1], 1e-12)
}

func TestSetAndAddVVtXN(t *testing.T) {
	a := []float64{1, 2}
	b := []float64{3, 4}
	dst := make([]float64, 4)
	assert.False(t, SetVVtXN(2, 2, dst, a, b, 2.0).IsErr())
	assert.Equal(t, []float64{6, 8, 12, 16}, dst)

	assert.False(t, AddVVtXN(2, 2, dst, a, b, 1.0).IsErr())
	assert.Equal(t, []float64{9, 12, 18, 24}, dst)
}

func TestAddVxNBreaksOnNonFinite(t *testing.T) {
	x := []float64{1, 2}
	v := []float64{1e308, 1e308}
	assert.True(t, AddVxN(x, v, 1e308).IsErr())
}
