package ud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func denseAdd(f *Factor, v []float64, scale float64) *mat.Dense {
	n := f.N
	p := f.Dense()
	out := mat.NewDense(n, n, nil)
	out.CloneFrom(p)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			out.Set(i, j, out.At(i, j)+scale*v[i]*v[j])
		}
	}
	return out
}

func TestUduUpMatchesDenseRankOneUpdate(t *testing.T) {
	p := []float64{4, 1, 1, 3}
	f, st := Factorize(2, p)
	assert.False(t, st.IsErr())

	v := []float64{1.0, 0.5}
	want := denseAdd(f, v, 1.0)

	assert.False(t, UduUp(f, v).IsErr())
	got := f.Dense()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), 1e-9)
		}
	}
}

func TestUduDownMatchesDenseRankOneDowndate(t *testing.T) {
	p := []float64{10, 1, 1, 10}
	f, st := Factorize(2, p)
	assert.False(t, st.IsErr())

	v := []float64{0.5, 0.2}
	want := denseAdd(f, v, -1.0)

	assert.False(t, UduDown(f, v).IsErr())
	got := f.Dense()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), 1e-9)
		}
	}
}

func TestUduDownRejectsNonPositiveResult(t *testing.T) {
	f := New(2) // P = I
	v := []float64{10, 0}
	assert.True(t, UduDown(f, v).IsErr())
}

func TestUduUpScaledNegative(t *testing.T) {
	p := []float64{10, 0, 0, 10}
	f, _ := Factorize(2, p)
	v := []float64{1, 1}
	want := denseAdd(f, v, -0.5)
	assert.False(t, UduUpScaled(f, v, -0.5).IsErr())
	got := f.Dense()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, want.At(i, j), got.At(i, j), 1e-9)
		}
	}
}
