package ud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newView(n, m int) ([]float64, View) {
	data := make([]float64, n*m)
	return data, View{Data: data, Stride: m, Rows: n, Cols: m}
}

func TestBSetUAndBSetUT(t *testing.T) {
	u := New(2)
	u.Set(0, 1, 2.5)

	_, v := newView(2, 2)
	assert.False(t, BSetU(v, u).IsErr())
	assert.Equal(t, 1.0, v.At(0, 0))
	assert.Equal(t, 2.5, v.At(0, 1))
	assert.Equal(t, 0.0, v.At(1, 0))
	assert.Equal(t, 1.0, v.At(1, 1))

	_, vt := newView(2, 2)
	assert.False(t, BSetUT(vt, u).IsErr())
	assert.Equal(t, 2.5, vt.At(1, 0))
	assert.Equal(t, 0.0, vt.At(0, 1))
}

func TestBSetV(t *testing.T) {
	_, v := newView(3, 2)
	assert.False(t, BSetV(v, 1, []float64{1, 2, 3}).IsErr())
	assert.Equal(t, 1.0, v.At(0, 1))
	assert.Equal(t, 2.0, v.At(1, 1))
	assert.Equal(t, 3.0, v.At(2, 1))
	assert.Equal(t, 0.0, v.At(0, 0))
}

func TestBSetVVt(t *testing.T) {
	_, v := newView(2, 2)
	assert.False(t, BSetVVt(v, []float64{1, 2}, []float64{3, 4}).IsErr())
	assert.Equal(t, 3.0, v.At(0, 0))
	assert.Equal(t, 4.0, v.At(0, 1))
	assert.Equal(t, 6.0, v.At(1, 0))
	assert.Equal(t, 8.0, v.At(1, 1))
}

func TestBSubU(t *testing.T) {
	u := New(2)
	u.Set(0, 1, 1.0)
	data, v := newView(2, 2)
	for i := range data {
		data[i] = 5.0
	}
	assert.False(t, BSubU(v, u).IsErr())
	assert.Equal(t, 4.0, v.At(0, 0))
	assert.Equal(t, 4.0, v.At(0, 1))
	assert.Equal(t, 5.0, v.At(1, 0))
	assert.Equal(t, 4.0, v.At(1, 1))
}

func TestBSetBU(t *testing.T) {
	// dst = B = [[1,0],[0,1]], U = [[1,2],[0,1]] -> dst*U = U
	u := New(2)
	u.Set(0, 1, 2.0)
	data, v := newView(2, 2)
	data[0], data[3] = 1.0, 1.0
	assert.False(t, BSetBU(v, u).IsErr())
	assert.InDelta(t, 1.0, v.At(0, 0), 1e-12)
	assert.InDelta(t, 2.0, v.At(0, 1), 1e-12)
	assert.InDelta(t, 0.0, v.At(1, 0), 1e-12)
	assert.InDelta(t, 1.0, v.At(1, 1), 1e-12)
}

func TestViewOffset(t *testing.T) {
	data := make([]float64, 4*4)
	full := View{Data: data, Stride: 4, Rows: 4, Cols: 4}
	sub := View{Data: data, Stride: 4, RowOff: 1, ColOff: 1, Rows: 2, Cols: 2}
	sub.Set(0, 0, 9.0)
	assert.Equal(t, 9.0, full.At(1, 1))
}
