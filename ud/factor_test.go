package ud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIdentity(t *testing.T) {
	f := New(3)
	assert.Equal(t, 1.0, f.D[0])
	assert.Equal(t, 1.0, f.At(0, 0))
	assert.Equal(t, 0.0, f.At(0, 1))
	assert.Equal(t, 0.0, f.At(1, 0))
}

func TestSetAt(t *testing.T) {
	f := New(3)
	f.Set(0, 2, 0.5)
	assert.Equal(t, 0.5, f.At(0, 2))
	assert.Panics(t, func() { f.Set(2, 0, 1.0) })
}

func TestCopy(t *testing.T) {
	f := New(2)
	f.Set(0, 1, 2.0)
	f.D[0] = 4.0
	cp := f.Copy()
	cp.Set(0, 1, 99.0)
	assert.Equal(t, 2.0, f.At(0, 1))
	assert.NotEqual(t, f.At(0, 1), cp.At(0, 1))
}

func TestValid(t *testing.T) {
	f := New(2)
	assert.False(t, f.Valid().IsErr())
	f.D[1] = 0
	assert.True(t, f.Valid().IsErr())
}

func TestFactorizeRoundTrip(t *testing.T) {
	// P = [[4, 2], [2, 3]], SPD
	p := []float64{4, 2, 2, 3}
	f, st := Factorize(2, p)
	assert.False(t, st.IsErr())

	dense := f.Dense()
	assert.InDelta(t, 4.0, dense.At(0, 0), 1e-9)
	assert.InDelta(t, 2.0, dense.At(0, 1), 1e-9)
	assert.InDelta(t, 2.0, dense.At(1, 0), 1e-9)
	assert.InDelta(t, 3.0, dense.At(1, 1), 1e-9)
}

func TestFactorizeRejectsNonPD(t *testing.T) {
	p := []float64{1, 2, 2, 1} // eigenvalues -1, 3: not PD
	_, st := Factorize(2, p)
	assert.True(t, st.IsErr())
}

func TestFactorizeIdentity(t *testing.T) {
	p := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	f, st := Factorize(3, p)
	assert.False(t, st.IsErr())
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 1.0, f.D[i], 1e-12)
	}
	dense := f.Dense()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			assert.InDelta(t, want, dense.At(i, j), 1e-12)
		}
	}
}
