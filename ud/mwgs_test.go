package ud

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMwgsuMatchesWeightedGramMatrix(t *testing.T) {
	// w is 2 x 3 (dst.N=2 output rows, m=3 weighted columns).
	w := []float64{
		1, 0, 1,
		0, 1, 1,
	}
	d := []float64{2, 3, 1}

	dst := New(2)
	scratch := make([]float64, len(w))
	copy(scratch, w)
	assert.False(t, Mwgsu(dst, 3, scratch, d).IsErr())

	// want = w * diag(d) * w^T
	var want [2][2]float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			var s float64
			for k := 0; k < 3; k++ {
				s += d[k] * w[i*3+k] * w[j*3+k]
			}
			want[i][j] = s
		}
	}

	got := dst.Dense()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, want[i][j], got.At(i, j), 1e-9)
		}
	}
}

func TestMwgsuRejectsDegenerateRow(t *testing.T) {
	w := []float64{
		0, 0,
		1, 1,
	}
	d := []float64{1, 1}
	dst := New(2)
	assert.True(t, Mwgsu(dst, 2, w, d).IsErr())
}

func TestMwgsuDiagonalInput(t *testing.T) {
	w := []float64{
		2, 0,
		0, 3,
	}
	d := []float64{1, 1}
	dst := New(2)
	assert.False(t, Mwgsu(dst, 2, w, d).IsErr())
	assert.InDelta(t, 4.0, dst.D[0], 1e-12)
	assert.InDelta(t, 9.0, dst.D[1], 1e-12)
	assert.InDelta(t, 0.0, dst.At(0, 1), 1e-12)
}
