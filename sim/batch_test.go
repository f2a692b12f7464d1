package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestBatchNoise(t *testing.T) {
	cov := mat.NewSymDense(2, []float64{0.25, 0, 0, 0.05})

	samples, err := BatchNoise(cov, 20)
	assert.NoError(t, err)
	rows, cols := samples.Dims()
	assert.Equal(t, 2, rows)
	assert.Equal(t, 20, cols)

	_, err = BatchNoise(cov, 0)
	assert.Error(t, err)
}
