package sim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sigmafold/udkf/rand"
)

// BatchNoise draws n independent process-noise samples from cov, one per
// column, for Monte-Carlo style simulation runs where many trajectories
// share the same noise covariance.
func BatchNoise(cov mat.Symmetric, n int) (*mat.Dense, error) {
	samples, err := rand.WithCovN(cov, n)
	if err != nil {
		return nil, fmt.Errorf("failed to draw batch noise: %v", err)
	}
	return samples, nil
}
