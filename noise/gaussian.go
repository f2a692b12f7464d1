package noise

import (
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/ud"
)

// Gaussian is gaussian noise
type Gaussian struct {
	// dist is a multivariate normal distribution
	dist *distmv.Normal
	// mean is Gaussian mean
	mean []float64
	// cov is Gaussian covariance
	cov mat.Symmetric
}

// NewGaussian creates new Gaussian noise with given mean and covariance.
// It returns error if it fails to create Gaussian.
func NewGaussian(mean []float64, cov mat.Symmetric) (*Gaussian, error) {
	dist, ok := newGaussianDist(mean, cov)
	if !ok {
		return nil, fmt.Errorf("Failed to create new Gaussian noise")
	}

	return &Gaussian{
		dist: dist,
		mean: mean,
		cov:  cov,
	}, nil
}

// Sample generates a sample from Gaussian noise and returns it.
func (g *Gaussian) Sample() mat.Vector {
	r := g.dist.Rand(nil)
	return mat.NewVecDense(len(r), r)
}

// Cov returns covariance matrix of Gaussian noise.
func (g *Gaussian) Cov() mat.Symmetric {
	return g.cov
}

// Mean returns Gaussian mean.
func (g *Gaussian) Mean() []float64 {
	return g.mean
}

// Factor returns the UD factorization of the Gaussian's covariance, the
// form every estimator in kalman/ekf and kalman/ukf expects for its
// noise buffers (U_q, U_r). Building it here, once, at noise-source
// construction time means the hot predict/update path never touches a
// dense covariance.
func (g *Gaussian) Factor() (*ud.Factor, udkf.Status) {
	n := g.cov.Symmetric()
	dense := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			dense[i*n+j] = g.cov.At(i, j)
		}
	}
	return ud.Factorize(n, dense)
}

// Reset resets Gaussian noise.
// It returns error if it fails to reset the noise.
func (g *Gaussian) Reset() error {
	dist, ok := newGaussianDist(g.mean, g.cov)
	if !ok {
		return fmt.Errorf("Failed to reset Gaussian noise")
	}
	g.dist = dist

	return nil
}

func newGaussianDist(mean []float64, cov mat.Symmetric) (*distmv.Normal, bool) {
	seed := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	// cov is square; rows and cols are the same size
	size, _ := cov.Dims()
	if len(mean) != size {
		return nil, false
	}
	return distmv.NewNormal(mean, cov, seed)
}

// String implements the Stringer interface.
func (g *Gaussian) String() string {
	return fmt.Sprintf("Gaussian{\nMean=%v\nCov=%v\n}", g.mean, mat.Formatted(g.cov, mat.Prefix("    "), mat.Squeeze()))
}
