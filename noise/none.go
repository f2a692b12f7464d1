package noise

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/sigmafold/udkf"
	"github.com/sigmafold/udkf/ud"
)

// None is noise with empty mean and zero covariance matrix.
// None is different from Zero: its mean vector length is 0 and its covariance matrix is zero size.
type None struct{}

// NewNone creates new None noise and returns it
func NewNone() (*None, error) {
	return &None{}, nil
}

// Sample returns zero size vector.
func (e *None) Sample() mat.Vector {
	sample := &mat.VecDense{}

	return sample
}

// Cov returns zero size covariance matrix.
func (e *None) Cov() mat.Symmetric {
	cov := &mat.SymDense{}

	return cov
}

// Mean returns None mean.
func (e *None) Mean() []float64 {
	var mean []float64

	return mean
}

// Factor always fails: an empty noise source has no dimension to
// factorize. It exists so None satisfies the same factor-producing shape
// as Gaussian and Zero for callers that branch over noise sources
// generically.
func (e *None) Factor() (*ud.Factor, udkf.Status) {
	return nil, udkf.StatusInvArg1
}

// Reset does nothing: None has no internal RNG state to reset.
func (e *None) Reset() {}

// String implements the Stringer interface.
func (e *None) String() string {
	return fmt.Sprintf("None{\nMean=%v\nCov=%v\n}", e.Mean(), mat.Formatted(e.Cov(), mat.Prefix("    "), mat.Squeeze()))
}
