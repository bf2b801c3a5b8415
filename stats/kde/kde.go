// Package kde provides a 1-D Gaussian kernel density estimator with
// automatic bandwidth selection (Scott's rule), matching the behavior of
// the usual scientific-stack estimators.
package kde

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrDegenerate reports sample sets the estimator cannot work with: fewer
// than two samples, or a constant distribution (zero variance).
var ErrDegenerate = errors.New("kde: degenerate sample distribution")

// Estimator is a fitted kernel density estimate over one sample set.
type Estimator struct {
	samples   []float64
	bandwidth float64
}

// New fits an estimator to the samples using Scott's rule:
// bandwidth = stddev * n^(-1/5) with the sample (n-1) standard deviation.
func New(samples []float64) (*Estimator, error) {
	n := len(samples)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 samples, have %d", ErrDegenerate, n)
	}
	sigma := stat.StdDev(samples, nil)
	if sigma == 0 || math.IsNaN(sigma) {
		return nil, fmt.Errorf("%w: zero variance over %d samples", ErrDegenerate, n)
	}
	bw := sigma * math.Pow(float64(n), -1.0/5.0)
	return &Estimator{
		samples:   append([]float64(nil), samples...),
		bandwidth: bw,
	}, nil
}

// Bandwidth returns the selected kernel bandwidth.
func (e *Estimator) Bandwidth() float64 {
	return e.bandwidth
}

// Evaluate returns the estimated density at each grid point.
func (e *Estimator) Evaluate(grid []float64) []float64 {
	kernel := distuv.Normal{Mu: 0, Sigma: e.bandwidth}
	out := make([]float64, len(grid))
	inv := 1 / float64(len(e.samples))
	for i, x := range grid {
		var sum float64
		for _, s := range e.samples {
			sum += kernel.Prob(x - s)
		}
		out[i] = sum * inv
	}
	return out
}

// Grid returns n evenly spaced points spanning [min, max] inclusive.
func Grid(min, max float64, n int) ([]float64, error) {
	if n < 2 {
		return nil, fmt.Errorf("kde: grid needs at least 2 points: %d", n)
	}
	if !(max > min) {
		return nil, fmt.Errorf("kde: grid range must satisfy max > min: [%g, %g]", min, max)
	}
	return floats.Span(make([]float64, n), min, max), nil
}
