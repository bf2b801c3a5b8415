// Package fit estimates decay kinetics of electrophysiological events by
// nonlinear least squares.
//
// The model is the biexponential
//
//	y(x) = a1*exp(-x/tau1) + a2*exp(-x/tau2) + c
//
// fitted in milliseconds/picoamp working units, with the physiologically
// meaningful summary being the amplitude-weighted time constant.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"

	"github.com/cwbudde/algo-ephys/trace"
)

// ErrNoConverge reports a fit the optimizer could not bring to a usable
// minimum, or an event region too degenerate to fit.
var ErrNoConverge = errors.New("fit: decay fit did not converge")

// Params holds biexponential model parameters in the fit's working units
// (amplitudes in pA, time constants in ms).
type Params struct {
	A1   float64
	Tau1 float64
	A2   float64
	Tau2 float64
	C    float64
}

// Eval returns the model value at x (ms).
func (p Params) Eval(x float64) float64 {
	return p.A1*math.Exp(-x/p.Tau1) + p.A2*math.Exp(-x/p.Tau2) + p.C
}

// WeightedTau returns the amplitude-weighted time constant in seconds.
func (p Params) WeightedTau() float64 {
	return (p.Tau1*p.A1 + p.Tau2*p.A2) / (p.A1 + p.A2) * 1e-3
}

// DecayResult holds a fitted event decay.
type DecayResult struct {
	// Tau is the amplitude-weighted time constant in seconds.
	Tau float64
	// Params are the raw model parameters (ms/pA working units).
	Params Params

	// X is the time axis from the peak onward, zeroed at the peak (s).
	// Y is the raw channel subset over X, and Fitted the model curve over
	// X, both in the channel's units. Useful for overlay plotting.
	X      []float64
	Y      []float64
	Fitted []float64
}

// Decay fits the biexponential model to the decay phase of an event.
//
// The sweep's channel is expected to be baselined, in amps, with time in
// seconds. pk locates the event extremum (see trace.Sweep.FindPeak). The
// fitted region runs from where the signal has decayed to 90% of the peak
// down to 5%.
func Decay(sw *trace.Sweep, channel string, pk trace.Peak) (*DecayResult, error) {
	values, ok := sw.Channel(channel)
	if !ok {
		return nil, fmt.Errorf("%w: %q in sweep %q", trace.ErrMissingChannel, channel, sw.Name)
	}

	// Samples from the peak onward.
	start := pk.Index
	if start < 0 || start >= len(values) {
		return nil, fmt.Errorf("%w: peak index %d out of range", ErrNoConverge, start)
	}
	tail := values[start:]
	tailTime := sw.Time[start:]

	i1, i2, err := decayRegion(tail, pk.Amp)
	if err != nil {
		return nil, err
	}

	// Working units: ms from region start, pA.
	x := make([]float64, i2-i1+1)
	y := make([]float64, i2-i1+1)
	for i := range x {
		x[i] = (tailTime[i1+i] - tailTime[i1]) * 1e3
		y[i] = tail[i1+i] * 1e12
	}

	params, err := leastSquares(x, y, initialGuess(x, y))
	if err != nil {
		return nil, err
	}
	if params.A1+params.A2 == 0 {
		return nil, fmt.Errorf("%w: degenerate amplitudes", ErrNoConverge)
	}

	// Overlay curves over the full post-peak region, back in input units.
	fullX := make([]float64, len(tail))
	fullY := append([]float64(nil), tail...)
	fitted := make([]float64, len(tail))
	for i := range fullX {
		fullX[i] = tailTime[i] - tailTime[0]
		fitted[i] = params.Eval(fullX[i]*1e3) * 1e-12
	}

	return &DecayResult{
		Tau:    params.WeightedTau(),
		Params: params,
		X:      fullX,
		Y:      fullY,
		Fitted: fitted,
	}, nil
}

// decayRegion locates the 90%..5%-of-peak span of the decay phase.
func decayRegion(tail []float64, peak float64) (i1, i2 int, err error) {
	i1, i2 = -1, -1
	if peak < 0 {
		for i, v := range tail {
			if i1 < 0 && v >= peak*0.90 {
				i1 = i
			}
			if v >= peak*0.05 {
				i2 = i
				break
			}
		}
	} else {
		for i, v := range tail {
			if i1 < 0 && v <= peak*0.90 {
				i1 = i
			}
			if v <= peak*0.05 {
				i2 = i
				break
			}
		}
	}
	if i1 < 0 || i2 < 0 || i2 <= i1+3 {
		return 0, 0, fmt.Errorf("%w: decay region too short (%d..%d)", ErrNoConverge, i1, i2)
	}
	return i1, i2, nil
}

// initialGuess seeds the search with the amplitude split evenly between the
// two components and time constants spread across the region span.
func initialGuess(x, y []float64) Params {
	amp := y[0] / 2
	if amp == 0 {
		amp = 1
	}
	span := x[len(x)-1] - x[0]
	if span <= 0 {
		span = 1
	}
	return Params{A1: amp, Tau1: span / 5, A2: amp, Tau2: span / 2}
}

// leastSquares minimizes the residual sum of squares of the model over the
// data with a derivative-free simplex search.
func leastSquares(x, y []float64, guess Params) (Params, error) {
	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			m := Params{A1: p[0], Tau1: p[1], A2: p[2], Tau2: p[3], C: p[4]}
			if m.Tau1 <= 0 || m.Tau2 <= 0 {
				return math.Inf(1)
			}
			var sse float64
			for i := range x {
				r := y[i] - m.Eval(x[i])
				sse += r * r
			}
			return sse
		},
	}

	x0 := []float64{guess.A1, guess.Tau1, guess.A2, guess.Tau2, guess.C}
	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil {
		return Params{}, fmt.Errorf("%w: %v", ErrNoConverge, err)
	}
	if result.Status == optimize.Failure || math.IsInf(result.F, 0) || math.IsNaN(result.F) {
		return Params{}, fmt.Errorf("%w: status %v", ErrNoConverge, result.Status)
	}

	p := result.X
	return Params{A1: p[0], Tau1: p[1], A2: p[2], Tau2: p[3], C: p[4]}, nil
}
