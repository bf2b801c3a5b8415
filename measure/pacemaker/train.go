package pacemaker

import (
	"errors"
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-ephys/trace"
)

// ErrTooFewEvents reports a recording with fewer than two detected events,
// for which no interval statistics exist.
var ErrTooFewEvents = errors.New("pacemaker: fewer than two events detected")

// EventConfig bounds event detection on a sweep channel.
type EventConfig struct {
	// Channel names the recorded channel.
	Channel string
	// MinHeight is the event detection threshold, in the channel's units.
	// For valley detection its absolute value applies to the negated data.
	MinHeight float64
	// MinDistance suppresses smaller events within this many samples of a
	// larger one. Values below 1 mean no suppression.
	MinDistance int
	// Valleys detects negative-going events.
	Valleys bool
}

// Train is a detected event train.
type Train struct {
	// Indices are the sample indices of the events, ascending.
	Indices []int
	// Times are the event times in seconds.
	Times []float64
	// Intervals are the inter-event intervals in seconds, one fewer than
	// the events.
	Intervals []float64
	// Rates are the instantaneous frequencies 1/interval, in Hz.
	Rates []float64
}

// Events detects the event train on a sweep channel.
func Events(sw *trace.Sweep, cfg EventConfig) (*Train, error) {
	values, ok := sw.Channel(cfg.Channel)
	if !ok {
		return nil, fmt.Errorf("%w: %q in sweep %q", trace.ErrMissingChannel, cfg.Channel, sw.Name)
	}

	opts := []DetectOption{MinDistance(cfg.MinDistance)}
	if cfg.Valleys {
		opts = append(opts, Valleys(), MinHeight(math.Abs(cfg.MinHeight)))
	} else {
		opts = append(opts, MinHeight(cfg.MinHeight))
	}
	indices := DetectPeaks(values, opts...)

	tr := &Train{Indices: indices}
	tr.Times = make([]float64, len(indices))
	for i, idx := range indices {
		tr.Times[i] = sw.Time[idx]
	}
	for i := 1; i < len(tr.Times); i++ {
		isi := tr.Times[i] - tr.Times[i-1]
		tr.Intervals = append(tr.Intervals, isi)
		tr.Rates = append(tr.Rates, 1/isi)
	}
	return tr, nil
}

// BaselineRunning returns values with a trailing running average of n samples
// subtracted. The first n-1 samples, where no average exists yet, are passed
// through unshifted.
func BaselineRunning(values []float64, n int) []float64 {
	smoothed := trace.Smooth(values, n)
	out := make([]float64, len(values))
	for i, v := range values {
		avg := smoothed[i]
		if math.IsNaN(avg) {
			avg = 0
		}
		out[i] = v - avg
	}
	return out
}

// Summary condenses an event train into firing statistics.
type Summary struct {
	Events    int
	MeanRate  float64 // Hz, mean of the instantaneous rates
	MeanISI   float64 // s
	MedianISI float64 // s
	StdISI    float64 // s, sample standard deviation
	CV        float64 // coefficient of variation of the intervals
}

// Summarize computes firing statistics over the train's intervals.
func (tr *Train) Summarize() (Summary, error) {
	if len(tr.Intervals) == 0 {
		return Summary{}, ErrTooFewEvents
	}

	meanISI, err := stats.Mean(tr.Intervals)
	if err != nil {
		return Summary{}, fmt.Errorf("pacemaker: %w", err)
	}
	medianISI, err := stats.Median(tr.Intervals)
	if err != nil {
		return Summary{}, fmt.Errorf("pacemaker: %w", err)
	}
	stdISI := 0.0
	if len(tr.Intervals) > 1 {
		stdISI, err = stats.StandardDeviationSample(tr.Intervals)
		if err != nil {
			return Summary{}, fmt.Errorf("pacemaker: %w", err)
		}
	}
	meanRate, err := stats.Mean(tr.Rates)
	if err != nil {
		return Summary{}, fmt.Errorf("pacemaker: %w", err)
	}

	return Summary{
		Events:    len(tr.Indices),
		MeanRate:  meanRate,
		MeanISI:   meanISI,
		MedianISI: medianISI,
		StdISI:    stdISI,
		CV:        stdISI / meanISI,
	}, nil
}
