package testutil

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-ephys/trace"
)

// DeterministicSine generates a sine wave sampled at sampleRate.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for
// reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// ExpDecayCurve generates a*exp(-x/b) + c*exp(-x/d) + e over the given time
// axis, for checking decay fits against known parameters.
func ExpDecayCurve(x []float64, a, b, c, d, e float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = a*math.Exp(-v/b) + c*math.Exp(-v/d) + e
	}
	return out
}

// MockSeries builds a sweep series shaped like an acquisition import:
// a "primary" channel plus numChannels extra channels of seeded noise,
// sampled at 10 kHz. Sweeps are named sweep001, sweep002, ...
func MockSeries(seed int64, sweeps, rows, numChannels int) *trace.Series {
	rng := rand.New(rand.NewSource(seed))
	s := &trace.Series{}
	for i := 0; i < sweeps; i++ {
		sw := trace.Sweep{
			Name: trace.SweepName(i + 1),
			Time: make([]float64, rows),
		}
		for j := range sw.Time {
			sw.Time[j] = float64(j) * 1e-4
		}
		sw.Channels = append(sw.Channels, trace.Channel{
			Name:    "primary",
			Samples: gaussians(rng, rows),
		})
		for c := 0; c < numChannels; c++ {
			sw.Channels = append(sw.Channels, trace.Channel{
				Name:    channelName(c),
				Samples: gaussians(rng, rows),
			})
		}
		s.Sweeps = append(s.Sweeps, sw)
	}
	return s
}

func gaussians(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out
}

func channelName(i int) string {
	return fmt.Sprintf("channel_%d", i)
}
