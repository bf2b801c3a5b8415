// Package membrane derives passive membrane properties from the capacitive
// transient evoked by a voltage step in whole-cell recordings.
//
// The calculation follows the standard charge-integration method: fit the
// transient decay, integrate the fitted curve for the transient charge, add
// the steady-state charge correction, then solve for access resistance,
// membrane resistance and capacitance.
package membrane

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/integrate"

	"github.com/cwbudde/algo-ephys/fit"
	"github.com/cwbudde/algo-ephys/trace"
)

// ErrMeasure reports input that cannot yield membrane properties, such as a
// zero-amplitude step or a vanishing steady-state current.
var ErrMeasure = errors.New("membrane: properties not measurable")

// Config describes the recording layout of a membrane test sweep.
type Config struct {
	// Channel names the recorded current channel, in pA.
	Channel string

	// BaselineStart and BaselineEnd bound the pre-pulse baseline window
	// (time, seconds).
	BaselineStart float64
	BaselineEnd   float64

	// PulseStart and PulseDur place the voltage step (time, seconds).
	PulseStart float64
	PulseDur   float64

	// PulseAmp is the step amplitude in mV, signed.
	PulseAmp float64
}

// Properties are the derived passive membrane properties.
type Properties struct {
	Ra  float64 // access resistance, MOhm
	Rm  float64 // membrane resistance, MOhm
	Cm  float64 // membrane capacitance, pF
	Tau float64 // membrane time constant, ms
}

// Measure computes passive membrane properties from a single membrane test
// sweep.
func Measure(sw *trace.Sweep, cfg Config) (Properties, error) {
	if cfg.PulseAmp == 0 {
		return Properties{}, fmt.Errorf("%w: zero pulse amplitude", ErrMeasure)
	}
	if _, ok := sw.Channel(cfg.Channel); !ok {
		return Properties{}, fmt.Errorf("%w: %q in sweep %q", trace.ErrMissingChannel, cfg.Channel, sw.Name)
	}

	// Work in SI units: pA -> A, mV -> V.
	data := sw.Clone()
	samples, _ := data.Channel(cfg.Channel)
	for i := range samples {
		samples[i] *= 1e-12
	}
	pulseAmp := cfg.PulseAmp * 1e-3

	data, err := data.Baseline(cfg.Channel, cfg.BaselineStart, cfg.BaselineEnd)
	if err != nil {
		return Properties{}, err
	}
	samples, _ = data.Channel(cfg.Channel)

	// Steady-state current over 70%..90% of the pulse, relative to the
	// (now zero-mean) baseline.
	iSS, err := windowMean(&data, cfg.Channel,
		cfg.PulseStart+cfg.PulseDur*0.7, cfg.PulseStart+cfg.PulseDur*0.9)
	if err != nil {
		return Properties{}, err
	}
	deltaI := iSS
	if deltaI == 0 {
		return Properties{}, fmt.Errorf("%w: zero steady-state current", ErrMeasure)
	}

	// Strip the steady-state component so only the transient remains; its
	// charge is reintroduced below as q2.
	for i := range samples {
		samples[i] -= deltaI
	}

	sign := trace.SignMax
	if pulseAmp < 0 {
		sign = trace.SignMin
	}
	pulseEnd := cfg.PulseStart + cfg.PulseDur
	pk, err := data.FindPeak(cfg.Channel, cfg.PulseStart, pulseEnd, sign)
	if err != nil {
		return Properties{}, err
	}

	decay, err := fit.Decay(&data, cfg.Channel, pk)
	if err != nil {
		return Properties{}, err
	}

	// Transient charge from the fitted curve, plus the correction for the
	// charge carried between baseline and steady state.
	q1 := integrate.Trapezoidal(decay.X, decay.Fitted)
	q2 := decay.Tau * deltaI
	qt := q1 + q2
	if qt == 0 {
		return Properties{}, fmt.Errorf("%w: zero total charge", ErrMeasure)
	}

	ra := decay.Tau * pulseAmp / qt
	rt := pulseAmp / deltaI
	rm := rt - ra
	if rm == 0 {
		return Properties{}, fmt.Errorf("%w: zero membrane resistance", ErrMeasure)
	}
	cm := qt * rt / (pulseAmp * rm)

	return Properties{
		Ra:  ra * 1e-6,
		Rm:  rm * 1e-6,
		Cm:  cm * 1e12,
		Tau: decay.Tau * 1e3,
	}, nil
}

func windowMean(sw *trace.Sweep, channel string, start, end float64) (float64, error) {
	values, _ := sw.Channel(channel)
	var sum float64
	var n int
	for i, t := range sw.Time {
		if t >= start && t <= end {
			sum += values[i]
			n++
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: window [%g, %g] contains no samples", ErrMeasure, start, end)
	}
	return sum / float64(n), nil
}
