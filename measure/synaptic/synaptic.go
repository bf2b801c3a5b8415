// Package synaptic quantifies evoked synaptic currents: peak amplitude,
// decay kinetics, and paired-pulse ratio.
package synaptic

import (
	"fmt"

	"github.com/cwbudde/algo-ephys/fit"
	"github.com/cwbudde/algo-ephys/trace"
)

// Current is a measured synaptic event.
type Current struct {
	Peak trace.Peak
	// Tau is the amplitude-weighted decay time constant in ms. Zero when
	// the decay was not requested.
	Tau float64
	// Decay holds the fit overlay when the decay was requested.
	Decay *fit.DecayResult
}

// Config bounds the analysis of one evoked current.
type Config struct {
	// Channel names the recorded current channel.
	Channel string

	// BaselineStart and BaselineEnd bound the pre-stimulus baseline window
	// (time, seconds).
	BaselineStart float64
	BaselineEnd   float64

	// Start and End bound the window containing the event (time, seconds).
	Start float64
	End   float64

	// Sign is the event direction; SignMin for inward currents.
	Sign trace.PeakSign

	// WithTau requests the biexponential decay fit.
	WithTau bool
}

// AnalyzeCurrent baselines the sweep, locates the event peak, and optionally
// fits its decay.
func AnalyzeCurrent(sw *trace.Sweep, cfg Config) (Current, error) {
	bsl, err := sw.Baseline(cfg.Channel, cfg.BaselineStart, cfg.BaselineEnd)
	if err != nil {
		return Current{}, err
	}

	pk, err := bsl.FindPeak(cfg.Channel, cfg.Start, cfg.End, cfg.Sign)
	if err != nil {
		return Current{}, err
	}

	out := Current{Peak: pk}
	if cfg.WithTau {
		decay, err := fit.Decay(&bsl, cfg.Channel, pk)
		if err != nil {
			return Current{}, err
		}
		out.Tau = decay.Tau * 1e3
		out.Decay = decay
	}
	return out, nil
}

// PairedPulse is a paired-pulse measurement: the two peaks and their ratio.
type PairedPulse struct {
	Peak1 trace.Peak
	Peak2 trace.Peak
	Ratio float64
}

// PairedPulseRatio measures both responses to a paired stimulus and returns
// peak2/peak1. interval is the time between the two stimuli; the first
// response is searched in [cfg.Start, cfg.Start+interval) and the second in
// [cfg.Start+interval, cfg.End].
func PairedPulseRatio(sw *trace.Sweep, cfg Config, interval float64) (PairedPulse, error) {
	if interval <= 0 {
		return PairedPulse{}, fmt.Errorf("synaptic: stimulus interval %g must be positive", interval)
	}
	bsl, err := sw.Baseline(cfg.Channel, cfg.BaselineStart, cfg.BaselineEnd)
	if err != nil {
		return PairedPulse{}, err
	}

	firstEnd := cfg.Start + interval

	// Nudge the first window left so the two searches don't overlap.
	pk1, err := bsl.FindPeak(cfg.Channel, cfg.Start, firstEnd-1e-4, cfg.Sign)
	if err != nil {
		return PairedPulse{}, err
	}
	pk2, err := bsl.FindPeak(cfg.Channel, firstEnd, cfg.End, cfg.Sign)
	if err != nil {
		return PairedPulse{}, err
	}
	if pk1.Amp == 0 {
		return PairedPulse{}, fmt.Errorf("synaptic: first peak has zero amplitude")
	}

	return PairedPulse{
		Peak1: pk1,
		Peak2: pk2,
		Ratio: pk2.Amp / pk1.Amp,
	}, nil
}
