package epoch

import (
	"fmt"

	"github.com/cwbudde/algo-ephys/spectral"
	"github.com/cwbudde/algo-ephys/trace"
)

// PgramConfig holds parameters for per-epoch periodograms.
type PgramConfig struct {
	Window  int
	Step    int
	Channel string

	// SampleRate is the acquisition rate in Hz. Zero selects
	// spectral.DefaultSampleRate (10 kHz).
	SampleRate float64
}

func (c PgramConfig) sampleRate() float64 {
	if c.SampleRate > 0 {
		return c.SampleRate
	}
	return spectral.DefaultSampleRate
}

// Pgram computes a single-FFT power-spectral-density estimate of the chosen
// channel over every epoch and assembles the estimates into one table.
//
// The axis column ("frequency") holds the one-sided frequency grid from 0
// to SampleRate/2; each epoch contributes exactly floor(Window/2)+1 rows.
func Pgram(s *trace.Series, cfg PgramConfig) (*Table, error) {
	it, err := Segment(s, cfg.Window, cfg.Step)
	if err != nil {
		return nil, err
	}
	if !s.HasChannel(cfg.Channel) {
		return nil, fmt.Errorf("epoch: %w: %q", trace.ErrMissingChannel, cfg.Channel)
	}

	fs := cfg.sampleRate()
	perEpoch := cfg.Window/2 + 1

	t := newTable(s.SweepNames(), EpochNames(it.NumEpochs()), perEpoch, "frequency", cfg.Channel)
	for it.Next() {
		sl := it.Slice()
		values, _ := sl.Channel(cfg.Channel)
		freqs, psd, err := spectral.Periodogram(values, fs)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %v", ErrEstimation, sl.Sweep, sl.Epoch, err)
		}
		t.append(freqs, psd)
	}
	return t, nil
}
