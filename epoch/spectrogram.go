package epoch

import (
	"fmt"

	"github.com/cwbudde/algo-ephys/spectral"
	"github.com/cwbudde/algo-ephys/trace"
)

// SpectrogramConfig holds parameters for per-sweep spectrograms.
type SpectrogramConfig struct {
	Window  int // segment length in samples (nperseg)
	Step    int // start-to-start stride between segments
	Channel string

	// SampleRate is the acquisition rate in Hz. Zero selects
	// spectral.DefaultSampleRate (10 kHz).
	SampleRate float64

	// FreqMin and FreqMax trim the returned frequency bands. Both zero
	// keeps the full grid.
	FreqMin float64
	FreqMax float64
}

// SweepSpectrogram is the spectrogram of one sweep: power spectral density
// indexed [frequency][segment], with left-aligned segment times.
type SweepSpectrogram struct {
	Sweep string
	Freqs []float64
	Times []float64
	Sxx   [][]float64
}

// Spectrogram computes a segmented PSD estimate of the chosen channel for
// every sweep. Segments are Window samples long and advance by Step samples;
// segment times are left-aligned so each sweep starts at t=0.
func Spectrogram(s *trace.Series, cfg SpectrogramConfig) ([]SweepSpectrogram, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if !s.HasChannel(cfg.Channel) {
		return nil, fmt.Errorf("epoch: %w: %q", trace.ErrMissingChannel, cfg.Channel)
	}
	if cfg.Step <= 0 || cfg.Window <= 0 || cfg.Step > cfg.Window {
		return nil, fmt.Errorf("%w: spectrogram needs 0 < step <= window: window=%d step=%d",
			ErrConfig, cfg.Window, cfg.Step)
	}

	fs := cfg.SampleRate
	if fs <= 0 {
		fs = spectral.DefaultSampleRate
	}
	noverlap := cfg.Window - cfg.Step

	out := make([]SweepSpectrogram, 0, len(s.Sweeps))
	for i := range s.Sweeps {
		sw := &s.Sweeps[i]
		values, _ := sw.Channel(cfg.Channel)
		freqs, times, sxx, err := spectral.Spectrogram(values, fs, cfg.Window, noverlap)
		if err != nil {
			return nil, fmt.Errorf("%w: sweep %q: %v", ErrConfig, sw.Name, err)
		}

		t0 := times[0]
		for j := range times {
			times[j] -= t0
		}
		freqs, sxx = trimBands(freqs, sxx, cfg.FreqMin, cfg.FreqMax)

		out = append(out, SweepSpectrogram{
			Sweep: sw.Name,
			Freqs: freqs,
			Times: times,
			Sxx:   sxx,
		})
	}
	return out, nil
}

func trimBands(freqs []float64, sxx [][]float64, min, max float64) ([]float64, [][]float64) {
	if min == 0 && max == 0 {
		return freqs, sxx
	}
	lo := 0
	for lo < len(freqs) && freqs[lo] < min {
		lo++
	}
	hi := len(freqs)
	for hi > lo && freqs[hi-1] > max {
		hi--
	}
	return freqs[lo:hi], sxx[lo:hi]
}
