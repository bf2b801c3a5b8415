package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// spectrogramTaper is the Tukey taper fraction applied to each segment,
// following the reference estimator's default.
const spectrogramTaper = 0.25

// Spectrogram computes a segmented power-spectral-density estimate of x
// sampled at fs Hz.
//
// Segments are nperseg samples long and advance by nperseg-noverlap samples.
// Each segment is mean-removed, tapered with a Tukey(0.25) window, and
// transformed; values use density scaling (units^2/Hz).
//
// The returned Sxx is indexed [frequency][segment], freqs has
// floor(nperseg/2)+1 bins, and times holds each segment's center time.
func Spectrogram(x []float64, fs float64, nperseg, noverlap int) (freqs, times []float64, sxx [][]float64, err error) {
	if fs <= 0 {
		return nil, nil, nil, fmt.Errorf("spectral: sample rate must be > 0: %g", fs)
	}
	if nperseg <= 0 {
		return nil, nil, nil, fmt.Errorf("spectral: nperseg must be > 0: %d", nperseg)
	}
	if noverlap < 0 || noverlap >= nperseg {
		return nil, nil, nil, fmt.Errorf("spectral: noverlap must be in [0, nperseg): %d", noverlap)
	}
	if len(x) < nperseg {
		return nil, nil, nil, fmt.Errorf("spectral: signal shorter than one segment: %d < %d", len(x), nperseg)
	}

	step := nperseg - noverlap
	numSegs := 1 + (len(x)-nperseg)/step
	bins := nperseg/2 + 1

	win := tukey(nperseg, spectrogramTaper)
	var winSumSq float64
	for _, w := range win {
		winSumSq += w * w
	}
	scale := 1 / (fs * winSumSq)

	fft := fourier.NewFFT(nperseg)
	seg := make([]float64, nperseg)

	freqs = FrequencyGrid(nperseg, fs)
	times = make([]float64, numSegs)
	sxx = make([][]float64, bins)
	for i := range sxx {
		sxx[i] = make([]float64, numSegs)
	}

	for s := 0; s < numSegs; s++ {
		start := s * step
		copy(seg, x[start:start+nperseg])

		var sum float64
		for _, v := range seg {
			sum += v
		}
		mean := sum / float64(nperseg)
		for i := range seg {
			seg[i] = (seg[i] - mean) * win[i]
		}

		coeffs := fft.Coefficients(nil, seg)
		psd := Power(coeffs)
		for i := range psd {
			psd[i] *= scale
		}
		onesidedDouble(psd, nperseg)

		for i := range psd {
			sxx[i][s] = psd[i]
		}
		times[s] = (float64(start) + float64(nperseg)/2) / fs
	}

	return freqs, times, sxx, nil
}
