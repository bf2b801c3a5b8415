package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// DefaultSampleRate is the sampling frequency assumed when none is given,
// matching the common 10 kHz acquisition rate.
const DefaultSampleRate = 10e3

// Periodogram estimates the one-sided power spectral density of x sampled at
// fs Hz using a single unwindowed FFT over the whole signal.
//
// The constant (mean) component is removed before the transform and the
// result uses density scaling, so values are in units^2/Hz. The returned
// frequency grid has floor(len(x)/2)+1 bins running from 0 to fs/2.
func Periodogram(x []float64, fs float64) (freqs, psd []float64, err error) {
	n := len(x)
	if n == 0 {
		return nil, nil, fmt.Errorf("spectral: periodogram requires at least one sample")
	}
	if fs <= 0 {
		return nil, nil, fmt.Errorf("spectral: sample rate must be > 0: %g", fs)
	}

	detrended := detrendConstant(x)

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, detrended)

	psd = Power(coeffs)
	scale := 1 / (fs * float64(n))
	for i := range psd {
		psd[i] *= scale
	}
	onesidedDouble(psd, n)

	freqs = FrequencyGrid(n, fs)
	return freqs, psd, nil
}

// FrequencyGrid returns the one-sided frequency axis for an n-point
// transform at sample rate fs: floor(n/2)+1 bins from 0 to fs/2.
func FrequencyGrid(n int, fs float64) []float64 {
	bins := n/2 + 1
	out := make([]float64, bins)
	for k := range out {
		out[k] = float64(k) * fs / float64(n)
	}
	return out
}

// detrendConstant returns x with its mean removed.
func detrendConstant(x []float64) []float64 {
	var sum float64
	for _, v := range x {
		sum += v
	}
	mean := sum / float64(len(x))
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = v - mean
	}
	return out
}

// onesidedDouble folds the discarded negative frequencies into the one-sided
// spectrum. DC is never doubled; the Nyquist bin is only doubled when n is
// odd (no exact Nyquist bin exists then).
func onesidedDouble(psd []float64, n int) {
	if len(psd) < 2 {
		return
	}
	last := len(psd) - 1
	for i := 1; i < last; i++ {
		psd[i] *= 2
	}
	if n%2 != 0 {
		psd[last] *= 2
	}
}
