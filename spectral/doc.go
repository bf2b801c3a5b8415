// Package spectral provides power-spectral-density estimation for epoch and
// sweep analysis: a single-FFT periodogram, a segmented spectrogram, and
// spectrum extraction helpers.
//
// The package does not implement the FFT itself; transforms come from
// gonum's fourier package, which handles arbitrary (non power-of-two)
// epoch lengths exactly.
package spectral
