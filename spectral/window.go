package spectral

import "math"

// tukey returns periodic (FFT framing) Tukey window coefficients with taper
// fraction alpha. alpha 0 degenerates to rectangular, alpha 1 to Hann.
func tukey(size int, alpha float64) []float64 {
	out := make([]float64, size)
	for i := range out {
		out[i] = tukeyAt(float64(i)/float64(size), alpha)
	}
	return out
}

func tukeyAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	a := alpha / 2
	switch {
	case x < a:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x <= 1-a:
		return 1
	default:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-2/alpha+1)))
	}
}
