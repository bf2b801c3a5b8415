package trace

import "math"

// Smooth computes a trailing running average of n samples. The first n-1
// output values are NaN so the result keeps the input length. A run of NaNs
// at the head of the input (for example from a previous Smooth pass) is
// preserved and the average restarts after it.
func Smooth(data []float64, n int) []float64 {
	if n <= 1 || len(data) == 0 {
		return append([]float64(nil), data...)
	}

	lead := 0
	for lead < len(data) && math.IsNaN(data[lead]) {
		lead++
	}
	if lead > 0 {
		out := make([]float64, 0, len(data))
		for i := 0; i < lead; i++ {
			out = append(out, math.NaN())
		}
		return append(out, Smooth(data[lead:], n)...)
	}

	out := make([]float64, len(data))
	var sum float64
	for i, v := range data {
		sum += v
		if i >= n {
			sum -= data[i-n]
		}
		if i >= n-1 {
			out[i] = sum / float64(n)
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
