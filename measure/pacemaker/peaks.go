// Package pacemaker analyzes spontaneous firing in cell-attached and
// whole-cell recordings: event detection, running-average baselining, and
// inter-spike interval statistics.
package pacemaker

import (
	"math"
	"sort"
)

// Edge selects how flat-topped events are reported by DetectPeaks.
type Edge int

const (
	// EdgeRising keeps the rising edge of a flat peak.
	EdgeRising Edge = iota
	// EdgeFalling keeps the falling edge.
	EdgeFalling
	// EdgeBoth keeps both edges.
	EdgeBoth
	// EdgeNone drops flat peaks entirely.
	EdgeNone
)

type detectConfig struct {
	minHeight    float64
	hasMinHeight bool
	minDistance  int
	threshold    float64
	edge         Edge
	keepSame     bool
	valleys      bool
}

// DetectOption adjusts peak detection.
type DetectOption func(*detectConfig)

// MinHeight only reports peaks at or above h.
func MinHeight(h float64) DetectOption {
	return func(c *detectConfig) {
		c.minHeight = h
		c.hasMinHeight = true
	}
}

// MinDistance suppresses smaller peaks within d samples of a larger one.
func MinDistance(d int) DetectOption {
	return func(c *detectConfig) { c.minDistance = d }
}

// Threshold only reports peaks exceeding both immediate neighbors by at
// least t.
func Threshold(t float64) DetectOption {
	return func(c *detectConfig) { c.threshold = t }
}

// WithEdge selects flat-peak handling. The default is EdgeRising.
func WithEdge(e Edge) DetectOption {
	return func(c *detectConfig) { c.edge = e }
}

// KeepSameHeight keeps equal-height peaks even when they violate the
// minimum distance.
func KeepSameHeight() DetectOption {
	return func(c *detectConfig) { c.keepSame = true }
}

// Valleys detects local minima instead of maxima. MinHeight then applies to
// the negated data.
func Valleys() DetectOption {
	return func(c *detectConfig) { c.valleys = true }
}

// DetectPeaks returns the indices of local maxima in x, in ascending order.
// NaN samples and their neighbors are never peaks, and neither are the first
// and last samples.
func DetectPeaks(x []float64, opts ...DetectOption) []int {
	cfg := detectConfig{minDistance: 1, edge: EdgeRising}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := len(x)
	if n < 3 {
		return nil
	}

	data := append([]float64(nil), x...)
	if cfg.valleys {
		for i := range data {
			data[i] = -data[i]
		}
	}

	var nanIdx []int
	for i, v := range data {
		if math.IsNaN(v) {
			nanIdx = append(nanIdx, i)
			data[i] = math.Inf(1)
		}
	}

	// dxBefore/dxAfter are the first differences on either side of each
	// sample, zero at the array ends.
	dxBefore := func(i int) float64 {
		if i == 0 {
			return 0
		}
		return data[i] - data[i-1]
	}
	dxAfter := func(i int) float64 {
		if i == n-1 {
			return 0
		}
		return data[i+1] - data[i]
	}

	var ind []int
	for i := 0; i < n; i++ {
		var hit bool
		switch cfg.edge {
		case EdgeNone:
			hit = dxAfter(i) < 0 && dxBefore(i) > 0
		case EdgeRising:
			hit = dxAfter(i) <= 0 && dxBefore(i) > 0
		case EdgeFalling:
			hit = dxAfter(i) < 0 && dxBefore(i) >= 0
		case EdgeBoth:
			hit = (dxAfter(i) <= 0 && dxBefore(i) > 0) ||
				(dxAfter(i) < 0 && dxBefore(i) >= 0)
		}
		if hit {
			ind = append(ind, i)
		}
	}

	// Samples at or next to a NaN cannot be peaks.
	if len(nanIdx) > 0 {
		banned := make(map[int]bool, 3*len(nanIdx))
		for _, i := range nanIdx {
			banned[i-1] = true
			banned[i] = true
			banned[i+1] = true
		}
		kept := ind[:0]
		for _, i := range ind {
			if !banned[i] {
				kept = append(kept, i)
			}
		}
		ind = kept
	}

	// Array ends cannot be peaks.
	if len(ind) > 0 && ind[0] == 0 {
		ind = ind[1:]
	}
	if len(ind) > 0 && ind[len(ind)-1] == n-1 {
		ind = ind[:len(ind)-1]
	}

	if len(ind) > 0 && cfg.hasMinHeight {
		kept := ind[:0]
		for _, i := range ind {
			if data[i] >= cfg.minHeight {
				kept = append(kept, i)
			}
		}
		ind = kept
	}

	if len(ind) > 0 && cfg.threshold > 0 {
		kept := ind[:0]
		for _, i := range ind {
			rise := math.Min(data[i]-data[i-1], data[i]-data[i+1])
			if rise >= cfg.threshold {
				kept = append(kept, i)
			}
		}
		ind = kept
	}

	if len(ind) > 0 && cfg.minDistance > 1 {
		ind = enforceDistance(data, ind, cfg.minDistance, cfg.keepSame)
	}

	return ind
}

// enforceDistance greedily keeps the tallest peaks, suppressing any smaller
// peak within minDistance samples of a kept one.
func enforceDistance(data []float64, ind []int, minDistance int, keepSame bool) []int {
	byHeight := append([]int(nil), ind...)
	sort.SliceStable(byHeight, func(a, b int) bool {
		return data[byHeight[a]] > data[byHeight[b]]
	})

	deleted := make(map[int]bool, len(byHeight))
	for _, i := range byHeight {
		if deleted[i] {
			continue
		}
		for _, j := range byHeight {
			if j == i || deleted[j] {
				continue
			}
			if j >= i-minDistance && j <= i+minDistance {
				if keepSame && data[j] >= data[i] {
					continue
				}
				deleted[j] = true
			}
		}
	}

	out := make([]int, 0, len(ind))
	for _, i := range ind {
		if !deleted[i] {
			out = append(out, i)
		}
	}
	return out
}
