// Package hist provides fixed-range histogram binning for epoch statistics.
package hist

import "fmt"

// Config holds histogram binning parameters.
type Config struct {
	Min  float64 // lower edge of the binned range
	Max  float64 // upper edge of the binned range
	Bins int     // number of equal-width bins
}

func (c Config) validate() error {
	if c.Bins <= 0 {
		return fmt.Errorf("hist bins must be > 0: %d", c.Bins)
	}
	if !(c.Max > c.Min) {
		return fmt.Errorf("hist range must satisfy max > min: [%g, %g]", c.Min, c.Max)
	}
	return nil
}

// Edges returns the left edge of each bin. The trailing upper edge of the
// range is not included, so len(Edges) == Bins.
func (c Config) Edges() ([]float64, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	width := (c.Max - c.Min) / float64(c.Bins)
	edges := make([]float64, c.Bins)
	for i := range edges {
		edges[i] = c.Min + float64(i)*width
	}
	return edges, nil
}

// Compute bins values into Bins equal-width bins over [Min, Max].
//
// Samples outside the range are excluded, not clipped. A sample equal to Max
// is counted in the last bin; all other bins are half-open [edge, next).
func Compute(values []float64, cfg Config) (counts []float64, err error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("hist requires at least one sample")
	}

	counts = make([]float64, cfg.Bins)
	width := (cfg.Max - cfg.Min) / float64(cfg.Bins)
	for _, v := range values {
		if v < cfg.Min || v > cfg.Max {
			continue
		}
		i := int((v - cfg.Min) / width)
		if i >= cfg.Bins {
			i = cfg.Bins - 1
		}
		counts[i]++
	}
	return counts, nil
}
