package epoch

import (
	"fmt"

	"github.com/cwbudde/algo-ephys/stats/hist"
	"github.com/cwbudde/algo-ephys/trace"
)

// HistConfig holds parameters for per-epoch histograms.
type HistConfig struct {
	Window  int
	Step    int
	Channel string

	Min  float64 // lower edge of the binned range
	Max  float64 // upper edge of the binned range
	Bins int
}

// Hist computes a fixed-range histogram of the chosen channel over every
// epoch and assembles the counts into one table.
//
// The axis column ("bin") holds the left edge of each bin; the trailing
// upper edge is dropped, so each epoch contributes exactly Bins rows.
// Samples outside [Min, Max] are excluded, not clipped.
func Hist(s *trace.Series, cfg HistConfig) (*Table, error) {
	it, err := Segment(s, cfg.Window, cfg.Step)
	if err != nil {
		return nil, err
	}
	if !s.HasChannel(cfg.Channel) {
		return nil, fmt.Errorf("epoch: %w: %q", trace.ErrMissingChannel, cfg.Channel)
	}

	binning := hist.Config{Min: cfg.Min, Max: cfg.Max, Bins: cfg.Bins}
	edges, err := binning.Edges()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	t := newTable(s.SweepNames(), EpochNames(it.NumEpochs()), cfg.Bins, "bin", cfg.Channel)
	for it.Next() {
		sl := it.Slice()
		values, _ := sl.Channel(cfg.Channel)
		counts, err := hist.Compute(values, binning)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %v", ErrEstimation, sl.Sweep, sl.Epoch, err)
		}
		t.append(edges, counts)
	}
	return t, nil
}
