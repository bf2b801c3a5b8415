package epoch

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-ephys/stats/kde"
	"github.com/cwbudde/algo-ephys/trace"
)

// KDEConfig holds parameters for per-epoch kernel density estimates.
type KDEConfig struct {
	Window  int
	Step    int
	Channel string

	Min float64 // lower end of the evaluation range
	Max float64 // upper end of the evaluation range

	// Resolution is the number of evaluation grid points per epoch.
	// Zero selects the default of 5 * |Max - Min|, a good speed/detail
	// tradeoff; values above 1000 give very detailed estimates.
	Resolution int
}

func (c KDEConfig) resolution() int {
	if c.Resolution > 0 {
		return c.Resolution
	}
	return int(math.Abs(c.Max-c.Min) * 5)
}

// KDE computes a Gaussian kernel density estimate (automatic Scott's-rule
// bandwidth) of the chosen channel over every epoch, evaluated on an even
// grid spanning [Min, Max], and assembles the densities into one table.
//
// The axis column ("x") holds the grid; each epoch contributes exactly
// Resolution rows. An epoch whose values are constant cannot be estimated
// and fails the whole call with ErrEstimation.
func KDE(s *trace.Series, cfg KDEConfig) (*Table, error) {
	it, err := Segment(s, cfg.Window, cfg.Step)
	if err != nil {
		return nil, err
	}
	if !s.HasChannel(cfg.Channel) {
		return nil, fmt.Errorf("epoch: %w: %q", trace.ErrMissingChannel, cfg.Channel)
	}

	resolution := cfg.resolution()
	grid, err := kde.Grid(cfg.Min, cfg.Max, resolution)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	t := newTable(s.SweepNames(), EpochNames(it.NumEpochs()), resolution, "x", cfg.Channel)
	for it.Next() {
		sl := it.Slice()
		values, _ := sl.Channel(cfg.Channel)
		est, err := kde.New(values)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %v", ErrEstimation, sl.Sweep, sl.Epoch, err)
		}
		t.append(grid, est.Evaluate(grid))
	}
	return t, nil
}
