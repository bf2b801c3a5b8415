// Package plot renders publication-style figures for sweep data and derived
// measurements. It wraps gonum/plot with the conventions used across the
// analysis packages: time in seconds on the x axis, channels under their
// import names, and deterministic jitter for categorical scatters.
package plot

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg/draw"

	"github.com/cwbudde/algo-ephys/fit"
	"github.com/cwbudde/algo-ephys/trace"
)

// Sweep renders one channel of a sweep as a line over time.
func Sweep(sw *trace.Sweep, channel string) (*plot.Plot, error) {
	values, ok := sw.Channel(channel)
	if !ok {
		return nil, fmt.Errorf("%w: %q in sweep %q", trace.ErrMissingChannel, channel, sw.Name)
	}

	p := plot.New()
	p.Title.Text = sw.Name
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = channel

	line, err := plotter.NewLine(xyPairs(sw.Time, values))
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	p.Add(line)
	return p, nil
}

// Series overlays one channel of every sweep in a series, one line per
// sweep with a legend entry each.
func Series(s *trace.Series, channel string) (*plot.Plot, error) {
	if !s.HasChannel(channel) {
		return nil, fmt.Errorf("%w: %q", trace.ErrMissingChannel, channel)
	}

	p := plot.New()
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = channel

	for i := range s.Sweeps {
		sw := &s.Sweeps[i]
		values, _ := sw.Channel(channel)
		line, err := plotter.NewLine(xyPairs(sw.Time, values))
		if err != nil {
			return nil, fmt.Errorf("plot: %w", err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(sw.Name, line)
	}
	return p, nil
}

// DecayOverlay renders a fitted event decay over the raw data: the raw
// post-peak samples as a line and the fitted curve on top.
func DecayOverlay(res *fit.DecayResult) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "time from peak (s)"
	p.Y.Label.Text = "amplitude"

	raw, err := plotter.NewLine(xyPairs(res.X, res.Y))
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	raw.Color = plotutil.Color(0)

	fitted, err := plotter.NewLine(xyPairs(res.X, res.Fitted))
	if err != nil {
		return nil, fmt.Errorf("plot: %w", err)
	}
	fitted.Color = plotutil.Color(1)
	fitted.Dashes = plotutil.Dashes(1)

	p.Add(raw, fitted)
	p.Legend.Add("data", raw)
	p.Legend.Add(fmt.Sprintf("fit (tau %.3g s)", res.Tau), fitted)
	return p, nil
}

// Raster renders event times as a raster: one row per trial, a tick per
// event.
func Raster(trials [][]float64) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = "trial"

	for i, times := range trials {
		pts := make(plotter.XYs, len(times))
		for j, t := range times {
			pts[j] = plotter.XY{X: t, Y: float64(i + 1)}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("plot: %w", err)
		}
		sc.GlyphStyle.Shape = draw.BoxGlyph{}
		sc.GlyphStyle.Color = plotutil.Color(0)
		p.Add(sc)
	}
	p.Y.Min = 0
	p.Y.Max = float64(len(trials) + 1)
	return p, nil
}

// Group is one category of a jittered scatter.
type Group struct {
	Label  string
	Values []float64
}

// ScatterJitter renders grouped values as a categorical scatter, spreading
// each group's points horizontally with uniform jitter. The same seed always
// produces the same layout.
func ScatterJitter(groups []Group, jitter float64, seed int64) (*plot.Plot, error) {
	p := plot.New()
	p.Y.Label.Text = "value"

	rng := rand.New(rand.NewSource(seed))
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
		pts := make(plotter.XYs, len(g.Values))
		for j, v := range g.Values {
			pts[j] = plotter.XY{
				X: float64(i) + jitter*(2*rng.Float64()-1),
				Y: v,
			}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("plot: %w", err)
		}
		sc.GlyphStyle.Color = plotutil.Color(i)
		p.Add(sc)
	}

	p.NominalX(labels...)
	return p, nil
}

func xyPairs(x, y []float64) plotter.XYs {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	pts := make(plotter.XYs, n)
	for i := 0; i < n; i++ {
		pts[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return pts
}
