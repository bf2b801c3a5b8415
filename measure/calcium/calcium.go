// Package calcium converts two-photon fluorescence profiles into estimated
// calcium concentrations using single-wavelength dye calibration.
package calcium

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ephys/trace"
)

// ErrCalibration reports dye calibration values that make the conversion
// undefined.
var ErrCalibration = errors.New("calcium: invalid dye calibration")

// Dye holds the calibration of a calcium indicator.
type Dye struct {
	// Kd is the dissociation constant, nM.
	Kd float64
	// Rf is the theoretical dynamic range Fmax/Fmin.
	Rf float64
	// RfReal is the experimentally determined dynamic range.
	RfReal float64
}

// Config bounds the concentration conversion of one fluorescence profile.
type Config struct {
	// Channel names the fluorescence profile channel (AU).
	Channel string
	// F0Start and F0End bound the resting-fluorescence window (time,
	// seconds).
	F0Start float64
	F0End   float64
	// Background is the PMT background fluorescence (AU), subtracted from
	// the profile before conversion.
	Background float64
	// Dye is the indicator calibration.
	Dye Dye
}

// Concentration converts a fluorescence profile to calcium concentration in
// nM, sample by sample:
//
//	[Ca] = Kd * (1 - F/Fmax) / (F/Fmax - 1/Rf)
//
// with Fmax = F0 * Rf/RfReal and F background-subtracted.
func Concentration(sw *trace.Sweep, cfg Config) ([]float64, error) {
	if cfg.Dye.Kd <= 0 || cfg.Dye.Rf <= 0 || cfg.Dye.RfReal <= 0 {
		return nil, fmt.Errorf("%w: kd=%g rf=%g rfReal=%g",
			ErrCalibration, cfg.Dye.Kd, cfg.Dye.Rf, cfg.Dye.RfReal)
	}
	values, ok := sw.Channel(cfg.Channel)
	if !ok {
		return nil, fmt.Errorf("%w: %q in sweep %q", trace.ErrMissingChannel, cfg.Channel, sw.Name)
	}

	f := make([]float64, len(values))
	for i, v := range values {
		f[i] = v - cfg.Background
	}

	var sum float64
	var n int
	for i, t := range sw.Time {
		if t >= cfg.F0Start && t <= cfg.F0End {
			sum += f[i]
			n++
		}
	}
	if n == 0 {
		return nil, fmt.Errorf("calcium: f0 window [%g, %g] contains no samples", cfg.F0Start, cfg.F0End)
	}
	f0 := sum / float64(n)
	if f0 == 0 {
		return nil, fmt.Errorf("%w: zero resting fluorescence", ErrCalibration)
	}
	fmax := f0 * cfg.Dye.Rf / cfg.Dye.RfReal

	out := make([]float64, len(f))
	for i, v := range f {
		r := v / fmax
		out[i] = cfg.Dye.Kd * (1 - r) / (r - 1/cfg.Dye.Rf)
	}
	return out, nil
}
