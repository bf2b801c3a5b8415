package synaptic

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-ephys/trace"
)

// epscSweep synthesizes inward synaptic currents (amps) on a dc offset:
// each event rises instantly at its onset and decays exponentially.
func epscSweep(rows int, dt, offset float64, onsets, amps []float64, tau float64) *trace.Sweep {
	time := make([]float64, rows)
	values := make([]float64, rows)
	for i := range time {
		t := float64(i) * dt
		time[i] = t
		values[i] = offset
		for j, onset := range onsets {
			if t >= onset {
				values[i] += amps[j] * math.Exp(-(t-onset)/tau)
			}
		}
	}
	return &trace.Sweep{
		Name: "sweep001",
		Time: time,
		Channels: []trace.Channel{
			{Name: "primary", Samples: values},
		},
	}
}

func TestAnalyzeCurrent(t *testing.T) {
	sw := epscSweep(2000, 1e-4, 12e-12,
		[]float64{0.05}, []float64{-80e-12}, 5e-3)
	cfg := Config{
		Channel:       "primary",
		BaselineStart: 0,
		BaselineEnd:   0.04,
		Start:         0.045,
		End:           0.15,
		Sign:          trace.SignMin,
	}

	cur, err := AnalyzeCurrent(sw, cfg)
	if err != nil {
		t.Fatalf("AnalyzeCurrent: %v", err)
	}
	// The 12 pA offset is removed by baselining before the peak search.
	if math.Abs(cur.Peak.Amp - -80e-12) > 1e-12 {
		t.Fatalf("peak amp = %v, want -80 pA", cur.Peak.Amp)
	}
	if math.Abs(cur.Peak.Time-0.05) > 1e-4 {
		t.Fatalf("peak time = %v, want 0.05", cur.Peak.Time)
	}
	if cur.Tau != 0 || cur.Decay != nil {
		t.Fatal("decay fit returned without WithTau")
	}
}

func TestAnalyzeCurrentWithTau(t *testing.T) {
	const tau = 5e-3
	sw := epscSweep(2000, 1e-4, 0,
		[]float64{0.05}, []float64{-80e-12}, tau)
	cfg := Config{
		Channel:       "primary",
		BaselineStart: 0,
		BaselineEnd:   0.04,
		Start:         0.045,
		End:           0.15,
		Sign:          trace.SignMin,
		WithTau:       true,
	}

	cur, err := AnalyzeCurrent(sw, cfg)
	if err != nil {
		t.Fatalf("AnalyzeCurrent: %v", err)
	}
	wantMS := tau * 1e3
	if math.Abs(cur.Tau-wantMS) > 0.1*wantMS {
		t.Fatalf("tau = %v ms, want %v ms", cur.Tau, wantMS)
	}
	if cur.Decay == nil {
		t.Fatal("decay overlay missing")
	}
}

func TestAnalyzeCurrentMissingChannel(t *testing.T) {
	sw := epscSweep(100, 1e-4, 0, []float64{0.002}, []float64{-1e-12}, 1e-3)
	cfg := Config{Channel: "absent", BaselineEnd: 1e-3, Start: 0, End: 0.01}
	if _, err := AnalyzeCurrent(sw, cfg); !errors.Is(err, trace.ErrMissingChannel) {
		t.Fatalf("err = %v, want ErrMissingChannel", err)
	}
}

func TestPairedPulseRatio(t *testing.T) {
	// Two pulses 50 ms apart with facilitation: -60 pA then -90 pA.
	sw := epscSweep(2000, 1e-4, 0,
		[]float64{0.05, 0.1}, []float64{-60e-12, -90e-12}, 3e-3)
	cfg := Config{
		Channel:       "primary",
		BaselineStart: 0,
		BaselineEnd:   0.04,
		Start:         0.045,
		End:           0.18,
		Sign:          trace.SignMin,
	}

	pp, err := PairedPulseRatio(sw, cfg, 0.055)
	if err != nil {
		t.Fatalf("PairedPulseRatio: %v", err)
	}
	if math.Abs(pp.Peak1.Amp - -60e-12) > 1e-12 {
		t.Fatalf("peak1 = %v, want -60 pA", pp.Peak1.Amp)
	}
	// Residual decay from the first event adds a small negative tail
	// under the second peak.
	if pp.Peak2.Amp > -90e-12 {
		t.Fatalf("peak2 = %v, want <= -90 pA", pp.Peak2.Amp)
	}
	if math.Abs(pp.Ratio-1.5) > 0.05 {
		t.Fatalf("ratio = %v, want ~1.5", pp.Ratio)
	}
}

func TestPairedPulseRatioBadInterval(t *testing.T) {
	sw := epscSweep(100, 1e-4, 0, []float64{0.002}, []float64{-1e-12}, 1e-3)
	cfg := Config{Channel: "primary", BaselineEnd: 1e-3, Start: 0, End: 0.01}
	if _, err := PairedPulseRatio(sw, cfg, 0); err == nil {
		t.Fatal("zero interval accepted")
	}
}
