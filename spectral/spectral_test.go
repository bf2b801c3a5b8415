package spectral

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-ephys/internal/testutil"
)

func TestPeriodogramShape(t *testing.T) {
	for _, n := range []int{5, 20, 64, 101} {
		x := testutil.DeterministicNoise(3, 1.0, n)
		freqs, psd, err := Periodogram(x, 10e3)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		want := n/2 + 1
		if len(freqs) != want || len(psd) != want {
			t.Fatalf("n=%d: lengths %d/%d, want %d", n, len(freqs), len(psd), want)
		}
		if freqs[0] != 0 {
			t.Fatalf("n=%d: first frequency %v, want 0", n, freqs[0])
		}
		for i := 1; i < len(freqs); i++ {
			if freqs[i] <= freqs[i-1] {
				t.Fatalf("n=%d: frequency grid not increasing at %d", n, i)
			}
		}
		if n%2 == 0 {
			testutil.RequireNearlyEqual(t, freqs[len(freqs)-1], 5e3, 1e-9)
		}
	}
}

func TestPeriodogramSinePeak(t *testing.T) {
	// 1 kHz sine at 10 kHz over 100 samples lands exactly on bin 10.
	x := testutil.DeterministicSine(1000, 10000, 1.0, 100)
	freqs, psd, err := Periodogram(x, 10000)
	if err != nil {
		t.Fatalf("Periodogram: %v", err)
	}

	maxBin := 0
	for i, v := range psd {
		if v > psd[maxBin] {
			maxBin = i
		}
	}
	testutil.RequireNearlyEqual(t, freqs[maxBin], 1000, 1e-9)
}

func TestPeriodogramParseval(t *testing.T) {
	x := testutil.DeterministicNoise(9, 1.0, 256)
	fs := 10e3
	_, psd, err := Periodogram(x, fs)
	if err != nil {
		t.Fatalf("Periodogram: %v", err)
	}

	// Density scaling: sum(psd)*df equals the signal's variance
	// (mean power after constant detrend).
	df := fs / float64(len(x))
	var total float64
	for _, v := range psd {
		total += v * df
	}

	var mean float64
	for _, v := range x {
		mean += v
	}
	mean /= float64(len(x))
	var variance float64
	for _, v := range x {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(x))

	testutil.RequireNearlyEqual(t, total, variance, 1e-9)
}

func TestPeriodogramDCRemoved(t *testing.T) {
	x := testutil.DC(3.5, 64)
	for i := range x {
		x[i] += testutil.DeterministicNoise(5, 0.1, 64)[i]
	}
	_, psd, err := Periodogram(x, 1000)
	if err != nil {
		t.Fatalf("Periodogram: %v", err)
	}
	if psd[0] > 1e-20 {
		t.Fatalf("DC bin = %v, want ~0 after constant detrend", psd[0])
	}
}

func TestPeriodogramDeterministic(t *testing.T) {
	x := testutil.DeterministicNoise(1, 1.0, 50)
	_, a, err := Periodogram(x, 10e3)
	if err != nil {
		t.Fatalf("Periodogram: %v", err)
	}
	_, b, err := Periodogram(x, 10e3)
	if err != nil {
		t.Fatalf("Periodogram: %v", err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("non-deterministic psd at bin %d", i)
		}
	}
}

func TestPeriodogramValidation(t *testing.T) {
	if _, _, err := Periodogram(nil, 10e3); err == nil {
		t.Fatal("expected error for empty signal")
	}
	if _, _, err := Periodogram([]float64{1, 2}, 0); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestPowerMatchesMagnitude(t *testing.T) {
	in := []complex128{complex(3, 4), complex(0, 0), complex(-1, 2)}
	p := Power(in)
	m := Magnitude(in)
	for i := range in {
		testutil.RequireNearlyEqual(t, p[i], m[i]*m[i], 1e-12)
	}
	testutil.RequireNearlyEqual(t, p[0], 25, 1e-12)
	testutil.RequireNearlyEqual(t, m[0], 5, 1e-12)
}

func TestSpectrogramShape(t *testing.T) {
	x := testutil.DeterministicSine(500, 10000, 1.0, 200)
	freqs, times, sxx, err := Spectrogram(x, 10000, 50, 25)
	if err != nil {
		t.Fatalf("Spectrogram: %v", err)
	}
	if len(freqs) != 26 {
		t.Fatalf("freq bins = %d, want 26", len(freqs))
	}
	// (200-50)/25 + 1 segments.
	if len(times) != 7 {
		t.Fatalf("segments = %d, want 7", len(times))
	}
	if len(sxx) != len(freqs) {
		t.Fatalf("sxx rows = %d, want %d", len(sxx), len(freqs))
	}
	for _, row := range sxx {
		if len(row) != len(times) {
			t.Fatalf("sxx cols = %d, want %d", len(row), len(times))
		}
		testutil.RequireFinite(t, row)
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Fatalf("segment times not increasing at %d", i)
		}
	}
}

func TestSpectrogramPeakFrequency(t *testing.T) {
	x := testutil.DeterministicSine(1000, 10000, 1.0, 400)
	freqs, _, sxx, err := Spectrogram(x, 10000, 100, 50)
	if err != nil {
		t.Fatalf("Spectrogram: %v", err)
	}

	// Every segment should peak at 1 kHz.
	for s := 0; s < len(sxx[0]); s++ {
		maxBin := 0
		for i := range sxx {
			if sxx[i][s] > sxx[maxBin][s] {
				maxBin = i
			}
		}
		if math.Abs(freqs[maxBin]-1000) > 100 {
			t.Fatalf("segment %d peak at %v Hz, want ~1000", s, freqs[maxBin])
		}
	}
}

func TestSpectrogramValidation(t *testing.T) {
	x := make([]float64, 10)
	if _, _, _, err := Spectrogram(x, 1000, 20, 10); err == nil {
		t.Fatal("expected error for signal shorter than a segment")
	}
	if _, _, _, err := Spectrogram(x, 1000, 5, 5); err == nil {
		t.Fatal("expected error for noverlap >= nperseg")
	}
}
