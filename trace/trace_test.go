package trace

import (
	"errors"
	"math"
	"testing"
)

func twoChannelSweep(name string, samples []float64) Sweep {
	time := make([]float64, len(samples))
	aux := make([]float64, len(samples))
	for i := range time {
		time[i] = float64(i) * 1e-4
		aux[i] = float64(i)
	}
	return Sweep{
		Name: name,
		Time: time,
		Channels: []Channel{
			{Name: "primary", Samples: samples},
			{Name: "secondary", Samples: aux},
		},
	}
}

func testSeries() *Series {
	return &Series{Sweeps: []Sweep{
		twoChannelSweep("sweep001", []float64{1, 2, 3, 4}),
		twoChannelSweep("sweep002", []float64{5, 6, 7, 8}),
		twoChannelSweep("sweep003", []float64{9, 10, 11, 12}),
	}}
}

func TestSweepName(t *testing.T) {
	cases := map[int]string{1: "sweep001", 12: "sweep012", 123: "sweep123"}
	for n, want := range cases {
		if got := SweepName(n); got != want {
			t.Errorf("SweepName(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestChannelLookup(t *testing.T) {
	sw := twoChannelSweep("sweep001", []float64{1, 2, 3})
	if _, ok := sw.Channel("primary"); !ok {
		t.Fatal("primary channel not found")
	}
	if _, ok := sw.Channel("absent"); ok {
		t.Fatal("lookup of absent channel succeeded")
	}
	names := sw.ChannelNames()
	if len(names) != 2 || names[0] != "primary" || names[1] != "secondary" {
		t.Fatalf("ChannelNames = %v", names)
	}
}

func TestCloneIsDeep(t *testing.T) {
	sw := twoChannelSweep("sweep001", []float64{1, 2, 3})
	cp := sw.Clone()
	cp.Time[0] = 99
	cp.Channels[0].Samples[0] = 99
	if sw.Time[0] == 99 || sw.Channels[0].Samples[0] == 99 {
		t.Fatal("Clone shares backing arrays with the original")
	}
}

func TestValidate(t *testing.T) {
	s := testSeries()
	if err := s.Validate(); err != nil {
		t.Fatalf("valid series rejected: %v", err)
	}

	empty := &Series{}
	if err := empty.Validate(); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("empty series: err = %v, want ErrShapeMismatch", err)
	}

	ragged := testSeries()
	ragged.Sweeps[1] = twoChannelSweep("sweep002", []float64{5, 6})
	if err := ragged.Validate(); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("ragged series: err = %v, want ErrShapeMismatch", err)
	}

	torn := testSeries()
	torn.Sweeps[2].Channels[1].Samples = []float64{0}
	if err := torn.Validate(); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("torn channel: err = %v, want ErrShapeMismatch", err)
	}
}

func TestHasChannel(t *testing.T) {
	s := testSeries()
	if !s.HasChannel("secondary") {
		t.Fatal("secondary channel reported missing")
	}
	if s.HasChannel("absent") {
		t.Fatal("absent channel reported present")
	}
	s.Sweeps[1].Channels = s.Sweeps[1].Channels[:1]
	if s.HasChannel("secondary") {
		t.Fatal("channel missing from one sweep still reported present")
	}
}

func TestKeep(t *testing.T) {
	s := testSeries()
	sub, err := s.Keep(3, 1)
	if err != nil {
		t.Fatalf("Keep: %v", err)
	}
	names := sub.SweepNames()
	if len(names) != 2 || names[0] != "sweep003" || names[1] != "sweep001" {
		t.Fatalf("Keep order = %v", names)
	}
	// Kept sweeps are copies.
	sub.Sweeps[0].Channels[0].Samples[0] = 99
	if s.Sweeps[2].Channels[0].Samples[0] == 99 {
		t.Fatal("Keep shares backing arrays with the source series")
	}

	if _, err := s.Keep(7); err == nil {
		t.Fatal("Keep of unknown sweep succeeded")
	}
}

func TestDrop(t *testing.T) {
	s := testSeries()
	sub := s.Drop(2, 9)
	names := sub.SweepNames()
	if len(names) != 2 || names[0] != "sweep001" || names[1] != "sweep003" {
		t.Fatalf("Drop result = %v", names)
	}
	if len(s.Sweeps) != 3 {
		t.Fatal("Drop mutated the source series")
	}
}

func TestBaseline(t *testing.T) {
	sw := twoChannelSweep("sweep001", []float64{10, 10, 10, 14, 18})

	// Window covers the first three samples: mean 10.
	out, err := sw.Baseline("primary", 0, 2.5e-4)
	if err != nil {
		t.Fatalf("Baseline: %v", err)
	}
	got, _ := out.Channel("primary")
	want := []float64{0, 0, 0, 4, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("baselined[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Other channels and the source sweep stay untouched.
	if aux, _ := out.Channel("secondary"); aux[0] != 0 || aux[4] != 4 {
		t.Fatal("Baseline touched an unrelated channel")
	}
	if orig, _ := sw.Channel("primary"); orig[0] != 10 {
		t.Fatal("Baseline mutated the source sweep")
	}

	if _, err := sw.Baseline("absent", 0, 1); !errors.Is(err, ErrMissingChannel) {
		t.Fatalf("missing channel: err = %v, want ErrMissingChannel", err)
	}
	if _, err := sw.Baseline("primary", 5, 6); err == nil {
		t.Fatal("empty baseline window accepted")
	}
}

func TestFindPeak(t *testing.T) {
	sw := twoChannelSweep("sweep001", []float64{0, -3, 5, -3, 2})

	minPk, err := sw.FindPeak("primary", 0, 1, SignMin)
	if err != nil {
		t.Fatalf("FindPeak: %v", err)
	}
	// First occurrence wins the tie at -3.
	if minPk.Index != 1 || minPk.Amp != -3 {
		t.Fatalf("min peak = %+v", minPk)
	}
	if minPk.Time != sw.Time[1] {
		t.Fatalf("min peak time = %v, want %v", minPk.Time, sw.Time[1])
	}

	maxPk, err := sw.FindPeak("primary", 0, 1, SignMax)
	if err != nil {
		t.Fatalf("FindPeak: %v", err)
	}
	if maxPk.Index != 2 || maxPk.Amp != 5 {
		t.Fatalf("max peak = %+v", maxPk)
	}

	// Window restriction excludes the global extremum.
	late, err := sw.FindPeak("primary", 2.5e-4, 1, SignMax)
	if err != nil {
		t.Fatalf("FindPeak: %v", err)
	}
	if late.Index != 4 {
		t.Fatalf("windowed peak index = %d, want 4", late.Index)
	}

	if _, err := sw.FindPeak("absent", 0, 1, SignMax); !errors.Is(err, ErrMissingChannel) {
		t.Fatalf("missing channel: err = %v, want ErrMissingChannel", err)
	}
	if _, err := sw.FindPeak("primary", 5, 6, SignMax); err == nil {
		t.Fatal("empty peak window accepted")
	}
}

func TestSmooth(t *testing.T) {
	got := Smooth([]float64{1, 2, 3, 4, 5}, 3)
	if !math.IsNaN(got[0]) || !math.IsNaN(got[1]) {
		t.Fatalf("head not NaN-padded: %v", got[:2])
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if got[i+2] != w {
			t.Fatalf("smoothed[%d] = %v, want %v", i+2, got[i+2], w)
		}
	}
}

func TestSmoothRepeated(t *testing.T) {
	// A second pass keeps the NaN head and restarts the average after it.
	once := Smooth([]float64{1, 2, 3, 4, 5, 6, 7}, 2)
	twice := Smooth(once, 2)
	if len(twice) != len(once) {
		t.Fatalf("length changed: %d -> %d", len(once), len(twice))
	}
	if !math.IsNaN(twice[0]) || !math.IsNaN(twice[1]) {
		t.Fatalf("NaN head not preserved: %v", twice[:2])
	}
	// once[1:] = 1.5, 2.5, ..., 6.5; averaging adjacent pairs gives 2, 3, ...
	if twice[2] != 2 || twice[3] != 3 {
		t.Fatalf("restarted average wrong: %v", twice[2:4])
	}
}

func TestSmoothDegenerate(t *testing.T) {
	in := []float64{1, 2, 3}
	got := Smooth(in, 1)
	for i := range in {
		if got[i] != in[i] {
			t.Fatalf("n=1 copy differs at %d", i)
		}
	}
	got[0] = 99
	if in[0] == 99 {
		t.Fatal("Smooth returned the input slice")
	}
}
