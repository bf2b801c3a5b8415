package trace

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingChannel reports a channel name absent from a sweep or series.
	ErrMissingChannel = errors.New("trace: channel not found")
	// ErrShapeMismatch reports sweeps or channels with inconsistent sample counts.
	ErrShapeMismatch = errors.New("trace: inconsistent sample counts")
)

// Channel is one named signal recorded per sample.
type Channel struct {
	Name    string
	Samples []float64
}

// Sweep is a single acquisition run: a time axis plus recorded channels.
type Sweep struct {
	Name     string
	Time     []float64
	Channels []Channel
}

// Len returns the number of samples in the sweep.
func (s *Sweep) Len() int {
	return len(s.Time)
}

// Channel returns the samples of the named channel.
func (s *Sweep) Channel(name string) ([]float64, bool) {
	for i := range s.Channels {
		if s.Channels[i].Name == name {
			return s.Channels[i].Samples, true
		}
	}
	return nil, false
}

// ChannelNames returns the channel names in recording order.
func (s *Sweep) ChannelNames() []string {
	names := make([]string, len(s.Channels))
	for i := range s.Channels {
		names[i] = s.Channels[i].Name
	}
	return names
}

// Clone returns a deep copy of the sweep.
func (s *Sweep) Clone() Sweep {
	out := Sweep{
		Name:     s.Name,
		Time:     append([]float64(nil), s.Time...),
		Channels: make([]Channel, len(s.Channels)),
	}
	for i, ch := range s.Channels {
		out.Channels[i] = Channel{
			Name:    ch.Name,
			Samples: append([]float64(nil), ch.Samples...),
		}
	}
	return out
}

// Series is an ordered collection of sweeps.
type Series struct {
	Sweeps []Sweep
}

// SweepName formats the canonical sweep name for a 1-based sweep number,
// matching the acquisition import convention ("sweep001", "sweep002", ...).
func SweepName(n int) string {
	return fmt.Sprintf("sweep%03d", n)
}

// Rows returns the per-sweep sample count. It is only meaningful for a
// series that passed Validate.
func (s *Series) Rows() int {
	if len(s.Sweeps) == 0 {
		return 0
	}
	return s.Sweeps[0].Len()
}

// SweepNames returns the sweep names in series order.
func (s *Series) SweepNames() []string {
	names := make([]string, len(s.Sweeps))
	for i := range s.Sweeps {
		names[i] = s.Sweeps[i].Name
	}
	return names
}

// HasChannel reports whether every sweep in the series carries the named
// channel.
func (s *Series) HasChannel(name string) bool {
	if len(s.Sweeps) == 0 {
		return false
	}
	for i := range s.Sweeps {
		if _, ok := s.Sweeps[i].Channel(name); !ok {
			return false
		}
	}
	return true
}

// Validate checks the series invariants: at least one sweep, every sweep with
// the same sample count, and every channel matching its sweep's time axis
// length.
func (s *Series) Validate() error {
	if len(s.Sweeps) == 0 {
		return fmt.Errorf("%w: series has no sweeps", ErrShapeMismatch)
	}
	rows := s.Sweeps[0].Len()
	for i := range s.Sweeps {
		sw := &s.Sweeps[i]
		if sw.Len() != rows {
			return fmt.Errorf("%w: sweep %q has %d samples, want %d",
				ErrShapeMismatch, sw.Name, sw.Len(), rows)
		}
		for j := range sw.Channels {
			ch := &sw.Channels[j]
			if len(ch.Samples) != rows {
				return fmt.Errorf("%w: sweep %q channel %q has %d samples, want %d",
					ErrShapeMismatch, sw.Name, ch.Name, len(ch.Samples), rows)
			}
		}
	}
	return nil
}

// Keep returns a new series containing only the sweeps with the given
// 1-based numbers, in the order given.
func (s *Series) Keep(numbers ...int) (*Series, error) {
	out := &Series{}
	for _, n := range numbers {
		name := SweepName(n)
		sw, ok := s.sweep(name)
		if !ok {
			return nil, fmt.Errorf("trace: sweep %q not in series", name)
		}
		out.Sweeps = append(out.Sweeps, sw.Clone())
	}
	return out, nil
}

// Drop returns a new series without the sweeps with the given 1-based
// numbers. Unknown numbers are ignored.
func (s *Series) Drop(numbers ...int) *Series {
	dropped := make(map[string]bool, len(numbers))
	for _, n := range numbers {
		dropped[SweepName(n)] = true
	}
	out := &Series{}
	for i := range s.Sweeps {
		if dropped[s.Sweeps[i].Name] {
			continue
		}
		out.Sweeps = append(out.Sweeps, s.Sweeps[i].Clone())
	}
	return out
}

func (s *Series) sweep(name string) (*Sweep, bool) {
	for i := range s.Sweeps {
		if s.Sweeps[i].Name == name {
			return &s.Sweeps[i], true
		}
	}
	return nil, false
}
