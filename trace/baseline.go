package trace

import "fmt"

// PeakSign selects the direction of the event searched by Peak.
type PeakSign int

const (
	// SignMin searches for the most negative-going excursion.
	SignMin PeakSign = iota
	// SignMax searches for the most positive-going excursion.
	SignMax
)

// Peak is a located event extremum.
type Peak struct {
	Time  float64
	Amp   float64
	Index int
}

// Baseline returns a copy of the sweep with the mean of the named channel
// over [start, end] (time, inclusive) subtracted from the entire channel.
func (s *Sweep) Baseline(channel string, start, end float64) (Sweep, error) {
	values, ok := s.Channel(channel)
	if !ok {
		return Sweep{}, fmt.Errorf("%w: %q in sweep %q", ErrMissingChannel, channel, s.Name)
	}

	var sum float64
	var n int
	for i, t := range s.Time {
		if t >= start && t <= end {
			sum += values[i]
			n++
		}
	}
	if n == 0 {
		return Sweep{}, fmt.Errorf("trace: baseline window [%g, %g] contains no samples", start, end)
	}
	avg := sum / float64(n)

	out := s.Clone()
	shifted, _ := out.Channel(channel)
	for i := range shifted {
		shifted[i] -= avg
	}
	return out, nil
}

// FindPeak locates the extremum of the named channel within [start, end]
// (time, inclusive). With SignMin it returns the minimum, with SignMax the
// maximum; the first occurrence wins on ties.
func (s *Sweep) FindPeak(channel string, start, end float64, sign PeakSign) (Peak, error) {
	values, ok := s.Channel(channel)
	if !ok {
		return Peak{}, fmt.Errorf("%w: %q in sweep %q", ErrMissingChannel, channel, s.Name)
	}

	best := Peak{Index: -1}
	for i, t := range s.Time {
		if t < start || t > end {
			continue
		}
		v := values[i]
		if best.Index < 0 ||
			(sign == SignMin && v < best.Amp) ||
			(sign == SignMax && v > best.Amp) {
			best = Peak{Time: t, Amp: v, Index: i}
		}
	}
	if best.Index < 0 {
		return Peak{}, fmt.Errorf("trace: peak window [%g, %g] contains no samples", start, end)
	}
	return best, nil
}
