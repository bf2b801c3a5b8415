package epoch

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-ephys/trace"
)

var (
	// ErrConfig reports invalid segmentation parameters: non-positive
	// window or step, a window longer than the sweeps, or a window/step
	// combination producing 1000 or more epochs.
	ErrConfig = errors.New("epoch: invalid segmentation parameters")
	// ErrEstimation reports a statistic that could not be computed over an
	// epoch, such as a density estimate of a constant-valued window.
	ErrEstimation = errors.New("epoch: estimation failed")
)

// maxEpochs caps the per-sweep epoch count. The three-digit epoch naming
// scheme holds up to 999 epochs; beyond that the configuration is rejected
// rather than truncated.
const maxEpochs = 999

// EpochName formats the canonical epoch name for a 1-based epoch number
// ("epoch001", "epoch002", ...).
func EpochName(n int) string {
	return fmt.Sprintf("epoch%03d", n)
}

// EpochNames returns the names of the first num epochs in order.
func EpochNames(num int) []string {
	names := make([]string, num)
	for i := range names {
		names[i] = EpochName(i + 1)
	}
	return names
}

// NumEpochs returns the number of complete epochs of window samples,
// advancing by step, that fit into rows samples. Trailing samples beyond
// the last complete epoch are not counted.
func NumEpochs(rows, window, step int) int {
	if window <= 0 || step <= 0 || window > rows {
		return 0
	}
	return 1 + (rows-window)/step
}

// Slice is one epoch of one sweep.
type Slice struct {
	Sweep      string
	Epoch      string
	EpochIndex int // 0-based
	Start      int // sample offset of the epoch within its sweep

	sweep  *trace.Sweep
	window int
}

// Len returns the epoch length in samples.
func (s Slice) Len() int {
	return s.window
}

// Channel returns the epoch's view of the named channel. The slice aliases
// the underlying series and must be treated as read-only.
func (s Slice) Channel(name string) ([]float64, bool) {
	full, ok := s.sweep.Channel(name)
	if !ok {
		return nil, false
	}
	return full[s.Start : s.Start+s.window], true
}

// Time returns the epoch's view of the sweep time axis, read-only.
func (s Slice) Time() []float64 {
	return s.sweep.Time[s.Start : s.Start+s.window]
}

// Iterator yields epoch slices ordered sweep-major, epoch-minor. It is
// restarted by calling Segment again, not resumed.
type Iterator struct {
	series    *trace.Series
	window    int
	step      int
	numEpochs int

	sweepIdx int
	epochIdx int
	current  Slice
	started  bool
}

// Segment validates the series and parameters and returns an iterator over
// all epochs of all sweeps.
//
// The epoch count per sweep is 1 + (rows-window)/step and every sweep must
// have the same row count. Failures: ErrConfig for bad parameters,
// trace.ErrShapeMismatch for unequal sweeps.
func Segment(s *trace.Series, window, step int) (*Iterator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if window <= 0 {
		return nil, fmt.Errorf("%w: window must be > 0: %d", ErrConfig, window)
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step must be > 0: %d", ErrConfig, step)
	}
	rows := s.Rows()
	if window > rows {
		return nil, fmt.Errorf("%w: window %d exceeds sweep length %d", ErrConfig, window, rows)
	}
	num := NumEpochs(rows, window, step)
	if num > maxEpochs {
		return nil, fmt.Errorf("%w: %d epochs per sweep, limit %d; increase window or step",
			ErrConfig, num, maxEpochs)
	}

	return &Iterator{
		series:    s,
		window:    window,
		step:      step,
		numEpochs: num,
	}, nil
}

// NumEpochs returns the per-sweep epoch count of the iterator.
func (it *Iterator) NumEpochs() int {
	return it.numEpochs
}

// Next advances to the next epoch slice. It returns false when all sweeps
// are exhausted.
func (it *Iterator) Next() bool {
	if it.started {
		it.epochIdx++
		if it.epochIdx >= it.numEpochs {
			it.epochIdx = 0
			it.sweepIdx++
		}
	}
	it.started = true

	if it.sweepIdx >= len(it.series.Sweeps) {
		return false
	}

	sweep := &it.series.Sweeps[it.sweepIdx]
	it.current = Slice{
		Sweep:      sweep.Name,
		Epoch:      EpochName(it.epochIdx + 1),
		EpochIndex: it.epochIdx,
		Start:      it.epochIdx * it.step,
		sweep:      sweep,
		window:     it.window,
	}
	return true
}

// Slice returns the current epoch. Only valid after Next reported true.
func (it *Iterator) Slice() Slice {
	return it.current
}
