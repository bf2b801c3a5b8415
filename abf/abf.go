// Package abf reads Axon Binary Format (ABF) version 1 files as produced by
// pClamp acquisition software, converting them into sweep series.
//
// Only the legacy v1 layout is supported: a fixed binary header addressed by
// byte offset, followed by 512-byte-aligned data blocks of interleaved
// samples. ABF2 files are rejected.
package abf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/cwbudde/algo-ephys/trace"
)

var (
	// ErrFormat reports a file that is not a readable ABF v1 file.
	ErrFormat = errors.New("abf: not an ABF v1 file")
	// ErrUnsupported reports a valid ABF file using features outside the
	// v1 subset handled here.
	ErrUnsupported = errors.New("abf: unsupported file layout")
)

const (
	headerSize = 2048
	blockSize  = 512

	maxADCChannels = 16

	formatInt16   = 0
	formatFloat32 = 1
)

// Header holds the ABF v1 fields needed to locate, split, and scale the
// recorded data.
type Header struct {
	Version        float32
	OperationMode  int16
	AcqLength      int32 // total samples across all channels
	PointsIgnored  int16
	Episodes       int32
	DataSectionPtr int32 // in 512-byte blocks
	DataFormat     int16
	NumChannels    int16
	// SampleInterval is the per-channel conversion interval in µs.
	SampleInterval    float32
	SamplesPerEpisode int32 // across all channels
	ADCRange          float32
	ADCResolution     int32

	SamplingSeq  [maxADCChannels]int16
	ChannelNames [maxADCChannels]string
	Units        [maxADCChannels]string

	ProgrammableGain [maxADCChannels]float32
	InstrumentScale  [maxADCChannels]float32
	InstrumentOffset [maxADCChannels]float32
	SignalGain       [maxADCChannels]float32
	SignalOffset     [maxADCChannels]float32
}

// SampleRate returns the per-channel sampling rate in Hz.
func (h *Header) SampleRate() float64 {
	interval := float64(h.SampleInterval) * float64(h.NumChannels)
	if interval <= 0 {
		return 0
	}
	return 1e6 / interval
}

// Sweeps returns the number of sweeps the data section splits into.
func (h *Header) Sweeps() int {
	if h.Episodes > 0 && h.SamplesPerEpisode > 0 {
		return int(h.Episodes)
	}
	return 1
}

// ReadHeader parses the fixed v1 header.
func ReadHeader(r io.ReadSeeker) (*Header, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("abf: seeking header: %w", err)
	}
	buf := make([]byte, headerSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrFormat, err)
	}

	switch sig := string(buf[0:4]); sig {
	case "ABF ":
	case "ABF2":
		return nil, fmt.Errorf("%w: ABF2 files are not supported", ErrUnsupported)
	default:
		return nil, fmt.Errorf("%w: bad signature %q", ErrFormat, sig)
	}

	h := &Header{
		Version:           f32(buf, 4),
		OperationMode:     i16(buf, 8),
		AcqLength:         i32(buf, 10),
		PointsIgnored:     i16(buf, 14),
		Episodes:          i32(buf, 16),
		DataSectionPtr:    i32(buf, 40),
		DataFormat:        i16(buf, 100),
		NumChannels:       i16(buf, 120),
		SampleInterval:    f32(buf, 122),
		SamplesPerEpisode: i32(buf, 138),
		ADCRange:          f32(buf, 244),
		ADCResolution:     i32(buf, 252),
	}

	for i := 0; i < maxADCChannels; i++ {
		h.SamplingSeq[i] = i16(buf, 410+2*i)
		h.ChannelNames[i] = str(buf, 442+10*i, 10)
		h.Units[i] = str(buf, 602+8*i, 8)
		h.ProgrammableGain[i] = f32(buf, 730+4*i)
		h.InstrumentScale[i] = f32(buf, 922+4*i)
		h.InstrumentOffset[i] = f32(buf, 986+4*i)
		h.SignalGain[i] = f32(buf, 1050+4*i)
		h.SignalOffset[i] = f32(buf, 1114+4*i)
	}

	if err := h.validate(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Header) validate() error {
	if h.NumChannels < 1 || h.NumChannels > maxADCChannels {
		return fmt.Errorf("%w: %d ADC channels", ErrFormat, h.NumChannels)
	}
	if h.AcqLength <= 0 {
		return fmt.Errorf("%w: acquisition length %d", ErrFormat, h.AcqLength)
	}
	if h.DataFormat != formatInt16 && h.DataFormat != formatFloat32 {
		return fmt.Errorf("%w: data format %d", ErrUnsupported, h.DataFormat)
	}
	if h.DataSectionPtr <= 0 {
		return fmt.Errorf("%w: data section pointer %d", ErrFormat, h.DataSectionPtr)
	}
	if int(h.AcqLength)%int(h.NumChannels) != 0 {
		return fmt.Errorf("%w: %d samples do not divide into %d channels",
			ErrFormat, h.AcqLength, h.NumChannels)
	}
	return nil
}

// scale returns the multiplicative gain and additive offset converting raw
// integer counts of the physical ADC channel to its recorded units.
func (h *Header) scale(adc int) (gain, offset float64) {
	gain = float64(h.ADCRange) / float64(h.ADCResolution)
	for _, g := range []float32{h.InstrumentScale[adc], h.SignalGain[adc], h.ProgrammableGain[adc]} {
		if g != 0 {
			gain /= float64(g)
		}
	}
	offset = float64(h.InstrumentOffset[adc]) - float64(h.SignalOffset[adc])
	return gain, offset
}

// Read parses an ABF v1 file into a sweep series.
//
// The first acquired channel is named "primary" and further channels
// "channel_1", "channel_2", ... in acquisition order, matching the naming
// the analysis packages expect. Each sweep's time axis starts at zero.
func Read(r io.ReadSeeker) (*trace.Series, error) {
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	raw, err := readSamples(r, h)
	if err != nil {
		return nil, err
	}

	numCh := int(h.NumChannels)
	totalRows := len(raw) / numCh
	sweeps := h.Sweeps()
	rows := totalRows / sweeps
	if rows == 0 || totalRows%sweeps != 0 {
		return nil, fmt.Errorf("%w: %d rows do not divide into %d sweeps", ErrFormat, totalRows, sweeps)
	}

	rate := h.SampleRate()
	if rate <= 0 {
		return nil, fmt.Errorf("%w: sample interval %g", ErrFormat, h.SampleInterval)
	}
	dt := 1 / rate

	series := &trace.Series{Sweeps: make([]trace.Sweep, sweeps)}
	for s := 0; s < sweeps; s++ {
		sw := trace.Sweep{
			Name:     trace.SweepName(s + 1),
			Time:     make([]float64, rows),
			Channels: make([]trace.Channel, numCh),
		}
		for i := range sw.Time {
			sw.Time[i] = float64(i) * dt
		}
		for c := 0; c < numCh; c++ {
			adc := int(h.SamplingSeq[c])
			if adc < 0 || adc >= maxADCChannels {
				adc = c
			}
			gain, offset := h.scale(adc)

			samples := make([]float64, rows)
			for i := range samples {
				v := raw[(s*rows+i)*numCh+c]
				if h.DataFormat == formatInt16 {
					v = v*gain + offset
				}
				samples[i] = v
			}
			sw.Channels[c] = trace.Channel{Name: importName(c), Samples: samples}
		}
		series.Sweeps[s] = sw
	}

	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// importName maps acquisition order to the analysis naming convention.
func importName(c int) string {
	if c == 0 {
		return "primary"
	}
	return fmt.Sprintf("channel_%d", c)
}

func readSamples(r io.ReadSeeker, h *Header) ([]float64, error) {
	sampleBytes := 2
	if h.DataFormat == formatFloat32 {
		sampleBytes = 4
	}
	start := int64(h.DataSectionPtr)*blockSize + int64(h.PointsIgnored)*int64(sampleBytes)
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, fmt.Errorf("abf: seeking data section: %w", err)
	}

	n := int(h.AcqLength)
	buf := make([]byte, n*sampleBytes)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: reading %d samples: %v", ErrFormat, n, err)
	}

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if h.DataFormat == formatInt16 {
			out[i] = float64(int16(binary.LittleEndian.Uint16(buf[i*2:])))
		} else {
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:])))
		}
	}
	return out, nil
}

func f32(buf []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:]))
}

func i32(buf []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(buf[off:]))
}

func i16(buf []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(buf[off:]))
}

func str(buf []byte, off, n int) string {
	return strings.TrimRight(string(buf[off:off+n]), " \x00")
}
