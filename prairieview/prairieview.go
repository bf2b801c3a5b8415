// Package prairieview imports PrairieView 5.0+ voltage recording and
// linescan data: an XML metadata file per acquisition describing the enabled
// channels and their scaling, next to CSV files holding the samples.
package prairieview

import (
	"encoding/csv"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-ephys/trace"
)

// ErrMetadata reports a voltage recording XML file this importer cannot use.
var ErrMetadata = errors.New("prairieview: invalid recording metadata")

// ChannelInfo is the scaling of one patch-clamp channel.
type ChannelInfo struct {
	Unit    string
	Divisor float64
}

// Metadata is the parsed acquisition description of one recording.
type Metadata struct {
	// SampleRate is the acquisition rate in Hz.
	SampleRate int
	// Duration is the recording time in seconds.
	Duration float64
	// Channels are the enabled physical channel names, lowercased, in
	// file order.
	Channels []string
	// Clamp holds unit and divisor for channels recorded through a
	// patch-clamp amplifier, keyed by lowercased channel name.
	Clamp map[string]ChannelInfo
	// DataFile is the voltage recording CSV base name, without extension.
	// Empty when the acquisition is linescan-only.
	DataFile string
	// LinescanFile is the linescan profile CSV name, when present.
	LinescanFile string
}

type sessionXML struct {
	XMLName  xml.Name    `xml:"VRecSessionEntry"`
	Rate     int         `xml:"Experiment>Rate"`
	AcqTime  int         `xml:"Experiment>AcquisitionTime"`
	Signals  []signalXML `xml:"Experiment>SignalList>VRecSignal"`
	DataFile string      `xml:"DataFile"`
	Linescan string      `xml:"AssociatedLinescanProfileFile"`
}

type signalXML struct {
	Name    string  `xml:"Name"`
	Enabled bool    `xml:"Enabled"`
	Type    string  `xml:"Type"`
	Device  string  `xml:"Unit>PatchclampDevice"`
	Unit    string  `xml:"Unit>UnitName"`
	Divisor float64 `xml:"Unit>Divisor"`
}

// ParseXML reads a VoltageRecording XML metadata document.
func ParseXML(r io.Reader) (*Metadata, error) {
	var doc sessionXML
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMetadata, err)
	}
	if doc.Rate <= 0 {
		return nil, fmt.Errorf("%w: sampling rate %d", ErrMetadata, doc.Rate)
	}

	meta := &Metadata{
		SampleRate: doc.Rate,
		Duration:   float64(doc.AcqTime) / 1000,
		Clamp:      make(map[string]ChannelInfo),
	}
	for _, sig := range doc.Signals {
		if !sig.Enabled || sig.Type != "Physical" {
			continue
		}
		name := strings.ToLower(sig.Name)
		meta.Channels = append(meta.Channels, name)
		if sig.Device != "" {
			meta.Clamp[name] = ChannelInfo{Unit: sig.Unit, Divisor: sig.Divisor}
		}
	}
	if len(meta.Channels) == 0 {
		return nil, fmt.Errorf("%w: no enabled physical channels", ErrMetadata)
	}

	// Without an explicit linescan reference, a data file named like a
	// linescan is one; otherwise it is the voltage recording.
	if doc.Linescan == "" && strings.Contains(doc.DataFile, "LineScan") {
		meta.LinescanFile = doc.DataFile
	} else {
		meta.DataFile = doc.DataFile
		meta.LinescanFile = doc.Linescan
	}
	return meta, nil
}

// ReadRecording parses a voltage recording CSV into a sweep. The first
// column is time in ms, converted to seconds; the remaining columns follow
// meta.Channels, with patch-clamp channels divided by their divisor.
func ReadRecording(r io.Reader, meta *Metadata, name string) (trace.Sweep, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return trace.Sweep{}, fmt.Errorf("prairieview: reading recording: %w", err)
	}
	if len(records) < 2 {
		return trace.Sweep{}, fmt.Errorf("%w: recording CSV has no data rows", ErrMetadata)
	}
	records = records[1:] // header

	sw := trace.Sweep{
		Name:     name,
		Time:     make([]float64, len(records)),
		Channels: make([]trace.Channel, len(meta.Channels)),
	}
	for c, chName := range meta.Channels {
		sw.Channels[c] = trace.Channel{
			Name:    chName,
			Samples: make([]float64, len(records)),
		}
	}

	for i, rec := range records {
		if len(rec) != len(meta.Channels)+1 {
			return trace.Sweep{}, fmt.Errorf("%w: row %d has %d columns, want %d",
				ErrMetadata, i+2, len(rec), len(meta.Channels)+1)
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return trace.Sweep{}, fmt.Errorf("%w: row %d time: %v", ErrMetadata, i+2, err)
		}
		sw.Time[i] = t / 1000

		for c, chName := range meta.Channels {
			v, err := strconv.ParseFloat(rec[c+1], 64)
			if err != nil {
				return trace.Sweep{}, fmt.Errorf("%w: row %d column %q: %v",
					ErrMetadata, i+2, chName, err)
			}
			if info, ok := meta.Clamp[chName]; ok && info.Divisor != 0 {
				v /= info.Divisor
			}
			sw.Channels[c].Samples[i] = v
		}
	}
	return sw, nil
}

// ReadLinescan parses a linescan profile CSV into a sweep. The first column
// is the time axis; further time columns (headers ending in "(ms)") are
// dropped and the profile columns become channels under their trimmed
// headers. All times convert from ms to seconds.
func ReadLinescan(r io.Reader, name string) (trace.Sweep, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return trace.Sweep{}, fmt.Errorf("prairieview: reading linescan: %w", err)
	}
	if len(records) < 2 {
		return trace.Sweep{}, fmt.Errorf("%w: linescan CSV has no data rows", ErrMetadata)
	}
	header, records := records[0], records[1:]

	sw := trace.Sweep{Name: name, Time: make([]float64, len(records))}
	var valueCols []int
	for c := 1; c < len(header); c++ {
		if strings.HasSuffix(strings.TrimSpace(header[c]), "(ms)") {
			continue
		}
		valueCols = append(valueCols, c)
		sw.Channels = append(sw.Channels, trace.Channel{
			Name:    strings.TrimSpace(header[c]),
			Samples: make([]float64, len(records)),
		})
	}

	for i, rec := range records {
		if len(rec) != len(header) {
			return trace.Sweep{}, fmt.Errorf("%w: linescan row %d has %d columns, want %d",
				ErrMetadata, i+2, len(rec), len(header))
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return trace.Sweep{}, fmt.Errorf("%w: linescan row %d time: %v", ErrMetadata, i+2, err)
		}
		sw.Time[i] = t / 1000

		for c, col := range valueCols {
			v, err := strconv.ParseFloat(rec[col], 64)
			if err != nil {
				return trace.Sweep{}, fmt.Errorf("%w: linescan row %d column %d: %v",
					ErrMetadata, i+2, col, err)
			}
			sw.Channels[c].Samples[i] = v
		}
	}
	return sw, nil
}

// Import is the result of reading a PrairieView acquisition folder.
type Import struct {
	// Recording collects the voltage recording sweeps, nil when the
	// folder holds none.
	Recording *trace.Series
	// Linescan collects the linescan profile sweeps, nil when the folder
	// holds none.
	Linescan *trace.Series
	// Meta holds the per-acquisition metadata in sweep order.
	Meta []*Metadata
}

// ImportFolder reads every voltage recording acquisition in a folder. The
// folder must contain *_VoltageRecording_*.xml metadata files with their CSV
// data files next to them; acquisitions become sweeps in file name order.
func ImportFolder(dir string) (*Import, error) {
	pattern := filepath.Join(dir, "*_VoltageRecording_*.xml")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("prairieview: %w", err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no voltage recording XML in %s", ErrMetadata, dir)
	}

	out := &Import{}
	for i, xmlPath := range matches {
		meta, err := parseXMLFile(xmlPath)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(xmlPath), err)
		}
		out.Meta = append(out.Meta, meta)
		name := trace.SweepName(i + 1)

		if meta.DataFile != "" {
			sw, err := readCSVFile(filepath.Join(dir, meta.DataFile+".csv"),
				func(r io.Reader) (trace.Sweep, error) { return ReadRecording(r, meta, name) })
			if err != nil {
				return nil, err
			}
			if out.Recording == nil {
				out.Recording = &trace.Series{}
			}
			out.Recording.Sweeps = append(out.Recording.Sweeps, sw)
		}
		if meta.LinescanFile != "" {
			sw, err := readCSVFile(filepath.Join(dir, meta.LinescanFile),
				func(r io.Reader) (trace.Sweep, error) { return ReadLinescan(r, name) })
			if err != nil {
				return nil, err
			}
			if out.Linescan == nil {
				out.Linescan = &trace.Series{}
			}
			out.Linescan.Sweeps = append(out.Linescan.Sweeps, sw)
		}
	}

	if out.Recording != nil {
		if err := out.Recording.Validate(); err != nil {
			return nil, err
		}
	}
	if out.Linescan != nil {
		if err := out.Linescan.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func parseXMLFile(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("prairieview: %w", err)
	}
	defer f.Close()
	return ParseXML(f)
}

func readCSVFile(path string, read func(io.Reader) (trace.Sweep, error)) (trace.Sweep, error) {
	f, err := os.Open(path)
	if err != nil {
		return trace.Sweep{}, fmt.Errorf("prairieview: %w", err)
	}
	defer f.Close()
	sw, err := read(f)
	if err != nil {
		return trace.Sweep{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return sw, nil
}
