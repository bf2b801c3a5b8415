// Command abfinfo prints acquisition metadata of Axon Binary Format (v1)
// files.
//
// Usage:
//
//	abfinfo [flags] file.abf [file.abf ...]
//
// Examples:
//
//	abfinfo recording.abf
//	abfinfo -channels recording.abf
//	abfinfo *.abf
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-ephys/abf"
)

func main() {
	channels := flag.Bool("channels", false, "also print per-channel names, units and gains")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: abfinfo [flags] file.abf [file.abf ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints acquisition metadata of ABF v1 files.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  abfinfo recording.abf\n")
		fmt.Fprintf(os.Stderr, "  abfinfo -channels recording.abf\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	exitCode := 0
	for _, path := range paths {
		if err := printInfo(path, *channels); err != nil {
			fmt.Fprintf(os.Stderr, "error: %s: %v\n", path, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func printInfo(path string, channels bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	h, err := abf.ReadHeader(f)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\t%s\n", path)
	fmt.Fprintf(tw, "Version\t%.2f\n", h.Version)
	fmt.Fprintf(tw, "Operation mode\t%s\n", modeName(h.OperationMode))
	fmt.Fprintf(tw, "Channels\t%d\n", h.NumChannels)
	fmt.Fprintf(tw, "Sweeps\t%d\n", h.Sweeps())
	fmt.Fprintf(tw, "Samples/channel\t%d\n", int(h.AcqLength)/int(h.NumChannels))
	fmt.Fprintf(tw, "Sample rate\t%.6g Hz\n", h.SampleRate())
	fmt.Fprintf(tw, "Data format\t%s\n", formatName(h.DataFormat))
	if err := tw.Flush(); err != nil {
		return err
	}

	if channels {
		fmt.Println()
		tw = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "#\tADC\tName\tUnits\tInstrument Scale\tSignal Gain\n")
		for c := 0; c < int(h.NumChannels); c++ {
			adc := int(h.SamplingSeq[c])
			if adc < 0 || adc >= len(h.ChannelNames) {
				adc = c
			}
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%g\t%g\n",
				c,
				adc,
				h.ChannelNames[adc],
				h.Units[adc],
				h.InstrumentScale[adc],
				h.SignalGain[adc],
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	fmt.Println()
	return nil
}

func modeName(mode int16) string {
	switch mode {
	case 1:
		return "event-driven, variable length"
	case 2:
		return "event-driven, fixed length"
	case 3:
		return "gap-free"
	case 4:
		return "oscilloscope (high-speed)"
	case 5:
		return "episodic stimulation"
	default:
		return fmt.Sprintf("unknown (%d)", mode)
	}
}

func formatName(format int16) string {
	switch format {
	case 0:
		return "int16"
	case 1:
		return "float32"
	default:
		return fmt.Sprintf("unknown (%d)", format)
	}
}
