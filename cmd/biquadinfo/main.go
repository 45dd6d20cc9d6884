// Command biquadinfo prints coefficients and magnitude responses of the
// biquad designs.
//
// Usage:
//
//	biquadinfo [flags] [shape ...]
//
// Without arguments it prints every shape under every design method.
//
// Examples:
//
//	biquadinfo lowpass
//	biquadinfo --freq 0.2 --q 4 --design vicanek lowpass highpass
//	biquadinfo --gain-db -6 --octaves 2 peak
//	biquadinfo --list
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-stretch/dsp/filter/biquad"
	"github.com/spf13/pflag"
)

type params struct {
	freq    float64
	q       float64
	octaves float64
	gainDB  float64
}

// param returns the shape's second design parameter as biquad.Compute
// expects it.
func (p params) param(shape biquad.Shape) float64 {
	switch shape {
	case biquad.ShapeBandpass, biquad.ShapeNotch, biquad.ShapePeak:
		return p.octaves
	default:
		return p.q
	}
}

func main() {
	freq := pflag.Float64("freq", 0.1, "normalized frequency in cycles per sample (0, 0.5)")
	q := pflag.Float64("q", math.Sqrt2/2, "quality factor for lowpass, highpass and allpass")
	octaves := pflag.Float64("octaves", 1, "bandwidth in octaves for bandpass, notch and peak")
	gainDB := pflag.Float64("gain-db", 6, "gain in dB for peak and shelves")
	designName := pflag.String("design", "", "only this design method (bilinear, cookbook, one-sided, vicanek)")
	list := pflag.Bool("list", false, "list shapes and design methods")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: biquadinfo [flags] [shape ...]\n\n")
		fmt.Fprintf(os.Stderr, "Prints coefficients and magnitudes of biquad designs.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *list {
		printList(os.Stdout)
		return
	}

	if !(*freq > 0 && *freq < 0.5) {
		fmt.Fprintf(os.Stderr, "error: --freq must be in (0, 0.5), got %v\n", *freq)
		os.Exit(1)
	}

	shapes, err := resolveShapes(pflag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	designs := biquad.Designs[:]
	if *designName != "" {
		d, err := parseDesign(*designName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}

		designs = []biquad.Design{d}
	}

	p := params{freq: *freq, q: *q, octaves: *octaves, gainDB: *gainDB}
	if err := printAnalysis(os.Stdout, shapes, designs, p); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printList(w io.Writer) {
	fmt.Fprintln(w, "shapes:")
	for _, s := range biquad.Shapes {
		fmt.Fprintf(w, "  %s\n", s)
	}

	fmt.Fprintln(w, "designs:")
	for _, d := range biquad.Designs {
		fmt.Fprintf(w, "  %s\n", d)
	}
}

func resolveShapes(names []string) ([]biquad.Shape, error) {
	if len(names) == 0 {
		return biquad.Shapes[:], nil
	}

	byName := make(map[string]biquad.Shape, len(biquad.Shapes))
	for _, s := range biquad.Shapes {
		byName[s.String()] = s
	}

	result := make([]biquad.Shape, 0, len(names))
	for _, name := range names {
		s, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown shape %q (use --list to see available)", name)
		}

		result = append(result, s)
	}

	return result, nil
}

func parseDesign(name string) (biquad.Design, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range biquad.Designs {
		if d.String() == name {
			return d, nil
		}
	}

	return 0, fmt.Errorf("unknown design %q", name)
}

// probes returns the frequencies the magnitude columns are measured at.
func probes(freq float64) [4]float64 {
	return [4]float64{0, freq, min(2*freq, 0.5), 0.5}
}

func printAnalysis(w io.Writer, shapes []biquad.Shape, designs []biquad.Design, p params) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	f := probes(p.freq)

	if _, err := fmt.Fprintf(tw, "Shape\tDesign\tB0\tB1\tB2\tA1\tA2\tDC [dB]\t%.3g [dB]\t%.3g [dB]\tNyquist [dB]\tStable\n", f[1], f[2]); err != nil {
		return fmt.Errorf("unable to write the header: %w", err)
	}

	for _, s := range shapes {
		for _, d := range designs {
			c := biquad.Compute(s, p.freq, p.param(s), p.gainDB, d)

			if _, err := fmt.Fprintf(tw, "%s\t%s\t%.6f\t%.6f\t%.6f\t%.6f\t%.6f\t%s\t%s\t%s\t%s\t%t\n",
				s, d, c.B0, c.B1, c.B2, c.A1, c.A2,
				formatDB(c.MagnitudeDB(f[0])),
				formatDB(c.MagnitudeDB(f[1])),
				formatDB(c.MagnitudeDB(f[2])),
				formatDB(c.MagnitudeDB(f[3])),
				c.Stable(),
			); err != nil {
				return fmt.Errorf("unable to write a row: %w", err)
			}
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("unable to flush the output: %w", err)
	}

	return nil
}

func formatDB(db float64) string {
	if math.IsInf(db, -1) || db < -300 {
		return "-inf"
	}

	return fmt.Sprintf("%.2f", db)
}
