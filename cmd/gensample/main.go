// Command gensample writes a synthetic monthly CO2 file in the NOAA Mauna Loa
// layout and prints the figures tests assert on. It loads the file back with
// the real loader and sessions so the printed numbers match what co2fit
// computes.
//
// Usage:
//
//	go run ./cmd/gensample \
//	  -out internal/adapter/noaa/testdata/synthetic.csv \
//	  -from 1958 -to 2020 \
//	  -gaps 1958-01,1958-02 -missing 1958-06
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/co2-fit-explorer/internal/adapter/noaa"
	"github.com/couchcryptid/co2-fit-explorer/internal/observability"
	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// curve is the synthetic record: a quadratic trend plus an annual cycle.
type curve struct {
	start     float64 // decimal year of t = 0
	base      float64 // ppm at start
	slope     float64 // ppm per year at start
	accel     float64 // ppm per year squared
	amplitude float64 // half the seasonal swing in ppm
}

func (c curve) trend(d float64) float64 {
	t := d - c.start
	return c.base + c.slope*t + c.accel*t*t
}

func (c curve) seasonal(d float64) float64 {
	_, frac := math.Modf(d)
	return c.amplitude * math.Sin(2*math.Pi*(frac+0.1))
}

type options struct {
	out       string
	from, to  int
	preamble  int
	curve     curve
	gaps      map[string]bool // every value column missing
	missing   map[string]bool // measured columns missing, fits present
	predictTo float64
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("gensample", flag.ContinueOnError)
	out := fs.String("out", "", "output path for the generated CSV")
	from := fs.Int("from", 1958, "first year")
	to := fs.Int("to", 2020, "last year")
	preamble := fs.Int("preamble", noaa.DefaultPreambleLines, "number of preamble lines")
	base := fs.Float64("base", 315, "ppm in January of the first year")
	slope := fs.Float64("slope", 0.8, "initial growth in ppm per year")
	accel := fs.Float64("accel", 0.0125, "growth acceleration in ppm per year squared")
	amplitude := fs.Float64("amplitude", 3, "seasonal amplitude in ppm")
	gaps := fs.String("gaps", "1958-01,1958-02", "comma separated YYYY-MM months with no values at all")
	missing := fs.String("missing", "1958-06", "comma separated YYYY-MM months with no measurement")
	target := fs.Float64("target", 2030, "prediction year for the printed stats")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *out == "" {
		fs.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	if *to < *from {
		return fmt.Errorf("-to %d is before -from %d", *to, *from)
	}

	opts := options{
		out:      *out,
		from:     *from,
		to:       *to,
		preamble: *preamble,
		curve: curve{
			start:     float64(*from),
			base:      *base,
			slope:     *slope,
			accel:     *accel,
			amplitude: *amplitude,
		},
		gaps:      monthSet(*gaps),
		missing:   monthSet(*missing),
		predictTo: *target,
	}

	if err := writeFile(opts); err != nil {
		return fmt.Errorf("writing sample: %w", err)
	}
	fmt.Fprintf(stdout, "wrote %s\n", opts.out)

	return printStats(stdout, opts)
}

func monthSet(list string) map[string]bool {
	set := map[string]bool{}
	for _, m := range strings.Split(list, ",") {
		if m = strings.TrimSpace(m); m != "" {
			set[m] = true
		}
	}
	return set
}

func writeFile(opts options) error {
	if err := os.MkdirAll(filepath.Dir(opts.out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := generate(w, opts); err != nil {
		return err
	}
	return w.Flush()
}

// generate writes the preamble and one row per month.
func generate(w io.Writer, opts options) error {
	for i := 1; i <= opts.preamble; i++ {
		var line string
		switch i {
		case 1:
			line = " Synthetic monthly CO2 record in the Mauna Loa in situ layout."
		case 2:
			line = fmt.Sprintf(" Generated by gensample for %d-%d; values are not measurements.", opts.from, opts.to)
		case opts.preamble:
			line = " " + strings.Join(noaa.Header, ", ")
		default:
			line = fmt.Sprintf(" Preamble line %d", i)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	for year := opts.from; year <= opts.to; year++ {
		for month := 1; month <= 12; month++ {
			if _, err := fmt.Fprintln(w, row(opts, year, month)); err != nil {
				return err
			}
		}
	}
	return nil
}

func row(opts options, year, month int) string {
	d := float64(year) + (float64(month)-0.5)/12
	excel := int(time.Date(year, time.Month(month), 15, 0, 0, 0, 0, time.UTC).Sub(excelEpoch).Hours() / 24)

	sa := opts.curve.trend(d)
	co2 := sa + opts.curve.seasonal(d)
	fit, saFit := co2+0.1, sa+0.1

	key := fmt.Sprintf("%04d-%02d", year, month)
	values := []string{ppm(co2), ppm(sa), ppm(fit), ppm(saFit), ppm(co2), ppm(sa)}
	switch {
	case opts.gaps[key]:
		for i := range values {
			values[i] = noaa.MissingSentinel
		}
	case opts.missing[key]:
		values[0], values[1] = noaa.MissingSentinel, noaa.MissingSentinel
		values[4], values[5] = ppm(fit), ppm(saFit)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %4d, %02d, %7d, %9.4f", year, month, excel, d)
	for _, v := range values {
		fmt.Fprintf(&b, ", %9s", v)
	}
	return b.String()
}

func ppm(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// printStats reloads the generated file and prints the numbers tests assert on.
func printStats(w io.Writer, opts options) error {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := noaa.NewLoader(noaa.Options{PreambleLines: opts.preamble}, logger, observability.NewMetricsForTesting())
	ds, err := loader.LoadFile(opts.out)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "\n=== Stats for updating test assertions ===")
	fmt.Fprintf(w, "Rows: %d\n", ds.Stats.Rows)
	for _, c := range noaa.Columns() {
		s, err := ds.Series(c)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Points %q: %d\n", c, s.Len())
	}

	series, err := ds.Series(noaa.ColumnCO2)
	if err != nil {
		return err
	}
	for _, spec := range session.DefaultSpecs() {
		s, err := session.New(series, spec)
		if err != nil {
			fmt.Fprintf(w, "Skipped %v\n", err)
			continue
		}
		f := session.Redraw(series, s)
		fmt.Fprintf(w, "Session %s: observed=%d intercept=[%g, %g] default=%g\n",
			s.Name, len(f.Observed), s.Intercept.Min, s.Intercept.Max, s.Intercept.Value)
		fmt.Fprintf(w, "  %s\n", session.Predict(s, opts.predictTo))
	}
	return nil
}
