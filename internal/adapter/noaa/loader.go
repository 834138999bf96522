package noaa

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/co2-fit-explorer/internal/domain"
	"github.com/couchcryptid/co2-fit-explorer/internal/observability"
)

// MissingSentinel marks a month with no measurement.
const MissingSentinel = "-99.99"

// DefaultPreambleLines is the length of the free-text header in the published file.
const DefaultPreambleLines = 56

// Drop reasons, also used as metric labels.
const (
	dropFieldCount = "field_count"
	dropParse      = "parse"
	dropOrder      = "order"
)

var (
	// ErrShortPreamble is returned when the input ends inside the preamble.
	ErrShortPreamble = errors.New("input ended before the preamble")

	// ErrNoData is returned when no data row survives cleaning.
	ErrNoData = errors.New("no valid data rows found")
)

// Options controls how the monthly file is read.
type Options struct {
	PreambleLines int // lines skipped before the first data row
}

// DefaultOptions returns options matching the published file.
func DefaultOptions() Options {
	return Options{PreambleLines: DefaultPreambleLines}
}

// Record is one data row. Value columns holding the sentinel are absent.
type Record struct {
	Year      int
	Month     int
	ExcelDate int
	Date      float64
	values    [6]float64 // NaN when missing
}

// Value returns the named column. ok is false when the month has no value.
func (r Record) Value(c Column) (v float64, ok bool) {
	i, known := columnIndex(c)
	if !known || math.IsNaN(r.values[i]) {
		return 0, false
	}
	return r.values[i], true
}

// LoadStats summarizes a load.
type LoadStats struct {
	Rows    int            `json:"rows"`
	Dropped map[string]int `json:"dropped,omitempty"`
}

// Dataset is the cleaned monthly file, ordered by strictly increasing date.
type Dataset struct {
	Records []Record
	Stats   LoadStats
}

// Series builds a time series of one value column, skipping missing months.
func (d *Dataset) Series(c Column) (domain.TimeSeries, error) {
	if _, ok := columnIndex(c); !ok {
		return domain.TimeSeries{}, fmt.Errorf("%w: %q", ErrUnknownColumn, c)
	}
	obs := make([]domain.Observation, 0, len(d.Records))
	for _, r := range d.Records {
		if v, ok := r.Value(c); ok {
			obs = append(obs, domain.Observation{Date: r.Date, Value: v})
		}
	}
	return domain.NewTimeSeries(string(c), obs)
}

// Loader reads NOAA monthly CO2 files.
type Loader struct {
	opts    Options
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewLoader creates a Loader.
func NewLoader(opts Options, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{opts: opts, logger: logger, metrics: metrics}
}

// LoadFile opens path and loads it.
func (l *Loader) LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open co2 file: %w", err)
	}
	defer f.Close()

	ds, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.logger.Info("co2 file loaded", "path", path, "rows", ds.Stats.Rows, "dropped", ds.Stats.Dropped)
	return ds, nil
}

// Load reads a monthly file from r. Malformed rows are dropped and counted;
// only I/O failures, a truncated preamble, or an empty result are errors.
func (l *Loader) Load(r io.Reader) (*Dataset, error) {
	br := bufio.NewReader(r)
	if err := skipLines(br, l.opts.PreambleLines); err != nil {
		return nil, err
	}

	ds := &Dataset{Stats: LoadStats{Dropped: map[string]int{}}}
	lastDate := math.Inf(-1)
	line := l.opts.PreambleLines

	// Rows are split one line at a time so an unbalanced quote costs only
	// its own row.
	sc := bufio.NewScanner(br)
	for sc.Scan() {
		line++
		text := sc.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}

		fields, err := splitRow(text)
		if err != nil {
			l.drop(ds, dropParse, line, err)
			continue
		}
		if isBlank(fields) {
			continue
		}

		rec, reason, err := parseRecord(fields)
		if err != nil {
			l.drop(ds, reason, line, err)
			continue
		}
		if rec.Date <= lastDate {
			l.drop(ds, dropOrder, line, fmt.Errorf("date %g not after %g", rec.Date, lastDate))
			continue
		}
		lastDate = rec.Date
		ds.Records = append(ds.Records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read co2 csv: %w", err)
	}

	ds.Stats.Rows = len(ds.Records)
	l.metrics.RowsLoaded.Add(float64(ds.Stats.Rows))
	if ds.Stats.Rows == 0 {
		return nil, ErrNoData
	}
	return ds, nil
}

func (l *Loader) drop(ds *Dataset, reason string, line int, err error) {
	ds.Stats.Dropped[reason]++
	l.metrics.RowsDropped.WithLabelValues(reason).Inc()
	l.logger.Debug("co2 row dropped", "line", line, "reason", reason, "error", err)
}

// skipLines discards n newline-terminated lines.
func skipLines(br *bufio.Reader, n int) error {
	for i := 0; i < n; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if err == io.EOF {
				return fmt.Errorf("%w: got %d of %d lines", ErrShortPreamble, i, n)
			}
			return fmt.Errorf("skip preamble: %w", err)
		}
	}
	return nil
}

// splitRow splits a single data line into fields. Quoted fields must close on
// the same line.
func splitRow(text string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	fields, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("split row: %w", err)
	}
	return fields, nil
}

// parseRecord converts one row. On failure it also returns the drop reason.
func parseRecord(fields []string) (Record, string, error) {
	if len(fields) != len(Header) {
		return Record{}, dropFieldCount, fmt.Errorf("want %d fields, got %d", len(Header), len(fields))
	}

	var rec Record
	var err error
	if rec.Year, err = strconv.Atoi(strings.TrimSpace(fields[0])); err != nil {
		return Record{}, dropParse, fmt.Errorf("year: %w", err)
	}
	if rec.Month, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
		return Record{}, dropParse, fmt.Errorf("month: %w", err)
	}
	if rec.ExcelDate, err = strconv.Atoi(strings.TrimSpace(fields[2])); err != nil {
		return Record{}, dropParse, fmt.Errorf("date (int): %w", err)
	}
	if rec.Date, err = strconv.ParseFloat(strings.TrimSpace(fields[3]), 64); err != nil || math.IsNaN(rec.Date) {
		return Record{}, dropParse, fmt.Errorf("date: %q", fields[3])
	}

	for i := range rec.values {
		rec.values[i] = parseValue(fields[dateColumns+i])
	}
	return rec, "", nil
}

// parseValue returns NaN for the sentinel, blanks, and anything unparsable.
func parseValue(s string) float64 {
	s = strings.TrimSpace(strings.Trim(s, "\""))
	switch s {
	case "", MissingSentinel, "NaN", "NA":
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func isBlank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
