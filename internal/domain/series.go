package domain

import (
	"errors"
	"fmt"
	"math"
)

// ErrDatesNotIncreasing is returned when observations are not in strictly increasing date order.
var ErrDatesNotIncreasing = errors.New("dates must be strictly increasing")

// Observation is one monthly measurement.
type Observation struct {
	Date  float64 `json:"date"`  // decimal year
	Value float64 `json:"value"` // ppm
}

// Point is an (x, y) pair handed to the external renderer.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TimeSeries is an immutable, date-ordered sequence of observations.
// The zero value is an empty series.
type TimeSeries struct {
	name string
	obs  []Observation
}

// NewTimeSeries copies obs into a TimeSeries, rejecting non-increasing or NaN dates.
func NewTimeSeries(name string, obs []Observation) (TimeSeries, error) {
	for i, o := range obs {
		if math.IsNaN(o.Date) {
			return TimeSeries{}, fmt.Errorf("observation %d: date is NaN", i)
		}
		if i > 0 && o.Date <= obs[i-1].Date {
			return TimeSeries{}, fmt.Errorf("observation %d (date %g after %g): %w",
				i, o.Date, obs[i-1].Date, ErrDatesNotIncreasing)
		}
	}
	cp := make([]Observation, len(obs))
	copy(cp, obs)
	return TimeSeries{name: name, obs: cp}, nil
}

// Name returns the value column the series was built from, e.g. "co2".
func (s TimeSeries) Name() string { return s.name }

// Len returns the number of observations.
func (s TimeSeries) Len() int { return len(s.obs) }

// At returns the i-th observation.
func (s TimeSeries) At(i int) Observation { return s.obs[i] }

// Observations returns a copy of the underlying observations.
func (s TimeSeries) Observations() []Observation {
	cp := make([]Observation, len(s.obs))
	copy(cp, s.obs)
	return cp
}

// Dates returns the x axis as a fresh slice.
func (s TimeSeries) Dates() []float64 {
	out := make([]float64, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Date
	}
	return out
}

// Values returns the y axis as a fresh slice.
func (s TimeSeries) Values() []float64 {
	out := make([]float64, len(s.obs))
	for i, o := range s.obs {
		out[i] = o.Value
	}
	return out
}

// DateRange is an inclusive [Min, Max] bound on the date axis.
// Min <= Max is the caller's responsibility.
type DateRange struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Contains reports whether d lies in the closed interval.
func (r DateRange) Contains(d float64) bool {
	return r.Min <= d && d <= r.Max
}

// FullRange returns the extent of s. An empty series yields the zero range.
func FullRange(s TimeSeries) DateRange {
	if len(s.obs) == 0 {
		return DateRange{}
	}
	// Dates are sorted, so the extent is the first and last observation.
	return DateRange{Min: s.obs[0].Date, Max: s.obs[len(s.obs)-1].Date}
}

// ValueExtent returns the smallest and largest of values.
// ok is false when values is empty.
func ValueExtent(values []float64) (lo, hi float64, ok bool) {
	if len(values) == 0 {
		return 0, 0, false
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, true
}
