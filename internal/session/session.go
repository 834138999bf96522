package session

import (
	"errors"
	"fmt"

	"github.com/couchcryptid/co2-fit-explorer/internal/config"
	"github.com/couchcryptid/co2-fit-explorer/internal/domain"
)

// Default session names.
const (
	Early  = "early"
	Recent = "recent"
)

// Slider settings shared by every session.
const (
	SlopeMin      = 0.0
	SlopeMax      = 5.0
	SlopeStep     = 0.1
	SlopeDefault  = 2.0
	InterceptStep = 0.25

	aroundMinSpread = 5.0
	belowMaxSpread  = 20.0
)

// ErrNoDataInRange is returned when a session's range holds no observations,
// so its intercept bounds cannot be derived.
var ErrNoDataInRange = errors.New("no observations in session range")

// DefaultSpecs are the two charts of the explorer: the start of the record
// and the recent past.
func DefaultSpecs() []config.SessionSpec {
	return []config.SessionSpec{
		{Name: Early, From: 1958, To: 1963, InterceptBounds: config.BoundsAroundMin},
		{Name: Recent, From: 2015, To: 2020, InterceptBounds: config.BoundsBelowMax},
	}
}

// Session is the interactive state of one chart. It is passed by value.
type Session struct {
	Name      string           `json:"name"`
	Range     domain.DateRange `json:"range"`
	Slope     Slider           `json:"slope"`
	Intercept Slider           `json:"intercept"`
}

// Params returns the line currently selected by the sliders.
func (s Session) Params() domain.LineParams {
	return domain.LineParams{Slope: s.Slope.Value, Intercept: s.Intercept.Value}
}

// New builds a session over series from spec. Intercept bounds come from the
// values inside the session range.
func New(series domain.TimeSeries, spec config.SessionSpec) (Session, error) {
	r := domain.DateRange{Min: spec.From, Max: spec.To}
	_, values := domain.Filter(series, &r)

	lo, hi, err := InterceptBounds(spec.InterceptBounds, values)
	if err != nil {
		return Session{}, fmt.Errorf("session %s: %w", spec.Name, err)
	}

	slope := NewSlider(SlopeMin, SlopeMax, SlopeStep, SlopeDefault)
	if spec.Slope != nil {
		slope = slope.Set(*spec.Slope)
	}

	intercept := NewSlider(lo, hi, InterceptStep, (lo+hi)/2)
	if spec.Intercept != nil {
		intercept = intercept.Set(*spec.Intercept)
	}

	return Session{Name: spec.Name, Range: r, Slope: slope, Intercept: intercept}, nil
}

// FromSpecs builds one session per spec, in order.
func FromSpecs(series domain.TimeSeries, specs []config.SessionSpec) ([]Session, error) {
	out := make([]Session, 0, len(specs))
	for _, spec := range specs {
		s, err := New(series, spec)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// InterceptBounds derives the intercept slider range from the session's values:
//
//	around_min (default): [min-5, min+5]
//	below_max:            [max-20, max]
func InterceptBounds(policy string, values []float64) (lo, hi float64, err error) {
	vmin, vmax, ok := domain.ValueExtent(values)
	if !ok {
		return 0, 0, ErrNoDataInRange
	}
	switch policy {
	case config.BoundsBelowMax:
		return vmax - belowMaxSpread, vmax, nil
	case config.BoundsAroundMin, "":
		return vmin - aroundMinSpread, vmin + aroundMinSpread, nil
	default:
		return 0, 0, fmt.Errorf("unknown intercept bounds policy %q", policy)
	}
}
