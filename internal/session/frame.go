package session

import (
	"github.com/couchcryptid/co2-fit-explorer/internal/domain"
)

// Frame is everything the external renderer needs to draw one chart.
type Frame struct {
	Session  string            `json:"session"`
	Range    domain.DateRange  `json:"range"`
	Params   domain.LineParams `json:"params"`
	Observed []domain.Point    `json:"observed"`
	Line     []domain.Point    `json:"line"`
}

// Redraw filters series to the session range and projects the session's line
// over the range endpoints, so the line is anchored at Range.Min.
func Redraw(series domain.TimeSeries, s Session) Frame {
	r := s.Range
	params := s.Params()
	return Frame{
		Session:  s.Name,
		Range:    r,
		Params:   params,
		Observed: domain.FilterPoints(series, &r),
		Line:     domain.ProjectPoints([]float64{r.Min, r.Max}, params),
	}
}

// Predict extrapolates the session's line from Range.Min to target.
func Predict(s Session, target float64) domain.Prediction {
	return domain.PredictAt(s.Params(), s.Range.Min, target)
}
