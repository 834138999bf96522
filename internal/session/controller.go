package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/couchcryptid/co2-fit-explorer/internal/domain"
)

// Field is the control an adjustment targets.
type Field string

// Adjustable fields.
const (
	FieldSlope     Field = "slope"
	FieldIntercept Field = "intercept"
	FieldConfirm   Field = "confirm"
)

var (
	// ErrUnknownSession is returned for an adjustment naming no session.
	ErrUnknownSession = errors.New("unknown session")

	// ErrUnknownField is returned for an adjustment naming no control.
	ErrUnknownField = errors.New("unknown field")
)

// ParseField resolves a case-insensitive field name.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldSlope, FieldIntercept, FieldConfirm:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
	}
}

// Adjustment is one user interaction with a chart's controls.
// Value is ignored for FieldConfirm.
type Adjustment struct {
	Session string
	Field   Field
	Value   float64
}

// Result is what a single adjustment produces: the redrawn frame and, for a
// confirm, the prediction.
type Result struct {
	Frame      Frame
	Prediction *domain.Prediction
}

// Controller owns the sessions of one exploration and applies adjustments to
// them one at a time. It is not safe for concurrent use.
type Controller struct {
	series   domain.TimeSeries
	sessions map[string]Session
	order    []string
	target   float64
}

// NewController creates a controller over series. target is the year
// confirmed predictions extrapolate to.
func NewController(series domain.TimeSeries, sessions []Session, target float64) *Controller {
	c := &Controller{
		series:   series,
		sessions: make(map[string]Session, len(sessions)),
		target:   target,
	}
	for _, s := range sessions {
		if _, dup := c.sessions[s.Name]; !dup {
			c.order = append(c.order, s.Name)
		}
		c.sessions[s.Name] = s
	}
	return c
}

// Target returns the prediction year.
func (c *Controller) Target() float64 { return c.target }

// Session returns the current state of the named session.
func (c *Controller) Session(name string) (Session, bool) {
	s, ok := c.sessions[name]
	return s, ok
}

// Sessions returns all sessions in creation order.
func (c *Controller) Sessions() []Session {
	out := make([]Session, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.sessions[name])
	}
	return out
}

// Render returns the current frame of every session.
func (c *Controller) Render() []Frame {
	frames := make([]Frame, 0, len(c.order))
	for _, name := range c.order {
		frames = append(frames, Redraw(c.series, c.sessions[name]))
	}
	return frames
}

// Predictions returns the current prediction of every session.
func (c *Controller) Predictions() []domain.Prediction {
	out := make([]domain.Prediction, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, Predict(c.sessions[name], c.target))
	}
	return out
}

// Apply moves one control and redraws the affected chart.
func (c *Controller) Apply(adj Adjustment) (Result, error) {
	s, ok := c.sessions[adj.Session]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownSession, adj.Session)
	}

	var res Result
	switch adj.Field {
	case FieldSlope:
		s.Slope = s.Slope.Set(adj.Value)
	case FieldIntercept:
		s.Intercept = s.Intercept.Set(adj.Value)
	case FieldConfirm:
		p := Predict(s, c.target)
		res.Prediction = &p
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownField, adj.Field)
	}

	c.sessions[s.Name] = s
	res.Frame = Redraw(c.series, s)
	return res, nil
}
