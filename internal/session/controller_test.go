package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/co2-fit-explorer/internal/domain"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	return NewController(testSeries(t), defaultSessions(t), 2030)
}

func TestParseField(t *testing.T) {
	for in, want := range map[string]Field{
		"slope":      FieldSlope,
		" Intercept": FieldIntercept,
		"CONFIRM":    FieldConfirm,
	} {
		got, err := ParseField(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseField("zoom")
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestController_Apply(t *testing.T) {
	c := newTestController(t)

	res, err := c.Apply(Adjustment{Session: Early, Field: FieldSlope, Value: 1.0})
	require.NoError(t, err)
	assert.Nil(t, res.Prediction)
	assert.Equal(t, []domain.Point{{X: 1958, Y: 315}, {X: 1963, Y: 320}}, res.Frame.Line)

	res, err = c.Apply(Adjustment{Session: Early, Field: FieldIntercept, Value: 316.1})
	require.NoError(t, err)
	assert.InDelta(t, 316.0, res.Frame.Params.Intercept, 0)

	res, err = c.Apply(Adjustment{Session: Early, Field: FieldConfirm})
	require.NoError(t, err)
	require.NotNil(t, res.Prediction)
	assert.Equal(t, domain.Prediction{Year: 2030, Value: 388}, *res.Prediction)

	s, ok := c.Session(Early)
	require.True(t, ok)
	assert.InDelta(t, 1.0, s.Slope.Value, 0)

	other, _ := c.Session(Recent)
	assert.InDelta(t, 2.0, other.Slope.Value, 0, "sessions are independent")
}

func TestController_ApplyClampsToSliderBounds(t *testing.T) {
	c := newTestController(t)

	res, err := c.Apply(Adjustment{Session: Recent, Field: FieldSlope, Value: 12})
	require.NoError(t, err)
	assert.InDelta(t, 5, res.Frame.Params.Slope, 0)

	res, err = c.Apply(Adjustment{Session: Recent, Field: FieldIntercept, Value: 500})
	require.NoError(t, err)
	assert.InDelta(t, 410.5, res.Frame.Params.Intercept, 0)
}

func TestController_ApplyErrors(t *testing.T) {
	c := newTestController(t)

	_, err := c.Apply(Adjustment{Session: "middle", Field: FieldSlope, Value: 1})
	require.ErrorIs(t, err, ErrUnknownSession)

	_, err = c.Apply(Adjustment{Session: Early, Field: Field("zoom")})
	require.ErrorIs(t, err, ErrUnknownField)

	s, _ := c.Session(Early)
	assert.InDelta(t, 2.0, s.Slope.Value, 0, "failed adjustments leave state untouched")
}

func TestController_RenderAndPredictions(t *testing.T) {
	c := newTestController(t)

	frames := c.Render()
	require.Len(t, frames, 2)
	assert.Equal(t, Early, frames[0].Session)
	assert.Equal(t, Recent, frames[1].Session)
	assert.Len(t, frames[1].Observed, 3)

	preds := c.Predictions()
	require.Len(t, preds, 2)
	assert.InDelta(t, 459, preds[0].Value, 0)
	assert.InDelta(t, 2030, c.Target(), 0)

	names := make([]string, 0, 2)
	for _, s := range c.Sessions() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{Early, Recent}, names)
}
