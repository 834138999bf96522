package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

// ControllerTransformer implements Transformer on top of a session controller.
type ControllerTransformer struct {
	controller *session.Controller
	logger     *slog.Logger
}

// NewTransformer creates a ControllerTransformer.
func NewTransformer(c *session.Controller, logger *slog.Logger) *ControllerTransformer {
	return &ControllerTransformer{
		controller: c,
		logger:     logger,
	}
}

func (t *ControllerTransformer) Transform(_ context.Context, adj session.Adjustment) (session.Result, error) {
	res, err := t.controller.Apply(adj)
	if err != nil {
		return session.Result{}, err
	}

	t.logger.Debug("adjustment applied",
		"session", adj.Session,
		"field", string(adj.Field),
		"slope", res.Frame.Params.Slope,
		"intercept", res.Frame.Params.Intercept,
	)
	if res.Prediction != nil {
		t.logger.Info("prediction confirmed",
			"session", adj.Session,
			"year", res.Prediction.Year,
			"ppm", res.Prediction.Value,
		)
	}
	return res, nil
}
