package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/co2-fit-explorer/internal/observability"
	"github.com/couchcryptid/co2-fit-explorer/internal/session"
)

// Extractor reads the next adjustment from the source. It returns io.EOF
// when the source is exhausted.
type Extractor interface {
	Extract(ctx context.Context) (session.Adjustment, error)
}

// Transformer applies an adjustment and returns the redrawn chart.
type Transformer interface {
	Transform(ctx context.Context, adj session.Adjustment) (session.Result, error)
}

// Loader hands a result to the renderer.
type Loader interface {
	Load(ctx context.Context, res session.Result) error
}

// Pipeline orchestrates the extract-transform-load loop. Adjustments are
// processed strictly one at a time.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      Loader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool

	mu     sync.RWMutex
	latest map[string]session.Frame
	order  []string
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		latest:      map[string]session.Frame{},
	}
}

// CheckReadiness returns nil once the pipeline has delivered at least one
// frame, or an error describing why it is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("pipeline has not rendered any frames yet")
	}
	return nil
}

// Ready reports whether at least one frame has been delivered.
func (p *Pipeline) Ready() bool {
	return p.ready.Load()
}

// Frames returns the most recently delivered frame of each session, in the
// order sessions were first drawn. It is safe to call while Run is active.
func (p *Pipeline) Frames() []session.Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]session.Frame, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, p.latest[name])
	}
	return out
}

// Emit loads results directly, bypassing extraction. It is used to draw the
// initial charts before the first adjustment arrives.
func (p *Pipeline) Emit(ctx context.Context, results ...session.Result) error {
	for _, res := range results {
		if err := p.load(ctx, res); err != nil {
			return err
		}
	}
	return nil
}

// Run executes the loop until the extractor is exhausted or the context is
// cancelled. Rejected adjustments are logged and skipped; extract and load
// failures stop the loop.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started")
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		done, err := p.step(ctx)
		if err != nil {
			return err
		}
		if done {
			p.logger.Info("pipeline finished", "reason", "input exhausted")
			return nil
		}
	}
}

// step runs one extract-transform-load cycle. It reports true when there is
// nothing left to read.
func (p *Pipeline) step(ctx context.Context) (bool, error) {
	adj, err := p.extractor.Extract(ctx)
	switch {
	case errors.Is(err, io.EOF):
		return true, nil
	case err != nil && ctx.Err() != nil:
		return true, nil
	case errors.Is(err, session.ErrMalformedAdjustment), errors.Is(err, session.ErrUnknownField):
		p.metrics.AdjustmentsConsumed.Inc()
		p.reject(err, adj)
		return false, nil
	case err != nil:
		return false, fmt.Errorf("extract adjustment: %w", err)
	}

	p.metrics.AdjustmentsConsumed.Inc()

	res, err := p.transformer.Transform(ctx, adj)
	if err != nil {
		p.reject(err, adj)
		return false, nil
	}

	return false, p.load(ctx, res)
}

func (p *Pipeline) load(ctx context.Context, res session.Result) error {
	if err := p.loader.Load(ctx, res); err != nil {
		p.logger.Error("load frame failed", "error", err, "session", res.Frame.Session)
		return fmt.Errorf("load frame: %w", err)
	}

	p.remember(res.Frame)
	p.metrics.FramesRendered.WithLabelValues(res.Frame.Session).Inc()
	p.metrics.ObservedPoints.Observe(float64(len(res.Frame.Observed)))
	if res.Prediction != nil {
		p.metrics.PredictionsComputed.WithLabelValues(res.Frame.Session).Inc()
	}
	p.ready.Store(true)
	return nil
}

func (p *Pipeline) remember(f session.Frame) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, seen := p.latest[f.Session]; !seen {
		p.order = append(p.order, f.Session)
	}
	p.latest[f.Session] = f
}

func (p *Pipeline) reject(err error, adj session.Adjustment) {
	p.logger.Warn("adjustment rejected, skipping",
		"error", err,
		"session", adj.Session,
		"field", string(adj.Field),
	)
	p.metrics.AdjustmentsRejected.Inc()
}
