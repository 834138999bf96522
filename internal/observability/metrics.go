package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for loading and exploration.
type Metrics struct {
	// CSV loading.
	RowsLoaded  prometheus.Counter
	RowsDropped *prometheus.CounterVec // labels: reason={field_count,parse,order}

	// Exploration loop.
	AdjustmentsConsumed prometheus.Counter
	AdjustmentsRejected prometheus.Counter
	FramesRendered      *prometheus.CounterVec // labels: session
	PredictionsComputed *prometheus.CounterVec // labels: session
	ObservedPoints      prometheus.Histogram
	PipelineRunning     prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RowsLoaded,
		m.RowsDropped,
		m.AdjustmentsConsumed,
		m.AdjustmentsRejected,
		m.FramesRendered,
		m.PredictionsComputed,
		m.ObservedPoints,
		m.PipelineRunning,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "co2fit",
			Name:      "csv_rows_loaded_total",
			Help:      "Data rows kept from the NOAA CSV.",
		}),
		RowsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "co2fit",
			Name:      "csv_rows_dropped_total",
			Help:      "Data rows dropped from the NOAA CSV by reason.",
		}, []string{"reason"}),
		AdjustmentsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "co2fit",
			Name:      "adjustments_consumed_total",
			Help:      "Adjustment lines read from the input stream, applied or not.",
		}),
		AdjustmentsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "co2fit",
			Name:      "adjustments_rejected_total",
			Help:      "Adjustments read but not applied: malformed lines, unknown sessions or fields.",
		}),
		FramesRendered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "co2fit",
			Name:      "frames_rendered_total",
			Help:      "Frames handed to the renderer by session.",
		}, []string{"session"}),
		PredictionsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "co2fit",
			Name:      "predictions_computed_total",
			Help:      "Confirmed predictions by session.",
		}, []string{"session"}),
		ObservedPoints: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "co2fit",
			Name:      "frame_observed_points",
			Help:      "Number of observed points per rendered frame.",
			Buckets:   []float64{0, 12, 24, 60, 120, 240, 480, 960},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "co2fit",
			Name:      "pipeline_running",
			Help:      "1 while the exploration loop is active, 0 otherwise.",
		}),
	}
}
