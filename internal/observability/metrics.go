package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// data-prep pipeline.
type Metrics struct {
	RowsLoaded      prometheus.Counter
	PointsMasked    prometheus.Counter
	OutliersFlagged prometheus.Counter
	RowsPublished   prometheus.Counter

	RunsTotal       prometheus.Counter
	RunsFailed      prometheus.Counter
	PipelineRunning prometheus.Gauge

	CleaningDuration prometheus.Histogram
	RunDuration      prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "load_prep",
			Name:      "rows_loaded_total",
			Help:      "Total rows read from the source CSV.",
		}),
		PointsMasked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "load_prep",
			Name:      "points_masked_total",
			Help:      "Training points nulled inside hurricane windows.",
		}),
		OutliersFlagged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "load_prep",
			Name:      "outliers_flagged_total",
			Help:      "Training points flagged outside the rolling median/IQR band.",
		}),
		RowsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "load_prep",
			Name:      "rows_published_total",
			Help:      "Cleaned rows written to all sinks.",
		}),
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "load_prep",
			Name:      "runs_total",
			Help:      "Total pipeline runs attempted.",
		}),
		RunsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "load_prep",
			Name:      "runs_failed_total",
			Help:      "Pipeline runs that ended in an error.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "load_prep",
			Name:      "pipeline_running",
			Help:      "1 while a prep run is active, 0 otherwise.",
		}),
		CleaningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "load_prep",
			Name:      "cleaning_duration_seconds",
			Help:      "Duration of the mask/flag/impute cleaning stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "load_prep",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete extract-clean-load run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
	}

	prometheus.MustRegister(
		m.RowsLoaded,
		m.PointsMasked,
		m.OutliersFlagged,
		m.RowsPublished,
		m.RunsTotal,
		m.RunsFailed,
		m.PipelineRunning,
		m.CleaningDuration,
		m.RunDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RowsLoaded:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "load_prep", Name: "rows_loaded_total"}),
		PointsMasked:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "load_prep", Name: "points_masked_total"}),
		OutliersFlagged:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "load_prep", Name: "outliers_flagged_total"}),
		RowsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "load_prep", Name: "rows_published_total"}),
		RunsTotal:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "load_prep", Name: "runs_total"}),
		RunsFailed:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "load_prep", Name: "runs_failed_total"}),
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "load_prep", Name: "pipeline_running"}),
		CleaningDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "load_prep", Name: "cleaning_duration_seconds"}),
		RunDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "load_prep", Name: "run_duration_seconds"}),
	}
}
