package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal      *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	articlesFound  *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksleuth_runs_total",
				Help: "Total number of completed research runs by status",
			},
			[]string{"status"},
		),
		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksleuth_stage_fallbacks_total",
				Help: "Total number of stage fallback substitutions",
			},
			[]string{"stage"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksleuth_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		articlesFound: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocksleuth_articles_found",
				Help: "Articles retrieved for the most recent run per symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocksleuth_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRun records a completed pipeline run.
func (r *Recorder) RecordRun(status string) {
	r.runsTotal.WithLabelValues(status).Inc()
}

// RecordStageFallback records one stage substituting its default.
func (r *Recorder) RecordStageFallback(stage string) {
	r.fallbacksTotal.WithLabelValues(stage).Inc()
}

// RecordArticlesFound records the evidence set size for a symbol.
func (r *Recorder) RecordArticlesFound(symbol string, n int) {
	r.articlesFound.WithLabelValues(symbol).Set(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
