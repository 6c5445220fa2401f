package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	forecastsTotal *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	cacheTotal     *prometheus.CounterVec
	fitDuration    *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		forecastsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salespulse_forecasts_total",
				Help: "Total number of forecast computations by model",
			},
			[]string{"model"},
		),
		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salespulse_model_fallbacks_total",
				Help: "Total number of model fallbacks by from/to model pair",
			},
			[]string{"from", "to"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salespulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "salespulse_cache_requests_total",
				Help: "Cache lookups by key prefix and outcome",
			},
			[]string{"prefix", "outcome"},
		),
		fitDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "salespulse_model_fit_duration_seconds",
				Help:    "Duration of model fit and predict in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
	}
}

// RecordForecast records a completed forecast by model name.
func (r *Recorder) RecordForecast(model string) {
	r.forecastsTotal.WithLabelValues(model).Inc()
}

// RecordFallback records a fallback from one model to the next in the chain.
func (r *Recorder) RecordFallback(from, to string) {
	r.fallbacksTotal.WithLabelValues(from, to).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCache records a cache lookup outcome ("hit" or "miss").
func (r *Recorder) RecordCache(prefix, outcome string) {
	r.cacheTotal.WithLabelValues(prefix, outcome).Inc()
}

// RecordFitDuration records model fit latency in seconds.
func (r *Recorder) RecordFitDuration(model string, seconds float64) {
	r.fitDuration.WithLabelValues(model).Observe(seconds)
}
