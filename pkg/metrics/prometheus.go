package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	aggregations *prometheus.CounterVec
	score        prometheus.Gauge
	readings     *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		aggregations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipulse_aggregations_total",
				Help: "Total number of sentiment aggregations by method",
			},
			[]string{"method"},
		),
		score: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sentipulse_score",
				Help: "Last computed sentiment score (0-100, -1 when no data)",
			},
		),
		readings: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipulse_readings_ingested_total",
				Help: "Total number of indicator readings accepted by the ingest pipeline",
			},
			[]string{"type"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentipulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentipulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAggregation records a completed aggregation run by method.
func (r *Recorder) RecordAggregation(method string) {
	r.aggregations.WithLabelValues(method).Inc()
}

// RecordScore records the last computed composite score.
func (r *Recorder) RecordScore(score float64) {
	r.score.Set(score)
}

// RecordReadingIngested records a reading accepted into the store.
func (r *Recorder) RecordReadingIngested(indicatorType string) {
	r.readings.WithLabelValues(indicatorType).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
