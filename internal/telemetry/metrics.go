package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	SubmissionsTotal   *prometheus.CounterVec
	SubmissionDuration *prometheus.HistogramVec
	CarrierErrors      *prometheus.CounterVec
}

// NewMetrics creates Prometheus metrics registered on reg. Production code
// passes prometheus.DefaultRegisterer; tests pass a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_submissions_total",
				Help: "Total number of carrier submissions by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		SubmissionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fulfillment_submission_duration_seconds",
				Help:    "Carrier submission duration in seconds by source",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		CarrierErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fulfillment_carrier_errors_total",
				Help: "Total carrier API errors by error kind",
			},
			[]string{"kind"},
		),
	}
}

// RecordSubmission records a submission attempt.
func (m *Metrics) RecordSubmission(source, outcome string, duration float64) {
	m.SubmissionsTotal.WithLabelValues(source, outcome).Inc()
	m.SubmissionDuration.WithLabelValues(source).Observe(duration)
}

// RecordError records a carrier error metric.
func (m *Metrics) RecordError(kind string) {
	m.CarrierErrors.WithLabelValues(kind).Inc()
}
