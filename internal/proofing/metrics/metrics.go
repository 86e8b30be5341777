// Package metrics provides observability for the proofing pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics covers submissions, validation failures, and the vetting relay.
type Metrics struct {
	Submissions        *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec
	RelayLatency       prometheus.Histogram
}

// New creates and registers all proofing pipeline metrics.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seleg_ra_proofing_submissions_total",
			Help: "Proofing submissions by document method and outcome",
		}, []string{"method", "outcome"}),

		ValidationFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "seleg_ra_proofing_validation_failures_total",
			Help: "Form validation failures by field",
		}, []string{"field"}),

		RelayLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "seleg_ra_vetting_relay_duration_seconds",
			Help:    "Duration of relay calls to the vetting endpoint",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementSubmission records a pipeline terminal outcome.
func (m *Metrics) IncrementSubmission(method, outcome string) {
	if m != nil {
		m.Submissions.WithLabelValues(method, outcome).Inc()
	}
}

// IncrementValidationFailure records one failing form field.
func (m *Metrics) IncrementValidationFailure(field string) {
	if m != nil {
		m.ValidationFailures.WithLabelValues(field).Inc()
	}
}

// ObserveRelayLatency records the duration of a vetting relay call.
func (m *Metrics) ObserveRelayLatency(d time.Duration) {
	if m != nil {
		m.RelayLatency.Observe(d.Seconds())
	}
}
