// Package metrics exposes Prometheus instrumentation for the access engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for access decisions.
type Metrics struct {
	DecisionsTotal   *prometheus.CounterVec
	EvaluateDuration prometheus.Histogram
	AuditFailures    prometheus.Counter
	NotifyFailures   prometheus.Counter
}

// New creates and registers all access metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the collectors on a specific registerer. Tests pass a
// fresh registry to avoid duplicate registration across cases.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DecisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gatekeeper_access_decisions_total",
			Help: "Access decisions by result and reason.",
		}, []string{"result", "reason"}),
		EvaluateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gatekeeper_access_evaluate_seconds",
			Help:    "Latency of access decision evaluation.",
			Buckets: prometheus.DefBuckets,
		}),
		AuditFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatekeeper_audit_append_failures_total",
			Help: "Audit appends that failed; decisions were still returned.",
		}),
		NotifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "gatekeeper_notify_publish_failures_total",
			Help: "Notification publishes that failed; decisions were still returned.",
		}),
	}
}

// RecordDecision increments the decision counter for one terminal outcome.
func (m *Metrics) RecordDecision(result, reason string) {
	m.DecisionsTotal.WithLabelValues(result, reason).Inc()
}
