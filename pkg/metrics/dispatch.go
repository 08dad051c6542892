package metrics

import "github.com/prometheus/client_golang/prometheus"

// DispatchMetrics counts notification dispatch outcomes.
type DispatchMetrics struct {
	outcomes *prometheus.CounterVec
}

// NewDispatchMetrics registers the dispatch counters on the provided registerer.
func NewDispatchMetrics(reg prometheus.Registerer) *DispatchMetrics {
	if reg == nil {
		return &DispatchMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_dispatch_total",
		Help: "Notification dispatch attempts by kind and outcome.",
	}, []string{"kind", "outcome"})
	reg.MustRegister(outcomes)
	return &DispatchMetrics{outcomes: outcomes}
}

// IncOutcome counts one dispatch attempt.
func (m *DispatchMetrics) IncOutcome(kind, outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(kind), normalizeLabel(outcome)).Inc()
}
