package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReminderMetrics records outcomes of the daily reminder runs.
type ReminderMetrics struct {
	duration *prometheus.HistogramVec
	runs     *prometheus.CounterVec
	sends    *prometheus.CounterVec
}

// NewReminderMetrics registers the reminder metrics on the provided registerer.
func NewReminderMetrics(reg prometheus.Registerer) *ReminderMetrics {
	if reg == nil {
		return &ReminderMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reminder_run_duration_seconds",
		Help:    "Duration of daily reminder runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminder_runs_total",
		Help: "Daily reminder run attempts by outcome.",
	}, []string{"outcome"})
	sends := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reminder_sends_total",
		Help: "Reminder emails sent, by result.",
	}, []string{"result"})
	reg.MustRegister(duration, runs, sends)
	return &ReminderMetrics{
		duration: duration,
		runs:     runs,
		sends:    sends,
	}
}

// ObserveRun records a full run with its outcome label.
func (m *ReminderMetrics) ObserveRun(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	if m.duration != nil {
		m.duration.WithLabelValues(normalizeLabel(outcome)).Observe(elapsed.Seconds())
	}
	if m.runs != nil {
		m.runs.WithLabelValues(normalizeLabel(outcome)).Inc()
	}
}

// IncSend counts one reminder email attempt.
func (m *ReminderMetrics) IncSend(result string) {
	if m == nil || m.sends == nil {
		return
	}
	m.sends.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
