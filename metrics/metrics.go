package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the control plane and sandbox.
type Metrics struct {
	ExecutionsTotal prometheus.Counter
	RejectionsTotal prometheus.Counter
	SandboxRuns     *prometheus.CounterVec
	SandboxDuration prometheus.Histogram
}

// New creates and registers control plane metrics.
// Returns nil if reg is nil; all observe methods are nil-safe.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		return nil
	}

	m := &Metrics{
		ExecutionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tutorbox",
			Subsystem: "controlplane",
			Name:      "executions_total",
			Help:      "Total action plans validated, routed, and audited.",
		}),
		RejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tutorbox",
			Subsystem: "controlplane",
			Name:      "rejections_total",
			Help:      "Total action plans rejected by safety validation.",
		}),
		SandboxRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tutorbox",
			Subsystem: "sandbox",
			Name:      "runs_total",
			Help:      "Total sandbox runs by outcome status.",
		}, []string{"status"}),
		SandboxDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "tutorbox",
			Subsystem: "sandbox",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of sandbox runs (compile + execute).",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		}),
	}

	reg.MustRegister(
		m.ExecutionsTotal,
		m.RejectionsTotal,
		m.SandboxRuns,
		m.SandboxDuration,
	)

	return m
}

// ObserveExecution counts one accepted, routed execution
func (m *Metrics) ObserveExecution() {
	if m == nil {
		return
	}
	m.ExecutionsTotal.Inc()
}

// ObserveRejection counts one safety-validation rejection
func (m *Metrics) ObserveRejection() {
	if m == nil {
		return
	}
	m.RejectionsTotal.Inc()
}

// ObserveSandboxRun records the outcome and duration of one sandbox run
func (m *Metrics) ObserveSandboxRun(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.SandboxRuns.WithLabelValues(status).Inc()
	m.SandboxDuration.Observe(duration.Seconds())
}
