package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PromMetricsRecorder exports operation and decision metrics through a
// Prometheus registry for deployments scraped by an external collector.
type PromMetricsRecorder struct {
	durations *prometheus.HistogramVec
	results   *prometheus.CounterVec
	decisions *prometheus.CounterVec
}

// NewPromMetricsRecorder constructs a recorder and registers its collectors
// with reg.
func NewPromMetricsRecorder(reg prometheus.Registerer) (*PromMetricsRecorder, error) {
	r := &PromMetricsRecorder{
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "slotgate_operation_duration_seconds",
			Help:    "Duration of plugin activation service operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slotgate_operations_total",
			Help: "Service operation outcomes by status.",
		}, []string{"operation", "status"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slotgate_decisions_total",
			Help: "Plugin enablement decisions by outcome and reason.",
		}, []string{"outcome", "reason"}),
	}
	for _, c := range []prometheus.Collector{r.durations, r.results, r.decisions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Observe implements MetricsRecorder.
func (r *PromMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
	r.results.WithLabelValues(operation, status).Inc()
}

// CountDecision implements DecisionCounter.
func (r *PromMetricsRecorder) CountDecision(enabled bool, reason string) {
	outcome := "enabled"
	if !enabled {
		outcome = "disabled"
	}
	r.decisions.WithLabelValues(outcome, reason).Inc()
}
