// Package metrics provides instrumentation for the transition engine.
// Handlers report outcomes through the Collector interface; the
// production implementation is backed by Prometheus and exposed on
// /metrics, while tests plug in NopCollector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector receives transition outcomes from the engine.
type Collector interface {
	// TransitionApplied records one accepted transition in a category.
	TransitionApplied(category string, automatic bool)

	// TransitionRejected records one rejected transition and the
	// rejection reason (the sentinel error's text).
	TransitionRejected(category string, reason string)

	// SweepCompleted records the outcome of one automatic-transition
	// sweep.
	SweepCompleted(applied, failed int)
}

// NopCollector discards every observation.
type NopCollector struct{}

func (NopCollector) TransitionApplied(string, bool)    {}
func (NopCollector) TransitionRejected(string, string) {}
func (NopCollector) SweepCompleted(int, int)           {}

// PrometheusCollector implements Collector with Prometheus counters.
type PrometheusCollector struct {
	applied      *prometheus.CounterVec
	rejected     *prometheus.CounterVec
	sweepApplied prometheus.Counter
	sweepFailed  prometheus.Counter
}

// NewPrometheusCollector creates a collector registered with the given
// registerer. Pass prometheus.DefaultRegisterer for the process-wide
// registry.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	factory := promauto.With(reg)
	return &PrometheusCollector{
		applied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stateflow_transitions_applied_total",
			Help: "Accepted state transitions, by category and trigger kind.",
		}, []string{"category", "trigger"}),
		rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stateflow_transitions_rejected_total",
			Help: "Rejected state transitions, by category and reason.",
		}, []string{"category", "reason"}),
		sweepApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "stateflow_sweep_transitions_applied_total",
			Help: "Automatic transitions applied by scheduler sweeps.",
		}),
		sweepFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "stateflow_sweep_transitions_failed_total",
			Help: "Automatic transitions that failed during scheduler sweeps.",
		}),
	}
}

// TransitionApplied implements Collector.
func (c *PrometheusCollector) TransitionApplied(category string, automatic bool) {
	trigger := "interactive"
	if automatic {
		trigger = "automatic"
	}
	c.applied.WithLabelValues(category, trigger).Inc()
}

// TransitionRejected implements Collector.
func (c *PrometheusCollector) TransitionRejected(category string, reason string) {
	c.rejected.WithLabelValues(category, reason).Inc()
}

// SweepCompleted implements Collector.
func (c *PrometheusCollector) SweepCompleted(applied, failed int) {
	c.sweepApplied.Add(float64(applied))
	c.sweepFailed.Add(float64(failed))
}
