package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-onboarding/pkg/form"
	"github.com/goliatone/go-onboarding/pkg/model"
)

const namespace = "onboarding"

// Collectors groups the registration metrics. It satisfies form.Observer and
// submission.Recorder.
type Collectors struct {
	registry *prometheus.Registry

	submissions        *prometheus.CounterVec
	submissionDuration prometheus.Histogram
	validationFailures *prometheus.CounterVec
	transitions        *prometheus.CounterVec
	activeSessions     prometheus.Gauge
}

// New registers the collectors on a fresh registry that also carries the Go
// and process collectors.
func New() *Collectors {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(registry)
}

// NewWithRegistry registers the collectors on registry.
func NewWithRegistry(registry *prometheus.Registry) *Collectors {
	factory := promauto.With(registry)
	return &Collectors{
		registry: registry,
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Registration submissions by outcome.",
		}, []string{"outcome"}),
		submissionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time spent delivering a registration to the backend.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 2.5, 5, 10},
		}),
		validationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_failures_total",
			Help:      "Fields rejected by a full validation pass.",
		}, []string{"field"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_transitions_total",
			Help:      "Submission state transitions.",
		}, []string{"from", "to"}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Form sessions currently held in memory.",
		}),
	}
}

// ObserveSubmission records the outcome and latency of a submission.
func (c *Collectors) ObserveSubmission(outcome string, duration time.Duration) {
	c.submissions.WithLabelValues(outcome).Inc()
	c.submissionDuration.Observe(duration.Seconds())
}

// ValidationFailed counts every rejected field.
func (c *Collectors) ValidationFailed(fields []model.FieldName) {
	for _, field := range fields {
		c.validationFailures.WithLabelValues(string(field)).Inc()
	}
}

// StateChanged counts a submission state transition.
func (c *Collectors) StateChanged(from, to form.State) {
	c.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// SessionOpened increments the active session gauge.
func (c *Collectors) SessionOpened() {
	c.activeSessions.Inc()
}

// SessionClosed decrements the active session gauge.
func (c *Collectors) SessionClosed() {
	c.activeSessions.Dec()
}

// Registry exposes the underlying registry.
func (c *Collectors) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collectors) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
