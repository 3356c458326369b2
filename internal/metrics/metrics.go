// Package metrics exposes process-wide Prometheus counters for user actions
// and the external calls they make. All methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry      *prometheus.Registry
	actions       *prometheus.CounterVec
	externalCalls *prometheus.CounterVec
	modelLatency  prometheus.Histogram
}

// New creates and registers the codelens collectors plus the standard Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codelens",
			Name:      "actions_total",
			Help:      "User actions handled, by action and outcome.",
		}, []string{"action", "outcome"}),
		externalCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "codelens",
			Name:      "external_calls_total",
			Help:      "Calls to GitHub and the model API, by service, operation and outcome.",
		}, []string{"service", "op", "outcome"}),
		modelLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "codelens",
			Name:      "model_call_seconds",
			Help:      "Latency of generateContent calls.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80, 120},
		}),
	}
	reg.MustRegister(
		m.actions,
		m.externalCalls,
		m.modelLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Action counts one handled user action.
func (m *Metrics) Action(action string, err error) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, outcome(err)).Inc()
}

// External counts one call to an external service.
func (m *Metrics) External(service, op string, err error) {
	if m == nil {
		return
	}
	m.externalCalls.WithLabelValues(service, op, outcome(err)).Inc()
}

// ObserveModel records the latency of one model call.
func (m *Metrics) ObserveModel(d time.Duration) {
	if m == nil {
		return
	}
	m.modelLatency.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
