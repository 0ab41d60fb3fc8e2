package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/tablecheck/pkg/validator"
)

// Metrics holds the Prometheus collectors of the API on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	runs       *prometheus.CounterVec
	violations *prometheus.CounterVec
	rows       prometheus.Histogram
	duration   prometheus.Histogram
}

// NewMetrics registers the collectors under namespace. An empty namespace
// defaults to "tablecheck".
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "tablecheck"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Validation runs by result.",
		}, []string{"result"}),
		violations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_total",
			Help:      "Reported violations by kind.",
		}, []string{"kind"}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_rows",
			Help:      "Rows per validated table.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 7),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "validation_duration_seconds",
			Help:      "Time spent validating a table.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}),
	}

	m.registry.MustRegister(m.requests, m.runs, m.violations, m.rows, m.duration)
	return m
}

// Registry exposes the registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// ObserveOutcome records one validation run.
func (m *Metrics) ObserveOutcome(out validator.Outcome, rows int, elapsed time.Duration) {
	result := "success"
	switch {
	case out.Faulted():
		result = "fault"
	case !out.Success:
		result = "failure"
	}
	m.runs.WithLabelValues(result).Inc()
	for _, v := range out.Violations {
		m.violations.WithLabelValues(string(v.Kind)).Inc()
	}
	m.rows.Observe(float64(rows))
	m.duration.Observe(elapsed.Seconds())
}

func (m *Metrics) observeRequest(route string, status int) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
