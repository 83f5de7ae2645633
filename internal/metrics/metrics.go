// Package metrics exposes Prometheus collectors for the HTTP surface, the
// points ledger and the metered tools. Collectors live in a private registry
// so tests can create as many instances as they need.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pixel_studio"

// Ledger operations and outcomes.
const (
	OpDebit  = "debit"
	OpCredit = "credit"

	OutcomeApplied      = "applied"
	OutcomeInsufficient = "insufficient"
	OutcomeDuplicate    = "duplicate"
	OutcomeFailed       = "failed"
)

type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	ledger          *prometheus.CounterVec
	pointsMoved     *prometheus.CounterVec
	generations     *prometheus.CounterVec
}

// New registers the collectors together with the Go runtime and process
// collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ledger: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Points ledger operations by kind and outcome.",
		}, []string{"op", "outcome"}),
		pointsMoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "points_total",
			Help:      "Points debited or credited by reason.",
		}, []string{"op", "reason"}),
		generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tools",
			Name:      "generations_total",
			Help:      "Metered generations by tool type and outcome.",
		}, []string{"tool_type", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.requestDuration,
		m.ledger,
		m.pointsMoved,
		m.generations,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest records one served HTTP request. A nil receiver is a no-op.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// LedgerOperation records the outcome of a debit or credit. amount is added
// to the points counter only for applied operations.
func (m *Metrics) LedgerOperation(op, outcome, reason string, amount int64) {
	if m == nil {
		return
	}
	m.ledger.WithLabelValues(op, outcome).Inc()
	if outcome == OutcomeApplied && amount > 0 {
		m.pointsMoved.WithLabelValues(op, reason).Add(float64(amount))
	}
}

// Generation records the outcome of a metered tool call.
func (m *Metrics) Generation(toolType, outcome string) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(toolType, outcome).Inc()
}
