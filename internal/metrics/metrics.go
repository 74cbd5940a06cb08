// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Realms reported by the auth guards.
const (
	RealmUser = "user"
	RealmHost = "host"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	AuthFailures    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Decisions       *prometheus.GaugeVec
}

// New creates the collectors and registers them together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.AuthFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chweb_auth_failures_total",
		Help: "Requests rejected by an auth guard",
	}, []string{"realm"})

	m.RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chweb_http_request_duration_seconds",
		Help:    "API request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	m.Decisions = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "chweb_decisions",
		Help: "Global allow/block counter as last read from the store",
	}, []string{"action"})

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.AuthFailures,
		m.RequestDuration,
		m.Decisions,
	)
	return m
}

// AuthFailure counts one rejected request. A nil receiver is a no-op.
func (m *Metrics) AuthFailure(realm string) {
	if m == nil {
		return
	}
	m.AuthFailures.WithLabelValues(realm).Inc()
}

// ObserveRequest records the latency of one request. A nil receiver is a no-op.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// SetDecisions publishes the global counter. A nil receiver is a no-op.
func (m *Metrics) SetDecisions(allowed, blocked int64) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues("allowed").Set(float64(allowed))
	m.Decisions.WithLabelValues("blocked").Set(float64(blocked))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
