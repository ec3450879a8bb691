// Package metrics exposes Prometheus counters for HTTP traffic, upstream
// calls, enrichment and webhook delivery.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grading"

const (
	LabelPath     = "path"
	LabelMethod   = "method"
	LabelCode     = "code"
	LabelUpstream = "upstream"
	LabelOp       = "operation"
	LabelOutcome  = "outcome"
	LabelStatus   = "status"
	LabelTarget   = "target"
	LabelState    = "state"
)

var durationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5}

// Metrics holds one service's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	httpInflight  prometheus.Gauge
	upstreamCalls *prometheus.CounterVec
	upstreamTime  *prometheus.HistogramVec
	breakerState  *prometheus.GaugeVec
	enrichments   *prometheus.CounterVec
	missingRefs   prometheus.Counter
	deliveries    *prometheus.CounterVec
}

// New creates and registers the collectors for the named service.
func New(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_total",
			Help:        "Number of HTTP requests by route, method and status code.",
			ConstLabels: constLabels,
		}, []string{LabelPath, LabelMethod, LabelCode}),

		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "response_time_seconds",
			Help:        "Duration of HTTP responses.",
			Buckets:     durationBuckets,
			ConstLabels: constLabels,
		}, []string{LabelPath, LabelMethod}),

		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "http",
			Name:        "requests_inflight",
			Help:        "Number of requests being served.",
			ConstLabels: constLabels,
		}),

		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "upstream",
			Name:        "calls_total",
			Help:        "Calls to peer services by outcome.",
			ConstLabels: constLabels,
		}, []string{LabelUpstream, LabelOp, LabelOutcome}),

		upstreamTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "upstream",
			Name:        "call_duration_seconds",
			Help:        "Duration of calls to peer services.",
			Buckets:     durationBuckets,
			ConstLabels: constLabels,
		}, []string{LabelUpstream, LabelOp}),

		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "upstream",
			Name:        "circuit_state",
			Help:        "1 for the current circuit breaker state of each upstream.",
			ConstLabels: constLabels,
		}, []string{LabelUpstream, LabelState}),

		enrichments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "ledger",
			Name:        "enrichments_total",
			Help:        "Grade enrichment passes by result.",
			ConstLabels: constLabels,
		}, []string{LabelStatus}),

		missingRefs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "ledger",
			Name:        "missing_references_total",
			Help:        "Grades served with an unknown student id.",
			ConstLabels: constLabels,
		}),

		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "webhook",
			Name:        "deliveries_total",
			Help:        "Notification deliveries by target and result.",
			ConstLabels: constLabels,
		}, []string{LabelTarget, LabelStatus, "blocked"}),
	}

	m.registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.httpInflight,
		m.upstreamCalls,
		m.upstreamTime,
		m.breakerState,
		m.enrichments,
		m.missingRefs,
		m.deliveries,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RequestStarted increments the inflight gauge and returns a func that
// records the finished request.
func (m *Metrics) RequestStarted() func(path, method string, code int, d time.Duration) {
	m.httpInflight.Inc()
	return func(path, method string, code int, d time.Duration) {
		m.httpInflight.Dec()
		m.httpRequests.WithLabelValues(path, method, strconv.Itoa(code)).Inc()
		m.httpDuration.WithLabelValues(path, method).Observe(d.Seconds())
	}
}

// ObserveUpstream records one upstream call.
func (m *Metrics) ObserveUpstream(upstream, op, outcome string, d time.Duration) {
	m.upstreamCalls.WithLabelValues(upstream, op, outcome).Inc()
	m.upstreamTime.WithLabelValues(upstream, op).Observe(d.Seconds())
}

// BreakerStateChanged records the new circuit breaker state.
func (m *Metrics) BreakerStateChanged(upstream, state string) {
	for _, s := range []string{"closed", "open", "half-open"} {
		v := 0.0
		if s == state {
			v = 1
		}
		m.breakerState.WithLabelValues(upstream, s).Set(v)
	}
}

// EnrichmentCompleted records one enrichment pass.
func (m *Metrics) EnrichmentCompleted(status string, missing int) {
	m.enrichments.WithLabelValues(status).Inc()
	if missing > 0 {
		m.missingRefs.Add(float64(missing))
	}
}

// ObserveDelivery records one webhook or external delivery.
func (m *Metrics) ObserveDelivery(target, status string, blocked bool) {
	m.deliveries.WithLabelValues(target, status, strconv.FormatBool(blocked)).Inc()
}
