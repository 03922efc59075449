// Package metrics provides Prometheus metrics for the developer portal.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream request outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Manager owns the portal collectors.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Upstream API calls issued by the request client
	upstreamRequests        *prometheus.CounterVec
	upstreamRequestDuration *prometheus.HistogramVec
	upstreamFailures        *prometheus.CounterVec

	// Portal HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Rendering
	fragmentsRendered *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	Init()
}

// Init replaces the process-wide manager and its registry with fresh ones
// built from opts. Call it at startup before any collector is read.
func Init(opts ...Option) *Manager {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append(opts[:len(opts):len(opts)], WithPrometheusRegistry(customRegistry))...)
	return globalManager
}

// NewManager creates a metrics manager. Without WithPrometheusRegistry the
// collectors are registered on prometheus.DefaultRegisterer.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "devportal",
		subsystem:        "portal",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_requests_total",
		Help:      "Upstream API requests by endpoint, method and outcome",
	}, []string{"endpoint", "method", "outcome"})

	m.upstreamRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_request_duration_milliseconds",
		Help:      "Upstream API request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method"})

	m.upstreamFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_failures_total",
		Help:      "Upstream API failures by endpoint and failure kind",
	}, []string{"endpoint", "kind"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Portal HTTP requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "Portal HTTP request duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.fragmentsRendered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "fragments_rendered_total",
		Help:      "HTML fragments rendered by fragment name",
	}, []string{"fragment"})
}

// RecordUpstreamRequest counts one upstream call and observes its latency.
func (m *Manager) RecordUpstreamRequest(endpoint, method, outcome string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, method, outcome).Inc()
	m.upstreamRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordUpstreamFailure counts a failed upstream call by kind (transport, status, decode, encode).
func (m *Manager) RecordUpstreamFailure(endpoint, kind string) {
	if !m.enabled {
		return
	}
	m.upstreamFailures.WithLabelValues(endpoint, kind).Inc()
}

// RecordHTTPRequest counts one portal request and observes its latency.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordFragmentRendered counts one rendered fragment.
func (m *Manager) RecordFragmentRendered(fragment string) {
	if !m.enabled {
		return
	}
	m.fragmentsRendered.WithLabelValues(fragment).Inc()
}

// Global shortcuts backed by the process-wide manager.

func RecordUpstreamRequest(endpoint, method, outcome string, durationMs float64) {
	globalManager.RecordUpstreamRequest(endpoint, method, outcome, durationMs)
}

func RecordUpstreamFailure(endpoint, kind string) {
	globalManager.RecordUpstreamFailure(endpoint, kind)
}

func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

func RecordFragmentRendered(fragment string) {
	globalManager.RecordFragmentRendered(fragment)
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom registry backing the process-wide manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
