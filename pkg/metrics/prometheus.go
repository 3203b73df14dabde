// Package metrics provides Prometheus metrics for the QA portal.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the portal.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer
	runtime          bool

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Dashboard
	panelRenders    *prometheus.CounterVec
	agentSelections *prometheus.CounterVec
	emptyPanels     *prometheus.CounterVec
	repliesDropped  prometheus.Counter
	draftsOpen      prometheus.Gauge

	// Dataset and sessions
	datasetRecords *prometheus.GaugeVec
	activeSessions prometheus.Gauge
	sessionsPruned prometheus.Counter
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry), WithRuntimeCollectors(true))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "qaportal",
		subsystem:        "dashboard",
		histogramBuckets: []float64{0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	if m.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint, method and status",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_errors_total",
		Help:        "HTTP responses with a 4xx/5xx status by endpoint and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "error_type"})

	m.panelRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "panel_renders_total",
		Help:        "Number of times each dashboard panel was derived",
		ConstLabels: m.constLabels,
	}, []string{"panel"})

	m.emptyPanels = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "panel_empty_total",
		Help:        "Number of panel derivations that produced the empty state",
		ConstLabels: m.constLabels,
	}, []string{"panel"})

	m.agentSelections = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "agent_selections_total",
		Help:        "Explicit agent selections by agent id",
		ConstLabels: m.constLabels,
	}, []string{"agent_id"})

	m.repliesDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "replies_discarded_total",
		Help:        "Comment replies that were submitted, logged and discarded",
		ConstLabels: m.constLabels,
	})

	m.draftsOpen = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "reply_drafts_open",
		Help:        "Reply drafts currently open across sessions",
		ConstLabels: m.constLabels,
	})

	m.datasetRecords = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_records",
		Help:        "Records loaded per collection",
		ConstLabels: m.constLabels,
	}, []string{"collection"})

	m.activeSessions = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "active_sessions",
		Help:        "Dashboard sessions currently held in memory",
		ConstLabels: m.constLabels,
	})

	m.sessionsPruned = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sessions_pruned_total",
		Help:        "Sessions dropped after their idle TTL",
		ConstLabels: m.constLabels,
	})
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// RecordPanelRender records a panel derivation, flagging empty states.
func RecordPanelRender(panel string, empty bool) {
	globalManager.panelRenders.WithLabelValues(panel).Inc()
	if empty {
		globalManager.emptyPanels.WithLabelValues(panel).Inc()
	}
}

// RecordAgentSelection records an explicit agent selection.
func RecordAgentSelection(agentID string) {
	globalManager.agentSelections.WithLabelValues(agentID).Inc()
}

// RecordReplyDiscarded records a submitted-and-discarded reply.
func RecordReplyDiscarded() {
	globalManager.repliesDropped.Inc()
}

// AddOpenDrafts adjusts the open reply draft gauge by delta.
func AddOpenDrafts(delta int) {
	globalManager.draftsOpen.Add(float64(delta))
}

// UpdateDatasetRecords sets the record count for a collection.
func UpdateDatasetRecords(collection string, count int) {
	globalManager.datasetRecords.WithLabelValues(collection).Set(float64(count))
}

// UpdateActiveSessions sets the number of live sessions.
func UpdateActiveSessions(count int) {
	globalManager.activeSessions.Set(float64(count))
}

// RecordSessionsPruned adds n expired sessions.
func RecordSessionsPruned(n int) {
	globalManager.sessionsPruned.Add(float64(n))
}

// GetRegistry returns the registry served on /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
