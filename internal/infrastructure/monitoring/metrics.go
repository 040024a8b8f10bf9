package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Query pipeline metrics
	QueriesTotal    *prometheus.CounterVec
	MatchConfidence prometheus.Histogram
	MatchTier       *prometheus.CounterVec

	// Vision metrics
	VisionCalls    *prometheus.CounterVec
	VisionDuration prometheus.Histogram

	// Session metrics
	SessionsActive prometheus.Gauge
	FeedbackTotal  *prometheus.CounterVec

	// Catalog metrics
	SchemasRegistered prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64
	TotalErrors       int64
	TotalQueries      int64
	ActiveSessions    int64
	ActiveConnections int64
	TotalDuration     float64 // sum of all request durations
	RequestCount      int64   // count for averaging
}

// NewMetrics creates a new metrics collector. Each collector owns its
// registry so parallel instances never collide on metric names.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		registry:  registry,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guidle_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guidle_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		// Query pipeline metrics
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guidle_queries_total",
				Help: "Total number of guidance queries by classified intent",
			},
			[]string{"intent"},
		),
		MatchConfidence: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "guidle_match_confidence",
				Help:    "Confidence of selector matches",
				Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
			},
		),
		MatchTier: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guidle_match_tier_total",
				Help: "Total number of matches by resolution tier",
			},
			[]string{"tier"},
		),

		// Vision metrics
		VisionCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guidle_vision_calls_total",
				Help: "Total number of vision analysis calls by outcome",
			},
			[]string{"outcome"},
		),
		VisionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "guidle_vision_duration_seconds",
				Help:    "Vision analysis duration in seconds",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),

		// Session metrics
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "guidle_sessions_active",
				Help: "Number of active guidance sessions",
			},
		),
		FeedbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guidle_feedback_total",
				Help: "Total number of step feedback reports",
			},
			[]string{"result"},
		),

		// Catalog metrics
		SchemasRegistered: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "guidle_schemas_registered",
				Help: "Number of app schemas in the catalog",
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "guidle_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guidle_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),

		// System metrics
		Uptime: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "guidle_uptime_seconds",
				Help: "Backend uptime in seconds",
			},
		),
	}

	// Start uptime updater
	go m.updateUptime()

	return m
}

// Handler exposes this collector's registry in Prometheus format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// updateUptime continuously updates the uptime metric
func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if len(status) > 0 && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordQuery records a classified guidance query
func (m *Metrics) RecordQuery(intentType string) {
	m.QueriesTotal.WithLabelValues(intentType).Inc()

	m.mu.Lock()
	m.snapshot.TotalQueries++
	m.mu.Unlock()
}

// RecordMatch records the confidence and tier of a selector match
func (m *Metrics) RecordMatch(tier string, confidence float64) {
	m.MatchConfidence.Observe(confidence)
	m.MatchTier.WithLabelValues(tier).Inc()
}

// RecordVisionCall records a vision analysis call
func (m *Metrics) RecordVisionCall(outcome string, duration time.Duration) {
	m.VisionCalls.WithLabelValues(outcome).Inc()
	m.VisionDuration.Observe(duration.Seconds())
}

// RecordFeedback records a step feedback report
func (m *Metrics) RecordFeedback(result string) {
	m.FeedbackTotal.WithLabelValues(result).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// SetSessionsActive sets the number of active sessions
func (m *Metrics) SetSessionsActive(count int) {
	m.SessionsActive.Set(float64(count))
	m.mu.Lock()
	m.snapshot.ActiveSessions = int64(count)
	m.mu.Unlock()
}

// SetSchemasRegistered sets the number of registered app schemas
func (m *Metrics) SetSchemasRegistered(count int) {
	m.SchemasRegistered.Set(float64(count))
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns a copy of the current counter values
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
