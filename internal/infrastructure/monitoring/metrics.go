package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Registry metrics
	Products         prometheus.Gauge
	RegistryOps      *prometheus.CounterVec
	RegistryDuration *prometheus.HistogramVec

	// Catalog metrics
	CatalogFetches  *prometheus.CounterVec
	CatalogDuration prometheus.Histogram
	CatalogItems    prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for the JSON status API
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds current values for the JSON status API
type Snapshot struct {
	TotalRequests   int64   `json:"totalRequests"`
	TotalErrors     int64   `json:"totalErrors"`
	AvgLatencyMS    float64 `json:"avgLatencyMs"`
	Products        int64   `json:"products"`
	CatalogFetches  int64   `json:"catalogFetches"`
	CatalogFailures int64   `json:"catalogFailures"`
	WSConnections   int64   `json:"wsConnections"`
	UptimeSeconds   float64 `json:"uptimeSeconds"`

	totalDuration float64
}

// NewMetrics creates a collector registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gallery_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gallery_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gallery_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		Products: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gallery_products",
				Help: "Number of products in the registry",
			},
		),
		RegistryOps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gallery_registry_operations_total",
				Help: "Registry operations by kind and outcome",
			},
			[]string{"operation", "status"},
		),
		RegistryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gallery_registry_operation_duration_seconds",
				Help:    "Registry operation duration in seconds, persistence included",
				Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .5, 1, 5},
			},
			[]string{"operation"},
		),

		CatalogFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gallery_catalog_fetches_total",
				Help: "Catalog fetches by outcome",
			},
			[]string{"outcome"},
		),
		CatalogDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "gallery_catalog_fetch_duration_seconds",
				Help:    "Catalog fetch duration in seconds",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		CatalogItems: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gallery_catalog_items",
				Help: "Number of items returned by the last successful catalog fetch",
			},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "gallery_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gallery_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "gallery_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordCatalogFetch records one catalog fetch. outcome is "loaded" or
// "error"; it satisfies catalog.Recorder.
func (m *Metrics) RecordCatalogFetch(outcome string, count int, duration time.Duration) {
	m.CatalogFetches.WithLabelValues(outcome).Inc()
	m.CatalogDuration.Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.CatalogFetches++
	if outcome != "loaded" {
		m.snapshot.CatalogFailures++
	}
	m.mu.Unlock()

	if outcome == "loaded" {
		m.CatalogItems.Set(float64(count))
	}
}

// RecordRegistryOp records a registry operation
func (m *Metrics) RecordRegistryOp(operation, status string, duration time.Duration) {
	m.RegistryOps.WithLabelValues(operation, status).Inc()
	m.RegistryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetProducts sets the number of products in the registry
func (m *Metrics) SetProducts(count int) {
	m.Products.Set(float64(count))
	m.mu.Lock()
	m.snapshot.Products = int64(count)
	m.mu.Unlock()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.WSConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.WSConnections--
	m.mu.Unlock()
}

// Snapshot returns the current values for the JSON status API
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	s := m.snapshot
	m.mu.RUnlock()

	if s.TotalRequests > 0 {
		s.AvgLatencyMS = s.totalDuration / float64(s.TotalRequests) * 1000
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
