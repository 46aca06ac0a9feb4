// Package metrics provides Prometheus metrics for the EMBER wildfire risk service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the EMBER service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Core Business Metrics - what matters for a risk assessment service
	predictionsTotal   prometheus.Counter
	predictionsByLevel *prometheus.CounterVec
	scoringLatency     prometheus.Histogram

	// Operational Health Metrics
	locationsTotal  prometheus.Gauge
	dispatcherCount prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// Store Metrics - persistence performance
	storeLatency *prometheus.HistogramVec
	storeErrors  prometheus.Counter

	// Alert Metrics - queue and publisher performance
	alertQueueSize     prometheus.Gauge
	alertQueueCapacity prometheus.Gauge
	alertsEnqueued     prometheus.Counter
	alertsDropped      prometheus.Counter
	alertsSuppressed   prometheus.Counter
	alertsPublished    prometheus.Counter
	alertPublishErrors prometheus.Counter

	// System Metrics - process health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ember",
		subsystem:        "wildfire",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.predictionsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of risk predictions produced",
	})

	m.predictionsByLevel = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "predictions_by_level_total",
			Help:      "Total number of risk predictions by final risk level",
		},
		[]string{"level"},
	)

	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scoring_latency_milliseconds",
		Help:      "Histogram of end-to-end scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.locationsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "locations_total",
		Help:      "Total number of registered locations",
	})

	m.dispatcherCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alert_dispatcher_count",
		Help:      "Current number of active alert dispatchers",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint and error type",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.storeLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_latency_milliseconds",
			Help:      "Store operation latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"operation"},
	)

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of store operation errors",
	})

	m.alertQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alert_queue_size",
		Help:      "Current size of the alert queue (backlog indicator)",
	})

	m.alertQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alert_queue_capacity",
		Help:      "Maximum alert queue capacity",
	})

	m.alertsEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_enqueued_total",
		Help:      "Total number of high-risk alerts enqueued for publishing",
	})

	m.alertsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_dropped_total",
		Help:      "Total number of alerts dropped due to queue backpressure",
	})

	m.alertsSuppressed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_suppressed_total",
		Help:      "Total number of duplicate alerts suppressed by the deduper",
	})

	m.alertsPublished = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alerts_published_total",
		Help:      "Total number of alerts published to the alert topic",
	})

	m.alertPublishErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "alert_publish_errors_total",
		Help:      "Total number of alert publish failures",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Current heap memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Current number of goroutines",
	})
}

// GetRegistry returns the custom Prometheus registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Package-level recording helpers backed by the global manager.

// RecordPrediction increments the prediction counters for the given level.
func RecordPrediction(level string) {
	globalManager.predictionsTotal.Inc()
	globalManager.predictionsByLevel.WithLabelValues(level).Inc()
}

// RecordScoringLatency observes end-to-end scoring latency in milliseconds.
func RecordScoringLatency(ms float64) {
	globalManager.scoringLatency.Observe(ms)
}

// UpdateLocationsTotal sets the registered-locations gauge.
func UpdateLocationsTotal(n int) {
	globalManager.locationsTotal.Set(float64(n))
}

// UpdateDispatcherCount sets the active-dispatchers gauge.
func UpdateDispatcherCount(n int) {
	globalManager.dispatcherCount.Set(float64(n))
}

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}

// RecordErrorByEndpoint increments the per-endpoint error counter.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordStoreLatency observes store operation latency in milliseconds.
func RecordStoreLatency(operation string, ms float64) {
	globalManager.storeLatency.WithLabelValues(operation).Observe(ms)
}

// RecordStoreError increments the store error counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// UpdateAlertQueueSize sets the alert queue size gauge.
func UpdateAlertQueueSize(n int) {
	globalManager.alertQueueSize.Set(float64(n))
}

// UpdateAlertQueueCapacity sets the alert queue capacity gauge.
func UpdateAlertQueueCapacity(n int) {
	globalManager.alertQueueCapacity.Set(float64(n))
}

// RecordAlertEnqueued increments the enqueued-alerts counter.
func RecordAlertEnqueued() {
	globalManager.alertsEnqueued.Inc()
}

// RecordAlertDropped increments the dropped-alerts counter.
func RecordAlertDropped() {
	globalManager.alertsDropped.Inc()
}

// RecordAlertSuppressed increments the suppressed-alerts counter.
func RecordAlertSuppressed() {
	globalManager.alertsSuppressed.Inc()
}

// RecordAlertPublished increments the published-alerts counter.
func RecordAlertPublished() {
	globalManager.alertsPublished.Inc()
}

// RecordAlertPublishError increments the publish-error counter.
func RecordAlertPublishError() {
	globalManager.alertPublishErrors.Inc()
}

// UpdateSystemMemoryUsage sets the heap memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count gauge.
func UpdateSystemGoroutineCount(n int) {
	globalManager.systemGoroutineCount.Set(float64(n))
}
