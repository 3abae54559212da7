// Package metrics provides Prometheus metrics for the restio HTTP API
// and its backing stores.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the Prometheus metric families for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	rateLimited         *prometheus.CounterVec
	authFailures        prometheus.Counter

	// Store metrics
	storeRecords   *prometheus.GaugeVec
	storeOps       *prometheus.CounterVec
	storeOpLatency *prometheus.HistogramVec

	// Audit pipeline metrics
	auditQueueSize     prometheus.Gauge
	auditQueueCapacity prometheus.Gauge
	auditEnqueued      prometheus.Counter
	auditDropped       *prometheus.CounterVec
	auditProcessed     prometheus.Counter
	auditDuplicates    prometheus.Counter

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "restio",
		subsystem:        "api",
		histogramBuckets: prometheus.DefBuckets,
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
			Name:      "errors_total",
			Help:      "Total number of error responses by endpoint, method and class",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.rateLimited = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "rate_limited_total",
			Help:      "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	m.authFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "auth_failures_total",
		Help:      "Total number of failed authentication attempts",
	})

	m.storeRecords = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: "store",
			Name:      "records",
			Help:      "Current number of records per resource",
		},
		[]string{"resource"},
	)

	m.storeOps = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of store operations by resource and kind",
		},
		[]string{"resource", "operation"},
	)

	m.storeOpLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: "store",
			Name:      "operation_latency_milliseconds",
			Help:      "Store operation latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"resource", "operation"},
	)

	m.auditQueueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "audit",
		Name:      "queue_size",
		Help:      "Current number of change records waiting in the audit queue",
	})

	m.auditQueueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "audit",
		Name:      "queue_capacity",
		Help:      "Configured capacity of the audit queue",
	})

	m.auditEnqueued = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "audit",
		Name:      "enqueued_total",
		Help:      "Total number of change records accepted by the audit queue",
	})

	m.auditDropped = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: "audit",
			Name:      "dropped_total",
			Help:      "Total number of change records the audit queue rejected, by reason",
		},
		[]string{"reason"},
	)

	m.auditProcessed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "audit",
		Name:      "processed_total",
		Help:      "Total number of change records written to the journal",
	})

	m.auditDuplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "audit",
		Name:      "duplicates_total",
		Help:      "Total number of change records skipped as duplicates",
	})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_bytes",
		Help:      "Current allocated memory in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Current number of goroutines",
	})
}

// Package-level helpers recording on the global manager.

// RecordHTTPRequest increments the request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if globalManager.enabled {
		globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration observes a request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if globalManager.enabled {
		globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordErrorByEndpoint increments the error counter for an endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if globalManager.enabled {
		globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	}
}

// RecordRateLimited counts a request rejected by the rate limiter.
func RecordRateLimited(endpoint string) {
	if globalManager.enabled {
		globalManager.rateLimited.WithLabelValues(endpoint).Inc()
	}
}

// RecordAuthFailure counts a failed authentication attempt.
func RecordAuthFailure() {
	if globalManager.enabled {
		globalManager.authFailures.Inc()
	}
}

// UpdateStoreRecords sets the record gauge for a resource.
func UpdateStoreRecords(resource string, count int) {
	if globalManager.enabled {
		globalManager.storeRecords.WithLabelValues(resource).Set(float64(count))
	}
}

// RecordStoreOperation counts a store operation.
func RecordStoreOperation(resource, operation string) {
	if globalManager.enabled {
		globalManager.storeOps.WithLabelValues(resource, operation).Inc()
	}
}

// RecordStoreOperationLatency observes a store operation duration.
func RecordStoreOperationLatency(resource, operation string, durationMs float64) {
	if globalManager.enabled {
		globalManager.storeOpLatency.WithLabelValues(resource, operation).Observe(durationMs)
	}
}

// UpdateAuditQueueSize sets the audit queue depth gauge.
func UpdateAuditQueueSize(size int) {
	if globalManager.enabled {
		globalManager.auditQueueSize.Set(float64(size))
	}
}

// UpdateAuditQueueCapacity sets the audit queue capacity gauge.
func UpdateAuditQueueCapacity(capacity int) {
	if globalManager.enabled {
		globalManager.auditQueueCapacity.Set(float64(capacity))
	}
}

// RecordAuditEnqueued counts a change record accepted by the audit queue.
func RecordAuditEnqueued() {
	if globalManager.enabled {
		globalManager.auditEnqueued.Inc()
	}
}

// RecordAuditDropped counts a change record the audit queue rejected.
func RecordAuditDropped(reason string) {
	if globalManager.enabled {
		globalManager.auditDropped.WithLabelValues(reason).Inc()
	}
}

// RecordAuditProcessed counts a change record written to the journal.
func RecordAuditProcessed() {
	if globalManager.enabled {
		globalManager.auditProcessed.Inc()
	}
}

// RecordAuditDuplicate counts a change record skipped as a duplicate.
func RecordAuditDuplicate() {
	if globalManager.enabled {
		globalManager.auditDuplicates.Inc()
	}
}

// UpdateSystemMemoryUsage sets the allocated-memory gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	if globalManager.enabled {
		globalManager.systemMemoryUsage.Set(float64(bytes))
	}
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	if globalManager.enabled {
		globalManager.systemGoroutineCount.Set(float64(count))
	}
}

// GetRegistry returns the registry backing the global manager, for
// serving /healthz style metric endpoints.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
