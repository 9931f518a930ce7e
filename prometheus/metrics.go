package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"northwind-service/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Authentication metrics
	AuthAttemptsCounter prometheus.Counter
	AuthSuccessCounter  prometheus.Counter
	AuthErrorsCounter   prometheus.CounterVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Result cache metrics
	CacheHitsCounter   prometheus.CounterVec
	CacheMissesCounter prometheus.CounterVec

	// Catalog operation metrics
	ProductOperationsCounter  prometheus.CounterVec
	CategoryOperationsCounter prometheus.CounterVec
	SupplierOperationsCounter prometheus.CounterVec

	initialized bool
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	AuthAttemptsCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
	)

	AuthSuccessCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_auth_success_total",
			Help: "Total number of successful authentications",
		},
	)

	AuthErrorsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"reason"},
	)

	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	CacheHitsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_hits_total",
			Help: "Total number of result cache hits",
		},
		[]string{"key_group"},
	)

	CacheMissesCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_cache_misses_total",
			Help: "Total number of result cache misses",
		},
		[]string{"key_group"},
	)

	ProductOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_product_operations_total",
			Help: "Total number of product operations",
		},
		[]string{"operation"},
	)

	CategoryOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_category_operations_total",
			Help: "Total number of category operations",
		},
		[]string{"operation"},
	)

	SupplierOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_supplier_operations_total",
			Help: "Total number of supplier operations",
		},
		[]string{"operation"},
	)

	initialized = true
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if !initialized {
			return
		}
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordAuthAttempt increments the counter for authentication attempts
func RecordAuthAttempt() {
	if !initialized {
		return
	}
	AuthAttemptsCounter.Inc()
}

// RecordAuthSuccess increments the counter for successful authentications
func RecordAuthSuccess() {
	if !initialized {
		return
	}
	AuthSuccessCounter.Inc()
}

// RecordAuthError increments the counter for a failed authentication
func RecordAuthError(reason string) {
	if !initialized {
		return
	}
	AuthErrorsCounter.WithLabelValues(reason).Inc()
}

// RecordCacheHit increments the hit counter for a cache key group
func RecordCacheHit(keyGroup string) {
	if !initialized {
		return
	}
	CacheHitsCounter.WithLabelValues(keyGroup).Inc()
}

// RecordCacheMiss increments the miss counter for a cache key group
func RecordCacheMiss(keyGroup string) {
	if !initialized {
		return
	}
	CacheMissesCounter.WithLabelValues(keyGroup).Inc()
}

// RecordProductOperation increments the counter for product operations
func RecordProductOperation(operation string) {
	if !initialized {
		return
	}
	ProductOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordCategoryOperation increments the counter for category operations
func RecordCategoryOperation(operation string) {
	if !initialized {
		return
	}
	CategoryOperationsCounter.WithLabelValues(operation).Inc()
}

// RecordSupplierOperation increments the counter for supplier operations
func RecordSupplierOperation(operation string) {
	if !initialized {
		return
	}
	SupplierOperationsCounter.WithLabelValues(operation).Inc()
}
