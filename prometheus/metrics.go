package prometheus

import (
	"time"

	"parts-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Search metrics
	SearchRequestsCounter prometheus.CounterVec

	// Analog graph metrics
	AnalogMutationsCounter  prometheus.CounterVec
	AnalogResolutionCounter prometheus.Counter

	// Moderation metrics
	ModerationDecisionsCounter prometheus.CounterVec

	// Part popularity metrics
	PartViewsCounter prometheus.CounterVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Search metrics
	SearchRequestsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_search_requests_total",
			Help: "Total number of part searches",
		},
		[]string{"mode"},
	)

	// Analog graph metrics
	AnalogMutationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_analog_mutations_total",
			Help: "Total number of analog graph mutations",
		},
		[]string{"kind"},
	)

	AnalogResolutionCounter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_analog_resolutions_total",
			Help: "Total number of analog resolution queries",
		},
	)

	// Moderation metrics
	ModerationDecisionsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_moderation_decisions_total",
			Help: "Total number of moderation decisions",
		},
		[]string{"outcome"},
	)

	// Part popularity metrics
	PartViewsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_part_views_total",
			Help: "Total number of part detail views",
		},
		[]string{"part_id"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordSearch increments the counter for search requests
func RecordSearch(mode string) {
	SearchRequestsCounter.WithLabelValues(mode).Inc()
}

// RecordAnalogMutation increments the counter for analog graph mutations
func RecordAnalogMutation(kind string) {
	AnalogMutationsCounter.WithLabelValues(kind).Inc()
}

// RecordModerationDecision increments the counter for moderation decisions
func RecordModerationDecision(outcome string) {
	ModerationDecisionsCounter.WithLabelValues(outcome).Inc()
}

// RecordPartView increments the counter for part detail views
func RecordPartView(partID string) {
	PartViewsCounter.WithLabelValues(partID).Inc()
}
