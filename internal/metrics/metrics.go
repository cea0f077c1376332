// Package metrics exposes Prometheus collectors for the HTTP surface and the
// capture, follow, search and worker paths.
//
// Collectors are registered on the default registry through promauto and
// served by promhttp on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration tracks request latency by route pattern and status.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "spotlapse_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// CapturesCreatedTotal counts successful captures by how the spot was resolved.
	CapturesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotlapse_captures_created_total",
			Help: "Total number of captures created, by spot resolution path",
		},
		[]string{"resolution"},
	)

	// CaptureFailuresTotal counts ingestion failures by the step that failed.
	CaptureFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotlapse_capture_failures_total",
			Help: "Total number of capture ingestion failures, by step",
		},
		[]string{"step"},
	)

	// FollowOperationsTotal counts follow and unfollow calls by outcome.
	FollowOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotlapse_follow_operations_total",
			Help: "Total number of follow graph operations",
		},
		[]string{"operation", "outcome"},
	)

	// SearchDuration tracks end-to-end search latency.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "spotlapse_search_duration_seconds",
			Help:    "Duration of search requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	// UploadBreakerState reports the object storage breaker: 0 closed, 1 half-open, 2 open.
	UploadBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spotlapse_upload_breaker_state",
			Help: "State of the object storage circuit breaker",
		},
	)

	// WorkerEventsTotal counts stream events handled by the worker pool.
	WorkerEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spotlapse_worker_events_total",
			Help: "Total number of stream events processed by workers",
		},
		[]string{"event_type", "outcome"},
	)

	// WorkerPendingMessages is the consumer group's unacknowledged backlog.
	WorkerPendingMessages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spotlapse_worker_pending_messages",
			Help: "Stream messages delivered to workers but not yet acknowledged",
		},
	)
)

// Follow outcomes
const (
	OutcomeCreated = "created"
	OutcomeDeleted = "deleted"
	OutcomeNoop    = "noop"
	OutcomeError   = "error"
	OutcomeSuccess = "success"
)

// ObserveHTTPRequest records one completed request.
func ObserveHTTPRequest(method, route, status string, d time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// RecordCaptureCreated increments the capture counter for a resolution path.
func RecordCaptureCreated(resolution string) {
	CapturesCreatedTotal.WithLabelValues(resolution).Inc()
}

// RecordCaptureFailure increments the failure counter for an ingestion step.
func RecordCaptureFailure(step string) {
	CaptureFailuresTotal.WithLabelValues(step).Inc()
}

// RecordFollowOperation increments the follow counter.
func RecordFollowOperation(operation, outcome string) {
	FollowOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveSearch records one search duration.
func ObserveSearch(d time.Duration) {
	SearchDuration.Observe(d.Seconds())
}

// RecordWorkerEvent increments the worker event counter.
func RecordWorkerEvent(eventType, outcome string) {
	WorkerEventsTotal.WithLabelValues(eventType, outcome).Inc()
}

// SetWorkerPending records the consumer group backlog.
func SetWorkerPending(n int64) {
	WorkerPendingMessages.Set(float64(n))
}
