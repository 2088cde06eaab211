package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the camb client
type Metrics struct {
	// Remote API request metrics
	APIRequests        *prometheus.CounterVec
	APIRequestDuration *prometheus.HistogramVec
	APIErrors          *prometheus.CounterVec

	// Task polling metrics
	PollIterations prometheus.Counter
	PollNotFound   prometheus.Counter
	TasksResolved  *prometheus.CounterVec

	// Artifact metrics
	ArtifactsFetched prometheus.Counter
	ArtifactBytes    prometheus.Histogram

	// Batch metrics
	BatchItemsProcessed prometheus.Counter
	BatchItemsFailed    prometheus.Counter
	BatchItemDuration   prometheus.Histogram

	// Monitoring HTTP server metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		// Remote API request metrics
		APIRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "camb_api_requests_total",
			Help: "Total number of requests issued against the remote API",
		}, []string{"endpoint", "status_code"}),
		APIRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "camb_api_request_duration_seconds",
			Help:    "Duration of remote API requests",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~3.5 minutes
		}, []string{"endpoint"}),
		APIErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "camb_api_errors_total",
			Help: "Total number of remote API errors by classification",
		}, []string{"endpoint", "error_type"}),

		// Task polling metrics
		PollIterations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "camb_poll_iterations_total",
			Help: "Total number of task status polls issued",
		}),
		PollNotFound: promauto.NewCounter(prometheus.CounterOpts{
			Name: "camb_poll_not_found_total",
			Help: "Total number of polls answered 404 before the task record appeared",
		}),
		TasksResolved: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "camb_tasks_resolved_total",
			Help: "Total number of tasks that reached a terminal state",
		}, []string{"terminal"}),

		// Artifact metrics
		ArtifactsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "camb_artifacts_fetched_total",
			Help: "Total number of result artifacts downloaded",
		}),
		ArtifactBytes: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "camb_artifact_size_bytes",
			Help:    "Size of downloaded result artifacts in bytes",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 10), // 1KB to ~256MB
		}),

		// Batch metrics
		BatchItemsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "camb_batch_items_processed_total",
			Help: "Total number of batch items processed",
		}),
		BatchItemsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "camb_batch_items_failed_total",
			Help: "Total number of batch items that ended in an error record",
		}),
		BatchItemDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "camb_batch_item_duration_seconds",
			Help:    "End-to-end duration of a batch item including polling",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~17 minutes
		}),

		// Monitoring HTTP server metrics
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "camb_http_requests_total",
			Help: "Total number of monitoring HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "camb_http_request_duration_seconds",
			Help:    "Duration of monitoring HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// RecordAPIRequest records one remote API call
func (m *Metrics) RecordAPIRequest(endpoint, statusCode string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.APIRequests.WithLabelValues(endpoint, statusCode).Inc()
	m.APIRequestDuration.WithLabelValues(endpoint).Observe(durationSeconds)
}

// RecordAPIError records a classified remote API failure
func (m *Metrics) RecordAPIError(endpoint, errorType string) {
	if m == nil {
		return
	}
	m.APIErrors.WithLabelValues(endpoint, errorType).Inc()
}

// RecordPoll records one poll iteration; notFound marks 404 tolerance hits
func (m *Metrics) RecordPoll(notFound bool) {
	if m == nil {
		return
	}
	m.PollIterations.Inc()
	if notFound {
		m.PollNotFound.Inc()
	}
}

// RecordTaskResolved records the terminal state a task reached
func (m *Metrics) RecordTaskResolved(terminal string) {
	if m == nil {
		return
	}
	m.TasksResolved.WithLabelValues(terminal).Inc()
}

// RecordArtifact records a downloaded result artifact
func (m *Metrics) RecordArtifact(sizeBytes int) {
	if m == nil {
		return
	}
	m.ArtifactsFetched.Inc()
	m.ArtifactBytes.Observe(float64(sizeBytes))
}

// RecordBatchItem records one processed batch item
func (m *Metrics) RecordBatchItem(failed bool, durationSeconds float64) {
	if m == nil {
		return
	}
	m.BatchItemsProcessed.Inc()
	if failed {
		m.BatchItemsFailed.Inc()
	}
	m.BatchItemDuration.Observe(durationSeconds)
}

// RecordHTTPRequest records a monitoring HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, durationSeconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}
