// Package metrics exposes Prometheus instrumentation for upstream calls,
// fallbacks, the mirror table and the HTTP surface.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcomes recorded for upstream calls.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
)

var (
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviestack_upstream_requests_total",
			Help: "Total number of upstream provider requests by outcome",
		},
		[]string{"provider", "operation", "outcome"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviestack_upstream_request_duration_seconds",
			Help:    "Duration of upstream provider requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "operation"},
	)

	// FallbackServedTotal counts responses served from somewhere other than
	// the primary provider ("sample" or "mirror").
	FallbackServedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviestack_fallback_served_total",
			Help: "Total number of responses served from fallback data",
		},
		[]string{"operation", "source"},
	)

	MirrorOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviestack_mirror_operations_total",
			Help: "Total number of mirror table reads and writes",
		},
		[]string{"operation", "result"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviestack_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviestack_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	ScheduledTaskRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviestack_scheduled_task_runs_total",
			Help: "Total number of scheduled task runs",
		},
		[]string{"task", "result"},
	)
)

// RecordUpstream records one upstream call.
func RecordUpstream(provider, operation, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(provider, operation, outcome).Inc()
	if outcome != OutcomeSkipped {
		UpstreamRequestDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
	}
}

// RecordFallback records a response served from sample or mirror data.
func RecordFallback(operation, source string) {
	FallbackServedTotal.WithLabelValues(operation, source).Inc()
}

// RecordMirror records a mirror read or write.
func RecordMirror(operation string, err error) {
	MirrorOperationsTotal.WithLabelValues(operation, result(err)).Inc()
}

// RecordAPIRequest records an HTTP request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordTaskRun records a scheduled task execution.
func RecordTaskRun(task string, err error) {
	ScheduledTaskRunsTotal.WithLabelValues(task, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
