package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "maturity",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "maturity",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "maturity",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Snapshot job metrics
	snapshotJobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "maturity",
			Subsystem: "snapshot",
			Name:      "job_runs_total",
			Help:      "Total number of snapshot job executions",
		},
		[]string{"outcome"},
	)

	snapshotJobDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "maturity",
			Subsystem: "snapshot",
			Name:      "job_duration_seconds",
			Help:      "Duration of one snapshot job run in seconds",
			Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120},
		},
	)

	schedulerTicksSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "maturity",
			Subsystem: "snapshot",
			Name:      "ticks_skipped_total",
			Help:      "Scheduler ticks skipped because a job run was still in progress",
		},
	)

	// Alert source metrics
	alertFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "maturity",
			Subsystem: "alertsource",
			Name:      "fetch_total",
			Help:      "Total number of alert-source fetches",
		},
		[]string{"status"},
	)

	alertRecordsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "maturity",
			Subsystem: "alertsource",
			Name:      "records_dropped_total",
			Help:      "Alert records dropped for contract violations",
		},
	)

	// Cache metrics
	cacheOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "maturity",
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Query cache operations by result",
		},
		[]string{"operation", "result"},
	)
)

// RecordSnapshotJob records one job execution and its duration
func RecordSnapshotJob(outcome string, duration time.Duration) {
	snapshotJobRuns.WithLabelValues(outcome).Inc()
	snapshotJobDuration.Observe(duration.Seconds())
}

// RecordTickSkipped records a scheduler tick skipped due to overlap
func RecordTickSkipped() {
	schedulerTicksSkipped.Inc()
}

// RecordAlertFetch records an alert-source fetch result
func RecordAlertFetch(status string) {
	alertFetchTotal.WithLabelValues(status).Inc()
}

// RecordAlertRecordDropped records a dropped malformed alert record
func RecordAlertRecordDropped() {
	alertRecordsDropped.Inc()
}

// RecordCacheOperation records a query cache operation
func RecordCacheOperation(operation, result string) {
	cacheOperations.WithLabelValues(operation, result).Inc()
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		status := strconv.Itoa(wrapped.statusCode)
		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics endpoint handler
func Handler() http.Handler {
	return promhttp.Handler()
}
