// Package metrics provides Prometheus metrics for the league table service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Build results used as the "result" label.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	registry       prometheus.Registerer

	// Upstream API
	upstreamRequests        *prometheus.CounterVec
	upstreamRequestDuration *prometheus.HistogramVec

	// Snapshot builds
	buildRuns           *prometheus.CounterVec
	buildDuration       prometheus.Histogram
	buildManagers       prometheus.Gauge
	buildCurrentGW      prometheus.Gauge
	validationMismatch  prometheus.Gauge
	picksFallbacks      prometheus.Counter
	standingsDuplicates prometheus.Counter
	snapshotLastUnix    prometheus.Gauge

	// Rebuild queue and worker
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	workerLatency      prometheus.Histogram
	workerErrors       prometheus.Counter

	// Rendering
	renderDuration *prometheus.HistogramVec
	renderCache    *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "league",
		subsystem:      "table",
		latencyBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
		Buckets: m.latencyBuckets,
	})
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.upstreamRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_requests_total",
		Help:      "Upstream API requests by endpoint and status code",
	}, []string{"endpoint", "status_code"})

	m.upstreamRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "upstream_request_duration_milliseconds",
		Help:      "Upstream API request duration in milliseconds",
		Buckets:   m.latencyBuckets,
	}, []string{"endpoint"})

	m.buildRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "build_runs_total",
		Help:      "Snapshot builds by result",
	}, []string{"result"})

	m.buildDuration = m.histogram("build_duration_milliseconds", "Snapshot build duration in milliseconds")
	m.buildManagers = m.gauge("build_managers", "Managers in the last published snapshot")
	m.buildCurrentGW = m.gauge("build_current_gameweek", "Current gameweek of the last published snapshot")
	m.validationMismatch = m.gauge("validation_mismatches", "Managers whose total differs from their gameweek sum in the last build")
	m.picksFallbacks = m.counter("picks_fallbacks_total", "Gameweek picks requests that failed and fell back to history values")
	m.standingsDuplicates = m.counter("standings_duplicates_total", "Standings entries dropped because they repeated across pages")
	m.snapshotLastUnix = m.gauge("snapshot_last_unix", "Unix timestamp of the last published snapshot")

	m.queueSize = m.gauge("queue_size", "Pending rebuild requests")
	m.queueCapacity = m.gauge("queue_capacity", "Rebuild queue capacity")
	m.queueEnqueue = m.counter("queue_enqueue_total", "Rebuild requests enqueued")
	m.queueDequeue = m.counter("queue_dequeue_total", "Rebuild requests dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Rebuild requests rejected by the queue")
	m.workerLatency = m.histogram("worker_processing_latency_milliseconds", "Time from rebuild request to build completion in milliseconds")
	m.workerErrors = m.counter("worker_errors_total", "Rebuild requests that ended in a failed build")

	m.renderDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_duration_milliseconds",
		Help:      "Leaderboard render duration in milliseconds by format",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
	}, []string{"format"})

	m.renderCache = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "render_cache_total",
		Help:      "Render cache lookups by result (hit, miss)",
	}, []string{"result"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   m.latencyBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.httpErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "errors_by_endpoint_total",
		Help:      "Total number of errors by endpoint",
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Upstream API.

// RecordUpstreamRequest counts one upstream call and its latency. status is
// 0 when no response was received.
func RecordUpstreamRequest(endpoint string, status int, d time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	globalManager.upstreamRequests.WithLabelValues(endpoint, code).Inc()
	globalManager.upstreamRequestDuration.WithLabelValues(endpoint).Observe(ms(d))
}

// Snapshot builds.

// RecordBuild records a finished build.
func RecordBuild(result string, d time.Duration) {
	globalManager.buildRuns.WithLabelValues(result).Inc()
	globalManager.buildDuration.Observe(ms(d))
}

// UpdateSnapshot records the shape of a newly published snapshot.
func UpdateSnapshot(managers, currentGW int, generatedAt time.Time) {
	globalManager.buildManagers.Set(float64(managers))
	globalManager.buildCurrentGW.Set(float64(currentGW))
	globalManager.snapshotLastUnix.Set(float64(generatedAt.Unix()))
}

// UpdateValidationMismatches sets the number of total/gameweek mismatches in the last build.
func UpdateValidationMismatches(n int) {
	globalManager.validationMismatch.Set(float64(n))
}

// RecordPicksFallback counts a picks request that fell back to history values.
func RecordPicksFallback() {
	globalManager.picksFallbacks.Inc()
}

// RecordStandingsDuplicate counts a standings entry dropped as a repeat.
func RecordStandingsDuplicate() {
	globalManager.standingsDuplicates.Inc()
}

// Rebuild queue and worker.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Rendering.

// RecordRender records how long rendering one format took.
func RecordRender(format string, d time.Duration) {
	globalManager.renderDuration.WithLabelValues(format).Observe(ms(d))
}

// RecordRenderCache counts a render cache lookup.
func RecordRenderCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	globalManager.renderCache.WithLabelValues(result).Inc()
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
