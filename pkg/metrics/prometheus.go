// Package metrics provides Prometheus metrics for the facepad game loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Frame loop latencies sit well below the default request-oriented buckets.
var frameBuckets = []float64{0.25, 0.5, 1, 2, 4, 8, 16, 33, 50, 100, 250} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the game loop.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Event pipeline
	eventsEnqueued   *prometheus.CounterVec
	eventsDropped    *prometheus.CounterVec
	eventsDispatched *prometheus.CounterVec

	// Queue
	queueSize        prometheus.Gauge
	queueCapacity    prometheus.Gauge
	queueUtilization prometheus.Gauge

	// Frame loop
	framesTotal    prometheus.Counter
	frameLatency   prometheus.Histogram
	stageFailures  *prometheus.CounterVec
	gameSwitches   *prometheus.CounterVec
	sceneChanges   *prometheus.CounterVec
	activeProvider prometheus.Gauge

	// Capture worker and mailbox
	mailboxPublishes  prometheus.Counter
	mailboxStale      prometheus.Counter
	mailboxOverwrites prometheus.Counter
	mailboxConsumes   prometheus.Counter
	captureErrors     *prometheus.CounterVec
	framesSkipped     prometheus.Counter
	detectionLatency  prometheus.Histogram

	// Status HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:        "facepad",
		subsystem:        "loop",
		histogramBuckets: frameBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.eventsEnqueued = auto.NewCounterVec(
		m.counterOpts("events_enqueued_total", "Input events accepted by the queue, by producer note"),
		[]string{"source"},
	)
	m.eventsDropped = auto.NewCounterVec(
		m.counterOpts("events_dropped_total", "Input events dropped before reaching a game, by reason"),
		[]string{"reason"},
	)
	m.eventsDispatched = auto.NewCounterVec(
		m.counterOpts("events_dispatched_total", "Input events forwarded to the active game, by action"),
		[]string{"action"},
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current number of undrained input events"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Maximum input queue capacity"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Queue utilization ratio (current size / capacity)"))

	m.framesTotal = auto.NewCounter(m.counterOpts("frames_total", "Frames ticked by the game loop"))
	m.frameLatency = auto.NewHistogram(m.histogramOpts(
		"frame_latency_milliseconds", "Time spent in one update+draw tick", m.histogramBuckets))
	m.stageFailures = auto.NewCounterVec(
		m.counterOpts("stage_failures_total", "Failures caught at a frame stage boundary"),
		[]string{"stage", "kind"},
	)
	m.gameSwitches = auto.NewCounterVec(
		m.counterOpts("game_switches_total", "Game handoffs performed by the loop"),
		[]string{"to"},
	)
	m.sceneChanges = auto.NewCounterVec(
		m.counterOpts("scene_transitions_total", "Scene stack operations"),
		[]string{"op"},
	)
	m.activeProvider = auto.NewGauge(m.gaugeOpts("providers_active", "Registered input providers"))

	m.mailboxPublishes = auto.NewCounter(m.counterOpts("mailbox_publishes_total", "Detection results written to a mailbox"))
	m.mailboxStale = auto.NewCounter(m.counterOpts("mailbox_stale_total", "Detection results rejected for a non-increasing timestamp"))
	m.mailboxOverwrites = auto.NewCounter(m.counterOpts("mailbox_overwrites_total", "Unconsumed detection results replaced by a newer one"))
	m.mailboxConsumes = auto.NewCounter(m.counterOpts("mailbox_consumes_total", "Detection results consumed by a poll"))
	m.captureErrors = auto.NewCounterVec(
		m.counterOpts("capture_errors_total", "Transient capture failures, by kind"),
		[]string{"kind"},
	)
	m.framesSkipped = auto.NewCounter(m.counterOpts("capture_frames_skipped_total", "Camera frames read but not submitted to the detector"))
	m.detectionLatency = auto.NewHistogram(m.histogramOpts(
		"detection_latency_milliseconds", "Time from detector submission to result callback", m.histogramBuckets))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of status HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "Status HTTP request duration in milliseconds", prometheus.DefBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Event pipeline.

// RecordEventEnqueued increments the accepted-events counter for source.
func RecordEventEnqueued(source string) {
	globalManager.eventsEnqueued.WithLabelValues(source).Inc()
}

// RecordEventDropped increments the dropped-events counter for reason.
func RecordEventDropped(reason string) {
	globalManager.eventsDropped.WithLabelValues(reason).Inc()
}

// RecordEventDispatched increments the dispatched-events counter for action.
func RecordEventDispatched(action string) {
	globalManager.eventsDispatched.WithLabelValues(action).Inc()
}

// Queue.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// Frame loop.

// RecordFrame increments the frame counter and observes its latency.
func RecordFrame(latencyMs float64) {
	globalManager.framesTotal.Inc()
	globalManager.frameLatency.Observe(latencyMs)
}

// RecordStageFailure records a failure caught at a frame stage. kind is
// "error" or "panic".
func RecordStageFailure(stage, kind string) {
	globalManager.stageFailures.WithLabelValues(stage, kind).Inc()
}

// RecordGameSwitch records a handoff to the game named to.
func RecordGameSwitch(to string) {
	globalManager.gameSwitches.WithLabelValues(to).Inc()
}

// RecordSceneTransition records a push, pop or replace.
func RecordSceneTransition(op string) {
	globalManager.sceneChanges.WithLabelValues(op).Inc()
}

// UpdateActiveProviders sets the number of registered providers.
func UpdateActiveProviders(count int) {
	globalManager.activeProvider.Set(float64(count))
}

// Capture worker and mailbox.

// RecordMailboxPublish increments the mailbox write counter.
func RecordMailboxPublish() {
	globalManager.mailboxPublishes.Inc()
}

// RecordMailboxStale increments the stale-result counter.
func RecordMailboxStale() {
	globalManager.mailboxStale.Inc()
}

// RecordMailboxOverwrite increments the overwritten-result counter.
func RecordMailboxOverwrite() {
	globalManager.mailboxOverwrites.Inc()
}

// RecordMailboxConsume increments the consumed-result counter.
func RecordMailboxConsume() {
	globalManager.mailboxConsumes.Inc()
}

// RecordCaptureError records a transient capture failure ("read" or "detect").
func RecordCaptureError(kind string) {
	globalManager.captureErrors.WithLabelValues(kind).Inc()
}

// RecordFrameSkipped increments the skipped-frame counter.
func RecordFrameSkipped() {
	globalManager.framesSkipped.Inc()
}

// RecordDetectionLatency observes detector round-trip latency.
func RecordDetectionLatency(latencyMs float64) {
	globalManager.detectionLatency.Observe(latencyMs)
}

// Status HTTP surface.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// System Performance Metrics Functions.

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
