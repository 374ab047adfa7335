// Package metrics provides Prometheus metrics for the djboard service.
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

// Manager owns every Prometheus metric exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// HTTP surface
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Board (aggregator core)
	tipsApplied        prometheus.Counter
	ratingsApplied     prometheus.Counter
	boardEntries       prometheus.Gauge
	boardQueries       *prometheus.CounterVec
	boardQueryLatency  prometheus.Histogram
	boardUpdateLatency prometheus.Histogram
	nameRefreshes      prometheus.Counter

	// Identity resolution
	nameLookups    prometheus.Counter
	nameCollisions prometheus.Counter

	// Entity tables
	storeOps       *prometheus.CounterVec
	storeOpLatency *prometheus.HistogramVec
	tableSize      *prometheus.GaugeVec

	// Idempotency tracking
	idempotencyHits prometheus.Counter
	idempotencySize prometheus.Gauge

	// Audit job
	auditRuns         prometheus.Counter
	auditDuration     prometheus.Histogram
	auditDriftEntries prometheus.Gauge
	auditLastUnix     prometheus.Gauge

	// Error tracking
	errorsByComponent *prometheus.CounterVec

	// System health
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "djboard",
		subsystem:        "platform",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all Prometheus metrics on the configured registry.
func (m *Manager) initializeMetrics() { //nolint:funlen // registers every metric family in one place
	auto := promauto.With(m.registry)

	// HTTP surface
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method, and status",
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

	// Board metrics
	m.tipsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_tips_applied_total",
		Help:      "Total number of settled tips applied to the leaderboard",
	})

	m.ratingsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_ratings_applied_total",
		Help:      "Total number of ratings applied to the leaderboard",
	})

	m.boardEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_entries",
		Help:      "Number of DJ entries currently on the leaderboard",
	})

	m.boardQueries = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "board_queries_total",
			Help:      "Total number of leaderboard queries by kind",
		},
		[]string{"kind"},
	)

	m.boardQueryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_query_latency_milliseconds",
		Help:      "Leaderboard query latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.boardUpdateLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_update_latency_milliseconds",
		Help:      "Leaderboard apply-operation latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.nameRefreshes = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_name_refreshes_total",
		Help:      "Total number of denormalized display-name refreshes",
	})

	// Identity resolution
	m.nameLookups = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identity_name_lookups_total",
		Help:      "Total number of DJ-by-name resolutions attempted",
	})

	m.nameCollisions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "identity_name_collisions_total",
		Help:      "Resolutions where more than one DJ profile matched the name",
	})

	// Entity table metrics
	m.storeOps = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_ops_total",
			Help:      "Total number of entity store operations by table and op",
		},
		[]string{"table", "op"},
	)

	m.storeOpLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_op_latency_milliseconds",
			Help:      "Entity store operation latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"table"},
	)

	m.tableSize = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_table_size",
			Help:      "Number of rows per entity table",
		},
		[]string{"table"},
	)

	// Idempotency tracking
	m.idempotencyHits = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "idempotency_replays_total",
		Help:      "Submissions rejected because their idempotency key was already seen",
	})

	m.idempotencySize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "idempotency_tracked_keys",
		Help:      "Number of idempotency keys currently tracked",
	})

	// Audit job metrics
	m.auditRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "audit_runs_total",
		Help:      "Total number of aggregate audit runs",
	})

	m.auditDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "audit_duration_milliseconds",
		Help:      "Aggregate audit run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.auditDriftEntries = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "audit_drift_entries",
		Help:      "Board entries whose totals disagreed with source tables at the last audit",
	})

	m.auditLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "audit_last_run_unix",
		Help:      "Unix timestamp of the last completed audit run",
	})

	// Error tracking
	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	// System health
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "Heap memory in use, in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Board metrics functions.

// RecordTipApplied increments the settled-tips counter.
func RecordTipApplied() {
	globalManager.tipsApplied.Inc()
}

// RecordRatingApplied increments the applied-ratings counter.
func RecordRatingApplied() {
	globalManager.ratingsApplied.Inc()
}

// UpdateBoardEntries sets the current number of leaderboard entries.
func UpdateBoardEntries(count int) {
	globalManager.boardEntries.Set(float64(count))
}

// RecordBoardQuery increments the query counter for a query kind
// (leaderboard, top_n, search, standing).
func RecordBoardQuery(kind string) {
	globalManager.boardQueries.WithLabelValues(kind).Inc()
}

// RecordBoardQueryLatency records leaderboard query latency.
func RecordBoardQueryLatency(latencyMs float64) {
	globalManager.boardQueryLatency.Observe(latencyMs)
}

// RecordBoardUpdateLatency records apply-operation latency.
func RecordBoardUpdateLatency(latencyMs float64) {
	globalManager.boardUpdateLatency.Observe(latencyMs)
}

// RecordNameRefresh increments the display-name refresh counter.
func RecordNameRefresh() {
	globalManager.nameRefreshes.Inc()
}

// Identity metrics functions.

// RecordNameLookup increments the DJ-by-name resolution counter.
func RecordNameLookup() {
	globalManager.nameLookups.Inc()
}

// RecordNameCollision increments the homonymous-profile counter.
func RecordNameCollision() {
	globalManager.nameCollisions.Inc()
}

// Store metrics functions.

// RecordStoreOp counts one entity store operation.
func RecordStoreOp(table, op string) {
	globalManager.storeOps.WithLabelValues(table, op).Inc()
}

// RecordStoreOpLatency records entity store operation latency.
func RecordStoreOpLatency(table string, latencyMs float64) {
	globalManager.storeOpLatency.WithLabelValues(table).Observe(latencyMs)
}

// UpdateTableSize sets the row count for a table.
func UpdateTableSize(table string, count int) {
	globalManager.tableSize.WithLabelValues(table).Set(float64(count))
}

// Idempotency metrics functions.

// RecordIdempotencyHit counts a submission replay stopped by its key.
func RecordIdempotencyHit() {
	globalManager.idempotencyHits.Inc()
}

// UpdateIdempotencySize sets the number of tracked keys.
func UpdateIdempotencySize(count int64) {
	globalManager.idempotencySize.Set(float64(count))
}

// Audit metrics functions.

// RecordAuditRun increments the audit run counter.
func RecordAuditRun() {
	globalManager.auditRuns.Inc()
}

// RecordAuditDuration records an audit run duration.
func RecordAuditDuration(latencyMs float64) {
	globalManager.auditDuration.Observe(latencyMs)
}

// UpdateAuditDriftEntries sets the drift count observed by the last audit.
func UpdateAuditDriftEntries(count int) {
	globalManager.auditDriftEntries.Set(float64(count))
}

// UpdateAuditLastUnix sets the completion time of the last audit run.
func UpdateAuditLastUnix(ts float64) {
	globalManager.auditLastUnix.Set(ts)
}

// Error metrics functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// System metrics functions.

// UpdateSystemMemoryUsage sets heap memory in use, in bytes.
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

// GetRegistry returns the custom Prometheus registry used by the service.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
