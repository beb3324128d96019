// Package metrics provides Prometheus metrics for growup.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scoring runs in microseconds to low milliseconds.
var defaultLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// Manager owns every growup metric.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Scoring
	observationsScored   *prometheus.CounterVec
	observationsRejected *prometheus.CounterVec
	tailCorrections      *prometheus.CounterVec
	scoringLatency       prometheus.Histogram

	// Reference tables
	tablesLoaded      *prometheus.GaugeVec
	tableRows         *prometheus.GaugeVec
	tableLoadDuration prometheus.Gauge

	// Batch pipeline
	batchRecords       prometheus.Counter
	duplicateRecords   prometheus.Counter
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueueErrors *prometheus.CounterVec
	workerCount        prometheus.Gauge

	errorsByComponent *prometheus.CounterVec
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics manager

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps Go runtime collectors out

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "growup",
		subsystem:        "zscore",
		histogramBuckets: defaultLatencyBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.observationsScored = auto.NewCounterVec(
		m.counterOpts("observations_scored_total", "Observations scored, by indicator"),
		[]string{"indicator"},
	)
	m.observationsRejected = auto.NewCounterVec(
		m.counterOpts("observations_rejected_total", "Observations rejected, by indicator and error kind"),
		[]string{"indicator", "kind"},
	)
	m.tailCorrections = auto.NewCounterVec(
		m.counterOpts("tail_corrections_total", "Weight-based z-scores restricted beyond ±3 SD"),
		[]string{"indicator"},
	)
	m.scoringLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "scoring_latency_milliseconds",
		Help:        "Time spent scoring one observation",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})

	m.tablesLoaded = auto.NewGaugeVec(
		m.gaugeOpts("tables_loaded", "Reference tables loaded, by reference system"),
		[]string{"reference"},
	)
	m.tableRows = auto.NewGaugeVec(
		m.gaugeOpts("table_rows", "LMS rows per reference table"),
		[]string{"table"},
	)
	m.tableLoadDuration = auto.NewGauge(
		m.gaugeOpts("table_load_duration_milliseconds", "Duration of the last reference table load"),
	)

	m.batchRecords = auto.NewCounter(m.counterOpts("batch_records_total", "Survey records submitted for batch scoring"))
	m.duplicateRecords = auto.NewCounter(m.counterOpts("duplicate_records_total", "Survey records dropped as duplicate IDs"))
	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Records waiting in the scoring queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the scoring queue"))
	m.queueEnqueueErrors = auto.NewCounterVec(
		m.counterOpts("queue_enqueue_errors_total", "Failed enqueue attempts, by reason"),
		[]string{"reason"},
	)
	m.workerCount = auto.NewGauge(m.gaugeOpts("worker_count", "Scoring workers running"))

	m.errorsByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
}

// ObservationScored counts a successfully scored observation.
func (m *Manager) ObservationScored(indicator string) {
	m.observationsScored.WithLabelValues(indicator).Inc()
}

// ObservationRejected counts a rejected observation.
func (m *Manager) ObservationRejected(indicator, kind string) {
	m.observationsRejected.WithLabelValues(indicator, kind).Inc()
}

// TailCorrection counts a restricted z-score.
func (m *Manager) TailCorrection(indicator string) {
	m.tailCorrections.WithLabelValues(indicator).Inc()
}

// ScoringLatency records scoring latency in milliseconds.
func (m *Manager) ScoringLatency(latencyMs float64) {
	m.scoringLatency.Observe(latencyMs)
}

// TablesLoaded sets the number of tables loaded for a reference system.
func (m *Manager) TablesLoaded(reference string, count int) {
	m.tablesLoaded.WithLabelValues(reference).Set(float64(count))
}

// TableRows sets the row count of a table.
func (m *Manager) TableRows(table string, rows int) {
	m.tableRows.WithLabelValues(table).Set(float64(rows))
}

// TableLoadDuration sets the duration of the last table load.
func (m *Manager) TableLoadDuration(latencyMs float64) {
	m.tableLoadDuration.Set(latencyMs)
}

// BatchRecords counts records submitted to a batch.
func (m *Manager) BatchRecords(n int) {
	m.batchRecords.Add(float64(n))
}

// DuplicateRecord counts a dropped duplicate record.
func (m *Manager) DuplicateRecord() {
	m.duplicateRecords.Inc()
}

// QueueSize sets the current queue size.
func (m *Manager) QueueSize(size int) {
	m.queueSize.Set(float64(size))
}

// QueueCapacity sets the queue capacity.
func (m *Manager) QueueCapacity(capacity int) {
	m.queueCapacity.Set(float64(capacity))
}

// QueueEnqueueError counts a failed enqueue.
func (m *Manager) QueueEnqueueError(reason string) {
	m.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// WorkerCount sets the number of running workers.
func (m *Manager) WorkerCount(count int) {
	m.workerCount.Set(float64(count))
}

// ErrorByComponent counts an error with component and type labels.
func (m *Manager) ErrorByComponent(component, errorType string) {
	m.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordObservationScored increments the scored counter on the global manager.
func RecordObservationScored(indicator string) { globalManager.ObservationScored(indicator) }

// RecordObservationRejected increments the rejected counter on the global manager.
func RecordObservationRejected(indicator, kind string) {
	globalManager.ObservationRejected(indicator, kind)
}

// RecordTailCorrection increments the tail correction counter.
func RecordTailCorrection(indicator string) { globalManager.TailCorrection(indicator) }

// RecordScoringLatency records scoring latency in milliseconds.
func RecordScoringLatency(latencyMs float64) { globalManager.ScoringLatency(latencyMs) }

// UpdateTablesLoaded sets the tables loaded gauge.
func UpdateTablesLoaded(reference string, count int) { globalManager.TablesLoaded(reference, count) }

// UpdateTableRows sets the per-table row gauge.
func UpdateTableRows(table string, rows int) { globalManager.TableRows(table, rows) }

// UpdateTableLoadDuration sets the last table load duration.
func UpdateTableLoadDuration(latencyMs float64) { globalManager.TableLoadDuration(latencyMs) }

// RecordBatchRecords counts submitted batch records.
func RecordBatchRecords(n int) { globalManager.BatchRecords(n) }

// RecordDuplicateRecord counts a duplicate record.
func RecordDuplicateRecord() { globalManager.DuplicateRecord() }

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.QueueSize(size) }

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.QueueCapacity(capacity) }

// RecordQueueEnqueueError counts a failed enqueue.
func RecordQueueEnqueueError(reason string) { globalManager.QueueEnqueueError(reason) }

// UpdateWorkerCount sets the worker gauge.
func UpdateWorkerCount(count int) { globalManager.WorkerCount(count) }

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.ErrorByComponent(component, errorType)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current metrics in the text exposition format, for
// collection by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}
