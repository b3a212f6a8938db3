// Package metrics provides Prometheus instrumentation for taskpool components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "taskpool"

// Registry holds all metric instances for taskpool components.
type Registry struct {
	// Pool state
	Workers       *prometheus.GaugeVec
	ActiveWorkers *prometheus.GaugeVec
	QueueDepth    *prometheus.GaugeVec

	// Task outcomes
	TasksSubmitted *prometheus.CounterVec
	TasksCompleted *prometheus.CounterVec
	TasksFailed    *prometheus.CounterVec
	TasksCancelled *prometheus.CounterVec
	TasksPanicked  *prometheus.CounterVec

	// Latencies
	TaskDuration  *prometheus.HistogramVec
	TaskQueueWait *prometheus.HistogramVec
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithOptions(reg, DefaultNamespace, nil)
}

// NewRegistryWithOptions creates a registry under a custom namespace with
// constant labels attached to every metric.
func NewRegistryWithOptions(reg prometheus.Registerer, namespace string, labels prometheus.Labels) *Registry {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	factory := promauto.With(reg)
	poolLabel := []string{"pool_name"}

	gauge := func(name, help string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   namespace,
			Subsystem:   "pool",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, poolLabel)
	}
	counter := func(name, help string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "pool",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, poolLabel)
	}
	histogram := func(name, help string) *prometheus.HistogramVec {
		return factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "pool",
			Name:        name,
			Help:        help,
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, poolLabel)
	}

	return &Registry{
		Workers:       gauge("workers", "Number of running worker threads"),
		ActiveWorkers: gauge("active_workers", "Number of workers currently executing a task"),
		QueueDepth:    gauge("queue_depth", "Number of tasks waiting in the queue"),

		TasksSubmitted: counter("tasks_submitted_total", "Total number of tasks submitted"),
		TasksCompleted: counter("tasks_completed_total", "Total number of tasks that returned without error"),
		TasksFailed:    counter("tasks_failed_total", "Total number of tasks that returned an error or panicked"),
		TasksCancelled: counter("tasks_cancelled_total", "Total number of tasks dropped before execution"),
		TasksPanicked:  counter("tasks_panicked_total", "Total number of tasks that panicked"),

		TaskDuration:  histogram("task_duration_seconds", "Time spent executing tasks"),
		TaskQueueWait: histogram("task_queue_wait_seconds", "Time tasks spent queued before a worker picked them up"),
	}
}

// ForPool binds the registry to one pool name.
func (r *Registry) ForPool(name string) *PoolMetrics {
	if r == nil {
		return nil
	}
	return &PoolMetrics{
		workers:   r.Workers.WithLabelValues(name),
		active:    r.ActiveWorkers.WithLabelValues(name),
		queued:    r.QueueDepth.WithLabelValues(name),
		submitted: r.TasksSubmitted.WithLabelValues(name),
		completed: r.TasksCompleted.WithLabelValues(name),
		failed:    r.TasksFailed.WithLabelValues(name),
		cancelled: r.TasksCancelled.WithLabelValues(name),
		panicked:  r.TasksPanicked.WithLabelValues(name),
		duration:  r.TaskDuration.WithLabelValues(name),
		queueWait: r.TaskQueueWait.WithLabelValues(name),
	}
}

// PoolMetrics is the per-pool view of a Registry with label values
// resolved once. All methods are no-ops on a nil receiver.
type PoolMetrics struct {
	workers, active, queued                          prometheus.Gauge
	submitted, completed, failed, cancelled, panicked prometheus.Counter
	duration, queueWait                              prometheus.Observer
}

// SetWorkers records the number of running workers.
func (m *PoolMetrics) SetWorkers(n int) {
	if m != nil {
		m.workers.Set(float64(n))
	}
}

// The active and queued gauges only move by deltas so concurrent updates
// commute and the gauges settle at zero once the pool is idle.

// Busy marks one worker as executing a task.
func (m *PoolMetrics) Busy() {
	if m != nil {
		m.active.Inc()
	}
}

// Idle marks one worker as done executing.
func (m *PoolMetrics) Idle() {
	if m != nil {
		m.active.Dec()
	}
}

// Dequeued records that n tasks left the queue.
func (m *PoolMetrics) Dequeued(n int) {
	if m != nil && n > 0 {
		m.queued.Sub(float64(n))
	}
}

// Submitted counts one accepted submission and its place in the queue.
func (m *PoolMetrics) Submitted() {
	if m != nil {
		m.submitted.Inc()
		m.queued.Inc()
	}
}

// Cancelled counts n tasks that were never executed.
func (m *PoolMetrics) Cancelled(n int) {
	if m != nil && n > 0 {
		m.cancelled.Add(float64(n))
	}
}

// Started records how long a task waited in the queue, in seconds.
func (m *PoolMetrics) Started(queueWaitSeconds float64) {
	if m != nil {
		m.queueWait.Observe(queueWaitSeconds)
	}
}

// Finished records the outcome and execution time of one task.
func (m *PoolMetrics) Finished(durationSeconds float64, failed, panicked bool) {
	if m == nil {
		return
	}
	m.duration.Observe(durationSeconds)
	switch {
	case panicked:
		m.panicked.Inc()
		m.failed.Inc()
	case failed:
		m.failed.Inc()
	default:
		m.completed.Inc()
	}
}
