// Package metrics provides Prometheus instrumentation for taskpool components.
//
// A Registry owns the metric vectors; each thread pool binds it to its own
// name with ForPool and updates the resulting PoolMetrics as tasks move
// through the queue.
//
// # Quick Start
//
//	reg := prometheus.NewRegistry()
//	pool, _ := threadpool.NewWithConfig(threadpool.Config{
//		Name:    "images",
//		Metrics: metrics.NewRegistry(reg),
//	})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
//
// # Available Metrics
//
//   - taskpool_pool_workers: Number of running worker threads
//   - taskpool_pool_active_workers: Number of workers executing a task
//   - taskpool_pool_queue_depth: Number of tasks waiting in the queue
//   - taskpool_pool_tasks_submitted_total: Tasks accepted by Submit
//   - taskpool_pool_tasks_completed_total: Tasks that returned without error
//   - taskpool_pool_tasks_failed_total: Tasks that returned an error or panicked
//   - taskpool_pool_tasks_cancelled_total: Tasks dropped before execution
//   - taskpool_pool_tasks_panicked_total: Tasks that panicked
//   - taskpool_pool_task_duration_seconds: Execution time histogram
//   - taskpool_pool_task_queue_wait_seconds: Queue wait histogram
//
// Every metric carries a pool_name label.
//
// # Registries
//
// Metrics can only be registered once per Prometheus registerer. Default
// returns the shared registry on prometheus.DefaultRegisterer; use
// NewRegistry with a private prometheus.Registry for isolation, as the
// tests in this repository do.
package metrics
