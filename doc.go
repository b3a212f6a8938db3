/*
Package taskpool provides a bounded worker thread pool for Go applications
that hands back a future for every submitted callable.

Execution (pkg/scheduling):
  - taskqueue: FIFO queue guarded by a mutex and condition variable
  - threadpool: fixed worker threads, Start/Finish/Abort lifecycle, default pool
  - scheduler: one-shot, interval and cron submission onto a pool

Results (pkg/future):
  - Future: write-once result handle with timed and context-bounded waits
  - WaitAll: wait on futures of mixed result types

Observability:
  - metrics: Prometheus gauges, counters and histograms per pool
  - journal: task outcomes in memory or in a Redis stream

Example usage:

	import (
		"github.com/vnykmshr/taskpool/pkg/scheduling/threadpool"
	)

	pool := threadpool.New()
	if err := pool.Start(4); err != nil {
		log.Fatal(err)
	}
	defer pool.Finish()

	f, err := threadpool.Submit(pool, func() (string, error) {
		return fetch(url)
	})
	if err != nil {
		log.Fatal(err)
	}
	body, err := f.Get()

See the examples directory for complete programs.
*/
package taskpool
