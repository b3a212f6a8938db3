/*
Package threadpool provides a bounded pool of worker threads that execute
submitted callables in FIFO order and hand back a future for each result.

A pool owns a fixed set of workers pulling from a single shared queue.
Submitting never blocks on execution: the caller gets a future.Future at
once and waits on it only when it needs the value.

Basic usage:

	pool := threadpool.New()
	if err := pool.Start(4); err != nil {
		log.Fatal(err)
	}
	defer pool.Finish()

	f, err := threadpool.Submit(pool, func() (int, error) {
		return compute(), nil
	})
	if err != nil {
		log.Fatal(err)
	}

	v, err := f.Get()

Lifecycle:

A pool created with New is inert. Work submitted before Start waits in the
queue and runs once workers exist. Start is additive, so calling it on a
running pool grows the pool. Finish lets every queued task run, stops the
workers and blocks until they exit; Abort first drops whatever no worker
has picked up. Dropped tasks resolve with errors.ErrCancelled, so a caller
waiting on a future never hangs. Submitting after Finish fails with
errors.ErrClosed until Start reopens the pool.

A pool that becomes unreachable without Finish is finished by the runtime
once the garbage collector notices it.

Errors and Panics:

An error returned by a task, or a panic inside it, is stored in that task's
future and never affects the worker. Panics surface as *PanicError carrying
the recovered value and stack.

Default Pool:

Default returns a lazily started process-wide pool sized from
TASKPOOL_WORKERS or runtime.NumCPU. Go and DeferDefault submit to it.

Go runs no hooks at process exit, so the default pool is not drained when
main returns or os.Exit is called: queued tasks are simply lost. Programs
that need their queued work to complete must finish the pool explicitly:

	func main() {
		defer threadpool.ShutdownDefault()
		...
	}

ShutdownDefault runs every queued task and stops the workers. Deferred
calls do not run on os.Exit or log.Fatal, so call it before those too.

Configuration:

	cfg := threadpool.Config{
		Name:         "encoder",
		Workers:      8,
		RateLimit:    500,
		LockOSThread: true,
		Logger:       slog.Default(),
		Metrics:      metrics.NewRegistry(prometheus.DefaultRegisterer),
	}
	pool, err := threadpool.NewWithConfig(cfg)

Configurations can also be loaded from YAML or JSON with LoadConfig.
*/
package threadpool
