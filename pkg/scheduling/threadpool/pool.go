package threadpool

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/common/validation"
	"github.com/vnykmshr/taskpool/pkg/metrics"
	"github.com/vnykmshr/taskpool/pkg/scheduling/taskqueue"
)

// Pool runs submitted callables on a fixed set of worker threads pulling
// from one shared FIFO queue.
//
// A Pool is inert until Start. Work submitted before Start waits in the
// queue. Finish drains the queue and stops every worker; Abort drops the
// queued work first. A Pool that becomes unreachable without being
// finished is finished by the runtime.
type Pool struct {
	c *core
}

// core holds the pool state shared with worker goroutines. Workers never
// reference the outer Pool, so an abandoned Pool can be collected and its
// cleanup can stop them.
type core struct {
	cfg     Config
	log     *slog.Logger
	metrics *metrics.PoolMetrics
	limiter *rate.Limiter
	queue   *taskqueue.Queue

	// lifecycleMu serializes Start and Finish.
	lifecycleMu  sync.Mutex
	nextWorkerID int
	wg           sync.WaitGroup

	// stateMu makes the closed check in Submit atomic with the stop
	// sentinels pushed by Finish.
	stateMu sync.RWMutex
	closed  bool

	gen atomic.Pointer[generation]

	workers   atomic.Int64
	active    atomic.Int64
	submitted atomic.Int64
	executed  atomic.Int64
	failed    atomic.Int64
	panicked  atomic.Int64
	cancelled atomic.Int64
}

// generation is the abort context shared by workers started together.
type generation struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func newGeneration() *generation {
	ctx, cancel := context.WithCancel(context.Background())
	return &generation{ctx: ctx, cancel: cancel}
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Workers int
	Active  int
	Queued  int

	Submitted int64
	Executed  int64
	Failed    int64
	Panicked  int64
	Cancelled int64
}

// New creates an inert pool with the default configuration.
func New() *Pool {
	p, _ := NewWithConfig(DefaultConfig())
	return p
}

// NewWithConfig creates a pool with the given configuration. If
// cfg.Workers is positive the pool is started before returning; a spawn
// failure then finishes the pool and is returned.
func NewWithConfig(cfg Config) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	c := &core{
		cfg:     cfg,
		log:     cfg.Logger.With("pool", cfg.Name),
		metrics: cfg.Metrics.ForPool(cfg.Name),
		queue:   taskqueue.New(),
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	c.gen.Store(newGeneration())

	p := &Pool{c: c}
	runtime.AddCleanup(p, func(c *core) {
		// cleanups share one goroutine; do not block it on draining
		go c.finish("pool collected")
	}, c)

	if cfg.Workers > 0 {
		if err := c.start(cfg.Workers); err != nil {
			c.finish("start failed")
			return nil, err
		}
	}
	return p, nil
}

// Name returns the configured pool name.
func (p *Pool) Name() string {
	return p.c.cfg.Name
}

// Start spawns n workers. Calls are additive: starting a running pool
// grows it by n workers. Start reopens a finished pool.
//
// Each worker completes its setup (thread locking, CPU pinning and the
// OnWorkerStart hook) before Start moves on to the next. If a worker's
// setup fails Start returns an error wrapping errors.ErrSpawn; the workers
// started before it keep running.
func (p *Pool) Start(n int) error {
	return p.c.start(n)
}

// Finish stops the pool gracefully: every task queued before the call
// runs, then each worker receives a stop sentinel and Finish blocks until
// all of them have exited. Submissions after Finish fail with
// errors.ErrClosed until the pool is started again.
func (p *Pool) Finish() {
	p.c.finish("finish")
}

// Close is Finish in io.Closer form. It always returns nil.
func (p *Pool) Close() error {
	p.c.finish("close")
	return nil
}

// Abort drops every queued task that no worker has picked up, resolving
// their futures with errors.ErrCancelled, and then finishes the pool.
// Tasks already executing run to completion.
func (p *Pool) Abort() {
	c := p.c
	c.gen.Load().cancel()
	n := c.cancelPending(tperrors.ErrCancelled)
	c.log.Info("aborting pool", "cancelled", n)
	c.finish("abort")
}

// CancelPending drops every queued task that no worker has picked up and
// resolves their futures with errors.ErrCancelled. It returns the number
// of tasks dropped. Running tasks are not interrupted.
func (p *Pool) CancelPending() int {
	return p.c.cancelPending(tperrors.ErrCancelled)
}

// Size returns the number of running workers.
func (p *Pool) Size() int {
	return int(p.c.workers.Load())
}

// QueueSize returns the number of tasks waiting for a worker.
func (p *Pool) QueueSize() int {
	return p.c.queue.Pending()
}

// ActiveWorkers returns the number of workers currently executing a task.
func (p *Pool) ActiveWorkers() int {
	return int(p.c.active.Load())
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	c := p.c
	return Stats{
		Workers:   int(c.workers.Load()),
		Active:    int(c.active.Load()),
		Queued:    c.queue.Pending(),
		Submitted: c.submitted.Load(),
		Executed:  c.executed.Load(),
		Failed:    c.failed.Load(),
		Panicked:  c.panicked.Load(),
		Cancelled: c.cancelled.Load(),
	}
}

func (c *core) start(n int) error {
	if err := validation.ValidatePositive(module, "workers", n); err != nil {
		return err
	}

	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	c.stateMu.Lock()
	c.closed = false
	c.stateMu.Unlock()

	gen := c.gen.Load()
	if gen.ctx.Err() != nil {
		gen = newGeneration()
		c.gen.Store(gen)
	}

	for i := 0; i < n; i++ {
		id := c.nextWorkerID
		c.nextWorkerID++

		if err := c.spawn(gen.ctx, id); err != nil {
			c.log.Error("worker spawn failed", "worker", id, "started", i, "requested", n, "error", err)
			return tperrors.NewOperationError(module, "Start", fmt.Errorf("%w: %w", tperrors.ErrSpawn, err)).
				WithContext(fmt.Sprintf("worker %d, %d of %d started", id, i, n))
		}
		c.metrics.SetWorkers(int(c.workers.Add(1)))
	}

	c.log.Debug("pool started", "added", n, "workers", c.workers.Load())
	return nil
}

func (c *core) finish(reason string) {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	c.stateMu.Lock()
	c.closed = true
	running := int(c.workers.Load())
	c.queue.PushStops(running)
	c.stateMu.Unlock()

	c.wg.Wait()
	c.workers.Store(0)
	c.metrics.SetWorkers(0)

	// only reachable when the pool was never started: nothing will ever
	// run what is left, so release the waiters
	if n := c.cancelPending(tperrors.ErrCancelled); n > 0 {
		c.log.Warn("cancelled tasks left in a pool without workers", "cancelled", n)
	}

	if running > 0 {
		c.log.Info("pool finished", "reason", reason, "workers", running)
	}
}

func (c *core) enqueue(item taskqueue.Item) (uint64, error) {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()

	if c.closed {
		return 0, fmt.Errorf("cannot submit task: %w", tperrors.ErrClosed)
	}

	id := c.queue.Push(item)
	c.submitted.Add(1)
	c.metrics.Submitted()
	return id, nil
}

func (c *core) cancelPending(cause error) int {
	items := c.queue.ClearPending()
	if len(items) == 0 {
		return 0
	}

	now := time.Now()
	for _, item := range items {
		if item.Cancel != nil {
			item.Cancel(cause)
		}
		c.report(TaskReport{
			TaskID:    item.ID,
			WorkerID:  -1,
			Err:       cause,
			Cancelled: true,
			QueueWait: now.Sub(item.Enqueued),
			Finished:  now,
		})
	}

	c.cancelled.Add(int64(len(items)))
	c.metrics.Cancelled(len(items))
	c.metrics.Dequeued(len(items))
	return len(items)
}

func (c *core) report(r TaskReport) {
	if c.cfg.OnTaskComplete == nil {
		return
	}
	r.Pool = c.cfg.Name
	c.cfg.OnTaskComplete(r)
}
