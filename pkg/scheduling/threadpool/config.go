package threadpool

import (
	"log/slog"
	"time"

	"github.com/vnykmshr/taskpool/pkg/common/validation"
	"github.com/vnykmshr/taskpool/pkg/metrics"
)

const module = "threadpool"

// DefaultName is used for pools configured without a name.
const DefaultName = "taskpool"

// Config holds configuration options for creating a pool.
type Config struct {
	// Name labels the pool in logs, metrics and task reports.
	Name string

	// Workers, when positive, makes NewWithConfig start that many workers
	// before returning. Zero leaves the pool inert until Start.
	Workers int

	// RateLimit caps how many tasks per second the pool begins executing
	// across all workers. Zero means unlimited.
	RateLimit float64

	// RateBurst is the number of tasks that may start back to back before
	// RateLimit applies. Defaults to 1 when RateLimit is set.
	RateBurst int

	// LockOSThread wires every worker goroutine to its own OS thread for
	// the worker's whole lifetime.
	LockOSThread bool

	// PinWorkers additionally restricts worker i's thread to CPU core
	// i mod NumCPU. Linux only; elsewhere Start fails with a spawn error.
	PinWorkers bool

	// Logger receives structured lifecycle logs. Nil discards them.
	Logger *slog.Logger

	// Metrics, if set, receives pool gauges, counters and histograms.
	Metrics *metrics.Registry

	// OnWorkerStart is called on the worker goroutine before it takes its
	// first task. Returning an error aborts that worker and fails Start.
	OnWorkerStart func(workerID int) error

	// OnWorkerStop is called on the worker goroutine just before it exits.
	OnWorkerStop func(workerID int)

	// OnTaskComplete is called after every task finishes, fails, panics or
	// is cancelled from the queue.
	OnTaskComplete func(report TaskReport)

	// PanicHandler is called with the recovered value when a task panics.
	// The task's future resolves with a *PanicError either way.
	PanicHandler func(recovered interface{})
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{Name: DefaultName}
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if err := validation.ValidateNonNegative(module, "workers", float64(c.Workers)); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative(module, "rate_limit", c.RateLimit); err != nil {
		return err
	}
	if err := validation.ValidateNonNegative(module, "rate_burst", float64(c.RateBurst)); err != nil {
		return err
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.RateLimit > 0 && c.RateBurst == 0 {
		c.RateBurst = 1
	}
	if c.LockOSThread || c.PinWorkers {
		c.LockOSThread = true
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// TaskReport describes how one task left the pool.
type TaskReport struct {
	Pool   string
	TaskID uint64

	// WorkerID is -1 for tasks cancelled from the queue.
	WorkerID int

	// Err is the task's error, a *PanicError, or errors.ErrCancelled.
	Err       error
	Panicked  bool
	Cancelled bool

	QueueWait time.Duration
	Duration  time.Duration
	Finished  time.Time
}
