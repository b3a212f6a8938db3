package threadpool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vnykmshr/taskpool/internal/cpu"
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/scheduling/taskqueue"
)

// spawn starts worker id and waits until it has finished its setup.
func (c *core) spawn(ctx context.Context, id int) error {
	ready := make(chan error, 1)
	c.wg.Add(1)
	go c.run(ctx, id, ready)
	return <-ready
}

// run is the main loop for a worker: block for the oldest item, exit on a
// stop sentinel, otherwise execute and go back to waiting.
func (c *core) run(ctx context.Context, id int, ready chan<- error) {
	defer c.wg.Done()

	release, err := cpu.SetupWorker(id, c.cfg.LockOSThread, c.cfg.PinWorkers)
	if err != nil {
		ready <- err
		return
	}
	defer release()

	if c.cfg.OnWorkerStart != nil {
		if err := c.cfg.OnWorkerStart(id); err != nil {
			ready <- fmt.Errorf("OnWorkerStart: %w", err)
			return
		}
	}
	ready <- nil

	c.log.Debug("worker started", "worker", id)
	defer func() {
		if c.cfg.OnWorkerStop != nil {
			c.cfg.OnWorkerStop(id)
		}
		c.log.Debug("worker stopped", "worker", id)
	}()

	for {
		item := c.queue.Pop()
		if item.IsStop() {
			return
		}
		c.execute(ctx, id, item)
	}
}

// execute runs a single work item and accounts for its outcome.
func (c *core) execute(ctx context.Context, workerID int, item taskqueue.Item) {
	c.metrics.Dequeued(1)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			cause := fmt.Errorf("%w: %w", tperrors.ErrCancelled, err)
			if item.Cancel != nil {
				item.Cancel(cause)
			}
			c.cancelled.Add(1)
			c.metrics.Cancelled(1)
			c.report(TaskReport{TaskID: item.ID, WorkerID: workerID, Err: cause, Cancelled: true, Finished: time.Now()})
			return
		}
	}

	c.active.Add(1)
	c.metrics.Busy()

	start := time.Now()
	queueWait := start.Sub(item.Enqueued)
	c.metrics.Started(queueWait.Seconds())

	err := item.Run()
	duration := time.Since(start)

	c.active.Add(-1)
	c.metrics.Idle()
	c.executed.Add(1)

	var perr *PanicError
	panicked := errors.As(err, &perr)
	if err != nil {
		c.failed.Add(1)
	}
	if panicked {
		c.panicked.Add(1)
		c.log.Warn("task panicked", "worker", workerID, "task", item.ID, "panic", fmt.Sprint(perr.Value), "stack", string(perr.Stack))
		if c.cfg.PanicHandler != nil {
			c.cfg.PanicHandler(perr.Value)
		}
	}
	c.metrics.Finished(duration.Seconds(), err != nil, panicked)

	c.report(TaskReport{
		TaskID:    item.ID,
		WorkerID:  workerID,
		Err:       err,
		Panicked:  panicked,
		QueueWait: queueWait,
		Duration:  duration,
		Finished:  start.Add(duration),
	})
}
