// Package journal records how tasks left a pool. Journals are fed by the
// threadpool OnTaskComplete hook and keep the most recent outcomes either
// in memory or in a Redis stream shared between processes.
package journal

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vnykmshr/taskpool/pkg/scheduling/threadpool"
)

// Status is the outcome of a journaled task.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusPanicked  Status = "panicked"
	StatusCancelled Status = "cancelled"
)

// Entry is one journaled task outcome.
type Entry struct {
	ID        string        `json:"id"`
	Pool      string        `json:"pool"`
	TaskID    uint64        `json:"task_id"`
	WorkerID  int           `json:"worker_id"`
	Status    Status        `json:"status"`
	Error     string        `json:"error,omitempty"`
	QueueWait time.Duration `json:"queue_wait"`
	Duration  time.Duration `json:"duration"`
	At        time.Time     `json:"at"`
}

// Journal stores task outcomes.
type Journal interface {
	// Record appends e.
	Record(ctx context.Context, e Entry) error

	// Recent returns up to n entries, newest first.
	Recent(ctx context.Context, n int) ([]Entry, error)
}

// ErrInvalidEntry is returned for entries that cannot be decoded.
var ErrInvalidEntry = errors.New("invalid journal entry")

// FromReport converts a pool task report into a journal entry with a fresh ID.
func FromReport(r threadpool.TaskReport) Entry {
	e := Entry{
		ID:        uuid.NewString(),
		Pool:      r.Pool,
		TaskID:    r.TaskID,
		WorkerID:  r.WorkerID,
		Status:    StatusSucceeded,
		QueueWait: r.QueueWait,
		Duration:  r.Duration,
		At:        r.Finished,
	}

	switch {
	case r.Cancelled:
		e.Status = StatusCancelled
	case r.Panicked:
		e.Status = StatusPanicked
	case r.Err != nil:
		e.Status = StatusFailed
	}
	if r.Err != nil {
		e.Error = r.Err.Error()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	return e
}

// Hook returns a threadpool OnTaskComplete callback that records every
// report in j. Write failures are logged and otherwise ignored; they never
// affect the task's future. A nil logger discards them.
func Hook(j Journal, logger *slog.Logger) func(threadpool.TaskReport) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(r threadpool.TaskReport) {
		e := FromReport(r)
		if err := j.Record(context.Background(), e); err != nil {
			logger.Warn("journal write failed", "pool", e.Pool, "task", e.TaskID, "error", err)
		}
	}
}
