package future

import (
	"context"
	"sync/atomic"
	"time"

	tpcontext "github.com/vnykmshr/taskpool/pkg/common/context"
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
)

// Status is the outcome of a bounded wait on a Future.
type Status int

const (
	// StatusReady means the future has been resolved.
	StatusReady Status = iota
	// StatusTimeout means the wait gave up before the future resolved.
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Future holds the eventual outcome of a task producing a value of type R.
// The zero value is not usable; create futures with New.
type Future[R any] struct {
	done     chan struct{}
	resolved atomic.Bool

	// written once before done is closed, read only after
	value R
	err   error
}

// New returns a pending future.
func New[R any]() *Future[R] {
	return &Future[R]{done: make(chan struct{})}
}

// Resolved returns a future that is already complete with v and err.
func Resolved[R any](v R, err error) *Future[R] {
	f := New[R]()
	f.Complete(v, err)
	return f
}

// Complete resolves the future. Only the first call has any effect; it
// returns false if the future was already resolved.
func (f *Future[R]) Complete(v R, err error) bool {
	if !f.resolved.CompareAndSwap(false, true) {
		return false
	}
	f.value = v
	f.err = err
	close(f.done)
	return true
}

// Done returns a channel that is closed once the future is resolved.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// IsReady reports whether the future has been resolved without blocking.
func (f *Future[R]) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the future resolves or timeout elapses. A non-positive
// timeout has already elapsed, so Wait only polls; use Get, Err or
// WaitContext to wait without limit. Wait does not consume the outcome.
func (f *Future[R]) Wait(timeout time.Duration) Status {
	if f.IsReady() {
		return StatusReady
	}
	if timeout <= 0 {
		return StatusTimeout
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-f.done:
		return StatusReady
	case <-timer.C:
		return StatusTimeout
	}
}

// WaitContext blocks until the future resolves or ctx ends. An expired
// deadline is reported as errors.ErrTimeout.
func (f *Future[R]) WaitContext(ctx context.Context) error {
	return tpcontext.WaitDone(ctx, f.done)
}

// Get blocks until the future resolves and returns its value and error.
// It may be called any number of times.
func (f *Future[R]) Get() (R, error) {
	<-f.done
	return f.value, f.err
}

// GetWithTimeout is Get bounded by timeout. It returns errors.ErrTimeout if
// the future is still pending when timeout elapses.
func (f *Future[R]) GetWithTimeout(timeout time.Duration) (R, error) {
	if f.Wait(timeout) == StatusTimeout {
		var zero R
		return zero, tperrors.ErrTimeout
	}
	return f.value, f.err
}

// GetWithContext is Get bounded by ctx.
func (f *Future[R]) GetWithContext(ctx context.Context) (R, error) {
	if err := f.WaitContext(ctx); err != nil {
		var zero R
		return zero, err
	}
	return f.value, f.err
}

// Err blocks until the future resolves and returns only its error.
func (f *Future[R]) Err() error {
	<-f.done
	return f.err
}
