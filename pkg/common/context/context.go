package context

import (
	"context"
	"fmt"
	"time"

	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
)

// WithTimeoutOrCancel creates a context that is canceled either when the parent
// is canceled or when the timeout duration elapses, whichever comes first.
// A non-positive timeout only inherits the parent's cancellation.
func WithTimeoutOrCancel(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

// WaitDone blocks until done is closed or ctx ends. An expired deadline is
// reported as errors.ErrTimeout so callers can classify it without caring
// which context layer produced it.
func WaitDone(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	default:
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if IsTimedOut(ctx) {
			return fmt.Errorf("%w: %w", tperrors.ErrTimeout, ctx.Err())
		}
		return ctx.Err()
	}
}

// IsCanceled returns true if the context has been canceled
func IsCanceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// IsTimedOut returns true if the context was canceled due to a timeout
func IsTimedOut(ctx context.Context) bool {
	return ctx.Err() == context.DeadlineExceeded
}
