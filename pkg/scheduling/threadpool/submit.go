package threadpool

import (
	tperrors "github.com/vnykmshr/taskpool/pkg/common/errors"
	"github.com/vnykmshr/taskpool/pkg/future"
	"github.com/vnykmshr/taskpool/pkg/scheduling/taskqueue"
)

// Submit queues fn on p and returns a future for its outcome without
// waiting for it to run. An error returned by fn, or a panic inside it
// (as a *PanicError), is stored in the future and never stops the worker.
//
// Submit fails synchronously with a ValidationError for a nil pool or
// callable, and with errors.ErrClosed once the pool has been finished.
func Submit[R any](p *Pool, fn func() (R, error)) (*future.Future[R], error) {
	if p == nil {
		return nil, tperrors.NewValidationError(module, "pool", nil, "cannot be nil").
			WithHint("pass a pool created with New or use Go for the default pool")
	}
	if fn == nil {
		return nil, tperrors.NewValidationError(module, "callable", nil, "cannot be nil")
	}

	f := future.New[R]()
	item := taskqueue.Item{
		Run: func() error {
			v, err := call(fn)
			f.Complete(v, err)
			return err
		},
		Cancel: func(cause error) {
			var zero R
			f.Complete(zero, cause)
		},
	}

	if _, err := p.c.enqueue(item); err != nil {
		return nil, err
	}
	return f, nil
}

// SubmitValue is Submit for callables that cannot fail.
func SubmitValue[R any](p *Pool, fn func() R) (*future.Future[R], error) {
	if fn == nil {
		return Submit[R](p, nil)
	}
	return Submit(p, func() (R, error) {
		return fn(), nil
	})
}

// Submit queues fn, which produces no value, and returns a future that
// resolves with fn's error.
func (p *Pool) Submit(fn func() error) (*future.Future[struct{}], error) {
	if fn == nil {
		return Submit[struct{}](p, nil)
	}
	return Submit(p, func() (struct{}, error) {
		return struct{}{}, fn()
	})
}

func call[R any](fn func() (R, error)) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			v, err = zero, newPanicError(r)
		}
	}()
	return fn()
}
