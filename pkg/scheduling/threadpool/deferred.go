package threadpool

import (
	"time"

	"github.com/vnykmshr/taskpool/pkg/common/validation"
	"github.com/vnykmshr/taskpool/pkg/future"
)

// Deferred is a value computed in the background on a specific pool. It is
// bound to its pool at construction; there is no implicit fallback.
type Deferred[R any] struct {
	pool *Pool
	f    *future.Future[R]
}

// NewDeferred submits fn to p. A nil pool is rejected.
func NewDeferred[R any](p *Pool, fn func() (R, error)) (*Deferred[R], error) {
	if err := validation.ValidateNotNil(module, "pool", p); err != nil {
		return nil, err
	}
	f, err := Submit(p, fn)
	if err != nil {
		return nil, err
	}
	return &Deferred[R]{pool: p, f: f}, nil
}

// DeferDefault submits fn to the process-wide default pool.
func DeferDefault[R any](fn func() (R, error)) (*Deferred[R], error) {
	return NewDeferred(Default(), fn)
}

// Pool returns the pool the value is computed on.
func (d *Deferred[R]) Pool() *Pool { return d.pool }

// Future returns the underlying result handle.
func (d *Deferred[R]) Future() *future.Future[R] { return d.f }

// Wait blocks until the value is ready or timeout elapses.
func (d *Deferred[R]) Wait(timeout time.Duration) future.Status { return d.f.Wait(timeout) }

// Get blocks until the value is ready and returns it.
func (d *Deferred[R]) Get() (R, error) { return d.f.Get() }
