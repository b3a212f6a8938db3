package future

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Waiter is the untyped view of a Future used to wait on futures of mixed
// result types.
type Waiter interface {
	Done() <-chan struct{}
	Err() error
}

// WaitAll blocks until every waiter resolves and returns the first task
// failure, or ctx's error if it ends first. Once one task has failed the
// remaining waits are abandoned.
func WaitAll(ctx context.Context, waiters ...Waiter) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range waiters {
		g.Go(func() error {
			select {
			case <-w.Done():
				return w.Err()
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	}
	return g.Wait()
}
