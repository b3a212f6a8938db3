/*
Package future provides Future, the one-shot result handle returned by the
thread pool for every submitted callable.

A Future starts pending and is resolved exactly once by its producer with a
value or an error. Consumers may block on it from any number of goroutines:

	f, err := threadpool.Submit(pool, func() (int, error) {
		return compute(), nil
	})
	if err != nil {
		return err
	}

	switch f.Wait(100 * time.Millisecond) {
	case future.StatusReady:
		v, err := f.Get()
		// use v, err
	case future.StatusTimeout:
		// still running
	}

Retrieval is non-consuming: Get returns the same value and error on every
call. Futures whose task was dropped from the queue before running resolve
with errors.ErrCancelled, so Get never blocks forever on a cancelled task.

WaitAll blocks until a set of futures resolve, returning the first failure:

	if err := future.WaitAll(ctx, f1, f2, f3); err != nil {
		log.Printf("batch failed: %v", err)
	}
*/
package future
