package scheduler

import "time"

// Backoff wraps fn so that a failing run is retried up to maxRetries times,
// doubling the pause between attempts up to maxDelay. The retries happen on
// the worker that picked up the task.
func Backoff(fn func() error, maxRetries int, initialDelay, maxDelay time.Duration) func() error {
	return func() error {
		var lastErr error
		delay := initialDelay

		for attempt := 0; attempt <= maxRetries; attempt++ {
			if attempt > 0 {
				time.Sleep(delay)
				delay *= 2
				if delay > maxDelay {
					delay = maxDelay
				}
			}

			if lastErr = fn(); lastErr == nil {
				return nil
			}
		}
		return lastErr
	}
}
