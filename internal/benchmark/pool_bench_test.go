package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/vnykmshr/taskpool/pkg/future"
	"github.com/vnykmshr/taskpool/pkg/scheduling/threadpool"
)

// BenchmarkPoolSubmit measures task submission performance.
func BenchmarkPoolSubmit(b *testing.B) {
	for _, workers := range []int{2, 4, 8} {
		b.Run(workerLabel(workers), func(b *testing.B) {
			pool := threadpool.New()
			if err := pool.Start(workers); err != nil {
				b.Fatalf("failed to start pool: %v", err)
			}
			defer pool.Finish()

			task := func() error { return nil }

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, _ = pool.Submit(task)
			}
		})
	}
}

// BenchmarkPoolThroughput measures end-to-end execution including waiting
// on every future.
func BenchmarkPoolThroughput(b *testing.B) {
	pool := threadpool.New()
	if err := pool.Start(4); err != nil {
		b.Fatalf("failed to start pool: %v", err)
	}
	defer pool.Finish()

	waiters := make([]future.Waiter, 0, b.N)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f, err := threadpool.SubmitValue(pool, func() int { return i })
		if err != nil {
			b.Fatal(err)
		}
		waiters = append(waiters, f)
	}
	if err := future.WaitAll(context.Background(), waiters...); err != nil {
		b.Fatal(err)
	}
}

// BenchmarkPoolWithWork measures performance with a fixed amount of work
// per task.
func BenchmarkPoolWithWork(b *testing.B) {
	pool := threadpool.New()
	if err := pool.Start(4); err != nil {
		b.Fatalf("failed to start pool: %v", err)
	}
	defer pool.Finish()

	task := func() error {
		deadline := time.Now().Add(10 * time.Microsecond)
		for time.Now().Before(deadline) {
		}
		return nil
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = pool.Submit(task)
	}
}

// BenchmarkPoolFinish measures draining and stopping a loaded pool.
func BenchmarkPoolFinish(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		pool := threadpool.New()
		for j := 0; j < 100; j++ {
			_, _ = pool.Submit(func() error { return nil })
		}
		if err := pool.Start(4); err != nil {
			b.Fatal(err)
		}
		b.StartTimer()

		pool.Finish()
	}
}
