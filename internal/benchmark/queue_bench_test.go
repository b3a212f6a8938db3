package benchmark

import (
	"strconv"
	"sync"
	"testing"

	"github.com/vnykmshr/taskpool/pkg/scheduling/taskqueue"
)

// BenchmarkQueueHandoff measures producer to consumer handoff through the
// mutex and condition variable queue.
func BenchmarkQueueHandoff(b *testing.B) {
	for _, consumers := range []int{1, 4, 8} {
		b.Run(workerLabel(consumers), func(b *testing.B) {
			q := taskqueue.New()

			var wg sync.WaitGroup
			for i := 0; i < consumers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for {
						if q.Pop().IsStop() {
							return
						}
					}
				}()
			}

			item := taskqueue.Item{Run: func() error { return nil }}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				q.Push(item)
			}
			q.PushStops(consumers)
			wg.Wait()
		})
	}
}

// BenchmarkChannelHandoff is the buffered channel baseline for
// BenchmarkQueueHandoff.
func BenchmarkChannelHandoff(b *testing.B) {
	for _, consumers := range []int{1, 4, 8} {
		b.Run(workerLabel(consumers), func(b *testing.B) {
			ch := make(chan taskqueue.Item, 1024)

			var wg sync.WaitGroup
			for i := 0; i < consumers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range ch {
					}
				}()
			}

			item := taskqueue.Item{Run: func() error { return nil }}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ch <- item
			}
			close(ch)
			wg.Wait()
		})
	}
}

// BenchmarkQueueClearPending measures dropping a backlog of queued items.
func BenchmarkQueueClearPending(b *testing.B) {
	for _, size := range []int{10, 100, 1000} {
		b.Run(sizeLabel(size), func(b *testing.B) {
			q := taskqueue.New()
			item := taskqueue.Item{Run: func() error { return nil }}

			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				b.StopTimer()
				for j := 0; j < size; j++ {
					q.Push(item)
				}
				b.StartTimer()
				q.ClearPending()
			}
		})
	}
}

// workerLabel returns a readable label for worker counts.
func workerLabel(workers int) string {
	return "w" + strconv.Itoa(workers)
}

// sizeLabel returns a readable label for backlog sizes.
func sizeLabel(size int) string {
	switch {
	case size >= 10000:
		return "10k"
	case size >= 1000:
		return "1k"
	case size >= 100:
		return "100"
	default:
		return "10"
	}
}
