// Package taskqueue provides the shared FIFO that feeds thread pool workers.
//
// A Queue is guarded by a single mutex and a condition variable. Producers
// never block beyond the mutex; consumers block in Pop until an item arrives.
// A distinguished stop item tells the worker that pops it to exit.
package taskqueue

import (
	"sync"
	"time"
)

// Item is a unit of deferred work. An Item whose Run is nil is a stop
// sentinel and carries no result handle.
type Item struct {
	// ID is assigned by the queue on push, in enqueue order.
	ID uint64

	// Run executes the work, publishes its outcome to the result handle and
	// returns the task's error for accounting.
	Run func() error

	// Cancel resolves the item's result handle when the item is discarded
	// without running. May be nil.
	Cancel func(cause error)

	// Enqueued is set by the queue on push.
	Enqueued time.Time
}

// Stop returns a stop sentinel.
func Stop() Item {
	return Item{}
}

// IsStop reports whether the item is a stop sentinel.
func (i Item) IsStop() bool {
	return i.Run == nil
}

const compactThreshold = 64

// Queue is an unbounded FIFO of Items safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Item
	head   int
	nextID uint64
	stops  int
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends item to the tail and wakes one blocked consumer. It returns
// the ID assigned to the item.
func (q *Queue) Push(item Item) uint64 {
	q.mu.Lock()
	id := q.appendLocked(item)
	q.mu.Unlock()

	q.cond.Signal()
	return id
}

// PushStops appends n stop sentinels to the tail and wakes every consumer.
func (q *Queue) PushStops(n int) {
	if n <= 0 {
		return
	}

	q.mu.Lock()
	for i := 0; i < n; i++ {
		q.appendLocked(Stop())
	}
	q.mu.Unlock()

	q.cond.Broadcast()
}

func (q *Queue) appendLocked(item Item) uint64 {
	q.nextID++
	item.ID = q.nextID
	item.Enqueued = time.Now()
	if item.IsStop() {
		q.stops++
	}
	q.items = append(q.items, item)
	return item.ID
}

// Pop removes and returns the oldest item, blocking until one is available.
func (q *Queue) Pop() Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.lenLocked() == 0 {
		q.cond.Wait()
	}
	return q.popLocked()
}

// TryPop removes and returns the oldest item if there is one.
func (q *Queue) TryPop() (Item, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.lenLocked() == 0 {
		return Item{}, false
	}
	return q.popLocked(), true
}

func (q *Queue) popLocked() Item {
	item := q.items[q.head]
	q.items[q.head] = Item{}
	q.head++
	if item.IsStop() {
		q.stops--
	}

	switch {
	case q.head == len(q.items):
		q.items = q.items[:0]
		q.head = 0
	case q.head >= compactThreshold && q.head*2 >= len(q.items):
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}
	return item
}

// ClearPending atomically removes every queued work item and returns them
// in enqueue order. Stop sentinels stay in place, keeping their relative
// order, so a shutdown already in flight still reaches every worker.
func (q *Queue) ClearPending() []Item {
	q.mu.Lock()
	defer q.mu.Unlock()

	pending := q.lenLocked() - q.stops
	if pending == 0 {
		return nil
	}

	cleared := make([]Item, 0, pending)
	kept := make([]Item, 0, q.stops)
	for _, item := range q.items[q.head:] {
		if item.IsStop() {
			kept = append(kept, item)
		} else {
			cleared = append(cleared, item)
		}
	}
	q.items = kept
	q.head = 0
	return cleared
}

// Len returns the number of queued items, stop sentinels included.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked()
}

// Pending returns the number of queued work items.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lenLocked() - q.stops
}

func (q *Queue) lenLocked() int {
	return len(q.items) - q.head
}
