package testutil

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEventually(t *testing.T) {
	t.Run("condition met immediately", func(t *testing.T) {
		called := false
		Eventually(t, func() bool {
			called = true
			return true
		}, 100*time.Millisecond, 10*time.Millisecond)

		if !called {
			t.Error("condition function should be called")
		}
	})

	t.Run("condition met after delay", func(t *testing.T) {
		var counter int32
		go func() {
			time.Sleep(30 * time.Millisecond)
			atomic.StoreInt32(&counter, 1)
		}()

		Eventually(t, func() bool {
			return atomic.LoadInt32(&counter) == 1
		}, 500*time.Millisecond, 5*time.Millisecond)
	})
}

func TestWaitForInt32(t *testing.T) {
	var value int32

	go func() {
		for i := 0; i < 3; i++ {
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&value, 1)
		}
	}()

	WaitForInt32(t, &value, 3, time.Second)
}

func TestRecorder(t *testing.T) {
	var r Recorder[int]
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			r.Record(v)
		}(i)
	}
	wg.Wait()

	AssertEqual(t, r.Len(), 50)
	values := r.Values()
	values[0] = -1
	AssertNotEqual(t, r.Values()[0], -1)
}

func TestAssertions(t *testing.T) {
	AssertNoError(t, nil)
	AssertError(t, errors.New("boom"))

	base := errors.New("base")
	AssertErrorIs(t, fmt.Errorf("wrapped: %w", base), base)
	AssertEqual(t, "a", "a")
	AssertNotEqual(t, 1, 2)

	ctx, cancel := WithTimeout(t)
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Error("WithTimeout should set a deadline")
	}
}
