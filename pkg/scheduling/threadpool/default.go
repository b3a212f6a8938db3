package threadpool

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/vnykmshr/taskpool/pkg/future"
)

// EnvWorkers overrides the default pool size.
const EnvWorkers = "TASKPOOL_WORKERS"

var (
	defaultMu   sync.Mutex
	defaultPool *Pool

	// defaultConfig builds the configuration of the process-wide pool.
	defaultConfig = func() Config {
		cfg := DefaultConfig()
		cfg.Name = "default"
		return cfg
	}
)

// DefaultWorkers returns the worker count for the default pool: the value
// of TASKPOOL_WORKERS when it is a positive integer, else runtime.NumCPU.
func DefaultWorkers() int {
	if v := os.Getenv(EnvWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// Default returns the process-wide pool, creating and starting it on first
// use from whichever goroutine gets there first. Programs that use it
// should defer ShutdownDefault in main.
//
// Default panics if the pool cannot be built or its workers fail to start,
// since every later submission would otherwise wait forever.
func Default() *Pool {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultPool == nil {
		p, err := NewWithConfig(defaultConfig())
		if err != nil {
			panic(fmt.Errorf("threadpool: default pool: %w", err))
		}
		if err := p.Start(DefaultWorkers()); err != nil {
			p.c.log.Error("default pool failed to start", "error", err)
			p.Abort()
			panic(fmt.Errorf("threadpool: default pool: %w", err))
		}
		defaultPool = p
	}
	return defaultPool
}

// Go submits fn to the default pool.
func Go[R any](fn func() (R, error)) (*future.Future[R], error) {
	return Submit(Default(), fn)
}

// ShutdownDefault finishes the default pool, draining its queue. The next
// call to Default creates a fresh pool.
func ShutdownDefault() {
	defaultMu.Lock()
	p := defaultPool
	defaultPool = nil
	defaultMu.Unlock()

	if p != nil {
		p.Finish()
	}
}
