// Package cpu binds pool workers to operating system threads and cores.
package cpu

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrPinUnsupported is returned when CPU pinning is requested on a
// platform without a thread affinity API.
var ErrPinUnsupported = errors.New("cpu pinning not supported on " + runtime.GOOS)

// NumCPU returns the number of logical CPUs available.
func NumCPU() int {
	return runtime.NumCPU()
}

// SetupWorker prepares the calling goroutine to act as worker workerID.
// With lock set it is wired to its own OS thread; with pin set that thread
// is additionally restricted to core workerID mod NumCPU. Pinning implies
// locking. The returned release undoes the lock and must be called from the
// same goroutine. On error nothing is left locked.
func SetupWorker(workerID int, lock, pin bool) (release func(), err error) {
	if !lock && !pin {
		return func() {}, nil
	}

	runtime.LockOSThread()
	if pin {
		if _, err := pinToCore(workerID); err != nil {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("pin worker %d: %w", workerID, err)
		}
	}

	return runtime.UnlockOSThread, nil
}
