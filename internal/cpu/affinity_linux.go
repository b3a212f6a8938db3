//go:build linux

package cpu

import (
	"golang.org/x/sys/unix"
)

// pinToCore pins the current OS thread to a specific CPU core.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) (int, error) {
	numCPU := NumCPU()
	if cpuID < 0 || cpuID >= numCPU {
		cpuID = ((cpuID % numCPU) + numCPU) % numCPU
	}

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(cpuID)

	if err := unix.SchedSetaffinity(0, &mask); err != nil { // 0 = current thread
		return 0, err
	}
	return cpuID, nil
}

// CurrentCores returns the cores the calling thread may run on.
func CurrentCores() ([]int, error) {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return nil, err
	}

	cores := make([]int, 0, mask.Count())
	for i := 0; i < NumCPU(); i++ {
		if mask.IsSet(i) {
			cores = append(cores, i)
		}
	}
	return cores, nil
}
