// File: affinity/affinity.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral API for pinning the calling OS thread to one CPU, used to
// keep a ring's producer and consumer on fixed cores. Platform-specific
// implementations are guarded by build tags.

package affinity

import (
	"runtime"

	"github.com/momentics/circfifo/api"
)

// SetAffinity pins the current OS thread to a given logical CPU.
// The caller must hold runtime.LockOSThread for the pin to stick to its goroutine.
func SetAffinity(cpuID int) error {
	if cpuID < 0 || cpuID >= runtime.NumCPU() {
		return api.InvalidArgument("affinity", "cpu out of range").
			WithContext("cpu", cpuID).
			WithContext("cpus", runtime.NumCPU())
	}
	return setAffinityPlatform(cpuID)
}

// Pinned runs fn on a goroutine-locked OS thread pinned to cpuID. A negative
// cpuID runs fn unpinned. A failed pin is reported through onErr and fn still runs.
func Pinned(cpuID int, onErr func(error), fn func() error) error {
	if cpuID < 0 {
		return fn()
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := SetAffinity(cpuID); err != nil && onErr != nil {
		onErr(err)
	}
	return fn()
}
