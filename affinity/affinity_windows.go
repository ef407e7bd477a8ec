//go:build windows
// +build windows

// File: affinity/affinity_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows-specific implementation for setting thread CPU affinity.

package affinity

import (
	"math/bits"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/momentics/circfifo/api"
)

var procSetThreadAffinityMask = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetThreadAffinityMask")

// setAffinityPlatform sets thread affinity to a given CPU for Windows.
// The thread mask only addresses the first processor group.
func setAffinityPlatform(cpuID int) error {
	if cpuID >= bits.UintSize {
		return api.NewError(api.ErrCodeNotSupported, "affinity: cpu outside the first processor group").
			WithContext("cpu", cpuID)
	}
	mask := uintptr(1) << cpuID
	ret, _, err := procSetThreadAffinityMask.Call(uintptr(windows.CurrentThread()), mask)
	if ret == 0 {
		return errors.Wrap(err, "affinity: SetThreadAffinityMask")
	}
	return nil
}
