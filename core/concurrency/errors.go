// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Error definitions for concurrency module.

package concurrency

import "errors"

var (
	// ErrPumpRunning indicates Run was called on a pump that is already running
	ErrPumpRunning = errors.New("pump is already running")

	// ErrPumpStopped indicates the pump was stopped before its source drained
	ErrPumpStopped = errors.New("pump stopped")
)
