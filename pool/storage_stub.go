// File: pool/storage_stub.go
//go:build !linux && !windows
// +build !linux,!windows

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import "github.com/momentics/circfifo/api"

// NewMapped has no mapping support on this platform and uses the Go heap.
func NewMapped(size int) (*Region, error) {
	if size < 1 {
		return nil, api.InvalidArgument("alloc", "size must be positive").WithContext("size", size)
	}
	return NewHeap(size), nil
}
