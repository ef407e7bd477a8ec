// File: pool/storage_windows.go
//go:build windows
// +build windows

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/momentics/circfifo/api"
)

// NewMapped reserves and commits size bytes with VirtualAlloc, falling back
// to the Go heap on failure.
func NewMapped(size int) (*Region, error) {
	if size < 1 {
		return nil, api.InvalidArgument("alloc", "size must be positive").WithContext("size", size)
	}
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil || addr == 0 {
		return NewHeap(size), nil
	}
	return &Region{
		data: unsafe.Slice((*byte)(unsafe.Pointer(addr)), size),
		kind: KindMmap,
		free: func(b []byte) error {
			return errors.Wrap(windows.VirtualFree(addr, 0, windows.MEM_RELEASE), "VirtualFree")
		},
	}, nil
}
