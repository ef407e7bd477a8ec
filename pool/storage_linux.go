// File: pool/storage_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// On Linux, mapped regions are anonymous private mappings outside the Go heap.

package pool

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/momentics/circfifo/api"
)

// NewMapped maps size bytes of anonymous memory. It falls back to the Go
// heap when the mapping fails; Kind reports which one was used.
func NewMapped(size int) (*Region, error) {
	if size < 1 {
		return nil, api.InvalidArgument("alloc", "size must be positive").WithContext("size", size)
	}
	data, err := unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return NewHeap(size), nil
	}
	return &Region{
		data: data,
		kind: KindMmap,
		free: func(b []byte) error {
			return errors.Wrap(unix.Munmap(b), "munmap")
		},
	}, nil
}
