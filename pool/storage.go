// File: pool/storage.go
// Package pool allocates backing storage for rings.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// A ring never owns memory. Callers that do not want to manage a slice
// themselves take a Region from here, bind rings to Region.Bytes(), and call
// Release once those rings are no longer used.

package pool

import (
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/momentics/circfifo/api"
)

// Storage kinds accepted by New.
const (
	KindHeap = "heap"
	KindMmap = "mmap"
)

var _ api.Storage = (*Region)(nil)

// Region is a fixed-size block of memory obtained from one allocator.
type Region struct {
	data     []byte
	kind     string
	free     func([]byte) error
	released atomic.Bool
}

// Bytes returns the whole region, or nil after Release.
func (r *Region) Bytes() []byte {
	if r.released.Load() {
		return nil
	}
	return r.data
}

// Kind names the allocator that produced the region.
func (r *Region) Kind() string { return r.kind }

// Release returns the memory. Calling it more than once is a no-op.
func (r *Region) Release() error {
	if !r.released.CompareAndSwap(false, true) {
		return nil
	}
	data := r.data
	r.data = nil
	if r.free == nil {
		return nil
	}
	return errors.Wrapf(r.free(data), "release %s region", r.kind)
}

// New allocates size bytes with the named allocator. An empty kind means heap.
func New(kind string, size int) (*Region, error) {
	if size < 1 {
		return nil, api.InvalidArgument("alloc", "size must be positive").WithContext("size", size)
	}
	switch kind {
	case "", KindHeap:
		return NewHeap(size), nil
	case KindMmap:
		return NewMapped(size)
	}
	return nil, errors.Wrapf(api.ErrNotSupported, "storage kind %q", kind)
}

// NewHeap allocates size bytes on the Go heap.
func NewHeap(size int) *Region {
	return &Region{data: make([]byte, size), kind: KindHeap}
}
