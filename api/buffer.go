// Package api
// Author: momentics
//
// Caller-owned backing storage for rings.
//
// A ring only borrows storage. Whoever obtained a Storage releases it, and
// only after every ring built on it is no longer used.

package api

// Storage describes a fixed-size memory region a ring can be bound to.
type Storage interface {
	// Bytes returns the whole region. Its length never changes.
	Bytes() []byte

	// Release returns the region to the OS or the Go heap.
	// After Release, Bytes must not be used.
	Release() error

	// Kind names the allocator that produced the region ("heap", "mmap").
	Kind() string
}
