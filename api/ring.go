// Package api
// Author: momentics@gmail.com
//
// Byte ring contract shared by the core ring, its concurrent wrappers and
// every adapter built on top of them.

package api

// ByteRing is a bounded FIFO of bytes with short-transfer semantics.
//
// Write and Read move at most n bytes and report how many actually moved.
// A count lower than n (including 0) means the ring had no room or no data;
// it is not an error. err is non-nil only for misuse and then carries
// ErrInvalidArgument.
type ByteRing interface {
	// Write copies up to n bytes of p into the ring.
	Write(p []byte, n int) (int, error)
	// Read moves up to n bytes from the ring into p.
	Read(p []byte, n int) (int, error)
	// Len returns the number of bytes currently stored.
	Len() int
	// Free returns how many more bytes Write can accept right now.
	Free() int
	// Cap returns the physical capacity, one more than the usable capacity.
	Cap() int
}
