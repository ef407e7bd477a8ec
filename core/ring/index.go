// File: core/ring/index.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Index arithmetic and wrap-aware copies shared by every ring flavour.

package ring

import "github.com/momentics/circfifo/api"

// Occupied returns the number of stored bytes for the given indices.
func Occupied(wr, rd, size int) int {
	if wr >= rd {
		return wr - rd
	}
	return size - rd + wr
}

// Vacant returns the number of bytes that can still be written.
// One slot is always left unused.
func Vacant(wr, rd, size int) int {
	return size - 1 - Occupied(wr, rd, size)
}

// Advance moves idx forward by n, wrapping at size. n must not exceed size.
func Advance(idx, n, size int) int {
	idx += n
	if idx >= size {
		idx -= size
	}
	return idx
}

// CopyIn writes src into storage starting at wr, splitting the copy at the end
// of storage, and returns the new write index.
func CopyIn(storage []byte, wr int, src []byte) int {
	first := copy(storage[wr:], src)
	if first < len(src) {
		copy(storage, src[first:])
	}
	return Advance(wr, len(src), len(storage))
}

// CopyOut fills dst from storage starting at rd, splitting the copy at the end
// of storage, and returns the new read index.
func CopyOut(dst []byte, storage []byte, rd int) int {
	first := copy(dst, storage[rd:])
	if first < len(dst) {
		copy(dst[first:], storage)
	}
	return Advance(rd, len(dst), len(storage))
}

// CheckStorage validates a storage/capacity pair for binding a ring.
func CheckStorage(op string, storage []byte, capacity int) error {
	switch {
	case capacity < 1:
		return api.InvalidArgument(op, "capacity must be positive").
			WithContext("capacity", capacity)
	case len(storage) == 0:
		return api.InvalidArgument(op, "storage is absent")
	case len(storage) < capacity:
		return api.InvalidArgument(op, "storage is smaller than capacity").
			WithContext("capacity", capacity).
			WithContext("storage", len(storage))
	}
	return nil
}

// CheckTransfer validates the buffer and count of a Write or Read call.
func CheckTransfer(op string, p []byte, n int) error {
	switch {
	case n <= 0:
		return api.InvalidArgument(op, "requested count must be positive").
			WithContext("requested", n)
	case p == nil:
		return api.InvalidArgument(op, "buffer is absent")
	case len(p) < n:
		return api.InvalidArgument(op, "buffer is shorter than requested count").
			WithContext("requested", n).
			WithContext("buffer", len(p))
	}
	return nil
}
