// File: core/ring/ring.go
// Package ring implements a fixed-capacity, non-owning circular byte buffer.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The ring borrows its storage from the caller and never allocates, frees or
// resizes it. One slot is kept empty so that full and empty states are told
// apart by the indices alone: empty is wr == rd, full is (wr+1)%cap == rd.
// Usable capacity is therefore Cap()-1.
//
// RingBuffer is not safe for concurrent use. See core/concurrency for the
// single-producer/single-consumer and lock-serialized wrappers.

package ring

import (
	"github.com/momentics/circfifo/api"
)

// Ensure compile-time interface compliance.
var _ api.ByteRing = (*RingBuffer)(nil)

// RingBuffer is a bounded FIFO of bytes over caller-owned storage.
type RingBuffer struct {
	storage []byte
	size    int
	wr      int // where the next byte is written
	rd      int // where the next byte is read from
}

// New binds a ring to the first capacity bytes of storage.
func New(storage []byte, capacity int) (*RingBuffer, error) {
	rb := &RingBuffer{}
	if err := Init(rb, storage, capacity); err != nil {
		return nil, err
	}
	return rb, nil
}

// NewFromSlice binds a ring to all of storage.
func NewFromSlice(storage []byte) (*RingBuffer, error) {
	return New(storage, len(storage))
}

// Init (re)binds rb to storage and empties it.
//
// capacity 1 is accepted but leaves zero usable bytes: the ring is empty and
// full at once and every transfer moves 0 bytes.
func Init(rb *RingBuffer, storage []byte, capacity int) error {
	if rb == nil {
		return api.InvalidArgument("init", "ring buffer is nil")
	}
	if err := CheckStorage("init", storage, capacity); err != nil {
		return err
	}
	// Full slice expression: appends through rb.storage can never grow past capacity.
	rb.storage = storage[:capacity:capacity]
	rb.size = capacity
	rb.wr = 0
	rb.rd = 0
	return nil
}

// Write copies up to n bytes from data into the ring and returns how many
// were accepted. Fewer than n (possibly 0) means the ring ran out of room.
func (rb *RingBuffer) Write(data []byte, n int) (int, error) {
	if err := rb.check("write"); err != nil {
		return 0, err
	}
	if err := CheckTransfer("write", data, n); err != nil {
		return 0, err
	}
	n = min(n, Vacant(rb.wr, rb.rd, rb.size))
	if n == 0 {
		return 0, nil
	}
	rb.wr = CopyIn(rb.storage, rb.wr, data[:n])
	return n, nil
}

// Read moves up to n bytes from the ring into dst and returns how many were
// delivered. Fewer than n (possibly 0) means the ring ran out of data.
func (rb *RingBuffer) Read(dst []byte, n int) (int, error) {
	if err := rb.check("read"); err != nil {
		return 0, err
	}
	if err := CheckTransfer("read", dst, n); err != nil {
		return 0, err
	}
	n = min(n, Occupied(rb.wr, rb.rd, rb.size))
	if n == 0 {
		return 0, nil
	}
	rb.rd = CopyOut(dst[:n], rb.storage, rb.rd)
	return n, nil
}

// Peek copies up to n bytes from the head of the ring without consuming them.
func (rb *RingBuffer) Peek(dst []byte, n int) (int, error) {
	if err := rb.check("peek"); err != nil {
		return 0, err
	}
	if err := CheckTransfer("peek", dst, n); err != nil {
		return 0, err
	}
	n = min(n, Occupied(rb.wr, rb.rd, rb.size))
	if n == 0 {
		return 0, nil
	}
	CopyOut(dst[:n], rb.storage, rb.rd)
	return n, nil
}

// Discard drops up to n bytes from the head of the ring.
func (rb *RingBuffer) Discard(n int) (int, error) {
	if err := rb.check("discard"); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, api.InvalidArgument("discard", "requested count must be positive").
			WithContext("requested", n)
	}
	n = min(n, Occupied(rb.wr, rb.rd, rb.size))
	rb.rd = Advance(rb.rd, n, rb.size)
	return n, nil
}

// Reset empties the ring. Storage content is left as is.
func (rb *RingBuffer) Reset() {
	if rb == nil {
		return
	}
	rb.wr = 0
	rb.rd = 0
}

// Len returns the number of stored bytes.
func (rb *RingBuffer) Len() int {
	if rb == nil || rb.size == 0 {
		return 0
	}
	return Occupied(rb.wr, rb.rd, rb.size)
}

// Free returns how many bytes Write can accept right now.
func (rb *RingBuffer) Free() int {
	if rb == nil || rb.size == 0 {
		return 0
	}
	return Vacant(rb.wr, rb.rd, rb.size)
}

// Cap returns the physical capacity.
func (rb *RingBuffer) Cap() int {
	if rb == nil {
		return 0
	}
	return rb.size
}

// Usable returns the maximum number of bytes the ring can hold at once.
func (rb *RingBuffer) Usable() int {
	if rb == nil || rb.size == 0 {
		return 0
	}
	return rb.size - 1
}

// IsEmpty reports whether there is nothing to read.
func (rb *RingBuffer) IsEmpty() bool {
	return rb == nil || rb.wr == rb.rd
}

// IsFull reports whether there is no room to write.
func (rb *RingBuffer) IsFull() bool {
	if rb == nil || rb.size == 0 {
		return true
	}
	return Advance(rb.wr, 1, rb.size) == rb.rd
}

// Indices returns the raw write and read positions.
func (rb *RingBuffer) Indices() (wr, rd int) {
	if rb == nil {
		return 0, 0
	}
	return rb.wr, rb.rd
}

// check rejects a nil or never-initialized ring.
func (rb *RingBuffer) check(op string) error {
	if rb == nil {
		return api.InvalidArgument(op, "ring buffer is nil")
	}
	if rb.size == 0 {
		return api.InvalidArgument(op, "ring buffer is not initialized")
	}
	return nil
}
