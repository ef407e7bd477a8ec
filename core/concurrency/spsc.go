// File: core/concurrency/spsc.go
// Package concurrency provides ring flavours safe for cross-goroutine use.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// SPSC is the byte ring with atomic indices for exactly one writer goroutine
// and exactly one reader goroutine. The writer owns wr and only loads rd; the
// reader owns rd and only loads wr. Bytes are copied before the owning index
// is stored, and the store publishes them to the other side.

package concurrency

import (
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/momentics/circfifo/api"
	"github.com/momentics/circfifo/core/ring"
)

// Ensure compile-time interface compliance.
var _ api.ByteRing = (*SPSC)(nil)

// SPSC is a single-producer/single-consumer byte ring.
//
// Write must only be called from one goroutine and Read (or Discard) only
// from one other goroutine. Len and Free may be called from anywhere and
// return a value that was true at some point during the call.
type SPSC struct {
	storage []byte
	size    uint64
	_       cpu.CacheLinePad
	wr      atomic.Uint64
	_       cpu.CacheLinePad // Padding for hot/cold separation
	rd      atomic.Uint64
	_       cpu.CacheLinePad
}

// NewSPSC binds an SPSC ring to the first capacity bytes of storage.
func NewSPSC(storage []byte, capacity int) (*SPSC, error) {
	if err := ring.CheckStorage("init", storage, capacity); err != nil {
		return nil, err
	}
	return &SPSC{
		storage: storage[:capacity:capacity],
		size:    uint64(capacity),
	}, nil
}

// Write copies up to n bytes from data; producer side only.
func (s *SPSC) Write(data []byte, n int) (int, error) {
	if s == nil {
		return 0, api.InvalidArgument("write", "ring buffer is nil")
	}
	if err := ring.CheckTransfer("write", data, n); err != nil {
		return 0, err
	}
	wr := int(s.wr.Load())
	rd := int(s.rd.Load())
	n = min(n, ring.Vacant(wr, rd, int(s.size)))
	if n == 0 {
		return 0, nil
	}
	s.wr.Store(uint64(ring.CopyIn(s.storage, wr, data[:n])))
	return n, nil
}

// Read moves up to n bytes into dst; consumer side only.
func (s *SPSC) Read(dst []byte, n int) (int, error) {
	if s == nil {
		return 0, api.InvalidArgument("read", "ring buffer is nil")
	}
	if err := ring.CheckTransfer("read", dst, n); err != nil {
		return 0, err
	}
	rd := int(s.rd.Load())
	wr := int(s.wr.Load())
	n = min(n, ring.Occupied(wr, rd, int(s.size)))
	if n == 0 {
		return 0, nil
	}
	s.rd.Store(uint64(ring.CopyOut(dst[:n], s.storage, rd)))
	return n, nil
}

// Peek copies up to n bytes without consuming them; consumer side only.
func (s *SPSC) Peek(dst []byte, n int) (int, error) {
	if s == nil {
		return 0, api.InvalidArgument("peek", "ring buffer is nil")
	}
	if err := ring.CheckTransfer("peek", dst, n); err != nil {
		return 0, err
	}
	rd := int(s.rd.Load())
	n = min(n, ring.Occupied(int(s.wr.Load()), rd, int(s.size)))
	if n == 0 {
		return 0, nil
	}
	ring.CopyOut(dst[:n], s.storage, rd)
	return n, nil
}

// Discard drops up to n bytes; consumer side only.
func (s *SPSC) Discard(n int) (int, error) {
	if s == nil {
		return 0, api.InvalidArgument("discard", "ring buffer is nil")
	}
	if n <= 0 {
		return 0, api.InvalidArgument("discard", "requested count must be positive").
			WithContext("requested", n)
	}
	rd := int(s.rd.Load())
	n = min(n, ring.Occupied(int(s.wr.Load()), rd, int(s.size)))
	s.rd.Store(uint64(ring.Advance(rd, n, int(s.size))))
	return n, nil
}

// Len returns number of bytes currently in buffer.
func (s *SPSC) Len() int {
	if s == nil {
		return 0
	}
	rd := s.rd.Load()
	wr := s.wr.Load()
	return ring.Occupied(int(wr), int(rd), int(s.size))
}

// Free returns the writable room.
func (s *SPSC) Free() int {
	if s == nil {
		return 0
	}
	wr := s.wr.Load()
	rd := s.rd.Load()
	return ring.Vacant(int(wr), int(rd), int(s.size))
}

// Cap returns fixed buffer capacity.
func (s *SPSC) Cap() int {
	if s == nil {
		return 0
	}
	return int(s.size)
}
