// File: adapters/backlog.go
// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Backlog re-issues the remainder of short writes so a producer can hand off
// data without tracking partial transfers itself.

package adapters

import (
	"io"

	"github.com/eapache/queue"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/momentics/circfifo/api"
)

// ErrBacklogFull is returned when accepting more data would exceed the backlog limit.
var ErrBacklogFull = errors.New("backlog is full")

// Backlog is an io.Writer in front of a ring. Bytes the ring cannot take yet
// are copied into pending chunks and pushed on later Flush or Write calls,
// always in the order they were written. Not safe for concurrent use.
type Backlog struct {
	ring    api.ByteRing
	pending *queue.Queue // []byte chunks, oldest first
	head    int          // bytes of the oldest chunk already in the ring
	size    int          // pending bytes not yet in the ring
	limit   int
	log     *zap.Logger
}

var _ io.Writer = (*Backlog)(nil)

// NewBacklog creates a backlog for r holding at most limit pending bytes.
// limit <= 0 means unbounded.
func NewBacklog(r api.ByteRing, limit int, log *zap.Logger) (*Backlog, error) {
	if r == nil {
		return nil, api.InvalidArgument("backlog", "ring is nil")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Backlog{ring: r, pending: queue.New(), limit: limit, log: log}, nil
}

// Write hands p to the ring, queueing whatever does not fit. It returns
// len(p) unless the limit is reached, in which case the accepted prefix
// length is returned with ErrBacklogFull.
func (b *Backlog) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if _, err := b.Flush(); err != nil {
		return 0, err
	}

	direct := 0
	if b.size == 0 {
		n, err := b.ring.Write(p, len(p))
		if err != nil {
			return 0, err
		}
		direct = n
	}
	rest := p[direct:]
	if len(rest) == 0 {
		return direct, nil
	}

	accept := len(rest)
	if b.limit > 0 && b.size+accept > b.limit {
		accept = max(b.limit-b.size, 0)
	}
	if accept > 0 {
		chunk := make([]byte, accept)
		copy(chunk, rest)
		b.pending.Add(chunk)
		b.size += accept
	}
	if accept < len(rest) {
		b.log.Debug("backlog limit reached",
			zap.Int("limit", b.limit), zap.Int("rejected", len(rest)-accept))
		return direct + accept, ErrBacklogFull
	}
	return len(p), nil
}

// Flush pushes pending chunks into the ring until it is full or the backlog
// is empty, and returns the number of bytes moved.
func (b *Backlog) Flush() (int, error) {
	moved := 0
	for b.pending.Length() > 0 {
		chunk := b.pending.Peek().([]byte)[b.head:]
		n, err := b.ring.Write(chunk, len(chunk))
		if err != nil {
			return moved, err
		}
		moved += n
		b.size -= n
		if n < len(chunk) {
			b.head += n
			return moved, nil
		}
		b.pending.Remove()
		b.head = 0
	}
	return moved, nil
}

// Pending returns the number of bytes waiting for room in the ring.
func (b *Backlog) Pending() int { return b.size }

// Chunks returns the number of queued chunks.
func (b *Backlog) Chunks() int { return b.pending.Length() }
