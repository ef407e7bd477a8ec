// File: core/concurrency/locked.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Locked serializes every call on a RingBuffer behind one mutex, for callers
// with several writers or several readers.

package concurrency

import (
	"sync"

	"github.com/momentics/circfifo/api"
	"github.com/momentics/circfifo/core/ring"
)

var _ api.ByteRing = (*Locked)(nil)

// Locked is a mutex-guarded RingBuffer.
type Locked struct {
	mu sync.Mutex
	rb *ring.RingBuffer
}

// NewLocked wraps rb. rb must not be used directly afterwards.
func NewLocked(rb *ring.RingBuffer) (*Locked, error) {
	if rb == nil || rb.Cap() == 0 {
		return nil, api.InvalidArgument("init", "ring buffer is nil or not initialized")
	}
	return &Locked{rb: rb}, nil
}

func (l *Locked) Write(p []byte, n int) (int, error) {
	if l == nil || l.rb == nil {
		return 0, api.InvalidArgument("write", "ring is nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rb.Write(p, n)
}

func (l *Locked) Read(p []byte, n int) (int, error) {
	if l == nil || l.rb == nil {
		return 0, api.InvalidArgument("read", "ring is nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rb.Read(p, n)
}

func (l *Locked) Len() int {
	if l == nil || l.rb == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rb.Len()
}

func (l *Locked) Free() int {
	if l == nil || l.rb == nil {
		return 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rb.Free()
}

// Cap never changes after construction and needs no lock.
func (l *Locked) Cap() int {
	if l == nil || l.rb == nil {
		return 0
	}
	return l.rb.Cap()
}

func (l *Locked) Reset() {
	if l == nil || l.rb == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rb.Reset()
}
