// Package fake
// Author: momentics <momentics@gmail.com>
//
// Fake storage, streams and rings for testing.

package fake

import (
	"sync"

	"github.com/momentics/circfifo/api"
)

var _ api.Storage = (*Storage)(nil)

// Storage is a fake api.Storage that records releases.
type Storage struct {
	mu       sync.Mutex
	data     []byte
	releases int
}

// NewStorage creates a fake region of size bytes.
func NewStorage(size int) *Storage {
	return &Storage{data: make([]byte, size)}
}

// Bytes returns the region, or nil once released.
func (s *Storage) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.releases > 0 {
		return nil
	}
	return s.data
}

// Release marks the region released.
func (s *Storage) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.releases++
	return nil
}

// Kind reports "fake".
func (s *Storage) Kind() string { return "fake" }

// Releases returns how many times Release was called.
func (s *Storage) Releases() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.releases
}
