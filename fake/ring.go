// Package fake
// Author: momentics <momentics@gmail.com>

package fake

import (
	"github.com/momentics/circfifo/api"
)

var _ api.ByteRing = (*Ring)(nil)

// Ring is a slice-backed api.ByteRing without Peek or Discard, holding at
// most Size bytes. It validates arguments like the real ring.
type Ring struct {
	Size int
	buf  []byte
}

// Write implements api.ByteRing.
func (r *Ring) Write(p []byte, n int) (int, error) {
	if n <= 0 || len(p) < n {
		return 0, api.InvalidArgument("write", "bad request")
	}
	n = min(n, r.Free())
	r.buf = append(r.buf, p[:n]...)
	return n, nil
}

// Read implements api.ByteRing.
func (r *Ring) Read(p []byte, n int) (int, error) {
	if n <= 0 || len(p) < n {
		return 0, api.InvalidArgument("read", "bad request")
	}
	n = copy(p[:n], r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

func (r *Ring) Len() int  { return len(r.buf) }
func (r *Ring) Free() int { return r.Size - len(r.buf) }
func (r *Ring) Cap() int  { return r.Size + 1 }
