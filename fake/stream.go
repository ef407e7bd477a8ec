// Package fake
// Author: momentics <momentics@gmail.com>
//
// Stream doubles with controllable short transfers and failures.

package fake

import (
	"bytes"
	"io"
)

// Writer collects written bytes. It accepts at most PerCall bytes per Write
// (0 means unlimited) and fails with Err once Limit bytes were accepted
// (Limit <= 0 means never).
type Writer struct {
	bytes.Buffer
	PerCall int
	Limit   int
	Err     error
	Calls   int
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.Calls++
	n := len(p)
	if w.PerCall > 0 && n > w.PerCall {
		n = w.PerCall
	}
	var err error
	if w.Limit > 0 && w.Len()+n >= w.Limit {
		n = max(w.Limit-w.Len(), 0)
		err = w.Err
	}
	w.Buffer.Write(p[:n])
	if err == nil && n < len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}

// Reader serves Data in pieces of at most PerCall bytes (0 means unlimited),
// then returns Err, or io.EOF when Err is nil.
type Reader struct {
	Data    []byte
	PerCall int
	Err     error
	Calls   int
	off     int
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	r.Calls++
	if r.off >= len(r.Data) {
		if r.Err != nil {
			return 0, r.Err
		}
		return 0, io.EOF
	}
	n := len(p)
	if r.PerCall > 0 && n > r.PerCall {
		n = r.PerCall
	}
	n = copy(p[:n], r.Data[r.off:])
	r.off += n
	return n, nil
}

// Remaining returns the bytes not served yet.
func (r *Reader) Remaining() int { return len(r.Data) - r.off }
