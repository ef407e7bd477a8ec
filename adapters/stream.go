// File: adapters/stream.go
// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Bridges between byte rings and io streams, built only on the ring's
// Write/Read (and Peek/Discard when available). The ring never touches a
// stream itself.

package adapters

import (
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/momentics/circfifo/api"
)

// DefaultChunkSize bounds a single ring transfer issued by the package-level helpers.
const DefaultChunkSize = 4096

// peekDiscarder is implemented by rings that can hand out data before
// consuming it.
type peekDiscarder interface {
	Peek(p []byte, n int) (int, error)
	Discard(n int) (int, error)
}

// Transfer moves bytes between a ring and a stream through a reusable chunk buffer.
// A Transfer is not safe for concurrent use.
type Transfer struct {
	buf []byte
	log *zap.Logger
}

// NewTransfer creates a Transfer issuing ring calls of at most chunkSize bytes.
func NewTransfer(chunkSize int, log *zap.Logger) (*Transfer, error) {
	if chunkSize < 1 {
		return nil, api.InvalidArgument("transfer", "chunk size must be positive").
			WithContext("chunk_size", chunkSize)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Transfer{buf: make([]byte, chunkSize), log: log}, nil
}

// ToWriter drains up to n bytes from r into w and returns how many reached w.
// It stops early, without error, when the ring runs dry.
func (t *Transfer) ToWriter(r api.ByteRing, w io.Writer, n int) (int, error) {
	if r == nil || w == nil {
		return 0, api.InvalidArgument("to_writer", "ring or writer is nil")
	}
	if n <= 0 {
		return 0, api.InvalidArgument("to_writer", "requested count must be positive").
			WithContext("requested", n)
	}
	pd, canPeek := r.(peekDiscarder)

	total := 0
	for total < n {
		want := min(len(t.buf), n-total)
		var got int
		var err error
		if canPeek {
			got, err = pd.Peek(t.buf, want)
		} else {
			got, err = r.Read(t.buf, want)
		}
		if err != nil {
			return total, err
		}
		if got == 0 {
			break
		}

		wn, werr := w.Write(t.buf[:got])
		if canPeek && wn > 0 {
			if _, err := pd.Discard(wn); err != nil {
				return total, err
			}
		}
		total += wn
		if werr == nil && wn < got {
			werr = io.ErrShortWrite
		}
		if werr != nil {
			if !canPeek {
				t.log.Warn("ring bytes dropped by failing writer",
					zap.Int("dropped", got-wn), zap.Error(werr))
				return total, errors.Wrapf(werr, "write ring data (%d bytes dropped)", got-wn)
			}
			return total, errors.Wrap(werr, "write ring data")
		}
		if got < want {
			break
		}
	}
	if total < n {
		t.log.Debug("ring drained before request", zap.Int("requested", n), zap.Int("moved", total))
	}
	return total, nil
}

// FromReader fills r with up to n bytes from src and returns how many were
// stored. It never reads more from src than the ring can take. When src is
// exhausted the count is returned together with io.EOF.
func (t *Transfer) FromReader(r api.ByteRing, src io.Reader, n int) (int, error) {
	if r == nil || src == nil {
		return 0, api.InvalidArgument("from_reader", "ring or reader is nil")
	}
	if n <= 0 {
		return 0, api.InvalidArgument("from_reader", "requested count must be positive").
			WithContext("requested", n)
	}

	total := 0
	for total < n {
		want := min(len(t.buf), n-total, r.Free())
		if want == 0 {
			break
		}
		m, rerr := src.Read(t.buf[:want])
		if m > 0 {
			wn, err := r.Write(t.buf, m)
			total += wn
			if err != nil {
				return total, err
			}
			if wn < m {
				// Only possible when another goroutine writes to the same ring.
				return total, errors.Wrapf(api.ErrShortTransfer, "ring accepted %d of %d bytes", wn, m)
			}
		}
		if rerr == io.EOF {
			return total, io.EOF
		}
		if rerr != nil {
			return total, errors.Wrap(rerr, "read source")
		}
		if m == 0 {
			break
		}
	}
	if total < n {
		t.log.Debug("ring filled before request", zap.Int("requested", n), zap.Int("moved", total))
	}
	return total, nil
}

// ToWriter drains up to n bytes from r into w using a fresh DefaultChunkSize buffer.
func ToWriter(r api.ByteRing, w io.Writer, n int) (int, error) {
	t, _ := NewTransfer(min(max(n, 1), DefaultChunkSize), nil)
	return t.ToWriter(r, w, n)
}

// FromReader fills r from src using a fresh DefaultChunkSize buffer.
func FromReader(r api.ByteRing, src io.Reader, n int) (int, error) {
	t, _ := NewTransfer(min(max(n, 1), DefaultChunkSize), nil)
	return t.FromReader(r, src, n)
}

// Reader exposes the consumer side of a ring as an io.Reader.
type Reader struct {
	Ring api.ByteRing
}

var _ io.Reader = Reader{}

// Read returns io.EOF when the ring is empty. More data may arrive later.
func (rd Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := rd.Ring.Read(p, len(p))
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Writer exposes the producer side of a ring as an io.Writer.
type Writer struct {
	Ring api.ByteRing
}

var _ io.Writer = Writer{}

// Write returns io.ErrShortWrite with the accepted count when the ring fills up.
func (wr Writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := wr.Ring.Write(p, len(p))
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}
