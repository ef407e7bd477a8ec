// control/instrument.go
// Author: momentics <momentics@gmail.com>
//
// Instrumented wraps any api.ByteRing with counters and structured logging.

package control

import (
	"go.uber.org/zap"

	"github.com/momentics/circfifo/api"
)

var _ api.ByteRing = (*Instrumented)(nil)

// Instrumented forwards every call to the wrapped ring and records the outcome.
// It adds no locking of its own; the wrapped ring's rules apply.
type Instrumented struct {
	ring     api.ByteRing
	counters *Counters
	log      *zap.Logger
}

// NewInstrumented wraps r. A nil counters or logger is replaced by a private
// counter set or a no-op logger.
func NewInstrumented(r api.ByteRing, counters *Counters, log *zap.Logger) *Instrumented {
	if counters == nil {
		counters = &Counters{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Instrumented{ring: r, counters: counters, log: log}
}

// Counters returns the counter set in use.
func (i *Instrumented) Counters() *Counters { return i.counters }

func (i *Instrumented) Write(p []byte, n int) (int, error) {
	got, err := i.ring.Write(p, n)
	if err != nil {
		i.counters.Misuse.Inc()
		i.log.Warn("ring write rejected", zap.Int("requested", n), zap.Error(err))
		return got, err
	}
	i.counters.Writes.Inc()
	i.counters.BytesWritten.Add(int64(got))
	if got < n {
		i.counters.ShortWrites.Inc()
		i.log.Debug("short write", zap.Int("requested", n), zap.Int("written", got))
	}
	return got, nil
}

func (i *Instrumented) Read(p []byte, n int) (int, error) {
	got, err := i.ring.Read(p, n)
	if err != nil {
		i.counters.Misuse.Inc()
		i.log.Warn("ring read rejected", zap.Int("requested", n), zap.Error(err))
		return got, err
	}
	i.counters.Reads.Inc()
	i.counters.BytesRead.Add(int64(got))
	if got < n {
		i.counters.ShortReads.Inc()
		i.log.Debug("short read", zap.Int("requested", n), zap.Int("read", got))
	}
	return got, nil
}

func (i *Instrumented) Len() int  { return i.ring.Len() }
func (i *Instrumented) Free() int { return i.ring.Free() }
func (i *Instrumented) Cap() int  { return i.ring.Cap() }
