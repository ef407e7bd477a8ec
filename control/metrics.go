// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Transfer counters for rings and a registry that publishes them.

package control

import (
	"sync"
	"time"

	"go.uber.org/atomic"
)

// MetricsRegistry holds mutable and read-only metrics.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// GetSnapshot returns the latest metrics.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	return out
}

// Updated returns the time of the last Set.
func (mr *MetricsRegistry) Updated() time.Time {
	mr.mu.RLock()
	defer mr.mu.RUnlock()
	return mr.updated
}

// Counters accumulates ring transfer statistics.
type Counters struct {
	Writes       atomic.Int64
	Reads        atomic.Int64
	BytesWritten atomic.Int64
	BytesRead    atomic.Int64
	ShortWrites  atomic.Int64
	ShortReads   atomic.Int64
	Misuse       atomic.Int64
}

// Reset zeroes every counter.
func (c *Counters) Reset() {
	for _, v := range []*atomic.Int64{
		&c.Writes, &c.Reads, &c.BytesWritten, &c.BytesRead,
		&c.ShortWrites, &c.ShortReads, &c.Misuse,
	} {
		v.Store(0)
	}
}

// Publish copies the counters into reg under prefix.
func (c *Counters) Publish(reg *MetricsRegistry, prefix string) {
	reg.Set(prefix+".writes", c.Writes.Load())
	reg.Set(prefix+".reads", c.Reads.Load())
	reg.Set(prefix+".bytes_written", c.BytesWritten.Load())
	reg.Set(prefix+".bytes_read", c.BytesRead.Load())
	reg.Set(prefix+".short_writes", c.ShortWrites.Load())
	reg.Set(prefix+".short_reads", c.ShortReads.Load())
	reg.Set(prefix+".misuse", c.Misuse.Load())
}
