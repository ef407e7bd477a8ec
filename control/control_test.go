package control

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/momentics/circfifo/api"
	"github.com/momentics/circfifo/core/ring"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, zapcore.InfoLevel, cfg.Level())
}

func TestParseConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
capacity: 1024
storage: mmap
max_backoff: 5ms
consumer_cpu: 1
log_level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Capacity)
	assert.Equal(t, "mmap", cfg.Storage)
	assert.Equal(t, 5*time.Millisecond, cfg.MaxBackoff)
	assert.Equal(t, zapcore.DebugLevel, cfg.Level())
	assert.Equal(t, DefaultConfig().ChunkSize, cfg.ChunkSize)
	assert.Equal(t, -1, cfg.ProducerCPU)
	assert.Equal(t, 1, cfg.ConsumerCPU)
}

func TestParseConfig_Invalid(t *testing.T) {
	for name, doc := range map[string]string{
		"capacity":  "capacity: 1",
		"chunk":     "chunk_size: 0",
		"storage":   "storage: tape",
		"backoff":   "max_backoff: -1s",
		"log level": "log_level: loud",
		"cpu pin":   "producer_cpu: -2",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			assert.ErrorIs(t, err, api.ErrInvalidArgument)
		})
	}

	_, err := ParseConfig([]byte("capacity: [1"))
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ring.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 300\nchunk_size: 50\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Capacity)
	assert.Equal(t, 50, cfg.ChunkSize)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigStore_Update(t *testing.T) {
	cs := NewConfigStore(nil)
	var seen []int
	cs.OnReload(func(c Config) { seen = append(seen, c.Capacity) })

	require.NoError(t, cs.Update(func(c *Config) { c.Capacity = 512 }))
	assert.Equal(t, 512, cs.GetSnapshot().Capacity)

	err := cs.Update(func(c *Config) { c.Capacity = 0 })
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
	assert.Equal(t, 512, cs.GetSnapshot().Capacity)
	assert.Equal(t, []int{512}, seen)
}

func TestInstrumented_Counts(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	rb, err := ring.New(make([]byte, 4), 4)
	require.NoError(t, err)
	in := NewInstrumented(rb, nil, zap.New(core))

	n, err := in.Write([]byte("hello"), 5)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	buf := make([]byte, 8)
	n, err = in.Read(buf, 8)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = in.Read(buf, 0)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)

	c := in.Counters()
	assert.Equal(t, int64(1), c.Writes.Load())
	assert.Equal(t, int64(3), c.BytesWritten.Load())
	assert.Equal(t, int64(1), c.ShortWrites.Load())
	assert.Equal(t, int64(1), c.ShortReads.Load())
	assert.Equal(t, int64(1), c.Misuse.Load())
	assert.Equal(t, 1, logs.FilterMessage("short write").Len())
	assert.Equal(t, 1, logs.FilterMessage("ring read rejected").Len())

	reg := NewMetricsRegistry()
	c.Publish(reg, "ring")
	snap := reg.GetSnapshot()
	assert.Equal(t, int64(3), snap["ring.bytes_read"])
	assert.False(t, reg.Updated().IsZero())
}

func TestDebugProbes(t *testing.T) {
	rb, err := ring.New(make([]byte, 10), 10)
	require.NoError(t, err)
	_, err = rb.Write([]byte("abc"), 3)
	require.NoError(t, err)

	dp := NewDebugProbes()
	dp.RegisterRing("ring", rb)
	RegisterPlatformProbes(dp)

	state := dp.DumpState()
	assert.Equal(t, api.RingState{Capacity: 10, Len: 3, Free: 6}, state["ring"])
	assert.Contains(t, state, "platform.cpus")
}
