package pipeline

import (
	"bytes"
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/circfifo/api"
	"github.com/momentics/circfifo/control"
	"github.com/momentics/circfifo/fake"
)

func payload(n int) []byte {
	p := make([]byte, n)
	rand.New(rand.NewSource(int64(n))).Read(p)
	return p
}

func TestRun_CopiesStream(t *testing.T) {
	for _, tc := range []struct {
		name string
		size int
		cfg  func(*control.Config)
	}{
		{"sequential heap", 50000, func(c *control.Config) {}},
		{"sequential mmap small", 50000, func(c *control.Config) { c.Storage = "mmap"; c.Capacity = 7; c.ChunkSize = 3 }},
		{"concurrent", 50000, func(c *control.Config) { c.Concurrent = true; c.Capacity = 257; c.ChunkSize = 64 }},
		{"concurrent pinned", 20000, func(c *control.Config) { c.Concurrent = true; c.Capacity = 100; c.ProducerCPU = 0; c.ConsumerCPU = 0 }},
		{"concurrent tiny", 2000, func(c *control.Config) {
			c.Concurrent = true
			c.Capacity = 2
			c.ChunkSize = 5
			c.MaxBackoff = time.Microsecond
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *control.DefaultConfig()
			tc.cfg(&cfg)
			p, err := New(cfg, nil)
			require.NoError(t, err)

			data := payload(tc.size)
			src := &fake.Reader{Data: data, PerCall: 1000}
			var out bytes.Buffer

			ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
			defer cancel()
			st, err := p.Run(ctx, src, &out)
			require.NoError(t, err)
			assert.Equal(t, data, out.Bytes())
			assert.Equal(t, int64(len(data)), st.BytesIn)
			assert.Equal(t, int64(len(data)), st.BytesOut)
			assert.Contains(t, p.Probes().DumpState(), "ring")
		})
	}
}

func TestRun_StatsPerRun(t *testing.T) {
	for _, concurrent := range []bool{false, true} {
		cfg := *control.DefaultConfig()
		cfg.Concurrent = concurrent
		cfg.Capacity = 128
		p, err := New(cfg, nil)
		require.NoError(t, err)

		for _, size := range []int{3000, 1200} {
			var out bytes.Buffer
			st, err := p.Run(context.Background(), &fake.Reader{Data: payload(size), PerCall: 500}, &out)
			require.NoError(t, err)
			assert.Equal(t, int64(size), st.BytesIn, "concurrent=%v", concurrent)
			assert.Equal(t, int64(size), st.BytesOut, "concurrent=%v", concurrent)
			assert.Equal(t, int64(size), p.Counters().BytesRead.Load())
		}
	}
}

func TestRun_WriterFailure(t *testing.T) {
	cfg := *control.DefaultConfig()
	cfg.Capacity = 64
	p, err := New(cfg, nil)
	require.NoError(t, err)

	boom := errors.New("broken pipe")
	_, err = p.Run(context.Background(), &fake.Reader{Data: payload(1000)}, &fake.Writer{Limit: 10, Err: boom})
	assert.ErrorIs(t, err, boom)
}

func TestRun_Canceled(t *testing.T) {
	cfg := *control.DefaultConfig()
	p, err := New(cfg, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.Run(ctx, &fake.Reader{Data: payload(10)}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := *control.DefaultConfig()
	cfg.Capacity = 1
	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}
