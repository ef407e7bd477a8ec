// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for circfifo components.

package benchmarks

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/momentics/circfifo/adapters"
	"github.com/momentics/circfifo/control"
	"github.com/momentics/circfifo/core/concurrency"
	"github.com/momentics/circfifo/core/ring"
	"github.com/momentics/circfifo/pool"
	"go.uber.org/zap"
)

const chunk = 512

// BenchmarkRingBufferThroughput measures a write/read round trip on the plain ring.
func BenchmarkRingBufferThroughput(b *testing.B) {
	rb, err := ring.New(make([]byte, 4096), 4096)
	if err != nil {
		b.Fatal(err)
	}
	src := bytes.Repeat([]byte{0xA5}, chunk)
	dst := make([]byte, chunk)

	b.SetBytes(chunk)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rb.Write(src, chunk); err != nil {
			b.Fatal(err)
		}
		if _, err := rb.Read(dst, chunk); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRingBufferWrap keeps the indices near the end of storage so every
// transfer takes the split copy path.
func BenchmarkRingBufferWrap(b *testing.B) {
	rb, err := ring.New(make([]byte, chunk+chunk/2), chunk+chunk/2)
	if err != nil {
		b.Fatal(err)
	}
	src := make([]byte, chunk)
	dst := make([]byte, chunk)

	b.SetBytes(chunk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w, _ := rb.Write(src, chunk)
		rb.Read(dst, w)
	}
}

// BenchmarkSPSCThroughput streams bytes between one producer and one consumer goroutine.
func BenchmarkSPSCThroughput(b *testing.B) {
	s, err := concurrency.NewSPSC(make([]byte, 64*1024), 64*1024)
	if err != nil {
		b.Fatal(err)
	}
	total := b.N * chunk
	src := make([]byte, chunk)

	b.SetBytes(chunk)
	b.ResetTimer()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		dst := make([]byte, chunk)
		for got := 0; got < total; {
			n, _ := s.Read(dst, chunk)
			got += n
		}
	}()
	for sent := 0; sent < total; {
		want := chunk
		if rest := total - sent; rest < want {
			want = rest
		}
		n, _ := s.Write(src, want)
		sent += n
	}
	wg.Wait()
}

// BenchmarkLockedParallel hammers the mutex wrapper from parallel goroutines.
func BenchmarkLockedParallel(b *testing.B) {
	rb, err := ring.New(make([]byte, 8192), 8192)
	if err != nil {
		b.Fatal(err)
	}
	l, err := concurrency.NewLocked(rb)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(64)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		buf := make([]byte, 64)
		for pb.Next() {
			l.Write(buf, 64)
			l.Read(buf, 64)
		}
	})
}

// BenchmarkInstrumentedOverhead measures the metrics wrapper on top of the ring.
func BenchmarkInstrumentedOverhead(b *testing.B) {
	rb, err := ring.New(make([]byte, 4096), 4096)
	if err != nil {
		b.Fatal(err)
	}
	r := control.NewInstrumented(rb, &control.Counters{}, zap.NewNop())
	buf := make([]byte, chunk)

	b.SetBytes(chunk)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Write(buf, chunk)
		r.Read(buf, chunk)
	}
}

// BenchmarkStreamAdapters pushes a reader through the ring into a writer.
func BenchmarkStreamAdapters(b *testing.B) {
	for _, kind := range []string{pool.KindHeap, pool.KindMmap} {
		b.Run(kind, func(b *testing.B) {
			st, err := pool.New(kind, 16*1024)
			if err != nil {
				b.Fatal(err)
			}
			defer st.Release()
			rb, err := ring.NewFromSlice(st.Bytes())
			if err != nil {
				b.Fatal(err)
			}
			payload := bytes.Repeat([]byte("circfifo"), 4096)
			tr, err := adapters.NewTransfer(chunk, nil)
			if err != nil {
				b.Fatal(err)
			}

			b.SetBytes(int64(len(payload)))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				src := bytes.NewReader(payload)
				for {
					_, rerr := tr.FromReader(rb, src, len(payload))
					if _, err := tr.ToWriter(rb, io.Discard, len(payload)); err != nil {
						b.Fatal(err)
					}
					if rerr == io.EOF {
						break
					}
					if rerr != nil {
						b.Fatal(rerr)
					}
				}
			}
		})
	}
}
