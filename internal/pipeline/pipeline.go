// File: internal/pipeline/pipeline.go
// Package pipeline copies a stream through a ring.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Sequential mode alternates fill and drain on one goroutine over a
// RingBuffer. Concurrent mode runs a producer pump and a consumer pump over an
// SPSC ring, one goroutine each.

package pipeline

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/momentics/circfifo/adapters"
	"github.com/momentics/circfifo/affinity"
	"github.com/momentics/circfifo/api"
	"github.com/momentics/circfifo/control"
	"github.com/momentics/circfifo/core/concurrency"
	"github.com/momentics/circfifo/core/ring"
	"github.com/momentics/circfifo/pool"
)

// Stats summarizes one run.
type Stats struct {
	BytesIn     int64
	BytesOut    int64
	ShortWrites int64
	ShortReads  int64
	IdleRounds  int64
}

// Pipeline owns the storage and ring for one copy run.
type Pipeline struct {
	cfg      control.Config
	log      *zap.Logger
	counters *control.Counters
	probes   *control.DebugProbes
}

// New validates cfg and prepares a pipeline.
func New(cfg control.Config, log *zap.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	probes := control.NewDebugProbes()
	control.RegisterPlatformProbes(probes)
	return &Pipeline{
		cfg:      cfg,
		log:      log,
		counters: &control.Counters{},
		probes:   probes,
	}, nil
}

// Counters exposes the transfer counters of the pipeline.
func (p *Pipeline) Counters() *control.Counters { return p.counters }

// Probes exposes the debug probes of the pipeline.
func (p *Pipeline) Probes() *control.DebugProbes { return p.probes }

// Run copies src to dst until src is exhausted, an error occurs or ctx ends.
// Counters start from zero on every run. Runs must not overlap.
func (p *Pipeline) Run(ctx context.Context, src io.Reader, dst io.Writer) (Stats, error) {
	p.counters.Reset()
	region, err := pool.New(p.cfg.Storage, p.cfg.Capacity)
	if err != nil {
		return Stats{}, err
	}
	defer func() {
		if err := region.Release(); err != nil {
			p.log.Warn("release ring storage", zap.Error(err))
		}
	}()
	p.log.Debug("ring storage ready",
		zap.String("kind", region.Kind()), zap.Int("capacity", p.cfg.Capacity))

	var idle int64
	if p.cfg.Concurrent {
		idle, err = p.runConcurrent(ctx, region.Bytes(), src, dst)
	} else {
		err = p.runSequential(ctx, region.Bytes(), src, dst)
	}
	st := Stats{
		BytesIn:     p.counters.BytesWritten.Load(),
		BytesOut:    p.counters.BytesRead.Load(),
		ShortWrites: p.counters.ShortWrites.Load(),
		ShortReads:  p.counters.ShortReads.Load(),
		IdleRounds:  idle,
	}
	return st, err
}

func (p *Pipeline) runSequential(ctx context.Context, storage []byte, src io.Reader, dst io.Writer) error {
	rb, err := ring.New(storage, p.cfg.Capacity)
	if err != nil {
		return err
	}
	p.probes.RegisterRing("ring", rb)
	in := control.NewInstrumented(rb, p.counters, p.log)
	tr, err := adapters.NewTransfer(p.cfg.ChunkSize, p.log)
	if err != nil {
		return err
	}

	eof := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !eof {
			_, err := tr.FromReader(in, src, rb.Usable())
			switch {
			case err == io.EOF:
				eof = true
			case err != nil:
				return errors.Wrap(err, "fill ring")
			}
		}
		if rb.Len() > 0 {
			if err := p.drain(tr, rb, dst, rb.Len()); err != nil {
				return err
			}
		}
		if eof && rb.IsEmpty() {
			return nil
		}
	}
}

func (p *Pipeline) runConcurrent(ctx context.Context, storage []byte, src io.Reader, dst io.Writer) (int64, error) {
	s, err := concurrency.NewSPSC(storage, p.cfg.Capacity)
	if err != nil {
		return 0, err
	}
	p.probes.RegisterRing("ring", s)
	in := control.NewInstrumented(s, p.counters, p.log)
	fill, err := adapters.NewTransfer(p.cfg.ChunkSize, p.log)
	if err != nil {
		return 0, err
	}
	drain, err := adapters.NewTransfer(p.cfg.ChunkSize, p.log)
	if err != nil {
		return 0, err
	}

	var producerDone atomic.Bool
	producer := concurrency.NewPump(func() (int, bool, error) {
		n, err := fill.FromReader(in, src, p.cfg.ChunkSize)
		if err == io.EOF {
			producerDone.Store(true)
			return n, true, nil
		}
		return n, false, errors.Wrap(err, "fill ring")
	}, p.cfg.MaxBackoff)

	consumer := concurrency.NewPump(func() (int, bool, error) {
		// Sample the flag before the ring so a final write is never missed.
		finished := producerDone.Load()
		if s.Len() == 0 {
			return 0, finished, nil
		}
		n, err := drain.ToWriter(s, dst, p.cfg.ChunkSize)
		p.countDrain(n, p.cfg.ChunkSize)
		return n, false, err
	}, p.cfg.MaxBackoff)

	pinFailed := func(side string) func(error) {
		return func(err error) {
			p.log.Warn("cpu pin failed, running unpinned", zap.String("side", side), zap.Error(err))
		}
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return affinity.Pinned(p.cfg.ProducerCPU, pinFailed("producer"), func() error { return producer.Run(gctx) })
	})
	g.Go(func() error {
		return affinity.Pinned(p.cfg.ConsumerCPU, pinFailed("consumer"), func() error { return consumer.Run(gctx) })
	})
	err = g.Wait()
	return producer.IdleRounds() + consumer.IdleRounds(), err
}

func (p *Pipeline) drain(tr *adapters.Transfer, r api.ByteRing, dst io.Writer, n int) error {
	got, err := tr.ToWriter(r, dst, n)
	p.countDrain(got, n)
	return errors.Wrap(err, "drain ring")
}

func (p *Pipeline) countDrain(got, requested int) {
	p.counters.Reads.Inc()
	p.counters.BytesRead.Add(int64(got))
	if got < requested {
		p.counters.ShortReads.Inc()
	}
}
