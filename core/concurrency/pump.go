// File: core/concurrency/pump.go
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pump drives one side of a ring from its own goroutine. It calls a step
// function in a loop and backs off exponentially while the step makes no
// progress, so a producer waiting for room or a consumer waiting for data
// does not spin. The ring itself never blocks; all waiting lives here.

package concurrency

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// StepFunc moves some bytes and reports how many moved. done ends the pump
// without error; a non-nil err ends it with that error.
type StepFunc func() (moved int, done bool, err error)

// Pump runs a StepFunc with adaptive backoff until it is done or stopped.
type Pump struct {
	step       StepFunc
	maxBackoff time.Duration
	quitCh     chan struct{} // closed on Stop()
	doneCh     chan struct{} // closed after Run() exits
	stopOnce   sync.Once
	started    atomic.Bool
	moved      atomic.Int64
	idle       atomic.Int64
}

const defaultMaxBackoff = time.Millisecond

// NewPump creates a pump. maxBackoff <= 0 selects one millisecond.
func NewPump(step StepFunc, maxBackoff time.Duration) *Pump {
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}
	return &Pump{
		step:       step,
		maxBackoff: maxBackoff,
		quitCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Run calls the step function until it reports done, fails, the context is
// canceled or Stop is called. A pump runs at most once.
func (p *Pump) Run(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return ErrPumpRunning
	}
	defer close(p.doneCh)

	backoff := time.Nanosecond

	// Create a reusable timer, initially stopped
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.quitCh:
			return ErrPumpStopped
		default:
		}

		moved, done, err := p.step()
		if moved > 0 {
			p.moved.Add(int64(moved))
		}
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if moved > 0 {
			backoff = time.Nanosecond
			continue
		}

		p.idle.Add(1)
		timer.Reset(backoff)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-p.quitCh:
			return ErrPumpStopped
		case <-timer.C:
			backoff *= 2
			if backoff > p.maxBackoff {
				backoff = p.maxBackoff
			}
		}
	}
}

// Stop signals Run to exit and waits for it if it was started.
func (p *Pump) Stop() {
	p.stopOnce.Do(func() { close(p.quitCh) })
	if p.started.Load() {
		<-p.doneCh
	}
}

// Moved returns the total bytes reported by the step function so far.
func (p *Pump) Moved() int64 {
	return p.moved.Load()
}

// IdleRounds returns how many times the pump backed off.
func (p *Pump) IdleRounds() int64 {
	return p.idle.Load()
}
