// File: internal/selftest/selftest.go
// Package selftest replays the reference ring scenarios against every ring
// flavour and reports each mismatch.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package selftest

import (
	"bytes"
	"math/rand"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/momentics/circfifo/api"
	"github.com/momentics/circfifo/core/concurrency"
	"github.com/momentics/circfifo/core/ring"
)

// Factory builds an empty ring of the given physical capacity.
type Factory func(capacity int) (api.ByteRing, error)

// Flavours lists every ring implementation shipped by the module.
var Flavours = map[string]Factory{
	"ring": func(c int) (api.ByteRing, error) {
		return ring.New(make([]byte, c), c)
	},
	"spsc": func(c int) (api.ByteRing, error) {
		return concurrency.NewSPSC(make([]byte, c), c)
	},
	"locked": func(c int) (api.ByteRing, error) {
		rb, err := ring.New(make([]byte, c), c)
		if err != nil {
			return nil, err
		}
		return concurrency.NewLocked(rb)
	},
}

// Scenario checks one behaviour against a fresh ring from f. iterations
// bounds randomized scenarios and is ignored by fixed ones.
type Scenario struct {
	Name  string
	Check func(f Factory, iterations int) error
}

// Scenarios are the reference behaviours every flavour must show.
var Scenarios = []Scenario{
	{"capacity-100", checkCapacity100},
	{"capacity-2", checkCapacity2},
	{"zero-count", checkZeroCount},
	{"random-fifo", checkRandomFIFO},
}

// DefaultIterations bounds the randomized producer/consumer scenario.
const DefaultIterations = 100000

// Run executes all scenarios on all flavours and returns every failure.
// iterations <= 0 selects DefaultIterations.
func Run(log *zap.Logger, iterations int) error {
	if log == nil {
		log = zap.NewNop()
	}
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	var result *multierror.Error
	for name, f := range Flavours {
		for _, sc := range Scenarios {
			if err := sc.Check(f, iterations); err != nil {
				log.Error("scenario failed", zap.String("flavour", name),
					zap.String("scenario", sc.Name), zap.Error(err))
				result = multierror.Append(result, errors.Wrapf(err, "%s/%s", name, sc.Name))
				continue
			}
			log.Info("scenario passed", zap.String("flavour", name), zap.String("scenario", sc.Name))
		}
	}
	return result.ErrorOrNil()
}

func expect(op string, got, want int, err error) error {
	if err != nil {
		return errors.Wrapf(err, "%s: unexpected error", op)
	}
	if got != want {
		return errors.Errorf("%s: moved %d bytes, want %d", op, got, want)
	}
	return nil
}

func checkCapacity100(f Factory, _ int) error {
	r, err := f(100)
	if err != nil {
		return err
	}
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}
	out := make([]byte, 99)

	n, err := r.Write(data, 100)
	if err := expect("first write", n, 99, err); err != nil {
		return err
	}
	n, err = r.Write(data, 100)
	if err := expect("second write", n, 0, err); err != nil {
		return err
	}
	n, err = r.Read(out, 99)
	if err := expect("first read", n, 99, err); err != nil {
		return err
	}
	if !bytes.Equal(out, data[:99]) {
		return errors.New("first read: content mismatch")
	}
	n, err = r.Read(out, 99)
	return expect("second read", n, 0, err)
}

func checkCapacity2(f Factory, _ int) error {
	r, err := f(2)
	if err != nil {
		return err
	}
	data := []byte{0x5A, 0xA5}
	out := make([]byte, 2)

	n, err := r.Write(data, 2)
	if err := expect("first write", n, 1, err); err != nil {
		return err
	}
	n, err = r.Write(data, 2)
	if err := expect("second write", n, 0, err); err != nil {
		return err
	}
	n, err = r.Read(out, 2)
	if err := expect("first read", n, 1, err); err != nil {
		return err
	}
	if out[0] != data[0] {
		return errors.Errorf("first read: got %#x, want %#x", out[0], data[0])
	}
	n, err = r.Read(out, 2)
	return expect("second read", n, 0, err)
}

func checkZeroCount(f Factory, _ int) error {
	r, err := f(8)
	if err != nil {
		return err
	}
	buf := make([]byte, 8)
	if _, err := r.Write(buf, 0); api.CodeOf(err) != api.ErrCodeInvalidArgument {
		return errors.Errorf("write of 0: got %v, want invalid argument", err)
	}
	if _, err := r.Read(buf, 0); api.CodeOf(err) != api.ErrCodeInvalidArgument {
		return errors.Errorf("read of 0: got %v, want invalid argument", err)
	}
	return nil
}

func checkRandomFIFO(f Factory, iterations int) error {
	const capacity = 61
	r, err := f(capacity)
	if err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(1))
	buf := make([]byte, capacity)
	var produced, consumed uint64
	var written, read int

	for i := 0; i < iterations; i++ {
		if free := r.Free(); free > 0 {
			cnt := rng.Intn(free) + 1
			for j := 0; j < cnt; j++ {
				buf[j] = byte(produced)
				produced++
			}
			n, err := r.Write(buf, cnt)
			if err := expect("write", n, cnt, err); err != nil {
				return err
			}
			written += n
		}
		if occupied := r.Len(); occupied > 0 {
			cnt := rng.Intn(occupied) + 1
			n, err := r.Read(buf, cnt)
			if err := expect("read", n, cnt, err); err != nil {
				return err
			}
			for j := 0; j < n; j++ {
				if buf[j] != byte(consumed) {
					return errors.Errorf("byte %d: got %d, want %d", consumed, buf[j], byte(consumed))
				}
				consumed++
			}
			read += n
		}
		if written-read != r.Len() || r.Len() > capacity-1 {
			return errors.Errorf("iteration %d: occupied %d, conservation says %d", i, r.Len(), written-read)
		}
	}
	return nil
}
