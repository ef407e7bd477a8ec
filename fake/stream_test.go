package fake

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriter_LimitAlreadyExceeded(t *testing.T) {
	boom := errors.New("boom")
	w := &Writer{Limit: 4, Err: boom}
	w.Buffer.WriteString("abcdef")

	n, err := w.Write([]byte("xyz"))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "abcdef", w.String())
}

func TestWriter_LimitAndPerCall(t *testing.T) {
	boom := errors.New("boom")
	w := &Writer{PerCall: 2, Limit: 5, Err: boom}

	n, err := w.Write([]byte("abc"))
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.ErrShortWrite)

	n, err = w.Write([]byte("cdef"))
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.ErrShortWrite)

	n, err = w.Write([]byte("ef"))
	assert.Equal(t, 1, n)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "abcde", w.String())
}
