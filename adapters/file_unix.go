// File: adapters/file_unix.go
//go:build unix

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// File-descriptor transfers. The descriptor stays owned by the caller and is
// never closed here.

package adapters

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/momentics/circfifo/api"
)

type fdReader int

func (fd fdReader) Read(p []byte) (int, error) {
	for {
		n, err := unix.Read(int(fd), p)
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return 0, nil
		case err != nil:
			return 0, errors.Wrapf(err, "read fd %d", int(fd))
		case n == 0:
			return 0, io.EOF
		}
		return n, nil
	}
}

type fdWriter int

func (fd fdWriter) Write(p []byte) (int, error) {
	total := 0
	for total < len(p) {
		n, err := unix.Write(int(fd), p[total:])
		if n > 0 {
			total += n
		}
		switch {
		case err == unix.EINTR:
			continue
		case err == unix.EAGAIN:
			return total, io.ErrShortWrite
		case err != nil:
			return total, errors.Wrapf(err, "write fd %d", int(fd))
		}
	}
	return total, nil
}

// ToFile drains up to n bytes from r into the file descriptor fd.
func ToFile(r api.ByteRing, fd int, n int) (int, error) {
	if fd < 0 {
		return 0, api.InvalidArgument("to_file", "invalid file descriptor").WithContext("fd", fd)
	}
	return ToWriter(r, fdWriter(fd), n)
}

// FromFile fills r with up to n bytes read from the file descriptor fd.
// io.EOF is returned once the descriptor reaches end of file.
func FromFile(r api.ByteRing, fd int, n int) (int, error) {
	if fd < 0 {
		return 0, api.InvalidArgument("from_file", "invalid file descriptor").WithContext("fd", fd)
	}
	return FromReader(r, fdReader(fd), n)
}
