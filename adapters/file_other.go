// File: adapters/file_other.go
//go:build !unix

// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package adapters

import "github.com/momentics/circfifo/api"

// ToFile is not supported on this platform.
func ToFile(r api.ByteRing, fd int, n int) (int, error) {
	return 0, api.NewError(api.ErrCodeNotSupported, "fd transfer not supported").WithContext("op", "to_file")
}

// FromFile is not supported on this platform.
func FromFile(r api.ByteRing, fd int, n int) (int, error) {
	return 0, api.NewError(api.ErrCodeNotSupported, "fd transfer not supported").WithContext("op", "from_file")
}
