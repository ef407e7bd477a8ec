//go:build linux
// +build linux

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMapped_Linux(t *testing.T) {
	r, err := NewMapped(1 << 16)
	require.NoError(t, err)
	assert.Equal(t, KindMmap, r.Kind())

	b := r.Bytes()
	b[0], b[len(b)-1] = 1, 2
	assert.Equal(t, byte(2), r.Bytes()[len(b)-1])
	require.NoError(t, r.Release())
}
