//go:build windows
// +build windows

package affinity

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/circfifo/api"
)

func TestSetAffinityPlatform_BeyondFirstGroup(t *testing.T) {
	assert.ErrorIs(t, setAffinityPlatform(bits.UintSize), api.ErrNotSupported)
	assert.ErrorIs(t, setAffinityPlatform(bits.UintSize+3), api.ErrNotSupported)
}
