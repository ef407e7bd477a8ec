package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/circfifo/api"
)

func runRingcat(t *testing.T, in []byte, args ...string) ([]byte, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetIn(bytes.NewReader(in))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.Bytes(), err
}

func TestRingcat_Copies(t *testing.T) {
	in := bytes.Repeat([]byte("0123456789abcdef"), 1000)

	out, err := runRingcat(t, in, "--capacity", "33", "--chunk", "7", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, in, out)

	out, err = runRingcat(t, in, "--capacity", "128", "--concurrent", "--log-level", "error")
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRingcat_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ringcat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 9\nchunk_size: 4\nlog_level: error\n"), 0o600))

	in := []byte("through a nine byte ring")
	out, err := runRingcat(t, in, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestRingcat_RejectsBadCapacity(t *testing.T) {
	_, err := runRingcat(t, nil, "--capacity", "1")
	assert.ErrorIs(t, err, api.ErrInvalidArgument)
}

func TestRingcat_Selftest(t *testing.T) {
	_, err := runRingcat(t, nil, "selftest", "--iterations", "2000", "--log-level", "error")
	assert.NoError(t, err)
}
