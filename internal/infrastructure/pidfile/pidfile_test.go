package pidfile_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/bizsim-go/internal/infrastructure/pidfile"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bizsim.pid")
	p := pidfile.New(path)

	require.NoError(t, p.Acquire())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), strings.TrimSpace(string(data)))

	require.NoError(t, p.Acquire(), "re-acquiring our own file is allowed")
	require.NoError(t, p.Release())
	require.NoError(t, p.Release())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestAcquire_ReplacesGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bizsim.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o644))

	assert.NoError(t, pidfile.New(path).Acquire())
}
