package log_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"confidant/internal/log"
)

func TestBackend_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confidant.log")
	b, err := log.New(path, "INFO", false)
	require.NoError(t, err)

	l := b.GetLogger("keyring")
	l.Debug("hidden")
	l.Noticef("pool at %d", 7)
	require.NoError(t, b.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "keyring: pool at 7")
	require.NotContains(t, string(data), "hidden")
}

func TestBackend_InvalidLevel(t *testing.T) {
	_, err := log.New("", "LOUD", false)
	require.Error(t, err)
}
