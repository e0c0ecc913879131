package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"confidant/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load([]byte(`
[Keyring]
  DataDir = "/var/lib/confidant"
`))
	require.NoError(t, err)
	require.Equal(t, "NOTICE", cfg.Logging.Level)
	require.Equal(t, 100, cfg.Keyring.OneTimeKeys)
	require.Equal(t, 20, cfg.Keyring.LowWaterMark)
	require.Equal(t, 1000, cfg.Keyring.MaxLookahead)
	require.Equal(t, 1000, cfg.Keyring.MaxOneTimeKeys)
	require.Equal(t, "/var/lib/confidant/keyring.db", cfg.Keyring.DatabasePath())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := config.Load([]byte(`
[Logging]
  Level = "debug"
  File = "/tmp/c.log"

[Keyring]
  DataDir = "/srv/c"
  Database = "/srv/other.db"
  OneTimeKeys = 10
  LowWaterMark = 2
  MaxLookahead = 50
`))
	require.NoError(t, err)
	require.Equal(t, "DEBUG", cfg.Logging.Level)
	require.Equal(t, 10, cfg.Keyring.OneTimeKeys)
	require.Equal(t, "/srv/other.db", cfg.Keyring.DatabasePath())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"no keyring":     `[Logging]`,
		"relative dir":   "[Keyring]\nDataDir = \"rel\"",
		"bad level":      "[Logging]\nLevel = \"LOUD\"\n[Keyring]\nDataDir = \"/x\"",
		"unknown key":    "[Keyring]\nDataDir = \"/x\"\nBogus = 1",
		"water too high": "[Keyring]\nDataDir = \"/x\"\nOneTimeKeys = 5\nLowWaterMark = 6",
		"pool too small": "[Keyring]\nDataDir = \"/x\"\nOneTimeKeys = 50\nMaxOneTimeKeys = 10",
	}
	for name, body := range cases {
		_, err := config.Load([]byte(body))
		require.Error(t, err, name)
	}
	_, err := config.Load(nil)
	require.Error(t, err)
}

func TestStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.Default(dir)
	require.NoError(t, err)

	path := filepath.Join(dir, "confidant.toml")
	require.NoError(t, config.Store(cfg, path))

	got, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}
