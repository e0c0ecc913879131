package app_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"confidant/internal/app"
	"confidant/internal/config"
	"confidant/internal/keyring"
	"confidant/internal/store"
)

const goodPassphrase = "Tr0ub4dor&3-horse"

func openApp(t *testing.T, dir string) *app.App {
	t.Helper()
	cfg, err := config.Default(dir)
	require.NoError(t, err)
	cfg.Logging.Disable = true
	cfg.Keyring.OneTimeKeys = 5
	cfg.Keyring.LowWaterMark = 2

	a, err := app.Open(cfg, store.WithScryptParams(1<<10, 8, 1))
	require.NoError(t, err)
	return a
}

func TestApp_InitAndReload(t *testing.T) {
	dir := t.TempDir()
	a := openApp(t, dir)

	c, err := a.Init(goodPassphrase)
	require.NoError(t, err)
	n, err := c.Remaining()
	require.NoError(t, err)
	require.Equal(t, 5, n)

	_, err = a.Init(goodPassphrase)
	require.ErrorIs(t, err, app.ErrIdentityExists)
	require.NoError(t, a.Close())

	a = openApp(t, dir)
	defer a.Close()

	reloaded, err := a.Counselor(goodPassphrase)
	require.NoError(t, err)
	require.Equal(t, c.Fingerprint(), reloaded.Fingerprint())
	n, err = reloaded.Remaining()
	require.NoError(t, err)
	require.Equal(t, 5, n)

	_, err = a.Counselor("Wrong-passphrase-1")
	require.ErrorIs(t, err, store.ErrWrongPassphrase)
}

func TestApp_WeakPassphrase(t *testing.T) {
	a := openApp(t, t.TempDir())
	defer a.Close()

	for _, p := range []string{"", "short1!A", "alllowercase-123", "NoDigitsHere!!", "NoSymbols12345"} {
		_, err := a.Init(p)
		require.ErrorIs(t, err, app.ErrWeakPassphrase, p)
	}
}

func TestApp_RotatePreKeyPersists(t *testing.T) {
	a := openApp(t, t.TempDir())
	defer a.Close()

	c, err := a.Init(goodPassphrase)
	require.NoError(t, err)
	before, err := c.PreKeyBundle()
	require.NoError(t, err)

	pub, err := a.RotatePreKey(goodPassphrase)
	require.NoError(t, err)
	require.True(t, pub.SigningPrivate.IsZero())
	require.NotEqual(t, before.SignedPreKey, pub.PreKeyPublic)

	reloaded, err := a.Counselor(goodPassphrase)
	require.NoError(t, err)
	after, err := reloaded.PreKeyBundle()
	require.NoError(t, err)
	require.Equal(t, pub.PreKeyPublic, after.SignedPreKey)
	require.NoError(t, keyring.VerifyPreKeyBundle(reloaded.SigningPublic(), after))
}

func TestApp_PersistentExchange(t *testing.T) {
	a := openApp(t, t.TempDir())
	defer a.Close()

	c, err := a.Init(goodPassphrase)
	require.NoError(t, err)
	published, err := c.PreKeyBundle()
	require.NoError(t, err)
	bundles, err := keyring.SplitPreKeyBundle(c.SigningPublic(), published)
	require.NoError(t, err)

	g, err := keyring.NewGuest(a.KeyringOptions("guest")...)
	require.NoError(t, err)
	guest, intro, err := g.Exchange(bundles[0])
	require.NoError(t, err)

	counselor, err := c.Exchange(intro)
	require.NoError(t, err)

	msg, err := guest.Encryptor.Encrypt([]byte("hello"), nil)
	require.NoError(t, err)
	pt, err := counselor.Decryptor.Decrypt(msg)
	require.NoError(t, err)
	require.Equal(t, "hello", string(pt))

	// The consumed key is gone from the database too.
	_, err = c.Exchange(intro)
	require.ErrorIs(t, err, keyring.ErrUnknownOneTimeKey)
}

func TestApp_FailedInitCanBeRerun(t *testing.T) {
	a := openApp(t, t.TempDir())
	defer a.Close()

	// Asking for more keys than the pool may hold fails before anything
	// is persisted.
	a.Config.Keyring.OneTimeKeys = a.Config.Keyring.MaxOneTimeKeys + 1
	_, err := a.Init(goodPassphrase)
	require.ErrorIs(t, err, keyring.ErrKeyPoolFull)

	ok, err := a.Store.HasIdentity()
	require.NoError(t, err)
	require.False(t, ok)
	n, err := a.Store.Len()
	require.NoError(t, err)
	require.Zero(t, n)

	a.Config.Keyring.OneTimeKeys = 5
	c, err := a.Init(goodPassphrase)
	require.NoError(t, err)
	n, err = c.Remaining()
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestApp_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	a := openApp(t, dir)
	defer a.Close()

	path := filepath.Join(dir, "confidant.toml")
	wrote, err := a.SaveConfig(path)
	require.NoError(t, err)
	require.True(t, wrote)

	got, err := config.LoadFile(path)
	require.NoError(t, err)
	require.Equal(t, a.Config, got)

	// An existing file is left alone.
	wrote, err = a.SaveConfig(path)
	require.NoError(t, err)
	require.False(t, wrote)
}
