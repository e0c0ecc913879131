package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/op/go-logging.v1"

	"confidant/internal/config"
	"confidant/internal/domain"
	"confidant/internal/keyring"
	"confidant/internal/log"
	"confidant/internal/store"
)

// ErrIdentityExists is returned by Init when the database already holds a
// counselor identity.
var ErrIdentityExists = errors.New("app: counselor identity already exists")

// App bundles the configured log backend and keyring database.
type App struct {
	Config *config.Config
	Log    *log.Backend
	Store  *store.Bolt

	log *logging.Logger
}

// Open builds the dependency graph from cfg. The caller must Close the App.
func Open(cfg *config.Config, storeOpts ...store.BoltOption) (*App, error) {
	backend, err := log.New(cfg.Logging.File, cfg.Logging.Level, cfg.Logging.Disable)
	if err != nil {
		return nil, fmt.Errorf("app: logging: %w", err)
	}
	if err := os.MkdirAll(cfg.Keyring.DataDir, 0o700); err != nil {
		_ = backend.Close()
		return nil, err
	}
	db, err := store.OpenBolt(cfg.Keyring.DatabasePath(), storeOpts...)
	if err != nil {
		_ = backend.Close()
		return nil, fmt.Errorf("app: open keyring database: %w", err)
	}

	a := &App{
		Config: cfg,
		Log:    backend,
		Store:  db,
		log:    backend.GetLogger("app"),
	}
	a.log.Debugf("Opened keyring database %s", cfg.Keyring.DatabasePath())
	return a, nil
}

// Close releases the database and the log backend.
func (a *App) Close() error {
	err := a.Store.Close()
	if cerr := a.Log.Close(); err == nil {
		err = cerr
	}
	return err
}

// Init creates and persists a counselor identity sealed with passphrase, and
// fills the one-time pool.
func (a *App) Init(passphrase string) (*keyring.Counselor, error) {
	if !isSecurePassphrase(passphrase) {
		return nil, ErrWeakPassphrase
	}
	ok, err := a.Store.HasIdentity()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, ErrIdentityExists
	}

	id, err := keyring.GenerateIdentity()
	if err != nil {
		return nil, err
	}
	c, err := a.newCounselor(id)
	if err != nil {
		return nil, err
	}
	// The identity is saved last so a failed init can simply be rerun.
	if _, err := c.Replenish(a.Config.Keyring.OneTimeKeys); err != nil {
		return nil, err
	}
	if err := a.Store.SaveIdentity(passphrase, id); err != nil {
		return nil, err
	}
	return c, nil
}

// Counselor loads the stored identity and returns a keyring over the
// persistent one-time pool.
func (a *App) Counselor(passphrase string) (*keyring.Counselor, error) {
	id, err := a.Store.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	return a.newCounselor(id)
}

// RotatePreKey replaces the signed pre-key and persists the new identity.
func (a *App) RotatePreKey(passphrase string) (domain.CounselorIdentity, error) {
	c, err := a.Counselor(passphrase)
	if err != nil {
		return domain.CounselorIdentity{}, err
	}
	id, err := c.RotatePreKey()
	if err != nil {
		return domain.CounselorIdentity{}, err
	}
	if err := a.Store.SaveIdentity(passphrase, id); err != nil {
		return domain.CounselorIdentity{}, err
	}
	return id.PublicOnly(), nil
}

// SaveConfig writes the active configuration to path unless a file already
// exists there. It reports whether the file was written.
func (a *App) SaveConfig(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := config.Store(a.Config, path); err != nil {
		return false, err
	}
	return true, nil
}

// KeyringOptions returns the keyring options derived from the configuration.
func (a *App) KeyringOptions(module string) []keyring.Option {
	return []keyring.Option{
		keyring.WithLogger(a.Log.GetLogger(module)),
		keyring.WithMaxLookahead(a.Config.Keyring.MaxLookahead),
		keyring.WithLowWaterMark(a.Config.Keyring.LowWaterMark),
		keyring.WithMaxPoolSize(a.Config.Keyring.MaxOneTimeKeys),
	}
}

func (a *App) newCounselor(id domain.CounselorIdentity) (*keyring.Counselor, error) {
	return keyring.NewCounselor(id, a.Store, a.KeyringOptions("counselor")...)
}
