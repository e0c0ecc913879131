package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	defaultLogLevel     = "NOTICE"
	defaultOneTimeKeys  = 100
	defaultLowWaterMark = 20
	defaultMaxLookahead = 1000
	defaultMaxPoolSize  = 1000
	defaultDatabaseFile = "keyring.db"
)

// Logging is the logging configuration.
type Logging struct {
	// Disable disables logging entirely.
	Disable bool

	// File specifies the log file, if omitted stdout will be used.
	File string

	// Level specifies the log level.
	Level string
}

func (lCfg *Logging) validate() error {
	lvl := strings.ToUpper(lCfg.Level)
	switch lvl {
	case "ERROR", "WARNING", "NOTICE", "INFO", "DEBUG":
	case "":
		lvl = defaultLogLevel
	default:
		return fmt.Errorf("config: Logging: Level '%v' is invalid", lCfg.Level)
	}
	lCfg.Level = lvl // Force uppercase.
	return nil
}

// Keyring is the counselor keyring configuration.
type Keyring struct {
	// DataDir is the directory holding the keyring database.
	DataDir string

	// Database is the bbolt file name, relative to DataDir unless absolute.
	Database string

	// OneTimeKeys is how many one-time pre-keys init and replenish create.
	OneTimeKeys int

	// MaxOneTimeKeys caps the size of the one-time pre-key pool.
	MaxOneTimeKeys int

	// LowWaterMark is the pool size below which the keyring asks to be
	// replenished.
	LowWaterMark int

	// MaxLookahead caps how far ahead of the expected sequence a decryptor
	// derives keys for out-of-order messages.
	MaxLookahead int
}

func (kCfg *Keyring) applyDefaults() {
	if kCfg.Database == "" {
		kCfg.Database = defaultDatabaseFile
	}
	if kCfg.OneTimeKeys == 0 {
		kCfg.OneTimeKeys = defaultOneTimeKeys
	}
	if kCfg.MaxOneTimeKeys == 0 {
		kCfg.MaxOneTimeKeys = max(defaultMaxPoolSize, kCfg.OneTimeKeys)
	}
	if kCfg.LowWaterMark == 0 {
		kCfg.LowWaterMark = min(defaultLowWaterMark, kCfg.OneTimeKeys)
	}
	if kCfg.MaxLookahead == 0 {
		kCfg.MaxLookahead = defaultMaxLookahead
	}
}

func (kCfg *Keyring) validate() error {
	if kCfg.DataDir == "" {
		return errors.New("config: Keyring: DataDir is not set")
	}
	if !filepath.IsAbs(kCfg.DataDir) {
		return fmt.Errorf("config: Keyring: DataDir '%v' is not an absolute path", kCfg.DataDir)
	}
	if kCfg.OneTimeKeys < 0 || kCfg.MaxOneTimeKeys < 0 || kCfg.LowWaterMark < 0 || kCfg.MaxLookahead < 0 {
		return errors.New("config: Keyring: counts must not be negative")
	}
	if kCfg.OneTimeKeys > kCfg.MaxOneTimeKeys {
		return fmt.Errorf("config: Keyring: OneTimeKeys %d exceeds MaxOneTimeKeys %d", kCfg.OneTimeKeys, kCfg.MaxOneTimeKeys)
	}
	if kCfg.LowWaterMark > kCfg.OneTimeKeys {
		return fmt.Errorf("config: Keyring: LowWaterMark %d exceeds OneTimeKeys %d", kCfg.LowWaterMark, kCfg.OneTimeKeys)
	}
	return nil
}

// DatabasePath returns the absolute path of the keyring database.
func (kCfg *Keyring) DatabasePath() string {
	if filepath.IsAbs(kCfg.Database) {
		return kCfg.Database
	}
	return filepath.Join(kCfg.DataDir, kCfg.Database)
}

// Config is the top level configuration.
type Config struct {
	Logging *Logging
	Keyring *Keyring
}

// FixupAndValidate applies defaults to config entries and validates the
// supplied configuration.
func (cfg *Config) FixupAndValidate() error {
	if cfg.Keyring == nil {
		return errors.New("config: No Keyring block was present")
	}
	if cfg.Logging == nil {
		cfg.Logging = &Logging{}
	}
	cfg.Keyring.applyDefaults()

	if err := cfg.Logging.validate(); err != nil {
		return err
	}
	return cfg.Keyring.validate()
}

// Default returns a validated configuration rooted at dataDir.
func Default(dataDir string) (*Config, error) {
	cfg := &Config{Keyring: &Keyring{DataDir: dataDir}}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load parses and validates the provided buffer b as a config file body and
// returns the Config.
func Load(b []byte) (*Config, error) {
	if b == nil {
		return nil, errors.New("config: no nil buffer as config file")
	}

	cfg := new(Config)
	md, err := toml.Decode(string(b), cfg)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, fmt.Errorf("config: Undecoded keys in config file: %v", undecoded)
	}
	if err := cfg.FixupAndValidate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile loads, parses and validates the provided file and returns the
// Config.
func LoadFile(f string) (*Config, error) {
	b, err := os.ReadFile(f)
	if err != nil {
		return nil, err
	}
	return Load(b)
}

// Store writes cfg to fileName in TOML form.
func Store(cfg *Config, fileName string) error {
	f, err := os.OpenFile(fileName, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
