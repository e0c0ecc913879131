package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"confidant/internal/app"
	"confidant/internal/config"
	"confidant/internal/wire"
)

var (
	configFile string
	dataDir    string
	passphrase string
	appCtx     *app.App
)

// Execute runs the root command.
func Execute() error {
	return run(newRootCmd())
}

// run executes root and closes the app context it opened.
func run(root *cobra.Command) error {
	err := root.Execute()
	if appCtx != nil {
		if cerr := appCtx.Close(); err == nil {
			err = cerr
		}
		appCtx = nil
	}
	return err
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "confidant",
		Short:        "Counselor keyring for anonymous end-to-end encrypted conversations",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			appCtx, err = app.Open(cfg)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML config file")
	root.PersistentFlags().StringVar(&dataDir, "datadir", "", "data dir when no config is given (default ~/.confidant)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the counselor identity")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		bundleCmd(),
		replenishCmd(),
		rotatePreKeyCmd(),
		handshakeCmd(),
		introduceCmd(),
		acceptCmd(),
	)
	return root
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFile(configFile)
	}
	if dataDir == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(dir, ".confidant")
	}
	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Default(abs)
	if err != nil {
		return nil, err
	}
	cfg.Logging.Level = "WARNING"
	return cfg, nil
}

func requirePassphrase() error {
	if passphrase == "" {
		return fmt.Errorf("passphrase required (-p)")
	}
	return nil
}

// decodeArg reads a base58 CBOR argument.
func decodeArg(what, s string) ([]byte, error) {
	b, err := wire.DecodeText(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return b, nil
}
