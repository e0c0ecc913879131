package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate the counselor identity and one-time pre-key pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			c, err := appCtx.Init(passphrase)
			if err != nil {
				return err
			}
			n, err := c.Remaining()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Identity created.\nFingerprint: %s\nOne-time keys: %d\n", c.Fingerprint(), n)

			if configFile == "" {
				path := filepath.Join(appCtx.Config.Keyring.DataDir, "confidant.toml")
				wrote, err := appCtx.SaveConfig(path)
				if err != nil {
					return err
				}
				if wrote {
					fmt.Fprintf(out, "Config written to %s\n", path)
				}
			}
			return nil
		},
	}
}
