package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the counselor fingerprint and pool status",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appCtx.Counselor(passphrase)
			if err != nil {
				return err
			}
			n, err := c.Remaining()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fingerprint: %s\n", c.Fingerprint())
			fmt.Fprintf(out, "One-time keys: %d\n", n)
			if c.NeedsReplenish() {
				fmt.Fprintln(out, "Pool is below the low-water mark; run replenish.")
			}
			return nil
		},
	}
}
