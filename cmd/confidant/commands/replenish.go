package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func replenishCmd() *cobra.Command {
	var (
		count    int
		ifNeeded bool
	)
	cmd := &cobra.Command{
		Use:   "replenish",
		Short: "Add one-time pre-keys to the pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appCtx.Counselor(passphrase)
			if err != nil {
				return err
			}
			if ifNeeded && !c.NeedsReplenish() {
				fmt.Fprintln(cmd.OutOrStdout(), "Pool is above the low-water mark.")
				return nil
			}
			if count <= 0 {
				count = appCtx.Config.Keyring.OneTimeKeys
			}
			if _, err := c.Replenish(count); err != nil {
				return err
			}
			n, err := c.Remaining()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %d one-time keys; pool now holds %d.\n", count, n)
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 0, "number of keys to add (default from config)")
	cmd.Flags().BoolVar(&ifNeeded, "if-needed", false, "only add keys when below the low-water mark")
	return cmd
}
