package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"confidant/internal/crypto"
)

func rotatePreKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rotate-prekey",
		Short: "Replace the signed pre-key",
		Long: "Replace the signed pre-key. Bundles published before the rotation stop\n" +
			"working, so publish a fresh bundle afterwards.",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := appCtx.RotatePreKey(passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed pre-key %s rotated at %s\n",
				crypto.Fingerprint(id.PreKeyPublic.Slice()),
				time.Unix(id.RotatedAt, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}
}
