package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"confidant/internal/keyring"
	"confidant/internal/wire"
)

func bundleCmd() *cobra.Command {
	var split bool
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Print the signed pre-key bundle for publication",
		Long: "Print the signing key and the signed pre-key bundle, CBOR encoded and\n" +
			"base58 armored. With --split, print one exchange bundle per one-time key\n" +
			"instead, ready to hand to guests.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appCtx.Counselor(passphrase)
			if err != nil {
				return err
			}
			b, err := c.PreKeyBundle()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			signing := c.SigningPublic()
			fmt.Fprintf(out, "signing-key: %s\n", wire.EncodeText(signing[:]))

			if !split {
				raw, err := wire.Marshal(b)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "bundle: %s\n", wire.EncodeText(raw))
				return nil
			}

			bundles, err := keyring.SplitPreKeyBundle(signing, b)
			if err != nil {
				return err
			}
			for _, eb := range bundles {
				raw, err := wire.Marshal(eb)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, wire.EncodeText(raw))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&split, "split", false, "print one exchange bundle per one-time key")
	return cmd
}
