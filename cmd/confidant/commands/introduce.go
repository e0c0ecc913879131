package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"confidant/internal/keyring"
	"confidant/internal/wire"
)

func introduceCmd() *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "introduce <exchange-bundle>",
		Short: "Act as a guest: run an exchange against a bundle and print the introduction",
		Long: "Run the guest side of the handshake against one exchange bundle (as\n" +
			"printed by bundle --split) and print the introduction for the counselor.\n" +
			"With --message, also print the first encrypted message.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeArg("bundle", args[0])
			if err != nil {
				return err
			}
			bundle, err := wire.UnmarshalKeyExchangeBundle(raw)
			if err != nil {
				return err
			}

			g, err := keyring.NewGuest(appCtx.KeyringOptions("guest")...)
			if err != nil {
				return err
			}
			sess, intro, err := g.Exchange(bundle)
			if err != nil {
				return err
			}
			defer sess.Wipe()

			out := cmd.OutOrStdout()
			if raw, err = wire.Marshal(intro); err != nil {
				return err
			}
			fmt.Fprintf(out, "introduction: %s\n", wire.EncodeText(raw))

			if message == "" {
				return nil
			}
			sealed, err := sess.Encryptor.Encrypt([]byte(message), nil)
			if err != nil {
				return err
			}
			if raw, err = wire.MarshalMessage(sealed); err != nil {
				return err
			}
			fmt.Fprintf(out, "message: %s\n", wire.EncodeText(raw))
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "first message to encrypt")
	return cmd
}
