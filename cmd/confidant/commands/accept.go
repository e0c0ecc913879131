package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"confidant/internal/wire"
)

func acceptCmd() *cobra.Command {
	var reply string
	cmd := &cobra.Command{
		Use:   "accept <introduction> [message...]",
		Short: "Accept a guest introduction and decrypt the messages that came with it",
		Long: "Run the counselor side of the handshake for a guest introduction. This\n" +
			"consumes the one-time pre-key it names. Any further arguments are\n" +
			"encrypted messages from the guest and are printed in plain text. With\n" +
			"--reply, print an encrypted reply.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := decodeArg("introduction", args[0])
			if err != nil {
				return err
			}
			intro, err := wire.UnmarshalIntroduction(raw)
			if err != nil {
				return err
			}

			c, err := appCtx.Counselor(passphrase)
			if err != nil {
				return err
			}
			sess, err := c.Exchange(intro)
			if err != nil {
				return err
			}
			defer sess.Wipe()

			out := cmd.OutOrStdout()
			for i, arg := range args[1:] {
				raw, err := decodeArg(fmt.Sprintf("message %d", i+1), arg)
				if err != nil {
					return err
				}
				msg, err := wire.UnmarshalMessage(raw)
				if err != nil {
					return err
				}
				pt, err := sess.Decryptor.Decrypt(msg)
				if err != nil {
					return fmt.Errorf("message %d: %w", i+1, err)
				}
				fmt.Fprintf(out, "guest[%d]: %s\n", msg.Sequence, pt)
			}

			if reply != "" {
				sealed, err := sess.Encryptor.Encrypt([]byte(reply), nil)
				if err != nil {
					return err
				}
				if raw, err = wire.MarshalMessage(sealed); err != nil {
					return err
				}
				fmt.Fprintf(out, "reply: %s\n", wire.EncodeText(raw))
			}
			if c.NeedsReplenish() {
				fmt.Fprintln(out, "Pool is below the low-water mark; run replenish.")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&reply, "reply", "r", "", "reply to encrypt for the guest")
	return cmd
}
