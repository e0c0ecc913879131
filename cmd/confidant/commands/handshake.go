package commands

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"confidant/internal/domain"
	"confidant/internal/keyring"
	"confidant/internal/wire"
)

func handshakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handshake",
		Short: "Run a local guest/counselor round trip against the stored keyring",
		Long: "Run a guest exchange against the stored keyring and send one message in\n" +
			"each direction, passing everything through the wire encoding. This\n" +
			"consumes one one-time pre-key.",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := appCtx.Counselor(passphrase)
			if err != nil {
				return err
			}
			return roundTrip(cmd, c)
		},
	}
}

func roundTrip(cmd *cobra.Command, c *keyring.Counselor) error {
	published, err := c.PreKeyBundle()
	if err != nil {
		return err
	}
	raw, err := wire.Marshal(published)
	if err != nil {
		return err
	}
	received, err := wire.UnmarshalPreKeyBundle(raw)
	if err != nil {
		return err
	}
	bundles, err := keyring.SplitPreKeyBundle(c.SigningPublic(), received)
	if err != nil {
		return err
	}

	g, err := keyring.NewGuest(appCtx.KeyringOptions("guest")...)
	if err != nil {
		return err
	}
	guest, intro, err := g.Exchange(bundles[0])
	if err != nil {
		return fmt.Errorf("guest exchange: %w", err)
	}
	defer guest.Wipe()

	if raw, err = wire.Marshal(intro); err != nil {
		return err
	}
	if intro, err = wire.UnmarshalIntroduction(raw); err != nil {
		return err
	}
	counselor, err := c.Exchange(intro)
	if err != nil {
		return fmt.Errorf("counselor exchange: %w", err)
	}
	defer counselor.Wipe()

	hello := []byte("confidant handshake check")
	if err := relay(guest.Encryptor.Encrypt, counselor.Decryptor.Decrypt, hello); err != nil {
		return fmt.Errorf("guest to counselor: %w", err)
	}
	if err := relay(counselor.Encryptor.Encrypt, guest.Decryptor.Decrypt, hello); err != nil {
		return fmt.Errorf("counselor to guest: %w", err)
	}

	n, err := c.Remaining()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Handshake OK with %s; %d one-time keys remain.\n", c.Fingerprint(), n)
	return nil
}

// relay seals msg, moves it through the wire codec and opens it again.
func relay(
	encrypt func(plaintext, ad []byte) (domain.EncryptedMessage, error),
	decrypt func(domain.EncryptedMessage) ([]byte, error),
	msg []byte,
) error {
	sealed, err := encrypt(msg, []byte("handshake"))
	if err != nil {
		return err
	}
	raw, err := wire.MarshalMessage(sealed)
	if err != nil {
		return err
	}
	received, err := wire.UnmarshalMessage(raw)
	if err != nil {
		return err
	}
	pt, err := decrypt(received)
	if err != nil {
		return err
	}
	if !bytes.Equal(pt, msg) {
		return errors.New("plaintext mismatch")
	}
	return nil
}
