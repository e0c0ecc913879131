package keyring

import (
	"fmt"

	"confidant/internal/crypto"
	"confidant/internal/domain"
	"confidant/internal/protocol/x3dh"
)

// oneTimeKeysMessage is the byte string covered by OneTimeKeysSignature:
// the public keys concatenated in bundle order.
func oneTimeKeysMessage(keys []domain.X25519Public) []byte {
	msg := make([]byte, 0, len(keys)*len(domain.X25519Public{}))
	for _, k := range keys {
		msg = append(msg, k[:]...)
	}
	return msg
}

// VerifyPreKeyBundle checks both signatures of a published bundle.
func VerifyPreKeyBundle(signing domain.Ed25519Public, b domain.NewPreKeyBundle) error {
	if !x3dh.VerifyPreKey(signing, b.SignedPreKey, b.PreKeySignature) {
		return x3dh.ErrInvalidSignature
	}
	if !crypto.VerifyEd25519(signing, oneTimeKeysMessage(b.OneTimeKeys), b.OneTimeKeysSignature) {
		return fmt.Errorf("%w: one-time keys", x3dh.ErrInvalidSignature)
	}
	return nil
}

// SplitPreKeyBundle verifies b and expands it into one KeyExchangeBundle per
// one-time key, ready to hand out to guests.
func SplitPreKeyBundle(signing domain.Ed25519Public, b domain.NewPreKeyBundle) ([]domain.KeyExchangeBundle, error) {
	if err := VerifyPreKeyBundle(signing, b); err != nil {
		return nil, err
	}
	out := make([]domain.KeyExchangeBundle, 0, len(b.OneTimeKeys))
	for _, otk := range b.OneTimeKeys {
		out = append(out, domain.KeyExchangeBundle{
			SigningKey:      signing,
			SignedPreKey:    b.SignedPreKey,
			PreKeySignature: b.PreKeySignature,
			OneTimeKey:      otk,
		})
	}
	return out, nil
}
