package wire

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/mr-tron/base58"

	"confidant/internal/domain"
)

var (
	// ErrMalformed is returned for input that does not decode to the
	// expected structure.
	ErrMalformed = errors.New("wire: malformed encoding")

	// ErrInvalidNonce is returned when a message nonce is not 12 bytes.
	ErrInvalidNonce = errors.New("wire: nonce must be 12 bytes")

	// ErrInvalidKeyLength is returned when a key or signature field does not
	// have its fixed size.
	ErrInvalidKeyLength = errors.New("wire: key or signature has the wrong length")
)

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
	decMode, err = cbor.DecOptions{
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: 1 << 16,
	}.DecMode()
	if err != nil {
		panic(err)
	}
}

// Marshal encodes v with deterministic CBOR.
func Marshal(v any) ([]byte, error) {
	return encMode.Marshal(v)
}

// Unmarshal decodes CBOR b into v.
func Unmarshal(b []byte, v any) error {
	if err := decMode.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

// EncodeText armors b for copy/paste transport.
func EncodeText(b []byte) string {
	return base58.Encode(b)
}

// DecodeText reverses EncodeText.
func DecodeText(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return b, nil
}

// rawMessage mirrors domain.EncryptedMessage with a variable-length nonce so
// the length can be checked rather than silently truncated.
type rawMessage struct {
	Sequence       uint64                  `cbor:"1,keyasint"`
	Nonce          []byte                  `cbor:"2,keyasint"`
	Ciphertext     []byte                  `cbor:"3,keyasint"`
	AssociatedData []byte                  `cbor:"4,keyasint,omitempty"`
	Scheme         domain.EncryptionScheme `cbor:"5,keyasint"`
}

// MarshalMessage encodes an EncryptedMessage.
func MarshalMessage(m domain.EncryptedMessage) ([]byte, error) {
	return Marshal(rawMessage{
		Sequence:       m.Sequence,
		Nonce:          m.Nonce.Slice(),
		Ciphertext:     m.Ciphertext,
		AssociatedData: m.AssociatedData,
		Scheme:         m.Scheme,
	})
}

// UnmarshalMessage decodes an EncryptedMessage and checks the nonce length.
// The scheme is not checked here; the decryptor rejects unknown schemes.
func UnmarshalMessage(b []byte) (domain.EncryptedMessage, error) {
	var raw rawMessage
	if err := Unmarshal(b, &raw); err != nil {
		return domain.EncryptedMessage{}, err
	}
	if len(raw.Nonce) != len(domain.Nonce{}) {
		return domain.EncryptedMessage{}, fmt.Errorf("%w: got %d", ErrInvalidNonce, len(raw.Nonce))
	}
	m := domain.EncryptedMessage{
		Sequence:       raw.Sequence,
		Ciphertext:     raw.Ciphertext,
		AssociatedData: raw.AssociatedData,
		Scheme:         raw.Scheme,
	}
	copy(m.Nonce[:], raw.Nonce)
	return m, nil
}

// fixed copies src into dst, refusing any length other than len(dst).
func fixed(dst, src []byte, field string) error {
	if len(src) != len(dst) {
		return fmt.Errorf("%w: %s is %d bytes, want %d", ErrInvalidKeyLength, field, len(src), len(dst))
	}
	copy(dst, src)
	return nil
}

type rawExchangeBundle struct {
	SigningKey      []byte `cbor:"1,keyasint"`
	SignedPreKey    []byte `cbor:"2,keyasint"`
	PreKeySignature []byte `cbor:"3,keyasint"`
	OneTimeKey      []byte `cbor:"4,keyasint"`
}

// UnmarshalKeyExchangeBundle decodes a KeyExchangeBundle.
func UnmarshalKeyExchangeBundle(b []byte) (domain.KeyExchangeBundle, error) {
	var (
		raw rawExchangeBundle
		out domain.KeyExchangeBundle
	)
	if err := Unmarshal(b, &raw); err != nil {
		return domain.KeyExchangeBundle{}, err
	}
	if err := errors.Join(
		fixed(out.SigningKey[:], raw.SigningKey, "signing key"),
		fixed(out.SignedPreKey[:], raw.SignedPreKey, "signed pre-key"),
		fixed(out.PreKeySignature[:], raw.PreKeySignature, "pre-key signature"),
		fixed(out.OneTimeKey[:], raw.OneTimeKey, "one-time key"),
	); err != nil {
		return domain.KeyExchangeBundle{}, err
	}
	return out, nil
}

type rawIntroduction struct {
	EphemeralKey []byte `cbor:"1,keyasint"`
	OneTimeKey   []byte `cbor:"2,keyasint"`
}

// UnmarshalIntroduction decodes an IntroductionMessage.
func UnmarshalIntroduction(b []byte) (domain.IntroductionMessage, error) {
	var (
		raw rawIntroduction
		out domain.IntroductionMessage
	)
	if err := Unmarshal(b, &raw); err != nil {
		return domain.IntroductionMessage{}, err
	}
	if err := errors.Join(
		fixed(out.EphemeralKey[:], raw.EphemeralKey, "ephemeral key"),
		fixed(out.OneTimeKey[:], raw.OneTimeKey, "one-time key"),
	); err != nil {
		return domain.IntroductionMessage{}, err
	}
	return out, nil
}

type rawPreKeyBundle struct {
	SignedPreKey         []byte   `cbor:"1,keyasint"`
	PreKeySignature      []byte   `cbor:"2,keyasint"`
	OneTimeKeys          [][]byte `cbor:"3,keyasint"`
	OneTimeKeysSignature []byte   `cbor:"4,keyasint"`
}

// UnmarshalPreKeyBundle decodes a NewPreKeyBundle.
func UnmarshalPreKeyBundle(b []byte) (domain.NewPreKeyBundle, error) {
	var (
		raw rawPreKeyBundle
		out domain.NewPreKeyBundle
	)
	if err := Unmarshal(b, &raw); err != nil {
		return domain.NewPreKeyBundle{}, err
	}
	if err := errors.Join(
		fixed(out.SignedPreKey[:], raw.SignedPreKey, "signed pre-key"),
		fixed(out.PreKeySignature[:], raw.PreKeySignature, "pre-key signature"),
		fixed(out.OneTimeKeysSignature[:], raw.OneTimeKeysSignature, "one-time keys signature"),
	); err != nil {
		return domain.NewPreKeyBundle{}, err
	}
	if len(raw.OneTimeKeys) > 0 {
		out.OneTimeKeys = make([]domain.X25519Public, len(raw.OneTimeKeys))
	}
	for i, k := range raw.OneTimeKeys {
		if err := fixed(out.OneTimeKeys[i][:], k, fmt.Sprintf("one-time key %d", i)); err != nil {
			return domain.NewPreKeyBundle{}, err
		}
	}
	return out, nil
}
