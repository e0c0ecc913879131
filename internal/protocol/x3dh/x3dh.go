package x3dh

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"confidant/internal/crypto"
	"confidant/internal/domain"
	"confidant/internal/protocol/ratchet"
	"confidant/internal/util/memzero"
)

var (
	// ErrInvalidSignature is returned when the signed pre-key does not verify
	// against the counselor's signing key.
	ErrInvalidSignature = errors.New("x3dh: pre-key signature does not verify")

	// ErrTypeMismatch is returned when a required key argument is missing.
	ErrTypeMismatch = errors.New("x3dh: missing or mismatched key material")
)

var x3dhInfo = []byte("confidant-x3dh")

// InitiatorKeys is the guest's view of the exchange: the counselor's public
// material plus the guest's own ephemeral private key.
type InitiatorKeys struct {
	CounselorSigningKey domain.Ed25519Public
	SignedPreKey        domain.X25519Public
	PreKeySignature     domain.Signature
	OneTimeKey          domain.X25519Public
	Ephemeral           domain.X25519Private
}

// ResponderKeys is the counselor's view of the exchange: its own private
// material plus the guest's ephemeral public key.
type ResponderKeys struct {
	SigningKey     domain.Ed25519Private
	PreKey         domain.X25519Private
	OneTimeKey     domain.X25519Private
	GuestEphemeral domain.X25519Public
}

// Session is the cipher pair produced by one exchange.
type Session struct {
	Encryptor *ratchet.Encryptor
	Decryptor *ratchet.Decryptor
}

// Wipe clears both chains and every buffered key. The session must not be
// used afterwards.
func (s *Session) Wipe() {
	s.Encryptor.Wipe()
	s.Decryptor.Wipe()
}

// InitiateExchange runs the guest side. The pre-key signature is checked
// before any Diffie-Hellman computation.
func InitiateExchange(k InitiatorKeys, opts ...ratchet.Option) (*Session, error) {
	if k.CounselorSigningKey.IsZero() || k.SignedPreKey.IsZero() ||
		k.OneTimeKey.IsZero() || k.Ephemeral.IsZero() {
		return nil, ErrTypeMismatch
	}
	if !VerifyPreKey(k.CounselorSigningKey, k.SignedPreKey, k.PreKeySignature) {
		return nil, ErrInvalidSignature
	}

	identity, err := crypto.PublicToAgreement(k.CounselorSigningKey)
	if err != nil {
		return nil, fmt.Errorf("x3dh: counselor identity: %w", err)
	}

	dh1, err := crypto.DH(k.Ephemeral, identity) // DH(IK, EK)
	if err != nil {
		return nil, err
	}
	dh2, err := crypto.DH(k.Ephemeral, k.SignedPreKey) // DH(SPK, EK)
	if err != nil {
		memzero.Zero32(&dh1)
		return nil, err
	}
	dh3, err := crypto.DH(k.Ephemeral, k.OneTimeKey) // DH(OPK, EK)
	if err != nil {
		memzero.Zero32(&dh1)
		memzero.Zero32(&dh2)
		return nil, err
	}

	first, second := deriveSecret(&dh1, &dh2, &dh3)
	return newSession(first, second, opts)
}

// RespondExchange runs the counselor side. The counselor signed its own
// pre-key, so no signature is checked here.
func RespondExchange(k ResponderKeys, opts ...ratchet.Option) (*Session, error) {
	if k.SigningKey.IsZero() || k.PreKey.IsZero() ||
		k.OneTimeKey.IsZero() || k.GuestEphemeral.IsZero() {
		return nil, ErrTypeMismatch
	}

	identity, err := crypto.PrivateToAgreement(k.SigningKey)
	if err != nil {
		return nil, fmt.Errorf("x3dh: counselor identity: %w", err)
	}
	defer memzero.Zero(identity[:])

	dh1, err := crypto.DH(identity, k.GuestEphemeral)
	if err != nil {
		return nil, err
	}
	dh2, err := crypto.DH(k.PreKey, k.GuestEphemeral)
	if err != nil {
		memzero.Zero32(&dh1)
		return nil, err
	}
	dh3, err := crypto.DH(k.OneTimeKey, k.GuestEphemeral)
	if err != nil {
		memzero.Zero32(&dh1)
		memzero.Zero32(&dh2)
		return nil, err
	}

	first, second := deriveSecret(&dh1, &dh2, &dh3)
	// Mirrored: the initiator sends on the first half.
	return newSession(second, first, opts)
}

// VerifyPreKey checks the signed pre-key signature.
func VerifyPreKey(signing domain.Ed25519Public, spk domain.X25519Public, sig domain.Signature) bool {
	return crypto.VerifyEd25519(signing, spk.Slice(), sig)
}

// deriveSecret expands DH1‖DH2‖DH3 into two 32-byte halves and wipes the
// inputs.
func deriveSecret(dh1, dh2, dh3 *[32]byte) (first, second [32]byte) {
	transcript := make([]byte, 0, 32*3)
	transcript = append(transcript, dh1[:]...)
	transcript = append(transcript, dh2[:]...)
	transcript = append(transcript, dh3[:]...)
	memzero.Zero32(dh1)
	memzero.Zero32(dh2)
	memzero.Zero32(dh3)

	r := hkdf.New(sha256.New, transcript, make([]byte, sha256.Size), x3dhInfo)
	_, _ = io.ReadFull(r, first[:])
	_, _ = io.ReadFull(r, second[:])
	memzero.Zero(transcript)
	return first, second
}

// newSession builds the cipher pair and wipes both seeds.
func newSession(sendSeed, recvSeed [32]byte, opts []ratchet.Option) (*Session, error) {
	defer memzero.Zero32(&sendSeed)
	defer memzero.Zero32(&recvSeed)

	send, err := ratchet.New(sendSeed[:])
	if err != nil {
		return nil, err
	}
	recv, err := ratchet.New(recvSeed[:])
	if err != nil {
		return nil, err
	}
	return &Session{
		Encryptor: ratchet.NewEncryptor(send),
		Decryptor: ratchet.NewDecryptor(recv, opts...),
	}, nil
}
