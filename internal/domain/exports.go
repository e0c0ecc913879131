package domain

import (
	interfaces "confidant/internal/domain/interfaces"
	types "confidant/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Fingerprint         = types.Fingerprint
	X25519Public        = types.X25519Public
	X25519Private       = types.X25519Private
	Ed25519Public       = types.Ed25519Public
	Ed25519Private      = types.Ed25519Private
	Signature           = types.Signature
	Nonce               = types.Nonce
	CounselorIdentity   = types.CounselorIdentity
	OneTimeKeyPair      = types.OneTimeKeyPair
	NewPreKeyBundle     = types.NewPreKeyBundle
	KeyExchangeBundle   = types.KeyExchangeBundle
	IntroductionMessage = types.IntroductionMessage
	EncryptionScheme    = types.EncryptionScheme
	EncryptedMessage    = types.EncryptedMessage
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityStore   = interfaces.IdentityStore
	OneTimeKeyStore = interfaces.OneTimeKeyStore
)

// DefaultScheme is re-exported from the types subpackage.
var DefaultScheme = types.DefaultScheme
