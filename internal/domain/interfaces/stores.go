package interfaces

import domaintypes "confidant/internal/domain/types"

// IdentityStore persists the counselor's long-term and signed pre-key material.
type IdentityStore interface {
	SaveIdentity(passphrase string, id domaintypes.CounselorIdentity) error
	LoadIdentity(passphrase string) (domaintypes.CounselorIdentity, error)
	HasIdentity() (bool, error)
}

// OneTimeKeyStore holds the counselor's pool of one-time pre-keys, keyed by
// their public half.
type OneTimeKeyStore interface {
	// Put adds pairs to the pool. Existing entries with the same public key
	// are overwritten.
	Put(pairs []domaintypes.OneTimeKeyPair) error

	// Consume atomically removes and returns the private half for pub. ok is
	// false if pub is unknown or was already consumed. A key is never handed
	// to two callers.
	Consume(pub domaintypes.X25519Public) (priv domaintypes.X25519Private, ok bool, err error)

	// Publics lists the public halves still in the pool.
	Publics() ([]domaintypes.X25519Public, error)

	// Len reports how many keys remain.
	Len() (int, error)
}
