package types

// OneTimeKeyPair is the full (private+public) one-time pre-key held by a counselor.
type OneTimeKeyPair struct {
	Private X25519Private `cbor:"1,keyasint"`
	Public  X25519Public  `cbor:"2,keyasint"`
}

// NewPreKeyBundle is the material a counselor publishes so guests can reach it.
// OneTimeKeysSignature covers the concatenation of OneTimeKeys in order.
type NewPreKeyBundle struct {
	SignedPreKey         X25519Public   `cbor:"1,keyasint"`
	PreKeySignature      Signature      `cbor:"2,keyasint"`
	OneTimeKeys          []X25519Public `cbor:"3,keyasint"`
	OneTimeKeysSignature Signature      `cbor:"4,keyasint"`
}

// KeyExchangeBundle is handed to a single guest to begin one session.
type KeyExchangeBundle struct {
	SigningKey      Ed25519Public `cbor:"1,keyasint"`
	SignedPreKey    X25519Public  `cbor:"2,keyasint"`
	PreKeySignature Signature     `cbor:"3,keyasint"`
	OneTimeKey      X25519Public  `cbor:"4,keyasint"`
}

// IntroductionMessage is the first guest-to-counselor payload. It names the
// one-time pre-key the guest consumed.
type IntroductionMessage struct {
	EphemeralKey X25519Public `cbor:"1,keyasint"`
	OneTimeKey   X25519Public `cbor:"2,keyasint"`
}
