// Package wire serialises the structures that cross the external channel:
// NewPreKeyBundle, KeyExchangeBundle, IntroductionMessage and
// EncryptedMessage.
//
// The encoding is deterministic CBOR with integer map keys. Decoders read
// every fixed-size field as a byte string first and reject it unless it has
// exactly the expected length (ErrInvalidKeyLength, ErrInvalidNonce), so a
// short or long field is never padded or truncated into a key. EncodeText and
// DecodeText wrap a blob in base58 for copy/paste use in the CLI.
package wire
