// Package x3dh implements the triple Diffie-Hellman handshake that bootstraps
// a guest/counselor conversation.
//
// # Overview
//
// The counselor publishes a long-term Ed25519 signing key, a signed X25519
// pre-key and a pool of X25519 one-time pre-keys. The guest has no long-term
// identity: it generates one ephemeral X25519 key per session. The signing
// key takes part in key agreement through its X25519 equivalent (see
// crypto.PublicToAgreement and crypto.PrivateToAgreement).
//
// # Flows
//
// Initiator (guest), InitiateExchange:
//  1. Verify the signed pre-key signature against the counselor signing key.
//  2. Compute DH(IK, EK), DH(SPK, EK), DH(OPK, EK).
//  3. HKDF-SHA-256 over the concatenated transcript to 64 bytes.
//  4. Send on the first half, receive on the second.
//
// Responder (counselor), RespondExchange:
//  1. Compute the same three values from the private halves and the guest's
//     ephemeral public key.
//  2. Derive the same 64 bytes.
//  3. Receive on the first half, send on the second.
//
// The result is always a Session (an Encryptor/Decryptor pair). The shared
// secret itself is wiped once the ratchets are seeded.
//
// # Errors
//
// ErrInvalidSignature is returned when the pre-key signature fails; no key
// material is derived in that case. ErrTypeMismatch is returned when a key
// argument is missing. Other errors wrap lower-level crypto failures such as
// low-order points.
package x3dh
