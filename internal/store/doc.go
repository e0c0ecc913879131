// Package store provides persistence for the counselor keyring.
//
// Bolt keeps everything in one bbolt database:
//   - identity: the counselor's signing key and signed pre-key, sealed with a
//     passphrase (scrypt + ChaCha20-Poly1305)
//   - one_time_keys: the one-time pre-key pool, public half → private half
//   - metadata: schema version
//
// MemoryOneTimeKeyStore is an in-memory pool for tests and short-lived
// deployments. Both pools implement Consume as an atomic remove-and-return.
package store
