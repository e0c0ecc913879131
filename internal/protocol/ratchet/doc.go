// Package ratchet implements the symmetric key ratchet and the message
// cipher built on it.
//
// A KeyRatchet turns 32 bytes of seed material into an unbounded sequence of
// single-use 32-byte keys. An Encryptor draws one key per message and seals
// it with ChaCha20-Poly1305 under a fresh random nonce, recording the step as
// the message sequence number. A Decryptor follows the same chain; when a
// message arrives ahead of the expected sequence it derives the keys in
// between and keeps them in a bounded lookahead buffer so late messages can
// still be opened once.
//
// There is no Diffie-Hellman step in this ratchet: forward secrecy comes from
// the chain alone and from discarding keys after use.
//
// Concurrency: KeyRatchet, Encryptor and Decryptor are NOT safe for
// concurrent use. Callers must serialise access per conversation; advancing
// a chain twice desynchronises the two parties.
package ratchet
