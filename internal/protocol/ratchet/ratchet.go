package ratchet

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"confidant/internal/util/memzero"
)

// KeySize is the size of the seed, the chain key and every issued key.
const KeySize = 32

var (
	ratchetSalt = []byte("confidant-ratchet-salt")
	ratchetInfo = []byte("confidant-key-ratchet")
)

// ErrInvalidSeed is returned when the seed is not exactly KeySize bytes.
var ErrInvalidSeed = errors.New("ratchet: seed must be 32 bytes")

// KeyRatchet is a one-way HKDF chain. Each call to NextKey derives 64 bytes
// from the chain key: the first half replaces the chain key, the second half
// is returned. Knowing an issued key does not reveal earlier ones.
type KeyRatchet struct {
	chainKey [KeySize]byte
	counter  uint64
}

// New returns a ratchet seeded with a copy of seed. The first NextKey call
// is step zero.
func New(seed []byte) (*KeyRatchet, error) {
	if len(seed) != KeySize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSeed, len(seed))
	}
	kr := &KeyRatchet{}
	copy(kr.chainKey[:], seed)
	return kr, nil
}

// NextKey returns the key for the current step and advances the chain.
func (kr *KeyRatchet) NextKey() [KeySize]byte {
	var next, out [KeySize]byte
	r := hkdf.New(sha256.New, kr.chainKey[:], ratchetSalt, ratchetInfo)
	_, _ = io.ReadFull(r, next[:])
	_, _ = io.ReadFull(r, out[:])

	kr.chainKey = next
	memzero.Zero32(&next)
	kr.counter++
	return out
}

// Counter reports how many keys have been issued.
func (kr *KeyRatchet) Counter() uint64 { return kr.counter }

// Wipe clears the chain key. The ratchet must not be used afterwards.
func (kr *KeyRatchet) Wipe() { memzero.Zero32(&kr.chainKey) }
