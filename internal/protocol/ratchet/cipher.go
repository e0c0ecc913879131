package ratchet

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/crypto/chacha20poly1305"

	"confidant/internal/domain"
	"confidant/internal/util/memzero"
)

// DefaultMaxLookahead bounds how far ahead of the expected sequence a
// Decryptor will derive keys, and how many such keys it keeps.
const DefaultMaxLookahead = 1000

var (
	// ErrUndecryptableMessage is returned for a sequence that is behind the
	// chain and has no buffered key, either because it was already used or
	// because it was evicted.
	ErrUndecryptableMessage = errors.New("ratchet: no key for message sequence")

	// ErrDecryptionFailed is returned when AEAD authentication fails.
	ErrDecryptionFailed = errors.New("ratchet: message authentication failed")

	// ErrLookaheadExceeded is returned when a message is further ahead than
	// the decryptor is willing to derive.
	ErrLookaheadExceeded = errors.New("ratchet: message sequence too far ahead")

	// ErrUnsupportedScheme is returned for messages produced with an
	// unrecognised encryption scheme.
	ErrUnsupportedScheme = errors.New("ratchet: unsupported encryption scheme")
)

// Encryptor seals outgoing messages, one ratchet key per message.
type Encryptor struct {
	kr *KeyRatchet
}

// NewEncryptor returns an Encryptor that owns kr.
func NewEncryptor(kr *KeyRatchet) *Encryptor {
	return &Encryptor{kr: kr}
}

// Encrypt seals plaintext with the next ratchet key, binding ad.
func (e *Encryptor) Encrypt(plaintext, ad []byte) (domain.EncryptedMessage, error) {
	var nonce domain.Nonce
	if _, err := rand.Read(nonce[:]); err != nil {
		return domain.EncryptedMessage{}, err
	}

	seq := e.kr.Counter()
	key := e.kr.NextKey()
	ct, err := seal(&key, nonce, plaintext, ad)
	memzero.Zero32(&key)
	if err != nil {
		return domain.EncryptedMessage{}, err
	}

	msg := domain.EncryptedMessage{
		Sequence:   seq,
		Nonce:      nonce,
		Ciphertext: ct,
		Scheme:     domain.DefaultScheme,
	}
	if len(ad) > 0 {
		msg.AssociatedData = append([]byte(nil), ad...)
	}
	return msg, nil
}

// Wipe clears the underlying chain.
func (e *Encryptor) Wipe() { e.kr.Wipe() }

// Option configures a Decryptor.
type Option func(*Decryptor)

// WithMaxLookahead sets how far ahead of the chain a message may be. Values
// below one fall back to DefaultMaxLookahead.
func WithMaxLookahead(n int) Option {
	return func(d *Decryptor) {
		if n > 0 {
			d.maxLookahead = uint64(n)
		}
	}
}

// Decryptor opens incoming messages, tolerating bounded reordering.
type Decryptor struct {
	kr           *KeyRatchet
	lookahead    map[uint64][KeySize]byte
	maxLookahead uint64
}

// NewDecryptor returns a Decryptor that owns kr.
func NewDecryptor(kr *KeyRatchet, opts ...Option) *Decryptor {
	d := &Decryptor{
		kr:           kr,
		lookahead:    make(map[uint64][KeySize]byte),
		maxLookahead: DefaultMaxLookahead,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decrypt opens msg. Each sequence number can be opened at most once; the
// key is spent even when authentication fails.
func (d *Decryptor) Decrypt(msg domain.EncryptedMessage) ([]byte, error) {
	if !msg.Scheme.Recognized() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, msg.Scheme)
	}

	key, err := d.keyFor(msg.Sequence)
	if err != nil {
		return nil, err
	}
	pt, err := open(&key, msg.Nonce, msg.Ciphertext, msg.AssociatedData)
	memzero.Zero32(&key)
	if err != nil {
		return nil, fmt.Errorf("%w: sequence %d", ErrDecryptionFailed, msg.Sequence)
	}
	return pt, nil
}

// Pending reports how many skipped keys are buffered.
func (d *Decryptor) Pending() int { return len(d.lookahead) }

// Wipe clears the chain and every buffered key.
func (d *Decryptor) Wipe() {
	d.kr.Wipe()
	clear(d.lookahead)
}

// keyFor resolves and removes the key for seq.
func (d *Decryptor) keyFor(seq uint64) ([KeySize]byte, error) {
	counter := d.kr.Counter()
	switch {
	case seq > counter:
		if seq-counter > d.maxLookahead {
			return [KeySize]byte{}, fmt.Errorf("%w: sequence %d, expected %d", ErrLookaheadExceeded, seq, counter)
		}
		for d.kr.Counter() < seq {
			step := d.kr.Counter()
			d.lookahead[step] = d.kr.NextKey()
		}
		d.evict()
		return d.kr.NextKey(), nil
	case seq == counter:
		return d.kr.NextKey(), nil
	}

	key, ok := d.lookahead[seq]
	if !ok {
		return [KeySize]byte{}, fmt.Errorf("%w: sequence %d", ErrUndecryptableMessage, seq)
	}
	delete(d.lookahead, seq)
	return key, nil
}

// evict drops the oldest buffered keys once the buffer exceeds maxLookahead.
func (d *Decryptor) evict() {
	over := len(d.lookahead) - int(d.maxLookahead)
	if over <= 0 {
		return
	}
	seqs := make([]uint64, 0, len(d.lookahead))
	for seq := range d.lookahead {
		seqs = append(seqs, seq)
	}
	sort.Slice(seqs, func(i, j int) bool { return seqs[i] < seqs[j] })
	for _, seq := range seqs[:over] {
		delete(d.lookahead, seq)
	}
}

// --- helpers ---

func seal(key *[KeySize]byte, nonce domain.Nonce, plaintext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return aead.Seal(nil, nonce[:], plaintext, ad), nil
}

func open(key *[KeySize]byte, nonce domain.Nonce, ciphertext, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, nonce[:], ciphertext, ad)
}
