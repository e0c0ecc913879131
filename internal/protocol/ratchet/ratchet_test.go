package ratchet_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"confidant/internal/domain"
	"confidant/internal/protocol/ratchet"
)

// pairedCipher returns an Encryptor and a Decryptor seeded from the same key.
func pairedCipher(t *testing.T, opts ...ratchet.Option) (*ratchet.Encryptor, *ratchet.Decryptor) {
	t.Helper()
	seed := bytes.Repeat([]byte{0x42}, ratchet.KeySize)

	send, err := ratchet.New(seed)
	require.NoError(t, err)
	recv, err := ratchet.New(seed)
	require.NoError(t, err)
	return ratchet.NewEncryptor(send), ratchet.NewDecryptor(recv, opts...)
}

func TestKeyRatchet_ZeroSeed(t *testing.T) {
	kr, err := ratchet.New(make([]byte, 32))
	require.NoError(t, err)
	require.Equal(t, uint64(0), kr.Counter())

	k0 := kr.NextKey()
	require.Equal(t, uint64(1), kr.Counter())
	k1 := kr.NextKey()
	require.Equal(t, uint64(2), kr.Counter())
	require.NotEqual(t, k0, k1)
}

func TestKeyRatchet_Uniqueness(t *testing.T) {
	kr, err := ratchet.New(bytes.Repeat([]byte{7}, 32))
	require.NoError(t, err)

	seen := make(map[[ratchet.KeySize]byte]bool)
	for i := 0; i < 500; i++ {
		before := kr.Counter()
		k := kr.NextKey()
		require.Equal(t, before+1, kr.Counter())
		require.False(t, seen[k], "key repeated at step %d", i)
		seen[k] = true
	}
}

func TestKeyRatchet_Deterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{9}, 32)
	a, err := ratchet.New(seed)
	require.NoError(t, err)
	b, err := ratchet.New(seed)
	require.NoError(t, err)

	// Mutating the caller's seed must not affect the ratchet.
	seed[0] ^= 0xff
	for i := 0; i < 10; i++ {
		require.Equal(t, a.NextKey(), b.NextKey())
	}
}

func TestKeyRatchet_InvalidSeed(t *testing.T) {
	for _, n := range []int{0, 16, 31, 33, 64} {
		_, err := ratchet.New(make([]byte, n))
		require.ErrorIs(t, err, ratchet.ErrInvalidSeed, "len %d", n)
	}
}

func TestCipher_RoundTrip(t *testing.T) {
	enc, dec := pairedCipher(t)

	cases := []struct {
		plaintext []byte
		ad        []byte
	}{
		{[]byte("hello counselor"), nil},
		{[]byte("with context"), []byte("conversation-1")},
		{[]byte{}, []byte("empty body")},
		{bytes.Repeat([]byte("x"), 64<<10), nil},
	}
	for i, c := range cases {
		msg, err := enc.Encrypt(c.plaintext, c.ad)
		require.NoError(t, err)
		require.Equal(t, uint64(i), msg.Sequence)
		require.Equal(t, domain.DefaultScheme, msg.Scheme)

		pt, err := dec.Decrypt(msg)
		require.NoError(t, err)
		require.True(t, bytes.Equal(c.plaintext, pt))
	}
}

func TestCipher_DistinctNoncesAndCiphertexts(t *testing.T) {
	enc, _ := pairedCipher(t)
	a, err := enc.Encrypt([]byte("same"), nil)
	require.NoError(t, err)
	b, err := enc.Encrypt([]byte("same"), nil)
	require.NoError(t, err)
	require.NotEqual(t, a.Nonce, b.Nonce)
	require.NotEqual(t, a.Ciphertext, b.Ciphertext)
}

func TestCipher_OutOfOrder(t *testing.T) {
	enc, dec := pairedCipher(t)

	var msgs []domain.EncryptedMessage
	for _, p := range []string{"zero", "one", "two"} {
		m, err := enc.Encrypt([]byte(p), nil)
		require.NoError(t, err)
		msgs = append(msgs, m)
	}

	pt, err := dec.Decrypt(msgs[2])
	require.NoError(t, err)
	require.Equal(t, "two", string(pt))
	require.Equal(t, 2, dec.Pending())

	pt, err = dec.Decrypt(msgs[0])
	require.NoError(t, err)
	require.Equal(t, "zero", string(pt))

	pt, err = dec.Decrypt(msgs[1])
	require.NoError(t, err)
	require.Equal(t, "one", string(pt))
	require.Equal(t, 0, dec.Pending())

	_, err = dec.Decrypt(msgs[0])
	require.ErrorIs(t, err, ratchet.ErrUndecryptableMessage)
	_, err = dec.Decrypt(msgs[2])
	require.ErrorIs(t, err, ratchet.ErrUndecryptableMessage)
}

func TestCipher_ReplayInOrder(t *testing.T) {
	enc, dec := pairedCipher(t)
	m, err := enc.Encrypt([]byte("once"), nil)
	require.NoError(t, err)

	_, err = dec.Decrypt(m)
	require.NoError(t, err)
	_, err = dec.Decrypt(m)
	require.ErrorIs(t, err, ratchet.ErrUndecryptableMessage)
}

func TestCipher_TamperedMessage(t *testing.T) {
	enc, dec := pairedCipher(t)
	m0, err := enc.Encrypt([]byte("first"), []byte("ad"))
	require.NoError(t, err)
	m1, err := enc.Encrypt([]byte("second"), nil)
	require.NoError(t, err)

	bad := m0
	bad.Ciphertext = append([]byte(nil), m0.Ciphertext...)
	bad.Ciphertext[0] ^= 1
	_, err = dec.Decrypt(bad)
	require.ErrorIs(t, err, ratchet.ErrDecryptionFailed)

	// The key for sequence 0 is spent; retrying the genuine message fails.
	_, err = dec.Decrypt(m0)
	require.ErrorIs(t, err, ratchet.ErrUndecryptableMessage)

	// Later messages are unaffected.
	pt, err := dec.Decrypt(m1)
	require.NoError(t, err)
	require.Equal(t, "second", string(pt))
}

func TestCipher_TamperedMessageAhead(t *testing.T) {
	enc, dec := pairedCipher(t)

	var msgs []domain.EncryptedMessage
	for _, p := range []string{"zero", "one", "two"} {
		m, err := enc.Encrypt([]byte(p), nil)
		require.NoError(t, err)
		msgs = append(msgs, m)
	}

	bad := msgs[2]
	bad.Ciphertext = append([]byte(nil), msgs[2].Ciphertext...)
	bad.Ciphertext[len(bad.Ciphertext)-1] ^= 1
	_, err := dec.Decrypt(bad)
	require.ErrorIs(t, err, ratchet.ErrDecryptionFailed)

	// The run-ahead keys stay buffered; the key for sequence 2 is spent.
	require.Equal(t, 2, dec.Pending())

	pt, err := dec.Decrypt(msgs[0])
	require.NoError(t, err)
	require.Equal(t, "zero", string(pt))
	pt, err = dec.Decrypt(msgs[1])
	require.NoError(t, err)
	require.Equal(t, "one", string(pt))

	_, err = dec.Decrypt(msgs[2])
	require.ErrorIs(t, err, ratchet.ErrUndecryptableMessage)
}

func TestCipher_WrongAssociatedData(t *testing.T) {
	enc, dec := pairedCipher(t)
	m, err := enc.Encrypt([]byte("bound"), []byte("ad-1"))
	require.NoError(t, err)
	m.AssociatedData = []byte("ad-2")
	_, err = dec.Decrypt(m)
	require.ErrorIs(t, err, ratchet.ErrDecryptionFailed)
}

func TestCipher_LookaheadCeiling(t *testing.T) {
	enc, dec := pairedCipher(t, ratchet.WithMaxLookahead(4))

	var last domain.EncryptedMessage
	for i := 0; i < 6; i++ {
		m, err := enc.Encrypt([]byte("skip"), nil)
		require.NoError(t, err)
		last = m
	}
	// Sequence 5 is five steps ahead of an empty decryptor.
	_, err := dec.Decrypt(last)
	require.ErrorIs(t, err, ratchet.ErrLookaheadExceeded)
	require.Equal(t, 0, dec.Pending())

	forged := last
	forged.Sequence = 1 << 40
	_, err = dec.Decrypt(forged)
	require.ErrorIs(t, err, ratchet.ErrLookaheadExceeded)
}

func TestCipher_LookaheadEviction(t *testing.T) {
	enc, dec := pairedCipher(t, ratchet.WithMaxLookahead(3))

	var msgs []domain.EncryptedMessage
	for i := 0; i < 8; i++ {
		m, err := enc.Encrypt([]byte{byte(i)}, nil)
		require.NoError(t, err)
		msgs = append(msgs, m)
	}

	_, err := dec.Decrypt(msgs[3]) // buffers 0,1,2
	require.NoError(t, err)
	_, err = dec.Decrypt(msgs[7]) // buffers 4,5,6 and evicts 0,1,2
	require.NoError(t, err)
	require.Equal(t, 3, dec.Pending())

	_, err = dec.Decrypt(msgs[0])
	require.ErrorIs(t, err, ratchet.ErrUndecryptableMessage)

	pt, err := dec.Decrypt(msgs[5])
	require.NoError(t, err)
	require.Equal(t, []byte{5}, pt)
}

func TestCipher_UnsupportedScheme(t *testing.T) {
	enc, dec := pairedCipher(t)
	m, err := enc.Encrypt([]byte("x"), nil)
	require.NoError(t, err)

	m.Scheme.Version = "2"
	_, err = dec.Decrypt(m)
	require.ErrorIs(t, err, ratchet.ErrUnsupportedScheme)

	// Rejection happens before the chain moves.
	m.Scheme = domain.DefaultScheme
	pt, err := dec.Decrypt(m)
	require.NoError(t, err)
	require.Equal(t, "x", string(pt))
}
