package keyring

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"confidant/internal/crypto"
	"confidant/internal/domain"
	"confidant/internal/protocol/ratchet"
	"confidant/internal/protocol/x3dh"
	"confidant/internal/util/memzero"
)

var (
	// ErrUnknownOneTimeKey is returned when an introduction names a one-time
	// key that is not in the pool, either consumed already or never issued.
	ErrUnknownOneTimeKey = errors.New("keyring: unknown or consumed one-time key")

	// ErrKeyPoolExhausted is returned when the one-time pool is empty.
	ErrKeyPoolExhausted = errors.New("keyring: one-time key pool exhausted")

	// ErrKeyPoolFull is returned when Replenish would grow the pool past its
	// maximum size.
	ErrKeyPoolFull = errors.New("keyring: one-time key pool full")

	// ErrInvalidIdentity is returned for an identity with missing keys or a
	// pre-key signature that does not verify.
	ErrInvalidIdentity = errors.New("keyring: invalid counselor identity")
)

// GenerateIdentity creates a signing key pair and a signed pre-key.
func GenerateIdentity() (domain.CounselorIdentity, error) {
	edPriv, edPub, err := crypto.GenerateEd25519()
	if err != nil {
		return domain.CounselorIdentity{}, err
	}
	spkPriv, spkPub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.CounselorIdentity{}, err
	}
	return domain.CounselorIdentity{
		SigningPrivate:  edPriv,
		SigningPublic:   edPub,
		PreKeyPrivate:   spkPriv,
		PreKeyPublic:    spkPub,
		PreKeySignature: crypto.SignEd25519(edPriv, spkPub[:]),
		RotatedAt:       time.Now().Unix(),
	}, nil
}

// Counselor is the responder side. The identity is guarded by a mutex; the
// pool provides its own atomicity, so concurrent exchanges never share a
// one-time key.
type Counselor struct {
	mu sync.RWMutex
	id domain.CounselorIdentity

	pool        domain.OneTimeKeyStore
	fingerprint domain.Fingerprint
	opts        options
}

// NewCounselor wraps id and pool. The keyring keeps its own copy of id.
func NewCounselor(id domain.CounselorIdentity, pool domain.OneTimeKeyStore, opts ...Option) (*Counselor, error) {
	if id.SigningPrivate.IsZero() || id.SigningPublic.IsZero() ||
		id.PreKeyPrivate.IsZero() || id.PreKeyPublic.IsZero() {
		return nil, ErrInvalidIdentity
	}
	if !x3dh.VerifyPreKey(id.SigningPublic, id.PreKeyPublic, id.PreKeySignature) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIdentity, x3dh.ErrInvalidSignature)
	}
	if pool == nil {
		return nil, errors.New("keyring: nil one-time key pool")
	}
	c := &Counselor{
		id:          id,
		pool:        pool,
		fingerprint: crypto.Fingerprint(id.SigningPublic.Slice()),
		opts:        newOptions(opts),
	}
	c.opts.log.Noticef("Counselor %s ready", c.fingerprint)
	return c, nil
}

// SigningPublic returns the long-term signing key.
func (c *Counselor) SigningPublic() domain.Ed25519Public {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id.SigningPublic
}

// Fingerprint identifies the counselor to operators.
func (c *Counselor) Fingerprint() domain.Fingerprint { return c.fingerprint }

// Remaining reports the size of the one-time pool.
func (c *Counselor) Remaining() (int, error) { return c.pool.Len() }

// NeedsReplenish reports whether the pool has dropped below the low-water
// mark. A pool that cannot be read counts as depleted.
func (c *Counselor) NeedsReplenish() bool {
	n, err := c.pool.Len()
	if err != nil {
		c.opts.log.Errorf("Failed to read one-time pool: %v", err)
		return true
	}
	return n < c.opts.lowWaterMark
}

// PreKeyBundle signs and returns the public pool for publication.
func (c *Counselor) PreKeyBundle() (domain.NewPreKeyBundle, error) {
	pubs, err := c.pool.Publics()
	if err != nil {
		return domain.NewPreKeyBundle{}, err
	}
	if len(pubs) == 0 {
		return domain.NewPreKeyBundle{}, ErrKeyPoolExhausted
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.NewPreKeyBundle{
		SignedPreKey:         c.id.PreKeyPublic,
		PreKeySignature:      c.id.PreKeySignature,
		OneTimeKeys:          pubs,
		OneTimeKeysSignature: crypto.SignEd25519(c.id.SigningPrivate, oneTimeKeysMessage(pubs)),
	}, nil
}

// ExchangeBundle returns what a guest needs to initiate against oneTime.
func (c *Counselor) ExchangeBundle(oneTime domain.X25519Public) (domain.KeyExchangeBundle, error) {
	if oneTime.IsZero() {
		return domain.KeyExchangeBundle{}, x3dh.ErrTypeMismatch
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.KeyExchangeBundle{
		SigningKey:      c.id.SigningPublic,
		SignedPreKey:    c.id.PreKeyPublic,
		PreKeySignature: c.id.PreKeySignature,
		OneTimeKey:      oneTime,
	}, nil
}

// Exchange runs the responder side for a guest's introduction. The named
// one-time key is removed from the pool before any other work and is never
// returned to it, even if the exchange fails.
func (c *Counselor) Exchange(intro domain.IntroductionMessage) (*x3dh.Session, error) {
	if intro.EphemeralKey.IsZero() {
		return nil, x3dh.ErrTypeMismatch
	}

	otk, ok, err := c.pool.Consume(intro.OneTimeKey)
	if err != nil {
		return nil, fmt.Errorf("keyring: consume one-time key: %w", err)
	}
	if !ok {
		if n, err := c.pool.Len(); err == nil && n == 0 {
			c.opts.log.Warningf("Counselor %s: one-time pool exhausted", c.fingerprint)
			return nil, ErrKeyPoolExhausted
		}
		return nil, ErrUnknownOneTimeKey
	}
	defer memzero.Zero(otk[:])

	c.mu.RLock()
	sess, err := x3dh.RespondExchange(x3dh.ResponderKeys{
		SigningKey:     c.id.SigningPrivate,
		PreKey:         c.id.PreKeyPrivate,
		OneTimeKey:     otk,
		GuestEphemeral: intro.EphemeralKey,
	}, ratchet.WithMaxLookahead(c.opts.maxLookahead))
	c.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	c.opts.log.Infof("Counselor %s: exchange with guest %s", c.fingerprint, crypto.Fingerprint(intro.EphemeralKey.Slice()))
	if c.NeedsReplenish() {
		c.opts.log.Warningf("Counselor %s: one-time pool below %d", c.fingerprint, c.opts.lowWaterMark)
	}
	return sess, nil
}

// Replenish adds n fresh one-time keys to the pool and returns their public
// halves. Nothing is added if the pool would exceed its maximum size.
func (c *Counselor) Replenish(n int) ([]domain.X25519Public, error) {
	if n <= 0 {
		return nil, fmt.Errorf("keyring: invalid replenish count %d", n)
	}
	have, err := c.pool.Len()
	if err != nil {
		return nil, err
	}
	if have+n > c.opts.maxPoolSize {
		return nil, fmt.Errorf("%w: %d keys held, %d requested, limit %d", ErrKeyPoolFull, have, n, c.opts.maxPoolSize)
	}
	pairs := make([]domain.OneTimeKeyPair, 0, n)
	pubs := make([]domain.X25519Public, 0, n)
	defer func() {
		for i := range pairs {
			memzero.Zero(pairs[i].Private[:])
		}
	}()
	for i := 0; i < n; i++ {
		priv, pub, err := crypto.GenerateX25519()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, domain.OneTimeKeyPair{Private: priv, Public: pub})
		pubs = append(pubs, pub)
	}
	if err := c.pool.Put(pairs); err != nil {
		return nil, err
	}
	c.opts.log.Noticef("Counselor %s: added %d one-time keys", c.fingerprint, n)
	return pubs, nil
}

// RotatePreKey replaces the signed pre-key and returns the updated identity
// for the caller to persist. Introductions made against the old pre-key no
// longer produce matching sessions.
func (c *Counselor) RotatePreKey() (domain.CounselorIdentity, error) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.CounselorIdentity{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	memzero.Zero(c.id.PreKeyPrivate[:])
	c.id.PreKeyPrivate = priv
	c.id.PreKeyPublic = pub
	c.id.PreKeySignature = crypto.SignEd25519(c.id.SigningPrivate, pub[:])
	c.id.RotatedAt = time.Now().Unix()

	c.opts.log.Noticef("Counselor %s: rotated signed pre-key to %s", c.fingerprint, crypto.Fingerprint(pub.Slice()))
	return c.id, nil
}
