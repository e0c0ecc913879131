package keyring

import (
	"errors"
	"sync"

	"confidant/internal/crypto"
	"confidant/internal/domain"
	"confidant/internal/protocol/ratchet"
	"confidant/internal/protocol/x3dh"
	"confidant/internal/util/memzero"
)

// ErrAlreadyExchanged is returned by a second Guest.Exchange.
var ErrAlreadyExchanged = errors.New("keyring: guest keyring already exchanged")

// GuestState is the lifecycle position of a Guest.
type GuestState int

const (
	// GuestFresh holds an unused ephemeral key.
	GuestFresh GuestState = iota
	// GuestExchanged has discarded its ephemeral key and holds a session.
	GuestExchanged
)

func (s GuestState) String() string {
	switch s {
	case GuestFresh:
		return "fresh"
	case GuestExchanged:
		return "exchanged"
	default:
		return "unknown"
	}
}

// Guest is the anonymous side of a conversation. It is safe for concurrent
// use; only one Exchange can ever succeed.
type Guest struct {
	mu sync.Mutex

	ephemeralPrivate domain.X25519Private
	ephemeralPublic  domain.X25519Public
	state            GuestState
	session          *x3dh.Session

	opts options
}

// NewGuest generates a fresh ephemeral key pair.
func NewGuest(opts ...Option) (*Guest, error) {
	priv, pub, err := crypto.GenerateX25519()
	if err != nil {
		return nil, err
	}
	return &Guest{
		ephemeralPrivate: priv,
		ephemeralPublic:  pub,
		opts:             newOptions(opts),
	}, nil
}

// EphemeralPublic returns a copy of the guest's ephemeral public key.
func (g *Guest) EphemeralPublic() domain.X25519Public {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ephemeralPublic
}

// State reports where the guest is in its lifecycle.
func (g *Guest) State() GuestState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Session returns the session established by Exchange, or nil.
func (g *Guest) Session() *x3dh.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session
}

// Exchange runs the initiator side of the handshake against bundle and
// returns the session plus the introduction to deliver to the counselor.
// A failed exchange leaves the guest Fresh.
func (g *Guest) Exchange(bundle domain.KeyExchangeBundle) (*x3dh.Session, domain.IntroductionMessage, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == GuestExchanged {
		return nil, domain.IntroductionMessage{}, ErrAlreadyExchanged
	}

	sess, err := x3dh.InitiateExchange(x3dh.InitiatorKeys{
		CounselorSigningKey: bundle.SigningKey,
		SignedPreKey:        bundle.SignedPreKey,
		PreKeySignature:     bundle.PreKeySignature,
		OneTimeKey:          bundle.OneTimeKey,
		Ephemeral:           g.ephemeralPrivate,
	}, ratchet.WithMaxLookahead(g.opts.maxLookahead))
	if err != nil {
		g.opts.log.Warningf("Exchange with counselor %s failed: %v", crypto.Fingerprint(bundle.SigningKey.Slice()), err)
		return nil, domain.IntroductionMessage{}, err
	}

	memzero.Zero(g.ephemeralPrivate[:])
	g.state = GuestExchanged
	g.session = sess
	g.opts.log.Infof("Exchanged with counselor %s", crypto.Fingerprint(bundle.SigningKey.Slice()))

	return sess, domain.IntroductionMessage{
		EphemeralKey: g.ephemeralPublic,
		OneTimeKey:   bundle.OneTimeKey,
	}, nil
}
