package crypto

import (
	"crypto/sha512"
	"errors"

	"filippo.io/edwards25519"

	"confidant/internal/domain"
)

var (
	// ErrUnsupportedOperation is returned when a key cannot be mapped to the
	// agreement curve at all.
	ErrUnsupportedOperation = errors.New("crypto: key conversion not supported for this key")

	// ErrInvalidPublicKey is returned for public keys that do not decode to a
	// point, have small order, or lie outside the prime-order subgroup.
	ErrInvalidPublicKey = errors.New("crypto: invalid public key")
)

// scalarMinusOne is ℓ-1, used to test subgroup membership: P is in the
// prime-order subgroup iff [ℓ-1]P == -P.
var scalarMinusOne = func() *edwards25519.Scalar {
	var one [32]byte
	one[0] = 1
	s, err := edwards25519.NewScalar().SetCanonicalBytes(one[:])
	if err != nil {
		panic(err)
	}
	return edwards25519.NewScalar().Negate(s)
}()

// PrivateToAgreement converts an Ed25519 signing key into the X25519 private
// key that has the same underlying scalar, per RFC 8032 section 5.1.5.
func PrivateToAgreement(priv domain.Ed25519Private) (domain.X25519Private, error) {
	var out domain.X25519Private
	if priv.IsZero() {
		return out, ErrUnsupportedOperation
	}
	h := sha512.Sum512(priv[:32])
	copy(out[:], h[:32])
	Wipe(h[:])
	clamp(&out)
	return out, nil
}

// PublicToAgreement maps an Ed25519 public key to its Montgomery u-coordinate
// using the birational map u = (1+y)/(1-y).
//
// Points of small order, and points with a torsion component, are rejected.
func PublicToAgreement(pub domain.Ed25519Public) (domain.X25519Public, error) {
	var out domain.X25519Public
	p, err := new(edwards25519.Point).SetBytes(pub.Slice())
	if err != nil {
		return out, ErrInvalidPublicKey
	}
	identity := edwards25519.NewIdentityPoint()
	if new(edwards25519.Point).MultByCofactor(p).Equal(identity) == 1 {
		return out, ErrInvalidPublicKey
	}
	neg := new(edwards25519.Point).Negate(p)
	if new(edwards25519.Point).ScalarMult(scalarMinusOne, p).Equal(neg) != 1 {
		return out, ErrInvalidPublicKey
	}
	copy(out[:], p.BytesMontgomery())
	return out, nil
}
