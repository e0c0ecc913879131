package store

import (
	"errors"

	bolt "go.etcd.io/bbolt"

	"confidant/internal/domain"
	"confidant/internal/util/memzero"
	"confidant/internal/wire"
)

// ErrNoIdentity is returned when no counselor identity has been saved.
var ErrNoIdentity = errors.New("store: no counselor identity")

// SaveIdentity seals id with the passphrase and writes it.
func (s *Bolt) SaveIdentity(passphrase string, id domain.CounselorIdentity) error {
	raw, err := wire.Marshal(id)
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	sealed, err := encrypt(passphrase, raw, s.scryptN, s.scryptR, s.scryptP)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(identityBucket)).Put([]byte(identityKey), sealed)
	})
}

// LoadIdentity reads and opens the identity.
func (s *Bolt) LoadIdentity(passphrase string) (domain.CounselorIdentity, error) {
	var sealed []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(identityBucket)).Get([]byte(identityKey)); b != nil {
			sealed = append([]byte(nil), b...)
		}
		return nil
	}); err != nil {
		return domain.CounselorIdentity{}, err
	}
	if sealed == nil {
		return domain.CounselorIdentity{}, ErrNoIdentity
	}

	raw, err := decrypt(passphrase, sealed)
	if err != nil {
		return domain.CounselorIdentity{}, err
	}
	defer memzero.Zero(raw)

	var id domain.CounselorIdentity
	if err := wire.Unmarshal(raw, &id); err != nil {
		return domain.CounselorIdentity{}, err
	}
	return id, nil
}

// HasIdentity reports whether an identity has been saved.
func (s *Bolt) HasIdentity() (bool, error) {
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		ok = tx.Bucket([]byte(identityBucket)).Get([]byte(identityKey)) != nil
		return nil
	})
	return ok, err
}

// Compile-time assertion that Bolt implements domain.IdentityStore.
var _ domain.IdentityStore = (*Bolt)(nil)
