package store

import (
	"encoding/binary"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

const (
	identityBucket    = "identity"
	oneTimeKeysBucket = "one_time_keys"
	metadataBucket    = "metadata"

	identityKey   = "counselor"
	versionKey    = "version"
	schemaVersion = 1
)

// Bolt is a bbolt-backed store for the counselor keyring. It implements
// domain.IdentityStore and domain.OneTimeKeyStore. Every method runs in its
// own transaction, so Bolt is safe for concurrent use.
type Bolt struct {
	db *bolt.DB

	scryptN, scryptR, scryptP int
}

// BoltOption configures a Bolt store.
type BoltOption func(*Bolt)

// WithScryptParams overrides the passphrase KDF cost. Tests use cheap
// parameters.
func WithScryptParams(N, r, p int) BoltOption {
	return func(s *Bolt) {
		s.scryptN, s.scryptR, s.scryptP = N, r, p
	}
}

// OpenBolt creates (or loads) the keyring database at path.
func OpenBolt(path string, opts ...BoltOption) (*Bolt, error) {
	s := new(Bolt)
	s.scryptN, s.scryptR, s.scryptP = scryptParamsDefault()
	for _, opt := range opts {
		opt(s)
	}

	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, err
	}
	s.db = db

	if err := db.Update(func(tx *bolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(metadataBucket))
		if err != nil {
			return err
		}
		if b := meta.Get([]byte(versionKey)); b != nil {
			if len(b) != 8 || binary.BigEndian.Uint64(b) != schemaVersion {
				return fmt.Errorf("store: incompatible schema version in %s", path)
			}
		} else {
			var v [8]byte
			binary.BigEndian.PutUint64(v[:], schemaVersion)
			if err := meta.Put([]byte(versionKey), v[:]); err != nil {
				return err
			}
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(identityBucket)); err != nil {
			return err
		}
		_, err = tx.CreateBucketIfNotExists([]byte(oneTimeKeysBucket))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close flushes and closes the database.
func (s *Bolt) Close() error {
	if err := s.db.Sync(); err != nil {
		_ = s.db.Close()
		return err
	}
	return s.db.Close()
}
