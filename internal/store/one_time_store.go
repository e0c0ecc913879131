package store

import (
	bolt "go.etcd.io/bbolt"

	"confidant/internal/domain"
)

// Put stores one-time pre-key pairs keyed by their public half.
func (s *Bolt) Put(pairs []domain.OneTimeKeyPair) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(oneTimeKeysBucket))
		for _, p := range pairs {
			if err := bkt.Put(p.Public.Slice(), p.Private.Slice()); err != nil {
				return err
			}
		}
		return nil
	})
}

// Consume removes and returns the private half for pub inside a single
// write transaction. bbolt serialises writers, so two callers can never
// both observe the same key.
func (s *Bolt) Consume(pub domain.X25519Public) (priv domain.X25519Private, ok bool, err error) {
	err = s.db.Update(func(tx *bolt.Tx) error {
		bkt := tx.Bucket([]byte(oneTimeKeysBucket))
		v := bkt.Get(pub.Slice())
		if len(v) != len(priv) {
			return nil
		}
		copy(priv[:], v)
		ok = true
		return bkt.Delete(pub.Slice())
	})
	if err != nil {
		return domain.X25519Private{}, false, err
	}
	return priv, ok, nil
}

// Publics lists the remaining public halves in key order.
func (s *Bolt) Publics() ([]domain.X25519Public, error) {
	var out []domain.X25519Public
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(oneTimeKeysBucket)).ForEach(func(k, _ []byte) error {
			var pub domain.X25519Public
			copy(pub[:], k)
			out = append(out, pub)
			return nil
		})
	})
	return out, err
}

// Len reports how many one-time pre-keys remain.
func (s *Bolt) Len() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(oneTimeKeysBucket)).Stats().KeyN
		return nil
	})
	return n, err
}

// Compile-time assertion that Bolt implements domain.OneTimeKeyStore.
var _ domain.OneTimeKeyStore = (*Bolt)(nil)
