package store

import (
	"bytes"
	"sort"
	"sync"

	"confidant/internal/domain"
)

// MemoryOneTimeKeyStore keeps the one-time pre-key pool in memory. The pool
// is lost on exit.
type MemoryOneTimeKeyStore struct {
	mu   sync.Mutex
	keys map[domain.X25519Public]domain.X25519Private
}

// NewMemoryOneTimeKeyStore returns an empty pool.
func NewMemoryOneTimeKeyStore() *MemoryOneTimeKeyStore {
	return &MemoryOneTimeKeyStore{keys: make(map[domain.X25519Public]domain.X25519Private)}
}

// Put adds pairs to the pool.
func (s *MemoryOneTimeKeyStore) Put(pairs []domain.OneTimeKeyPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range pairs {
		s.keys[p.Public] = p.Private
	}
	return nil
}

// Consume removes and returns the private half for pub.
func (s *MemoryOneTimeKeyStore) Consume(pub domain.X25519Public) (domain.X25519Private, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	priv, ok := s.keys[pub]
	if ok {
		delete(s.keys, pub)
	}
	return priv, ok, nil
}

// Publics lists the remaining public halves in byte order.
func (s *MemoryOneTimeKeyStore) Publics() ([]domain.X25519Public, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.X25519Public, 0, len(s.keys))
	for pub := range s.keys {
		out = append(out, pub)
	}
	sort.Slice(out, func(i, j int) bool { return bytes.Compare(out[i][:], out[j][:]) < 0 })
	return out, nil
}

// Len reports how many keys remain.
func (s *MemoryOneTimeKeyStore) Len() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys), nil
}

// Compile-time assertion that MemoryOneTimeKeyStore implements domain.OneTimeKeyStore.
var _ domain.OneTimeKeyStore = (*MemoryOneTimeKeyStore)(nil)
