package flagkit

import "sync"

// Store persists flag overrides by key.
//
// Lookup distinguishes a missing override (ok == false) from an override set
// to false.
type Store interface {
	Lookup(key string) (value bool, ok bool)
	Set(key string, value bool)
	Delete(key string)
}

// MemoryStore is a Store backed by a map. The zero value is ready to use and it
// is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a store seeded with a copy of initial.
func NewMemoryStore(initial map[string]bool) *MemoryStore {
	s := &MemoryStore{values: make(map[string]bool, len(initial))}
	for k, v := range initial {
		s.values[k] = v
	}
	return s
}

func (s *MemoryStore) Lookup(key string) (bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key string, value bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values == nil {
		s.values = make(map[string]bool)
	}
	s.values[key] = value
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Snapshot returns a copy of every stored override.
func (s *MemoryStore) Snapshot() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]bool, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
