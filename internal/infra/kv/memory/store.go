// Package memory implements an in-memory key/value Store for tests.
package memory

import (
	"context"
	"sync"

	"salescore/internal/kv/core"
)

// Store implements core.Store backed by process memory.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
	puts int
}

// New returns an empty in-memory store.
func New() *Store { return &Store{data: make(map[string][]byte)} }

// Driver returns the backend identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Get returns a copy of the stored value.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := core.ValidateKey(key); err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Put stores a copy of value under key.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	if err := core.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	s.puts++
	return nil
}

// Delete removes key if present.
func (s *Store) Delete(_ context.Context, key string) error {
	if err := core.ValidateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Puts reports how many successful writes the store has accepted.
func (s *Store) Puts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.puts
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
