package repository

import (
	"context"
	"sync"
)

// MemoryStore is a KV held entirely in memory. Used by tests and when the
// tracker is run without durable storage.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	_ = ctx

	s.mu.RLock()
	value, ok := s.values[key]
	s.mu.RUnlock()

	return value, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	_ = ctx

	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()

	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	_ = ctx

	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()

	return nil
}

var _ KV = (*MemoryStore)(nil)
