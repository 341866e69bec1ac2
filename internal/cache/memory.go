package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process cache backend with the same tag semantics
// as RedisStore. It serves single-instance deployments without a Redis
// server and backs the test suite.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	tags    map[string]map[string]struct{}
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		tags:    make(map[string]map[string]struct{}),
	}
}

// Get returns the cached value for key, or ErrMiss when absent or expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return nil, ErrMiss
	}
	// Copy so callers cannot mutate the cached body.
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

// Set stores the value with its TTL and registers the key under each tag.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	s.entries[key] = memoryEntry{value: stored, expiresAt: time.Now().Add(ttl)}

	for _, tag := range tags {
		if s.tags[tag] == nil {
			s.tags[tag] = make(map[string]struct{})
		}
		s.tags[tag][key] = struct{}{}
	}
	return nil
}

// Invalidate removes every key registered under the given tags.
func (s *MemoryStore) Invalidate(_ context.Context, tags ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tag := range tags {
		for key := range s.tags[tag] {
			delete(s.entries, key)
		}
		delete(s.tags, tag)
	}
	return nil
}

// Len reports the number of live entries. Used by tests.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	now := time.Now()
	for _, e := range s.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}
