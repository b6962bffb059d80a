package cache

import (
	"strings"
	"sync"
	"time"
)

// Store is a process-wide query cache keyed by operation and parameters.
// Entries go stale after the configured window; writers invalidate the keys
// their transactions affect.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value     any
	fetchedAt time.Time
}

func New(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value when present and still fresh.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().Sub(e.fetchedAt) >= s.ttl {
		return nil, false
	}
	return e.value, true
}

// Set stores a value with the current fetch time.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	s.entries[key] = entry{value: value, fetchedAt: s.now()}
	s.mu.Unlock()
}

// Invalidate drops the given keys.
func (s *Store) Invalidate(keys ...string) {
	s.mu.Lock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// InvalidatePrefix drops every key with the given prefix.
func (s *Store) InvalidatePrefix(prefix string) {
	s.mu.Lock()
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	s.mu.Unlock()
}
