// api/cache/memory_store.go

package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	taskhive_errors "github.com/taskhive/taskhive/api/errors"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is a thread-safe in-process Store with per-entry expiry. It
// backs the cache.backend=memory configuration and the cache layer's tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return "", taskhive_errors.ErrKeyNotFound
	}
	if entry.expired(time.Now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return "", taskhive_errors.ErrKeyNotFound
	}
	return entry.value, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Keys supports the single trailing-wildcard patterns the cache layer uses
// for namespace enumeration, e.g. "taskmanagement:task:*".
func (s *MemoryStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	prefix := pattern
	wildcard := strings.HasSuffix(pattern, "*")
	if wildcard {
		prefix = strings.TrimSuffix(pattern, "*")
	}

	now := time.Now()
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []string
	for key, entry := range s.entries {
		if entry.expired(now) {
			continue
		}
		if wildcard && strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		} else if !wildcard && key == pattern {
			keys = append(keys, key)
		}
	}
	return keys, nil
}
