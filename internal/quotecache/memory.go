package quotecache

import (
	"context"
	"sync"
	"time"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
)

// MemoryStore is the default in-process QuoteStore backing for
// single-instance deployments. Reads and writes are safe from many
// concurrent part pipelines; entries are replaced atomically wholesale.
type MemoryStore struct {
	entries map[string]model.CachedQuotes
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]model.CachedQuotes),
	}
}

// Get returns the entry for a key, or nil when absent.
func (s *MemoryStore) Get(_ context.Context, key string) (*model.CachedQuotes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}

	return &entry, nil
}

// Put stores an entry, overwriting any existing value for its key.
func (s *MemoryStore) Put(_ context.Context, entry *model.CachedQuotes) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.Key] = *entry
	return nil
}

// Purge removes entries older than the given cutoff.
func (s *MemoryStore) Purge(_ context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for key, entry := range s.entries {
		if entry.Timestamp.Before(olderThan) {
			delete(s.entries, key)
			purged++
		}
	}

	return purged, nil
}

// Count returns the number of stored entries, expired or not.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// Clear removes all entries.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]model.CachedQuotes)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
