// Package quotecache provides the TTL vendor-quote cache that short-circuits
// vendor fan-out for recently sourced parts.
package quotecache

import (
	"context"
	"log/slog"
	"time"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
	"github.com/Farhaan96/CollisionOS-sub012/internal/service"
)

// DefaultTTL is how long a cached quote set stays fresh.
const DefaultTTL = 5 * time.Minute

// Cache applies TTL semantics over a pluggable QuoteStore backing. Entries
// are whole-value replacements with last-writer-wins semantics, so concurrent
// readers and writers need no coordination beyond the store's own.
type Cache struct {
	store  service.QuoteStore
	stopCh chan struct{}
	ttl    time.Duration
}

// New creates a cache over the given backing store. A zero TTL selects
// DefaultTTL. A janitor goroutine purges expired entries from the store;
// Close stops it.
func New(store service.QuoteStore, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c := &Cache{
		store:  store,
		ttl:    ttl,
		stopCh: make(chan struct{}),
	}

	go c.janitor()

	return c
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached quote set for a part, or false when the key is
// absent or its entry has outlived the TTL. Store errors are treated as
// misses so a flaky backing store degrades to extra vendor calls.
func (c *Cache) Get(ctx context.Context, part *model.ClassifiedPart) ([]model.VendorQuote, bool) {
	entry, err := c.store.Get(ctx, part.CacheKey())
	if err != nil {
		slog.Warn("Quote cache read failed, treating as miss",
			"part", part.NormalizedPartNumber,
			"error", err)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}

	if time.Since(entry.Timestamp) > c.ttl {
		return nil, false
	}

	return entry.Quotes, true
}

// Put stores a quote set for a part, replacing any prior entry for the key.
// Re-fetching and overwriting the same key with fresher data is always safe.
func (c *Cache) Put(ctx context.Context, part *model.ClassifiedPart, quotes []model.VendorQuote) {
	entry := &model.CachedQuotes{
		Key:       part.CacheKey(),
		Timestamp: time.Now(),
		Quotes:    quotes,
	}

	if err := c.store.Put(ctx, entry); err != nil {
		slog.Warn("Quote cache write failed",
			"part", part.NormalizedPartNumber,
			"error", err)
	}
}

// Clear drops every entry from the backing store.
func (c *Cache) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Close stops the janitor goroutine. The backing store is closed separately
// by whoever owns it.
func (c *Cache) Close() {
	close(c.stopCh)
}

// janitor periodically removes expired entries from the backing store.
func (c *Cache) janitor() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			purged, err := c.store.Purge(context.Background(), time.Now().Add(-c.ttl))
			if err != nil {
				slog.Warn("Quote cache purge failed", "error", err)
				continue
			}
			if purged > 0 {
				slog.Debug("Purged expired quote cache entries", "count", purged)
			}
		}
	}
}
