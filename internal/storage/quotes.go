package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Farhaan96/CollisionOS-sub012/internal/common"
	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
	"github.com/Farhaan96/CollisionOS-sub012/internal/service"
)

// SQLiteStorage persists quote-cache entries as JSON blobs keyed by cache
// key. The TTL semantics live in the quotecache package; this layer only
// stores, fetches, and purges whole entries.

// quoteWriteRetry covers transient SQLITE_BUSY failures under WAL.
var quoteWriteRetry = service.RetryOptions{
	MaxAttempts:  3,
	InitialDelay: 50 * time.Millisecond,
	MaxDelay:     time.Second,
}

// Get returns the cached entry for a key, or nil when absent.
func (s *SQLiteStorage) Get(ctx context.Context, key string) (*model.CachedQuotes, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(key, "key"); err != nil {
		return nil, err
	}

	var (
		blob      string
		createdAt time.Time
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT quotes, created_at FROM quote_cache WHERE key = ?
	`, key).Scan(&blob, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached quotes: %w", err)
	}

	var quotes []model.VendorQuote
	if err := json.Unmarshal([]byte(blob), &quotes); err != nil {
		return nil, fmt.Errorf("%w: quote cache entry %s: %v", common.ErrDatabaseCorrupted, key, err)
	}

	return &model.CachedQuotes{
		Key:       key,
		Timestamp: createdAt,
		Quotes:    quotes,
	}, nil
}

// Put stores an entry, replacing any existing row for its key.
func (s *SQLiteStorage) Put(ctx context.Context, entry *model.CachedQuotes) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCachedQuotes(entry); err != nil {
		return err
	}

	blob, err := json.Marshal(entry.Quotes)
	if err != nil {
		return fmt.Errorf("failed to marshal quotes: %w", err)
	}

	return common.WithRetry(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, `
			INSERT INTO quote_cache (key, quotes, created_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				quotes = excluded.quotes,
				created_at = excluded.created_at
		`, entry.Key, string(blob), entry.Timestamp)
		if execErr != nil {
			return &common.RetryableError{Err: execErr, Retryable: isBusy(execErr)}
		}
		return nil
	}, quoteWriteRetry)
}

// Purge removes entries created before the cutoff.
func (s *SQLiteStorage) Purge(ctx context.Context, olderThan time.Time) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM quote_cache WHERE created_at < ?
	`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to purge quote cache: %w", err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(purged), nil
}

// Count returns the number of cached entries, expired or not.
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM quote_cache`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count quote cache: %w", err)
	}

	return count, nil
}

// Clear removes every cached entry.
func (s *SQLiteStorage) Clear(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM quote_cache`); err != nil {
		return fmt.Errorf("failed to clear quote cache: %w", err)
	}

	return nil
}

// isBusy reports whether the error is SQLite lock contention worth retrying.
func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}
