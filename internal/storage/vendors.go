package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Farhaan96/CollisionOS-sub012/internal/common"
	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
)

// vendorCacheTTL bounds how stale the in-process vendor cache may get.
const vendorCacheTTL = 5 * time.Minute

// GetVendor retrieves a vendor by ID.
func (s *SQLiteStorage) GetVendor(ctx context.Context, id string) (*model.VendorInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	if vendor := s.getCachedVendor(id); vendor != nil {
		return vendor, nil
	}

	var vendor model.VendorInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, reliability, quote_count, fulfilled_count, enabled, last_updated
		FROM vendors
		WHERE id = ?
	`, id).Scan(
		&vendor.ID,
		&vendor.Name,
		&vendor.Reliability,
		&vendor.QuoteCount,
		&vendor.FulfilledCount,
		&vendor.Enabled,
		&vendor.LastUpdated,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrVendorNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vendor: %w", err)
	}

	s.cacheVendor(&vendor)

	return &vendor, nil
}

// SaveVendor saves or updates a vendor registry record.
func (s *SQLiteStorage) SaveVendor(ctx context.Context, vendor *model.VendorInfo) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateVendorInfo(vendor); err != nil {
		return err
	}

	if vendor.LastUpdated.IsZero() {
		vendor.LastUpdated = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO vendors (id, name, reliability, quote_count, fulfilled_count, enabled, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			reliability = excluded.reliability,
			quote_count = excluded.quote_count,
			fulfilled_count = excluded.fulfilled_count,
			enabled = excluded.enabled,
			last_updated = excluded.last_updated
	`, vendor.ID, vendor.Name, vendor.Reliability, vendor.QuoteCount,
		vendor.FulfilledCount, vendor.Enabled, vendor.LastUpdated)

	if err != nil {
		return fmt.Errorf("failed to save vendor: %w", err)
	}

	s.cacheVendor(vendor)

	return nil
}

// ListVendors retrieves all enabled vendor registry records.
func (s *SQLiteStorage) ListVendors(ctx context.Context) ([]model.VendorInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, reliability, quote_count, fulfilled_count, enabled, last_updated
		FROM vendors
		WHERE enabled = 1
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var vendors []model.VendorInfo
	for rows.Next() {
		var vendor model.VendorInfo
		err := rows.Scan(
			&vendor.ID,
			&vendor.Name,
			&vendor.Reliability,
			&vendor.QuoteCount,
			&vendor.FulfilledCount,
			&vendor.Enabled,
			&vendor.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, vendor)
	}

	return vendors, rows.Err()
}

// SetVendorEnabled flips a vendor in or out of the sourcing rotation.
func (s *SQLiteStorage) SetVendorEnabled(ctx context.Context, id string, enabled bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE vendors SET enabled = ?, last_updated = ? WHERE id = ?
	`, enabled, time.Now(), id)

	if err != nil {
		return fmt.Errorf("failed to update vendor: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrVendorNotFound
	}

	s.invalidateVendor(id)

	return nil
}

// RecordQuoteOutcome counts one fulfillment outcome against a vendor, feeding
// the fill rate that seeds reliability scoring.
func (s *SQLiteStorage) RecordQuoteOutcome(ctx context.Context, id string, fulfilled bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	fulfilledDelta := 0
	if fulfilled {
		fulfilledDelta = 1
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE vendors
		SET quote_count = quote_count + 1,
			fulfilled_count = fulfilled_count + ?,
			last_updated = ?
		WHERE id = ?
	`, fulfilledDelta, time.Now(), id)

	if err != nil {
		return fmt.Errorf("failed to record quote outcome: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrVendorNotFound
	}

	s.invalidateVendor(id)

	return nil
}

// getCachedVendor retrieves a vendor from the in-process cache.
func (s *SQLiteStorage) getCachedVendor(id string) *model.VendorInfo {
	s.cacheMutex.RLock()

	if time.Now().After(s.cacheExpiry) {
		// Cache expired, clear it under the write lock.
		s.cacheMutex.RUnlock()
		s.cacheMutex.Lock()
		defer s.cacheMutex.Unlock()

		if time.Now().After(s.cacheExpiry) {
			s.vendorCache = make(map[string]*model.VendorInfo)
		}
		return nil
	}

	vendor := s.vendorCache[id]
	s.cacheMutex.RUnlock()
	return vendor
}

// cacheVendor adds a vendor to the in-process cache.
func (s *SQLiteStorage) cacheVendor(vendor *model.VendorInfo) {
	s.cacheMutex.Lock()
	defer s.cacheMutex.Unlock()

	if len(s.vendorCache) == 0 {
		s.cacheExpiry = time.Now().Add(vendorCacheTTL)
	}
	s.vendorCache[vendor.ID] = vendor
}

// invalidateVendor drops one vendor from the in-process cache.
func (s *SQLiteStorage) invalidateVendor(id string) {
	s.cacheMutex.Lock()
	delete(s.vendorCache, id)
	s.cacheMutex.Unlock()
}
