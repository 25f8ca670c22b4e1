// Package storage provides the SQLite persistence layer: the vendor registry
// and the durable vendor-quote cache backing.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrNilParameter  = errors.New("parameter cannot be nil")
	ErrInvalidVendor = errors.New("invalid vendor")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateVendorInfo validates a vendor registry record.
func validateVendorInfo(vendor *model.VendorInfo) error {
	if vendor == nil {
		return fmt.Errorf("%w: vendor", ErrNilParameter)
	}
	if strings.TrimSpace(vendor.ID) == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidVendor)
	}
	if strings.TrimSpace(vendor.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidVendor)
	}
	if vendor.Reliability < 0 || vendor.Reliability > 1 {
		return fmt.Errorf("%w: reliability must be between 0 and 1", ErrInvalidVendor)
	}
	if vendor.FulfilledCount > vendor.QuoteCount {
		return fmt.Errorf("%w: fulfilled count exceeds quote count", ErrInvalidVendor)
	}
	return nil
}

// validateCachedQuotes validates a quote cache entry.
func validateCachedQuotes(entry *model.CachedQuotes) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if err := validateString(entry.Key, "key"); err != nil {
		return err
	}
	return nil
}
