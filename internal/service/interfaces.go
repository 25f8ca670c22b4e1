// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
)

// VendorResponse is the fixed result shape every vendor adapter must
// normalize its provider-specific payload into before this core sees it.
type VendorResponse struct {
	Price        decimal.Decimal `json:"price"`
	Reliability  float64         `json:"reliability"`
	LeadTimeDays int             `json:"lead_time_days"`
	Available    bool            `json:"available"`
}

// VendorAdapter is implemented once per real vendor integration (LKQ,
// PartsTrader, OE Connection, ...). Adapters own their transport and auth;
// the fan-out applies its own outer deadline regardless of adapter behavior.
type VendorAdapter interface {
	ID() string
	Query(ctx context.Context, normalizedPartNumber string, vehicle model.VehicleContext) (VendorResponse, error)
}

// DecodedVehicle carries the fields a VIN decoder can contribute.
type DecodedVehicle struct {
	Make       string
	Model      string
	BodyStyle  string
	EngineSize string
	Year       int
}

// VINDecoder optionally enriches a VehicleContext before sourcing. Decoder
// failure must never fail the batch; callers log and continue.
type VINDecoder interface {
	Decode(ctx context.Context, vin string) (DecodedVehicle, error)
}

// QuoteStore is the backing store contract for the vendor quote cache.
// Writes are whole-entry replacements with last-writer-wins semantics.
type QuoteStore interface {
	Get(ctx context.Context, key string) (*model.CachedQuotes, error)
	Put(ctx context.Context, entry *model.CachedQuotes) error
	Purge(ctx context.Context, olderThan time.Time) (int, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) error
	Close() error
}

// VendorRegistry defines the contract for vendor metadata persistence.
type VendorRegistry interface {
	GetVendor(ctx context.Context, id string) (*model.VendorInfo, error)
	SaveVendor(ctx context.Context, vendor *model.VendorInfo) error
	ListVendors(ctx context.Context) ([]model.VendorInfo, error)
	SetVendorEnabled(ctx context.Context, id string, enabled bool) error
	RecordQuoteOutcome(ctx context.Context, id string, fulfilled bool) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
