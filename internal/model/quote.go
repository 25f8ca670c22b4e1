package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorQuote is the outcome of one vendor query for one part. A quote is
// recorded whether the query succeeded, failed, or timed out, and is never
// mutated after creation.
type VendorQuote struct {
	VendorID     string          `json:"vendor_id"`
	PartNumber   string          `json:"part_number"`
	Error        string          `json:"error,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Reliability  float64         `json:"reliability"`
	LeadTimeDays int             `json:"lead_time_days"`
	Available    bool            `json:"available"`
	Success      bool            `json:"success"`
	FallbackUsed bool            `json:"fallback_used,omitempty"`
}

// Usable reports whether a quote can participate in vendor selection.
func (q VendorQuote) Usable() bool {
	return q.Success && q.Available
}

// CachedQuotes is one vendor-cache entry: the full quote set collected for a
// cache key at a point in time. Entries are replaced wholesale; the cache is
// their only owner.
type CachedQuotes struct {
	Timestamp time.Time     `json:"timestamp"`
	Key       string        `json:"key"`
	Quotes    []VendorQuote `json:"quotes"`
}
