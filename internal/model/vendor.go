package model

import "time"

// VendorInfo is the registry record for a configured parts vendor. The
// reliability prior is a fill-rate estimate in [0,1] refined from recorded
// fulfillment outcomes.
type VendorInfo struct {
	LastUpdated    time.Time `json:"last_updated"`
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Reliability    float64   `json:"reliability"`
	QuoteCount     int       `json:"quote_count"`
	FulfilledCount int       `json:"fulfilled_count"`
	Enabled        bool      `json:"enabled"`
}

// FillRate returns the observed fulfillment ratio, falling back to the
// configured reliability prior until enough outcomes have been recorded.
func (v *VendorInfo) FillRate() float64 {
	if v.QuoteCount < 5 {
		return v.Reliability
	}
	return float64(v.FulfilledCount) / float64(v.QuoteCount)
}
