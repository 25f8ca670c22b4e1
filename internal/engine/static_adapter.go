package engine

import (
	"context"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
	"github.com/Farhaan96/CollisionOS-sub012/internal/service"
)

// StaticAdapter serves quotes from a fixed table keyed by normalized part
// number. It backs dry runs and demos where the real vendor integrations are
// not configured; unknown parts fall back to an optional default response.
type StaticAdapter struct {
	quotes   map[string]service.VendorResponse
	fallback *service.VendorResponse
	id       string
}

// NewStaticAdapter creates an adapter answering from the given quote table.
func NewStaticAdapter(id string, quotes map[string]service.VendorResponse) *StaticAdapter {
	return &StaticAdapter{id: id, quotes: quotes}
}

// WithFallback sets the response for parts missing from the table. Without
// one, unknown parts are reported unavailable.
func (a *StaticAdapter) WithFallback(response service.VendorResponse) *StaticAdapter {
	a.fallback = &response
	return a
}

// ID returns the vendor identifier.
func (a *StaticAdapter) ID() string {
	return a.id
}

// Query looks the part up in the fixture table.
func (a *StaticAdapter) Query(_ context.Context, normalizedPartNumber string, _ model.VehicleContext) (service.VendorResponse, error) {
	if response, ok := a.quotes[normalizedPartNumber]; ok {
		return response, nil
	}
	if a.fallback != nil {
		return *a.fallback, nil
	}
	return service.VendorResponse{Available: false}, nil
}
