package engine

import (
	"context"
	"sync"
	"time"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
	"github.com/Farhaan96/CollisionOS-sub012/internal/service"
)

// MockAdapter is a test implementation of the VendorAdapter interface with a
// programmable response, failure, delay, and panic behavior.
type MockAdapter struct {
	err       error
	id        string
	response  service.VendorResponse
	delay     time.Duration
	hardDelay time.Duration
	calls     int
	panics    bool
	mu        sync.Mutex
}

// NewMockAdapter creates a mock vendor that answers every query with the
// given response.
func NewMockAdapter(id string, response service.VendorResponse) *MockAdapter {
	return &MockAdapter{id: id, response: response}
}

// NewFailingAdapter creates a mock vendor that always errors.
func NewFailingAdapter(id string, err error) *MockAdapter {
	return &MockAdapter{id: id, err: err}
}

// WithDelay makes every query sleep before answering, honoring context
// cancellation so timeout behavior can be exercised.
func (m *MockAdapter) WithDelay(delay time.Duration) *MockAdapter {
	m.delay = delay
	return m
}

// WithHardDelay makes every query sleep while ignoring context cancellation,
// imitating a vendor SDK that blocks past its deadline.
func (m *MockAdapter) WithHardDelay(delay time.Duration) *MockAdapter {
	m.hardDelay = delay
	return m
}

// WithPanic makes every query panic.
func (m *MockAdapter) WithPanic() *MockAdapter {
	m.panics = true
	return m
}

// ID returns the vendor identifier.
func (m *MockAdapter) ID() string {
	return m.id
}

// Query records the call and returns the programmed outcome.
func (m *MockAdapter) Query(ctx context.Context, _ string, _ model.VehicleContext) (service.VendorResponse, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.panics {
		panic("mock vendor panic")
	}

	if m.hardDelay > 0 {
		time.Sleep(m.hardDelay)
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return service.VendorResponse{}, ctx.Err()
		}
	}

	if m.err != nil {
		return service.VendorResponse{}, m.err
	}

	return m.response, nil
}

// Calls returns how many queries the mock has received.
func (m *MockAdapter) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
