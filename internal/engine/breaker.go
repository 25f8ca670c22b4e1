package engine

import (
	"sync"
	"time"
)

// breakerState tracks the lifecycle of a vendor circuit.
type breakerState int

const (
	breakerClosed breakerState = iota
	breakerOpen
	breakerHalfOpen
)

// Breaker defaults.
const (
	defaultFailureThreshold = 3
	defaultCooldown         = 30 * time.Second
)

// CircuitBreaker guards one vendor. Consecutive failures trip it open; while
// open, calls are rejected without touching the network. After the cooldown
// a single probe call is allowed through, and its outcome closes or reopens
// the circuit.
type CircuitBreaker struct {
	openedAt  time.Time
	failures  int
	threshold int
	cooldown  time.Duration
	state     breakerState
	mu        sync.Mutex
}

// NewCircuitBreaker creates a closed breaker. Non-positive arguments select
// the defaults.
func NewCircuitBreaker(threshold int, cooldown time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = defaultFailureThreshold
	}
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}

	return &CircuitBreaker{
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// Allow reports whether a call may be issued right now. An open circuit past
// its cooldown transitions to half-open and admits exactly one probe.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case breakerClosed:
		return true
	case breakerOpen:
		if time.Since(b.openedAt) >= b.cooldown {
			b.state = breakerHalfOpen
			return true
		}
		return false
	case breakerHalfOpen:
		// A probe is already in flight.
		return false
	default:
		return true
	}
}

// RecordSuccess closes the circuit and resets the failure count.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = breakerClosed
	b.failures = 0
}

// RecordFailure counts a failure, tripping the circuit open once the
// consecutive-failure threshold is reached. A failed half-open probe reopens
// immediately.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++

	if b.state == breakerHalfOpen || b.failures >= b.threshold {
		b.state = breakerOpen
		b.openedAt = time.Now()
	}
}

// BreakerSet lazily maintains one breaker per vendor.
type BreakerSet struct {
	breakers  map[string]*CircuitBreaker
	threshold int
	cooldown  time.Duration
	mu        sync.Mutex
}

// NewBreakerSet creates an empty set whose breakers share a policy.
func NewBreakerSet(threshold int, cooldown time.Duration) *BreakerSet {
	return &BreakerSet{
		breakers:  make(map[string]*CircuitBreaker),
		threshold: threshold,
		cooldown:  cooldown,
	}
}

// For returns the breaker for a vendor, creating it on first use.
func (s *BreakerSet) For(vendorID string) *CircuitBreaker {
	s.mu.Lock()
	defer s.mu.Unlock()

	breaker, ok := s.breakers[vendorID]
	if !ok {
		breaker = NewCircuitBreaker(s.threshold, s.cooldown)
		s.breakers[vendorID] = breaker
	}

	return breaker
}
