package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Farhaan96/CollisionOS-sub012/internal/common"
	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
	"github.com/Farhaan96/CollisionOS-sub012/internal/service"
)

// DefaultVendorTimeout bounds each individual vendor call.
const DefaultVendorTimeout = 2 * time.Second

// vendorTimeoutMessage is recorded on quotes whose vendor exceeded its
// deadline, distinctly from generic vendor errors so callers can tell slow
// vendors from broken ones.
const vendorTimeoutMessage = "Vendor timeout"

// FanOut queries every adapter concurrently for one part, each call under
// its own deadline. A vendor that errors, panics, or times out yields a
// failed quote and never disturbs its siblings, so the total wall-clock time
// is bounded by the slowest vendor capped at the per-vendor timeout, not the
// sum of vendor latencies. When every vendor fails the all-failed list is
// returned, never an error; marking the part unsourced is the selector's job.
func FanOut(ctx context.Context, part *model.ClassifiedPart, adapters []service.VendorAdapter, timeout time.Duration, breakers *BreakerSet) []model.VendorQuote {
	if timeout <= 0 {
		timeout = DefaultVendorTimeout
	}

	quotes := make([]model.VendorQuote, len(adapters))

	var wg sync.WaitGroup
	for i, adapter := range adapters {
		wg.Add(1)
		go func(i int, adapter service.VendorAdapter) {
			defer wg.Done()
			quotes[i] = queryVendor(ctx, part, adapter, timeout, breakers)
		}(i, adapter)
	}
	wg.Wait()

	return quotes
}

// queryVendor issues a single guarded vendor call and always returns a quote.
func queryVendor(ctx context.Context, part *model.ClassifiedPart, adapter service.VendorAdapter, timeout time.Duration, breakers *BreakerSet) model.VendorQuote {
	quote := model.VendorQuote{
		VendorID:   adapter.ID(),
		PartNumber: part.NormalizedPartNumber,
	}

	var breaker *CircuitBreaker
	if breakers != nil {
		breaker = breakers.For(adapter.ID())
		if !breaker.Allow() {
			quote.Error = common.ErrCircuitOpen.Error()
			quote.FallbackUsed = true
			slog.Debug("Skipping vendor, circuit open",
				"vendor", adapter.ID(),
				"part", part.NormalizedPartNumber)
			return quote
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		err  error
		resp service.VendorResponse
	}

	// Buffered so a vendor that finishes after the deadline does not leak
	// its goroutine.
	resultCh := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resultCh <- outcome{err: fmt.Errorf("vendor panic: %v", r)}
			}
		}()
		resp, err := adapter.Query(callCtx, part.NormalizedPartNumber, part.Vehicle)
		resultCh <- outcome{resp: resp, err: err}
	}()

	select {
	case <-callCtx.Done():
		// Only a deadline the vendor itself blew counts against its
		// breaker; caller-side cancellation is not the vendor's fault.
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			if breaker != nil {
				breaker.RecordFailure()
			}
			quote.Error = vendorTimeoutMessage
			slog.Warn("Vendor timed out",
				"vendor", adapter.ID(),
				"part", part.NormalizedPartNumber,
				"timeout", timeout)
		} else {
			quote.Error = callCtx.Err().Error()
		}
		return quote

	case result := <-resultCh:
		if result.err != nil {
			// An error surfaced while the caller was already canceling
			// is likewise not held against the vendor.
			if breaker != nil && ctx.Err() == nil {
				breaker.RecordFailure()
			}
			quote.Error = result.err.Error()
			slog.Warn("Vendor query failed",
				"vendor", adapter.ID(),
				"part", part.NormalizedPartNumber,
				"error", result.err)
			return quote
		}

		if breaker != nil {
			breaker.RecordSuccess()
		}

		quote.Success = true
		quote.Available = result.resp.Available
		quote.Price = result.resp.Price
		quote.LeadTimeDays = result.resp.LeadTimeDays
		quote.Reliability = clamp01(result.resp.Reliability)
		return quote
	}
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
