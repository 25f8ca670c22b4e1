// Package engine implements the automated parts sourcing pipeline: per-part
// classification, cached vendor fan-out, scoring, and purchase-order line
// generation, run over a batch with bounded concurrency.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Farhaan96/CollisionOS-sub012/internal/classify"
	"github.com/Farhaan96/CollisionOS-sub012/internal/common"
	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
	"github.com/Farhaan96/CollisionOS-sub012/internal/quotecache"
	"github.com/Farhaan96/CollisionOS-sub012/internal/service"
)

// DefaultConcurrency caps how many parts are sourced in parallel. The bound
// exists to cap outbound connection fan-out (parts x vendors) under load.
const DefaultConcurrency = 8

// Config holds configuration options for the sourcing engine.
type Config struct {
	// OnProgress, when set, is invoked after each part finishes.
	OnProgress func(done, total int)
	// VendorTimeout bounds each individual vendor call.
	VendorTimeout time.Duration
	// BatchDeadline, when positive, bounds the whole batch; parts still
	// pending when it expires are recorded as errors.
	BatchDeadline time.Duration
	// BreakerCooldown is how long a tripped vendor circuit stays open.
	BreakerCooldown time.Duration
	Weights         ScoreWeights
	Policy          POPolicy
	// Concurrency is the worker-pool bound; the effective bound is
	// min(Concurrency, number of lines).
	Concurrency int
	// BreakerThreshold is the consecutive-failure count that trips a vendor
	// circuit.
	BreakerThreshold       int
	GeneratePO             bool
	EnhanceWithVINDecoding bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		VendorTimeout:    DefaultVendorTimeout,
		Concurrency:      DefaultConcurrency,
		Weights:          DefaultScoreWeights(),
		Policy:           DefaultPOPolicy(),
		BreakerThreshold: defaultFailureThreshold,
		BreakerCooldown:  defaultCooldown,
		GeneratePO:       true,
	}
}

// Engine orchestrates parts sourcing. It is the sole entry point external
// callers use; the cache is the only mutable state shared between
// concurrently sourced parts.
type Engine struct {
	cache      *quotecache.Cache
	registry   service.VendorRegistry
	vinDecoder service.VINDecoder
	breakers   *BreakerSet
	validate   *validator.Validate
	adapters   []service.VendorAdapter
	config     Config
}

// New creates a sourcing engine with the default configuration.
func New(cache *quotecache.Cache, adapters []service.VendorAdapter) *Engine {
	return NewWithConfig(cache, adapters, DefaultConfig())
}

// NewWithConfig creates a sourcing engine with custom configuration.
func NewWithConfig(cache *quotecache.Cache, adapters []service.VendorAdapter, config Config) *Engine {
	if config.VendorTimeout <= 0 {
		config.VendorTimeout = DefaultVendorTimeout
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}

	return &Engine{
		cache:    cache,
		adapters: adapters,
		breakers: NewBreakerSet(config.BreakerThreshold, config.BreakerCooldown),
		validate: validator.New(),
		config:   config,
	}
}

// SetVendorRegistry wires an optional vendor registry whose fill rates seed
// reliability for adapters that report none.
func (e *Engine) SetVendorRegistry(registry service.VendorRegistry) {
	e.registry = registry
}

// SetVINDecoder wires an optional VIN decoder used when the caller asks for
// vehicle enrichment.
func (e *Engine) SetVINDecoder(decoder service.VINDecoder) {
	e.vinDecoder = decoder
}

// partOutcome is the per-line result flowing out of the worker pool.
type partOutcome struct {
	result  *model.PartResult
	partErr *model.PartError
}

// ProcessBatch sources every damage line against the configured vendors and
// returns the aggregated result. Per-part failures are isolated: they are
// appended to Errors and the batch still succeeds. Only an empty batch or an
// invalid vehicle context fails the call itself. The order of Results is
// completion order; entries carry their line number for reassociation.
func (e *Engine) ProcessBatch(ctx context.Context, lines []model.RawPartLine, vehicle model.VehicleContext) (*model.SourcingResult, error) {
	start := time.Now()

	if len(lines) == 0 {
		return nil, common.ErrEmptyBatch
	}
	if err := e.validate.Struct(vehicle); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidVehicle, err)
	}

	vehicle = e.maybeDecodeVIN(ctx, vehicle)

	if e.config.BatchDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.BatchDeadline)
		defer cancel()
	}

	priors := e.loadReliabilityPriors(ctx)

	concurrency := e.config.Concurrency
	if concurrency > len(lines) {
		concurrency = len(lines)
	}

	slog.Info("Starting parts sourcing batch",
		"vehicle", vehicle.String(),
		"parts", len(lines),
		"vendors", len(e.adapters),
		"concurrency", concurrency)

	workCh := make(chan model.RawPartLine, len(lines))
	for _, line := range lines {
		workCh <- line
	}
	close(workCh)

	outcomeCh := make(chan partOutcome, len(lines))

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func() {
			defer wg.Done()
			e.sourcingWorker(ctx, workCh, outcomeCh, vehicle, priors)
		}()
	}

	go func() {
		wg.Wait()
		close(outcomeCh)
	}()

	result := &model.SourcingResult{
		BatchID: uuid.New().String(),
		Vehicle: vehicle,
		Success: true,
		Results: make([]model.PartResult, 0, len(lines)),
	}

	done := 0
	for outcome := range outcomeCh {
		done++
		if outcome.partErr != nil {
			result.Errors = append(result.Errors, *outcome.partErr)
		} else {
			result.Results = append(result.Results, *outcome.result)
			if outcome.result.CacheHit {
				result.Statistics.CacheHits++
			} else {
				result.Statistics.VendorCalls += len(e.adapters)
			}
		}
		if e.config.OnProgress != nil {
			e.config.OnProgress(done, len(lines))
		}
	}

	result.Statistics.TotalParts = len(lines)
	result.Statistics.ProcessedParts = len(result.Results)
	result.Statistics.ProcessingTime = time.Since(start)

	slog.Info("Parts sourcing batch complete",
		"batch_id", result.BatchID,
		"processed", result.Statistics.ProcessedParts,
		"sourced", result.Sourced(),
		"errors", len(result.Errors),
		"cache_hits", result.Statistics.CacheHits,
		"duration", result.Statistics.ProcessingTime.Round(time.Millisecond))

	return result, nil
}

// sourcingWorker drains the work channel, isolating each part's pipeline.
func (e *Engine) sourcingWorker(ctx context.Context, workCh <-chan model.RawPartLine, outcomeCh chan<- partOutcome, vehicle model.VehicleContext, priors map[string]float64) {
	for line := range workCh {
		select {
		case <-ctx.Done():
			outcomeCh <- partOutcome{partErr: &model.PartError{
				LineNumber: line.LineNumber,
				PartNumber: line.PartNumber,
				Message:    fmt.Sprintf("batch canceled before part was sourced: %v", ctx.Err()),
			}}
			continue
		default:
		}

		outcomeCh <- e.sourcePart(ctx, line, vehicle, priors)
	}
}

// sourcePart runs one line through classify, cache, fan-out, select, and PO
// generation. Any panic is caught here so one bad part never takes down the
// batch.
func (e *Engine) sourcePart(ctx context.Context, line model.RawPartLine, vehicle model.VehicleContext, priors map[string]float64) (outcome partOutcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Part pipeline panicked",
				"line", line.LineNumber,
				"part", line.PartNumber,
				"panic", r)
			outcome = partOutcome{partErr: &model.PartError{
				LineNumber: line.LineNumber,
				PartNumber: line.PartNumber,
				Message:    fmt.Sprintf("part pipeline panic: %v", r),
			}}
		}
	}()

	part := classify.Classify(line, vehicle)

	quotes, cacheHit := e.cache.Get(ctx, &part)
	if !cacheHit {
		quotes = FanOut(ctx, &part, e.adapters, e.config.VendorTimeout, e.breakers)
		applyReliabilityPriors(quotes, priors)

		if ctx.Err() != nil {
			return partOutcome{partErr: &model.PartError{
				LineNumber: line.LineNumber,
				PartNumber: line.PartNumber,
				Message:    fmt.Sprintf("batch canceled while querying vendors: %v", ctx.Err()),
			}}
		}

		if anyUsable(quotes) {
			e.cache.Put(ctx, &part, quotes)
		}
	}

	decision := Select(quotes, &part, e.config.Weights)

	result := &model.PartResult{
		Part:     part,
		Quotes:   quotes,
		Decision: decision,
		CacheHit: cacheHit,
	}

	if e.config.GeneratePO {
		if po, ok := GeneratePOLine(&part, decision, e.config.Policy); ok {
			result.POLine = po
		}
	}

	return partOutcome{result: result}
}

// maybeDecodeVIN enriches the vehicle context from its VIN when asked to.
// Decoder failure is logged and otherwise ignored: the context simply stays
// unenriched.
func (e *Engine) maybeDecodeVIN(ctx context.Context, vehicle model.VehicleContext) model.VehicleContext {
	if !e.config.EnhanceWithVINDecoding || e.vinDecoder == nil {
		return vehicle
	}
	if vehicle.VIN == "" || vehicle.DecodedFromVIN {
		return vehicle
	}

	decoded, err := e.vinDecoder.Decode(ctx, vehicle.VIN)
	if err != nil {
		slog.Warn("VIN decoding failed, continuing without enrichment",
			"vin", vehicle.VIN,
			"error", err)
		return vehicle
	}

	if vehicle.BodyStyle == "" {
		vehicle.BodyStyle = decoded.BodyStyle
	}
	if vehicle.EngineSize == "" {
		vehicle.EngineSize = decoded.EngineSize
	}
	vehicle.DecodedFromVIN = true

	return vehicle
}

// loadReliabilityPriors pulls fill rates from the vendor registry. Registry
// problems only cost us the priors, never the batch.
func (e *Engine) loadReliabilityPriors(ctx context.Context) map[string]float64 {
	if e.registry == nil {
		return nil
	}

	vendors, err := e.registry.ListVendors(ctx)
	if err != nil {
		slog.Warn("Failed to load vendor reliability priors", "error", err)
		return nil
	}

	priors := make(map[string]float64, len(vendors))
	for _, vendor := range vendors {
		priors[vendor.ID] = vendor.FillRate()
	}

	return priors
}

// applyReliabilityPriors backfills reliability on quotes from vendors that
// did not report their own.
func applyReliabilityPriors(quotes []model.VendorQuote, priors map[string]float64) {
	if len(priors) == 0 {
		return
	}

	for i := range quotes {
		if quotes[i].Success && quotes[i].Reliability == 0 {
			if prior, ok := priors[quotes[i].VendorID]; ok {
				quotes[i].Reliability = prior
			}
		}
	}
}

func anyUsable(quotes []model.VendorQuote) bool {
	for _, quote := range quotes {
		if quote.Usable() {
			return true
		}
	}
	return false
}
