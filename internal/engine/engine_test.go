package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farhaan96/CollisionOS-sub012/internal/common"
	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
	"github.com/Farhaan96/CollisionOS-sub012/internal/quotecache"
	"github.com/Farhaan96/CollisionOS-sub012/internal/service"
)

func testVehicle() model.VehicleContext {
	return model.VehicleContext{
		Year:  2017,
		Make:  "Chevrolet",
		Model: "Malibu",
	}
}

func bumperLine() model.RawPartLine {
	return model.RawPartLine{
		LineNumber:  1,
		PartNumber:  "GM-84044368",
		Description: "Front Bumper Cover",
		UnitCost:    decimal.NewFromInt(450),
		Quantity:    1,
	}
}

func newTestCache(t *testing.T) *quotecache.Cache {
	t.Helper()
	cache := quotecache.New(quotecache.NewMemoryStore(), time.Minute)
	t.Cleanup(cache.Close)
	return cache
}

// mockVINDecoder is a programmable VINDecoder for engine tests.
type mockVINDecoder struct {
	err     error
	decoded service.DecodedVehicle
	calls   int
}

func (d *mockVINDecoder) Decode(_ context.Context, _ string) (service.DecodedVehicle, error) {
	d.calls++
	if d.err != nil {
		return service.DecodedVehicle{}, d.err
	}
	return d.decoded, nil
}

// mockRegistry serves a fixed vendor list; only ListVendors matters to the
// engine, the rest satisfies the interface.
type mockRegistry struct {
	err     error
	vendors []model.VendorInfo
}

func (r *mockRegistry) GetVendor(_ context.Context, id string) (*model.VendorInfo, error) {
	for i := range r.vendors {
		if r.vendors[i].ID == id {
			return &r.vendors[i], nil
		}
	}
	return nil, common.ErrVendorNotFound
}

func (r *mockRegistry) SaveVendor(_ context.Context, _ *model.VendorInfo) error { return nil }

func (r *mockRegistry) ListVendors(_ context.Context) ([]model.VendorInfo, error) {
	return r.vendors, r.err
}

func (r *mockRegistry) SetVendorEnabled(_ context.Context, _ string, _ bool) error { return nil }

func (r *mockRegistry) RecordQuoteOutcome(_ context.Context, _ string, _ bool) error { return nil }

func (r *mockRegistry) Close() error { return nil }

func TestProcessBatch_SelectsBestVendorAndGeneratesPO(t *testing.T) {
	// vendor-b's faster lead time and higher reliability outweigh vendor-a's
	// lower price under the default weights.
	adapters := []service.VendorAdapter{
		NewStaticAdapter("vendor-a", map[string]service.VendorResponse{
			"GM84044368": goodResponse(420, 2, 0.90),
		}),
		NewStaticAdapter("vendor-b", map[string]service.VendorResponse{
			"GM84044368": goodResponse(480, 1, 0.95),
		}),
	}

	eng := New(newTestCache(t), adapters)
	result, err := eng.ProcessBatch(context.Background(), []model.RawPartLine{bumperLine()}, testVehicle())

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	require.Empty(t, result.Errors)
	assert.True(t, result.Success)
	assert.NotEmpty(t, result.BatchID)

	part := result.Results[0]
	assert.Equal(t, "GM84044368", part.Part.NormalizedPartNumber)
	require.True(t, part.Decision.Recommended)
	assert.Equal(t, "vendor-b", part.Decision.Vendor.VendorID)
	require.Len(t, part.Decision.Alternatives, 1)
	assert.Equal(t, "vendor-a", part.Decision.Alternatives[0].VendorID)

	require.NotNil(t, part.POLine)
	assert.Equal(t, "vendor-b", part.POLine.VendorID)
	assert.True(t, part.POLine.UnitPrice.Equal(decimal.NewFromInt(480)))
	assert.True(t, part.POLine.CustomerPrice.Equal(decimal.NewFromInt(600)), "480 with 25 percent markup")
	assert.False(t, part.POLine.RequiresApproval)
	assert.True(t, part.POLine.AutoGenerated)

	assert.Equal(t, 1, result.Statistics.TotalParts)
	assert.Equal(t, 1, result.Statistics.ProcessedParts)
	assert.Equal(t, 2, result.Statistics.VendorCalls)
	assert.Equal(t, 0, result.Statistics.CacheHits)
	assert.Equal(t, 1, result.Sourced())
}

func TestProcessBatch_WarmCacheSkipsVendors(t *testing.T) {
	adapterA := NewMockAdapter("vendor-a", goodResponse(420, 2, 0.90))
	adapterB := NewMockAdapter("vendor-b", goodResponse(480, 1, 0.95))
	eng := New(newTestCache(t), []service.VendorAdapter{adapterA, adapterB})

	lines := []model.RawPartLine{bumperLine()}

	first, err := eng.ProcessBatch(context.Background(), lines, testVehicle())
	require.NoError(t, err)
	require.Len(t, first.Results, 1)
	assert.False(t, first.Results[0].CacheHit)
	assert.Equal(t, 1, adapterA.Calls())

	second, err := eng.ProcessBatch(context.Background(), lines, testVehicle())
	require.NoError(t, err)
	require.Len(t, second.Results, 1)
	assert.True(t, second.Results[0].CacheHit)
	assert.Equal(t, 1, adapterA.Calls(), "cached part must not reach vendors again")
	assert.Equal(t, 1, adapterB.Calls())
	assert.Equal(t, 1, second.Statistics.CacheHits)
	assert.Equal(t, 0, second.Statistics.VendorCalls)

	// The cached decision matches the cold one.
	assert.Equal(t, first.Results[0].Decision.Vendor.VendorID, second.Results[0].Decision.Vendor.VendorID)
}

func TestProcessBatch_AllVendorsFailedStillReturnsPart(t *testing.T) {
	adapters := []service.VendorAdapter{
		NewFailingAdapter("a", errors.New("boom")),
		NewFailingAdapter("b", errors.New("bust")),
	}

	eng := New(newTestCache(t), adapters)
	result, err := eng.ProcessBatch(context.Background(), []model.RawPartLine{bumperLine()}, testVehicle())

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.False(t, result.Results[0].Decision.Recommended)
	assert.Nil(t, result.Results[0].POLine)
	assert.Len(t, result.Results[0].Quotes, 2)
	assert.Equal(t, 0, result.Sourced())
}

func TestProcessBatch_FailedQuotesAreNotCached(t *testing.T) {
	adapter := NewFailingAdapter("a", errors.New("boom"))
	eng := New(newTestCache(t), []service.VendorAdapter{adapter})

	lines := []model.RawPartLine{bumperLine()}
	_, err := eng.ProcessBatch(context.Background(), lines, testVehicle())
	require.NoError(t, err)

	result, err := eng.ProcessBatch(context.Background(), lines, testVehicle())
	require.NoError(t, err)
	assert.False(t, result.Results[0].CacheHit)
	assert.Equal(t, 2, adapter.Calls(), "all-failed quote sets must be retried, not cached")
}

func TestProcessBatch_EmptyBatch(t *testing.T) {
	eng := New(newTestCache(t), nil)

	_, err := eng.ProcessBatch(context.Background(), nil, testVehicle())
	assert.ErrorIs(t, err, common.ErrEmptyBatch)
}

func TestProcessBatch_InvalidVehicle(t *testing.T) {
	eng := New(newTestCache(t), nil)

	tests := []struct {
		name    string
		vehicle model.VehicleContext
	}{
		{"missing make", model.VehicleContext{Year: 2017, Model: "Malibu"}},
		{"missing model", model.VehicleContext{Year: 2017, Make: "Chevrolet"}},
		{"year out of range", model.VehicleContext{Year: 1890, Make: "Chevrolet", Model: "Malibu"}},
		{"bad vin length", model.VehicleContext{Year: 2017, Make: "Chevrolet", Model: "Malibu", VIN: "SHORT"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.ProcessBatch(context.Background(), []model.RawPartLine{bumperLine()}, tt.vehicle)
			assert.ErrorIs(t, err, common.ErrInvalidVehicle)
		})
	}
}

func TestProcessBatch_LargeBatchBoundedWorkers(t *testing.T) {
	adapter := NewStaticAdapter("vendor-a", nil).
		WithFallback(goodResponse(120, 2, 0.9))

	config := DefaultConfig()
	config.Concurrency = 4
	eng := NewWithConfig(newTestCache(t), []service.VendorAdapter{adapter}, config)

	lines := make([]model.RawPartLine, 500)
	for i := range lines {
		lines[i] = model.RawPartLine{
			LineNumber:  i + 1,
			PartNumber:  fmt.Sprintf("PN-%04d", i),
			Description: "bracket",
			UnitCost:    decimal.NewFromInt(50),
			Quantity:    1,
		}
	}

	result, err := eng.ProcessBatch(context.Background(), lines, testVehicle())

	require.NoError(t, err)
	assert.Len(t, result.Results, 500)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 500, result.Sourced())
	assert.Equal(t, 500, result.Statistics.ProcessedParts)

	// Every line number survives the completion-order shuffle exactly once.
	seen := make(map[int]bool, 500)
	for _, res := range result.Results {
		assert.False(t, seen[res.Part.LineNumber], "line %d duplicated", res.Part.LineNumber)
		seen[res.Part.LineNumber] = true
	}
	assert.Len(t, seen, 500)
}

func TestProcessBatch_ProgressCallback(t *testing.T) {
	adapter := NewStaticAdapter("vendor-a", nil).
		WithFallback(goodResponse(120, 2, 0.9))

	var progress []int
	config := DefaultConfig()
	config.Concurrency = 1
	config.OnProgress = func(done, total int) {
		assert.Equal(t, 3, total)
		progress = append(progress, done)
	}
	eng := NewWithConfig(newTestCache(t), []service.VendorAdapter{adapter}, config)

	lines := []model.RawPartLine{
		{LineNumber: 1, PartNumber: "A1", Description: "a", Quantity: 1},
		{LineNumber: 2, PartNumber: "B2", Description: "b", Quantity: 1},
		{LineNumber: 3, PartNumber: "C3", Description: "c", Quantity: 1},
	}

	_, err := eng.ProcessBatch(context.Background(), lines, testVehicle())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, progress)
}

func TestProcessBatch_BatchDeadlineRecordsErrors(t *testing.T) {
	stuck := NewMockAdapter("stuck", goodResponse(100, 1, 0.9)).
		WithHardDelay(300 * time.Millisecond)

	config := DefaultConfig()
	config.Concurrency = 2
	config.BatchDeadline = 50 * time.Millisecond
	eng := NewWithConfig(newTestCache(t), []service.VendorAdapter{stuck}, config)

	lines := []model.RawPartLine{
		{LineNumber: 1, PartNumber: "A1", Description: "a", Quantity: 1},
		{LineNumber: 2, PartNumber: "B2", Description: "b", Quantity: 1},
		{LineNumber: 3, PartNumber: "C3", Description: "c", Quantity: 1},
		{LineNumber: 4, PartNumber: "D4", Description: "d", Quantity: 1},
	}

	result, err := eng.ProcessBatch(context.Background(), lines, testVehicle())

	require.NoError(t, err, "a blown deadline degrades parts, never the call")
	assert.Len(t, result.Errors, 4)
	for _, partErr := range result.Errors {
		assert.Contains(t, partErr.Message, "batch canceled")
		assert.NotZero(t, partErr.LineNumber)
	}
	assert.Equal(t, 4, result.Statistics.TotalParts)
	assert.Equal(t, 0, result.Statistics.ProcessedParts)
}

func TestProcessBatch_VINEnrichment(t *testing.T) {
	adapter := NewStaticAdapter("vendor-a", nil).
		WithFallback(goodResponse(120, 2, 0.9))

	decoder := &mockVINDecoder{decoded: service.DecodedVehicle{
		BodyStyle:  "Sedan",
		EngineSize: "1.5L",
	}}

	config := DefaultConfig()
	config.EnhanceWithVINDecoding = true
	eng := NewWithConfig(newTestCache(t), []service.VendorAdapter{adapter}, config)
	eng.SetVINDecoder(decoder)

	vehicle := testVehicle()
	vehicle.VIN = "1G1ZE5ST8HF123456"

	result, err := eng.ProcessBatch(context.Background(), []model.RawPartLine{bumperLine()}, vehicle)

	require.NoError(t, err)
	assert.Equal(t, 1, decoder.calls)
	assert.True(t, result.Vehicle.DecodedFromVIN)
	assert.Equal(t, "Sedan", result.Vehicle.BodyStyle)
	assert.Equal(t, "1.5L", result.Vehicle.EngineSize)
}

func TestProcessBatch_VINDecoderFailureIsNonFatal(t *testing.T) {
	adapter := NewStaticAdapter("vendor-a", nil).
		WithFallback(goodResponse(120, 2, 0.9))

	decoder := &mockVINDecoder{err: errors.New("decoder offline")}

	config := DefaultConfig()
	config.EnhanceWithVINDecoding = true
	eng := NewWithConfig(newTestCache(t), []service.VendorAdapter{adapter}, config)
	eng.SetVINDecoder(decoder)

	vehicle := testVehicle()
	vehicle.VIN = "1G1ZE5ST8HF123456"

	result, err := eng.ProcessBatch(context.Background(), []model.RawPartLine{bumperLine()}, vehicle)

	require.NoError(t, err)
	assert.False(t, result.Vehicle.DecodedFromVIN)
	assert.Equal(t, 1, result.Sourced())
}

func TestProcessBatch_RegistryPriorsBackfillReliability(t *testing.T) {
	// The adapter reports no reliability of its own; the registry's observed
	// fill rate fills the gap.
	adapter := NewStaticAdapter("lkq", nil).
		WithFallback(goodResponse(120, 2, 0))

	eng := New(newTestCache(t), []service.VendorAdapter{adapter})
	eng.SetVendorRegistry(&mockRegistry{vendors: []model.VendorInfo{
		{ID: "lkq", Name: "LKQ", Reliability: 0.8, Enabled: true},
	}})

	result, err := eng.ProcessBatch(context.Background(), []model.RawPartLine{bumperLine()}, testVehicle())

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	require.Len(t, result.Results[0].Quotes, 1)
	assert.InDelta(t, 0.8, result.Results[0].Quotes[0].Reliability, 0.001)
}

func TestProcessBatch_RegistryErrorIsNonFatal(t *testing.T) {
	adapter := NewStaticAdapter("lkq", nil).
		WithFallback(goodResponse(120, 2, 0.9))

	eng := New(newTestCache(t), []service.VendorAdapter{adapter})
	eng.SetVendorRegistry(&mockRegistry{err: errors.New("registry down")})

	result, err := eng.ProcessBatch(context.Background(), []model.RawPartLine{bumperLine()}, testVehicle())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Sourced())
}

func TestProcessBatch_PODisabled(t *testing.T) {
	adapter := NewStaticAdapter("lkq", nil).
		WithFallback(goodResponse(120, 2, 0.9))

	config := DefaultConfig()
	config.GeneratePO = false
	eng := NewWithConfig(newTestCache(t), []service.VendorAdapter{adapter}, config)

	result, err := eng.ProcessBatch(context.Background(), []model.RawPartLine{bumperLine()}, testVehicle())

	require.NoError(t, err)
	require.Len(t, result.Results, 1)
	assert.True(t, result.Results[0].Decision.Recommended)
	assert.Nil(t, result.Results[0].POLine)
}
