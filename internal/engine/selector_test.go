package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
)

func bumperPart() *model.ClassifiedPart {
	return &model.ClassifiedPart{
		NormalizedPartNumber: "GM84044368",
		Description:          "Front Bumper Cover",
		Category:             model.CategoryBody,
		ValueTier:            model.TierStandard,
		OriginalPrice:        decimal.NewFromInt(450),
		Quantity:             1,
		Vehicle:              model.VehicleContext{Year: 2017, Make: "Chevrolet", Model: "Malibu"},
	}
}

func usableQuote(vendorID string, price int64, leadDays int, reliability float64) model.VendorQuote {
	return model.VendorQuote{
		VendorID:     vendorID,
		PartNumber:   "GM84044368",
		Available:    true,
		Success:      true,
		Price:        decimal.NewFromInt(price),
		LeadTimeDays: leadDays,
		Reliability:  reliability,
	}
}

func TestSelect_NoUsableQuotes(t *testing.T) {
	tests := []struct {
		name   string
		quotes []model.VendorQuote
	}{
		{"empty input", nil},
		{"all failed", []model.VendorQuote{
			{VendorID: "a", Error: "connection refused"},
			{VendorID: "b", Error: "Vendor timeout"},
		}},
		{"successful but unavailable", []model.VendorQuote{
			{VendorID: "a", Success: true, Available: false},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Select(tt.quotes, bumperPart(), DefaultScoreWeights())
			assert.False(t, decision.Recommended)
			assert.Empty(t, decision.Alternatives)
		})
	}
}

func TestSelect_FiltersFailedQuotes(t *testing.T) {
	quotes := []model.VendorQuote{
		{VendorID: "broken", Error: "boom"},
		usableQuote("good", 400, 2, 0.9),
	}

	decision := Select(quotes, bumperPart(), DefaultScoreWeights())

	require.True(t, decision.Recommended)
	assert.Equal(t, "good", decision.Vendor.VendorID)
	assert.Empty(t, decision.Alternatives, "failed vendor must not appear as alternative")
}

func TestSelect_CompositeScoreBeatsLowestPrice(t *testing.T) {
	// Vendor A is cheaper but slower and less reliable; the weighted formula
	// must pick B, not simply the lowest price.
	quotes := []model.VendorQuote{
		usableQuote("vendor-a", 420, 2, 0.90),
		usableQuote("vendor-b", 480, 1, 0.95),
	}

	decision := Select(quotes, bumperPart(), DefaultScoreWeights())

	require.True(t, decision.Recommended)
	assert.Equal(t, "vendor-b", decision.Vendor.VendorID)
	require.Len(t, decision.Alternatives, 1)
	assert.Equal(t, "vendor-a", decision.Alternatives[0].VendorID)
	assert.Greater(t, decision.Vendor.Score, decision.Alternatives[0].Score)
}

func TestSelect_PriceFactorMonotonicity(t *testing.T) {
	part := bumperPart()

	cheap := Select([]model.VendorQuote{usableQuote("v", 300, 1, 0.9)}, part, DefaultScoreWeights())
	atPrice := Select([]model.VendorQuote{usableQuote("v", 450, 1, 0.9)}, part, DefaultScoreWeights())
	expensive := Select([]model.VendorQuote{usableQuote("v", 900, 1, 0.9)}, part, DefaultScoreWeights())

	assert.Greater(t, cheap.Vendor.Score, atPrice.Vendor.Score)
	assert.Greater(t, atPrice.Vendor.Score, expensive.Vendor.Score)
}

func TestSelect_TieBreaks(t *testing.T) {
	part := bumperPart()

	t.Run("higher reliability wins a score tie", func(t *testing.T) {
		// Same price and lead time; reliability contributes to the score, so
		// force a tie by zeroing its weight.
		weights := ScoreWeights{Price: 0.5, LeadTime: 0.5, Reliability: 0}
		decision := Select([]model.VendorQuote{
			usableQuote("low-rel", 400, 2, 0.7),
			usableQuote("high-rel", 400, 2, 0.95),
		}, part, weights)
		require.True(t, decision.Recommended)
		assert.Equal(t, "high-rel", decision.Vendor.VendorID)
	})

	t.Run("lower price wins when score and reliability tie", func(t *testing.T) {
		weights := ScoreWeights{Price: 0, LeadTime: 0.5, Reliability: 0.5}
		decision := Select([]model.VendorQuote{
			usableQuote("pricier", 480, 2, 0.9),
			usableQuote("cheaper", 420, 2, 0.9),
		}, part, weights)
		require.True(t, decision.Recommended)
		assert.Equal(t, "cheaper", decision.Vendor.VendorID)
	})

	t.Run("vendor id as final tie break", func(t *testing.T) {
		decision := Select([]model.VendorQuote{
			usableQuote("zeta", 400, 2, 0.9),
			usableQuote("alpha", 400, 2, 0.9),
		}, part, DefaultScoreWeights())
		require.True(t, decision.Recommended)
		assert.Equal(t, "alpha", decision.Vendor.VendorID)
	})
}

func TestSelect_Deterministic(t *testing.T) {
	quotes := []model.VendorQuote{
		usableQuote("a", 410, 3, 0.85),
		usableQuote("b", 455, 1, 0.92),
		usableQuote("c", 390, 5, 0.75),
		usableQuote("d", 505, 2, 0.99),
	}

	first := Select(quotes, bumperPart(), DefaultScoreWeights())
	for i := 0; i < 10; i++ {
		again := Select(quotes, bumperPart(), DefaultScoreWeights())
		assert.Equal(t, first, again)
	}
}

func TestSelect_RanksAllAlternatives(t *testing.T) {
	quotes := []model.VendorQuote{
		usableQuote("a", 410, 3, 0.85),
		usableQuote("b", 455, 1, 0.92),
		usableQuote("c", 390, 5, 0.75),
	}

	decision := Select(quotes, bumperPart(), DefaultScoreWeights())

	require.True(t, decision.Recommended)
	require.Len(t, decision.Alternatives, 2)
	assert.GreaterOrEqual(t, decision.Vendor.Score, decision.Alternatives[0].Score)
	assert.GreaterOrEqual(t, decision.Alternatives[0].Score, decision.Alternatives[1].Score)
}

func TestPriceFactor_NeutralWithoutOriginalPrice(t *testing.T) {
	assert.InDelta(t, 0.5, priceFactor(decimal.NewFromInt(400), decimal.Zero), 0.001)
}
