package engine

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
)

// ScoreWeights controls the relative weight of each scoring factor. The
// defaults are business defaults, not hard requirements.
type ScoreWeights struct {
	Price       float64
	LeadTime    float64
	Reliability float64
}

// DefaultScoreWeights returns the standard 0.4/0.3/0.3 weighting.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Price:       0.4,
		LeadTime:    0.3,
		Reliability: 0.3,
	}
}

// Select scores the usable quotes for a part and returns a ranked
// recommendation. Quotes that failed or report the part unavailable are
// filtered out first; when none remain the decision is not recommended.
// Identical input quote sets always yield the identical ranking.
func Select(quotes []model.VendorQuote, part *model.ClassifiedPart, weights ScoreWeights) model.SourcingDecision {
	candidates := make([]model.ScoredQuote, 0, len(quotes))
	for _, quote := range quotes {
		if !quote.Usable() {
			continue
		}
		candidates = append(candidates, model.ScoredQuote{
			VendorQuote: quote,
			Score:       score(quote, part, weights),
		})
	}

	if len(candidates) == 0 {
		return model.SourcingDecision{Recommended: false, Alternatives: []model.ScoredQuote{}}
	}

	// Descending by score; ties broken by higher reliability, then lower
	// price, then vendor id so the ranking is fully deterministic.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Reliability != b.Reliability {
			return a.Reliability > b.Reliability
		}
		if !a.Price.Equal(b.Price) {
			return a.Price.LessThan(b.Price)
		}
		return a.VendorID < b.VendorID
	})

	return model.SourcingDecision{
		Recommended:  true,
		Vendor:       candidates[0],
		Alternatives: candidates[1:],
	}
}

// score computes the weighted composite for one quote.
func score(quote model.VendorQuote, part *model.ClassifiedPart, weights ScoreWeights) float64 {
	return weights.Price*priceFactor(quote.Price, part.OriginalPrice) +
		weights.LeadTime*leadTimeFactor(quote.LeadTimeDays) +
		weights.Reliability*clamp01(quote.Reliability)
}

// priceFactor is monotonically decreasing in price: quotes at or below the
// estimate's original price score 0.8 or better, quotes above it decay
// proportionally. Without a usable original price the factor is neutral.
func priceFactor(price, original decimal.Decimal) float64 {
	if !original.IsPositive() {
		return 0.5
	}

	ratio, _ := price.Div(original).Float64()
	if ratio < 0 {
		ratio = 0
	}

	if ratio <= 1 {
		return 1.0 - 0.2*ratio
	}
	return 0.8 / ratio
}

// leadTimeFactor rewards shorter lead times: 1.0 for same-day, halving by
// the second day out.
func leadTimeFactor(days int) float64 {
	if days < 0 {
		days = 0
	}
	return 1.0 / float64(1+days)
}
