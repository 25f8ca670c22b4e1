// Package classify normalizes raw damage lines into classified parts.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
)

// Value tier cutoffs. Parts priced below Economy/Standard boundaries fall in
// the cheaper tier; these are business defaults, not hard requirements.
var (
	economyCeiling  = decimal.NewFromInt(100)
	standardCeiling = decimal.NewFromInt(500)
)

// nonAlphanumeric matches everything a normalized part number may not contain.
var nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]+`)

var categoryRules = defaultCategoryRules()

// Classify normalizes a raw damage line into a ClassifiedPart. It is a total
// function: malformed fields are coerced to safe defaults and unclassifiable
// parts fall back to the OTHER category, so it never errors. Callers may flag
// a part for review when OriginalPrice is zero, but the batch continues.
func Classify(raw model.RawPartLine, vehicle model.VehicleContext) model.ClassifiedPart {
	quantity := raw.Quantity
	if quantity < 0 {
		quantity = 0
	}

	price := raw.UnitCost
	if price.IsNegative() {
		price = decimal.Zero
	}

	return model.ClassifiedPart{
		NormalizedPartNumber: NormalizePartNumber(raw),
		Description:          strings.TrimSpace(raw.Description),
		Category:             deriveCategory(raw),
		Type:                 deriveType(raw),
		ValueTier:            deriveValueTier(price),
		OriginalPrice:        price,
		Quantity:             quantity,
		LineNumber:           raw.LineNumber,
		Vehicle:              vehicle,
	}
}

// NormalizePartNumber builds the canonical part number from the source and
// OEM numbers. The result contains only [A-Z0-9]; control characters, markup,
// and script fragments embedded in the input are stripped outright. A line
// whose numbers sanitize to nothing gets a placeholder derived from its line
// number so the invariant of a non-empty normalized number always holds.
func NormalizePartNumber(raw model.RawPartLine) string {
	normalized := sanitize(raw.PartNumber) + sanitize(raw.OEMPartNumber)
	if normalized == "" {
		normalized = fmt.Sprintf("LINE%04d", raw.LineNumber)
	}
	return normalized
}

func sanitize(s string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToUpper(s), "")
}

func deriveCategory(raw model.RawPartLine) model.PartCategory {
	haystack := strings.ToUpper(raw.Description + " " + raw.OperationType)

	for _, rule := range categoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(haystack, keyword) {
				return rule.Category
			}
		}
	}

	return model.CategoryOther
}

func deriveType(raw model.RawPartLine) model.PartType {
	haystack := strings.ToUpper(raw.OperationType + " " + raw.PartNumber + " " + raw.Description)

	for _, entry := range typeKeywords {
		for _, keyword := range entry.Keywords {
			if strings.Contains(haystack, keyword) {
				return entry.Type
			}
		}
	}

	// A line carrying an explicit OEM number with no contrary flag is OEM.
	if strings.TrimSpace(raw.OEMPartNumber) != "" {
		return model.TypeOEM
	}

	return model.TypeAftermarket
}

func deriveValueTier(price decimal.Decimal) model.ValueTier {
	switch {
	case price.LessThan(economyCeiling):
		return model.TierEconomy
	case price.LessThan(standardCeiling):
		return model.TierStandard
	default:
		return model.TierPremium
	}
}
