// Package model defines the core domain models used throughout the application.
package model

import (
	"crypto/sha256"
	"fmt"

	"github.com/shopspring/decimal"
)

// PartCategory is the coarse repair category a damage line belongs to.
type PartCategory string

// Part category constants, in rough order of how often they appear on estimates.
const (
	CategoryBody       PartCategory = "BODY"
	CategoryPaint      PartCategory = "PAINT"
	CategoryMechanical PartCategory = "MECHANICAL"
	CategoryElectrical PartCategory = "ELECTRICAL"
	CategoryGlass      PartCategory = "GLASS"
	CategoryOther      PartCategory = "OTHER"
)

// PartType indicates the sourcing tier of a part.
type PartType string

// Part type constants.
const (
	TypeOEM         PartType = "OEM"
	TypeAftermarket PartType = "AFTERMARKET"
	TypeUsed        PartType = "USED"
	TypeRecycled    PartType = "RECYCLED"
)

// ValueTier is the coarse price bucket used to bias vendor preference.
type ValueTier string

// Value tier constants.
const (
	TierEconomy  ValueTier = "ECONOMY"
	TierStandard ValueTier = "STANDARD"
	TierPremium  ValueTier = "PREMIUM"
)

// RawPartLine is a single normalized damage/repair line item as produced by
// the external estimate parser. It is never mutated after ingestion.
type RawPartLine struct {
	PartNumber    string          `json:"part_number"`
	OEMPartNumber string          `json:"oem_part_number,omitempty"`
	Description   string          `json:"description"`
	OperationType string          `json:"operation_type,omitempty"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	LineNumber    int             `json:"line_number"`
	Quantity      int             `json:"quantity"`
}

// ClassifiedPart is a RawPartLine after classification and normalization.
type ClassifiedPart struct {
	NormalizedPartNumber string
	Description          string
	Category             PartCategory
	Type                 PartType
	ValueTier            ValueTier
	OriginalPrice        decimal.Decimal
	Vehicle              VehicleContext
	LineNumber           int
	Quantity             int
}

// CacheKey derives the vendor-cache key for this part. Two parts hash
// identically only when the part number, value tier, and vehicle identity
// all match.
func (p *ClassifiedPart) CacheKey() string {
	data := fmt.Sprintf("%s:%s:%d:%s:%s",
		p.NormalizedPartNumber,
		p.ValueTier,
		p.Vehicle.Year,
		p.Vehicle.Make,
		p.Vehicle.Model)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
