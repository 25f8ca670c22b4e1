package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
)

// POPolicy holds the business rules applied when pricing a purchase-order
// line for the customer.
type POPolicy struct {
	// BaseMarkup is the fractional markup applied to the vendor price,
	// e.g. 0.25 for 25%.
	BaseMarkup decimal.Decimal
	// ApprovalThreshold is the extended customer price above which the line
	// requires human approval before transmission.
	ApprovalThreshold decimal.Decimal
}

// DefaultPOPolicy returns the standard shop policy: 25% markup, approval
// required above $1,000.
func DefaultPOPolicy() POPolicy {
	return POPolicy{
		BaseMarkup:        decimal.NewFromFloat(0.25),
		ApprovalThreshold: decimal.NewFromInt(1000),
	}
}

// GeneratePOLine turns a sourcing decision into a priced purchase-order
// line. It is pure: persistence and transmission belong to external
// collaborators. The second return is false when the decision carries no
// recommendation.
func GeneratePOLine(part *model.ClassifiedPart, decision model.SourcingDecision, policy POPolicy) (*model.POLineItem, bool) {
	if !decision.Recommended {
		return nil, false
	}

	unitPrice := decision.Vendor.Price
	// Round up to the cent so a positive markup always yields a customer
	// price strictly above the vendor price, even on penny parts.
	customerPrice := unitPrice.Mul(decimal.NewFromInt(1).Add(policy.BaseMarkup)).RoundUp(2)
	extended := customerPrice.Mul(decimal.NewFromInt(int64(part.Quantity)))

	return &model.POLineItem{
		ID:                   uuid.New().String(),
		PartDescription:      part.Description,
		NormalizedPartNumber: part.NormalizedPartNumber,
		Quantity:             part.Quantity,
		UnitPrice:            unitPrice,
		CustomerPrice:        customerPrice,
		Markup:               policy.BaseMarkup,
		VendorID:             decision.Vendor.VendorID,
		RequiresApproval:     extended.GreaterThan(policy.ApprovalThreshold),
		AutoGenerated:        true,
		CreatedAt:            time.Now(),
	}, true
}
