package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// POLineItem is a priced, policy-checked purchase-order line ready for
// approval and transmission by the external ordering system. Immutable once
// produced.
type POLineItem struct {
	ID                   string          `json:"id"`
	PartDescription      string          `json:"part_description"`
	NormalizedPartNumber string          `json:"normalized_part_number"`
	VendorID             string          `json:"vendor_id"`
	UnitPrice            decimal.Decimal `json:"unit_price"`
	CustomerPrice        decimal.Decimal `json:"customer_price"`
	Markup               decimal.Decimal `json:"markup"`
	CreatedAt            time.Time       `json:"created_at"`
	Quantity             int             `json:"quantity"`
	RequiresApproval     bool            `json:"requires_approval"`
	AutoGenerated        bool            `json:"auto_generated"`
}

// Total returns the extended customer price for the line.
func (p *POLineItem) Total() decimal.Decimal {
	return p.CustomerPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
