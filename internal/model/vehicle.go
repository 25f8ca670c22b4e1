package model

import "fmt"

// VehicleContext identifies the vehicle a batch of damage lines belongs to.
// It is immutable input; an external VIN decoder may enrich the optional
// fields before sourcing starts, and enrichment failure leaves them absent.
type VehicleContext struct {
	Make           string `json:"make" validate:"required"`
	Model          string `json:"model" validate:"required"`
	VIN            string `json:"vin,omitempty" validate:"omitempty,len=17,alphanum"`
	BodyStyle      string `json:"body_style,omitempty"`
	EngineSize     string `json:"engine_size,omitempty"`
	Year           int    `json:"year" validate:"required,gte=1950,lte=2100"`
	DecodedFromVIN bool   `json:"decoded_from_vin,omitempty"`
}

// String returns a short human-readable identity like "2017 Chevrolet Malibu".
func (v VehicleContext) String() string {
	return fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
}
