package model

// ScoredQuote is a vendor quote annotated with its composite score.
type ScoredQuote struct {
	VendorQuote
	Score float64 `json:"score"`
}

// SourcingDecision is the ranked outcome of scoring a part's vendor quotes.
// When no usable quote exists, Recommended is false and both Vendor and
// Alternatives are zero-valued.
type SourcingDecision struct {
	Vendor       ScoredQuote   `json:"vendor"`
	Alternatives []ScoredQuote `json:"alternatives,omitempty"`
	Recommended  bool          `json:"recommended"`
}
