package model

import "time"

// PartResult is the full sourcing outcome for a single damage line.
type PartResult struct {
	POLine   *POLineItem      `json:"po_line,omitempty"`
	Part     ClassifiedPart   `json:"part"`
	Quotes   []VendorQuote    `json:"quotes"`
	Decision SourcingDecision `json:"decision"`
	CacheHit bool             `json:"cache_hit"`
}

// PartError records a damage line that could not be sourced. The line is
// identified by both line number and part number so callers can reassociate
// it with their input.
type PartError struct {
	PartNumber string `json:"part_number"`
	Message    string `json:"message"`
	LineNumber int    `json:"line_number"`
}

// BatchStatistics summarizes a sourcing batch run.
type BatchStatistics struct {
	ProcessingTime time.Duration `json:"processing_time"`
	TotalParts     int           `json:"total_parts"`
	ProcessedParts int           `json:"processed_parts"`
	CacheHits      int           `json:"cache_hits"`
	VendorCalls    int           `json:"vendor_calls"`
}

// SourcingResult is the sole externally observed output of a batch run.
// It is built once per invocation and never mutated after return. Results
// are in completion order, which is not required to match input order.
type SourcingResult struct {
	BatchID    string          `json:"batch_id"`
	Vehicle    VehicleContext  `json:"vehicle"`
	Results    []PartResult    `json:"results"`
	Errors     []PartError     `json:"errors,omitempty"`
	Statistics BatchStatistics `json:"statistics"`
	Success    bool            `json:"success"`
}

// Sourced reports how many parts ended with a recommended vendor.
func (r *SourcingResult) Sourced() int {
	n := 0
	for _, res := range r.Results {
		if res.Decision.Recommended {
			n++
		}
	}
	return n
}
