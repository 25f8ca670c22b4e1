package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
)

// RenderSourcingSummary renders a batch result as a styled report: one line
// per part in estimate order, then errors, then batch statistics.
func RenderSourcingSummary(result *model.SourcingResult) string {
	var b strings.Builder

	b.WriteString(FormatTitle(fmt.Sprintf("Parts Sourcing Report: %s", result.Vehicle.String())))
	b.WriteString("\n\n")

	results := make([]model.PartResult, len(result.Results))
	copy(results, result.Results)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Part.LineNumber < results[j].Part.LineNumber
	})

	for _, res := range results {
		b.WriteString(renderPartLine(res))
		b.WriteString("\n")
	}

	if len(result.Errors) > 0 {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("%d part(s) could not be sourced:", len(result.Errors))))
		b.WriteString("\n")
		for _, partErr := range result.Errors {
			b.WriteString(FormatError(fmt.Sprintf("line %d %s: %s",
				partErr.LineNumber, partErr.PartNumber, partErr.Message)))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(renderStatistics(result))

	return b.String()
}

// renderPartLine renders one part's outcome.
func renderPartLine(res model.PartResult) string {
	var b strings.Builder

	label := fmt.Sprintf("%s %-20s %-10s", PartIcon, res.Part.NormalizedPartNumber, res.Part.Category)

	if !res.Decision.Recommended {
		b.WriteString(label)
		b.WriteString("  ")
		b.WriteString(WarningStyle.Render("no vendor available"))
		return b.String()
	}

	vendor := res.Decision.Vendor
	b.WriteString(label)
	b.WriteString(fmt.Sprintf("  %s %s  $%s  %dd lead  score %.3f",
		CartIcon,
		vendor.VendorID,
		vendor.Price.StringFixed(2),
		vendor.LeadTimeDays,
		vendor.Score))

	if res.CacheHit {
		b.WriteString("  ")
		b.WriteString(SubtleStyle.Render("(cached)"))
	}

	if res.POLine != nil {
		b.WriteString(fmt.Sprintf("  PO $%s", res.POLine.CustomerPrice.StringFixed(2)))
		if res.POLine.RequiresApproval {
			b.WriteString("  ")
			b.WriteString(WarningStyle.Render("needs approval"))
		}
	}

	return b.String()
}

// renderStatistics renders the batch statistics box.
func renderStatistics(result *model.SourcingResult) string {
	stats := result.Statistics

	content := fmt.Sprintf(
		"Parts:        %d\nSourced:      %d\nErrors:       %d\nCache hits:   %d\nVendor calls: %d\nDuration:     %s",
		stats.TotalParts,
		result.Sourced(),
		len(result.Errors),
		stats.CacheHits,
		stats.VendorCalls,
		stats.ProcessingTime.Round(time.Millisecond),
	)

	return RenderBox("Batch Statistics", content)
}
