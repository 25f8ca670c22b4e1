package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Farhaan96/CollisionOS-sub012/internal/cli"
	"github.com/Farhaan96/CollisionOS-sub012/internal/common"
	"github.com/Farhaan96/CollisionOS-sub012/internal/engine"
	"github.com/Farhaan96/CollisionOS-sub012/internal/quotecache"
)

func sourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source <batch.json>",
		Short: "Source parts for a damage estimate",
		Long: `Source every part line in a normalized estimate batch against the
configured vendors and print ranked sourcing decisions with draft PO lines.

The batch file carries the vehicle context and the damage lines:

  {"vehicle": {"year": 2017, "make": "Chevrolet", "model": "Malibu"},
   "lines": [{"line_number": 1, "part_number": "GM-84044368", ...}]}

Examples:
  partsource source estimate.json --quotes vendors.json
  partsource source estimate.json --quotes vendors.json --output json
  partsource source estimate.json --quotes vendors.json --deadline 30s`,
		Args: cobra.ExactArgs(1),
		RunE: runSource,
	}

	cmd.Flags().StringP("quotes", "q", "", "vendor quote fixture file (static adapters)")
	cmd.Flags().StringP("output", "o", "summary", "output format (summary, json)")
	cmd.Flags().Duration("timeout", engine.DefaultVendorTimeout, "per-vendor call timeout")
	cmd.Flags().Duration("deadline", 0, "whole-batch deadline (0 = none)")
	cmd.Flags().IntP("concurrency", "c", engine.DefaultConcurrency, "parts sourced in parallel")
	cmd.Flags().Bool("no-po", false, "skip purchase-order line generation")
	cmd.Flags().Bool("decode-vin", false, "enrich the vehicle context from its VIN")
	cmd.Flags().Float64("markup", 0.25, "customer price markup over the vendor price")
	cmd.Flags().Float64("approval-threshold", 1000, "extended price above which a PO line needs approval")

	_ = viper.BindPFlag("sourcing.quotes", cmd.Flags().Lookup("quotes"))
	_ = viper.BindPFlag("sourcing.output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("sourcing.timeout", cmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("sourcing.deadline", cmd.Flags().Lookup("deadline"))
	_ = viper.BindPFlag("sourcing.concurrency", cmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("sourcing.markup", cmd.Flags().Lookup("markup"))
	_ = viper.BindPFlag("sourcing.approval_threshold", cmd.Flags().Lookup("approval-threshold"))

	return cmd
}

func runSource(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	batch, err := loadBatchFile(args[0])
	if err != nil {
		return err
	}

	quotesPath := viper.GetString("sourcing.quotes")
	if quotesPath == "" {
		return common.NewUserError("no vendors configured: pass --quotes with a vendor quote file", common.ErrMissingConfig)
	}
	adapters, err := loadStaticAdapters(quotesPath)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			common.LogError(closeErr, "Failed to close database", nil)
		}
	}()

	// Disabled registry vendors must never be queried, even when the quote
	// fixture still carries them.
	adapters, err = filterEnabledAdapters(ctx, store, adapters)
	if err != nil {
		return err
	}
	if len(adapters) == 0 {
		return common.NewUserError("no vendors enabled: every vendor in the quote file is disabled in the registry", common.ErrMissingConfig)
	}

	// The SQLite store is both the durable quote-cache backing and the
	// vendor registry.
	cache := quotecache.New(store, viper.GetDuration("cache.ttl"))
	defer cache.Close()

	cfg := engine.DefaultConfig()
	cfg.VendorTimeout = viper.GetDuration("sourcing.timeout")
	cfg.BatchDeadline = viper.GetDuration("sourcing.deadline")
	cfg.Concurrency = viper.GetInt("sourcing.concurrency")
	cfg.Policy = sourcingPolicy()
	if noPO, _ := cmd.Flags().GetBool("no-po"); noPO {
		cfg.GeneratePO = false
	}
	if decodeVIN, _ := cmd.Flags().GetBool("decode-vin"); decodeVIN {
		// No decoder service is wired into the CLI yet, so the flag
		// cannot do anything; say so instead of silently ignoring it.
		slog.Warn("--decode-vin requested but no VIN decoder is configured; skipping enrichment")
	}

	outputFormat := viper.GetString("sourcing.output")

	var bar *progressbar.ProgressBar
	if outputFormat == "summary" {
		bar = newSourcingProgressBar(len(batch.Lines))
		cfg.OnProgress = func(_, _ int) {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	eng := engine.NewWithConfig(cache, adapters, cfg)
	eng.SetVendorRegistry(store)

	start := time.Now()
	result, err := eng.ProcessBatch(ctx, batch.Lines, batch.Vehicle)
	if err != nil {
		return fmt.Errorf("sourcing failed: %w", err)
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	case "summary":
		fmt.Println()
		fmt.Println(cli.RenderSourcingSummary(result))
	default:
		return fmt.Errorf("invalid output format: %s", outputFormat)
	}

	common.LogInfo("Sourcing run finished", common.Fields{
		"batch_id": result.BatchID,
		"sourced":  result.Sourced(),
		"errors":   len(result.Errors),
		"duration": time.Since(start).Round(time.Millisecond),
	})

	return nil
}

// sourcingPolicy builds the purchase-order policy from the bound sourcing
// settings, so --markup and --approval-threshold reach the generator.
func sourcingPolicy() engine.POPolicy {
	return engine.POPolicy{
		BaseMarkup:        decimal.NewFromFloat(viper.GetFloat64("sourcing.markup")),
		ApprovalThreshold: decimal.NewFromFloat(viper.GetFloat64("sourcing.approval_threshold")),
	}
}

func newSourcingProgressBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Sourcing parts...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
