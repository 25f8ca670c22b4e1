package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/Farhaan96/CollisionOS-sub012/internal/common"
	"github.com/Farhaan96/CollisionOS-sub012/internal/config"
	"github.com/Farhaan96/CollisionOS-sub012/internal/engine"
	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
	"github.com/Farhaan96/CollisionOS-sub012/internal/service"
	"github.com/Farhaan96/CollisionOS-sub012/internal/storage"
)

// defaultDBPath is used when the config names no database location.
const defaultDBPath = "$HOME/.local/share/partsource/partsource.db"

// initStorage opens and migrates the SQLite store named in the config.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// batchFile is the on-disk shape of a sourcing request: the vehicle plus the
// normalized damage lines from the estimate parser.
type batchFile struct {
	Vehicle model.VehicleContext `json:"vehicle"`
	Lines   []model.RawPartLine  `json:"lines"`
}

// loadBatchFile reads and decodes a sourcing batch.
func loadBatchFile(path string) (*batchFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var batch batchFile
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}

	return &batch, nil
}

// quotesFile maps vendor ID to a fixture quote table keyed by normalized part
// number. It backs the static adapters used for dry runs and demos.
type quotesFile map[string]map[string]service.VendorResponse

// loadStaticAdapters builds one static adapter per vendor in the fixture file.
func loadStaticAdapters(path string) ([]service.VendorAdapter, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-supplied input file
	if err != nil {
		return nil, fmt.Errorf("failed to read quotes file: %w", err)
	}

	var fixtures quotesFile
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse quotes file: %w", err)
	}

	adapters := make([]service.VendorAdapter, 0, len(fixtures))
	for vendorID, quotes := range fixtures {
		adapters = append(adapters, engine.NewStaticAdapter(vendorID, quotes))
	}

	return adapters, nil
}

// filterEnabledAdapters drops adapters whose vendor has been disabled in the
// registry. Vendors the registry has never seen are kept; disabling is an
// explicit operator action, not a registration requirement.
func filterEnabledAdapters(ctx context.Context, registry service.VendorRegistry, adapters []service.VendorAdapter) ([]service.VendorAdapter, error) {
	enabled := make([]service.VendorAdapter, 0, len(adapters))
	for _, adapter := range adapters {
		vendor, err := registry.GetVendor(ctx, adapter.ID())
		if errors.Is(err, common.ErrVendorNotFound) {
			enabled = append(enabled, adapter)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check vendor %s: %w", adapter.ID(), err)
		}
		if !vendor.Enabled {
			slog.Debug("Skipping disabled vendor", "vendor", adapter.ID())
			continue
		}
		enabled = append(enabled, adapter)
	}

	return enabled, nil
}
