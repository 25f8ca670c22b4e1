package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farhaan96/CollisionOS-sub012/internal/model"
	"github.com/Farhaan96/CollisionOS-sub012/internal/storage"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadBatchFile(t *testing.T) {
	path := writeTempFile(t, "estimate.json", `{
		"vehicle": {"year": 2017, "make": "Chevrolet", "model": "Malibu"},
		"lines": [
			{"line_number": 1, "part_number": "GM-84044368",
			 "description": "Front Bumper Cover", "unit_cost": "450", "quantity": 1}
		]
	}`)

	batch, err := loadBatchFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2017, batch.Vehicle.Year)
	require.Len(t, batch.Lines, 1)
	assert.Equal(t, "GM-84044368", batch.Lines[0].PartNumber)
	assert.Equal(t, "450", batch.Lines[0].UnitCost.String())
}

func TestLoadBatchFile_Invalid(t *testing.T) {
	_, err := loadBatchFile(writeTempFile(t, "bad.json", "{not json"))
	assert.Error(t, err)

	_, err = loadBatchFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadStaticAdapters(t *testing.T) {
	path := writeTempFile(t, "vendors.json", `{
		"vendor-a": {
			"GM84044368": {"available": true, "price": "420", "lead_time_days": 2, "reliability": 0.9}
		},
		"vendor-b": {
			"GM84044368": {"available": true, "price": "480", "lead_time_days": 1, "reliability": 0.95}
		}
	}`)

	adapters, err := loadStaticAdapters(path)
	require.NoError(t, err)
	require.Len(t, adapters, 2)

	ids := map[string]bool{}
	for _, a := range adapters {
		ids[a.ID()] = true
	}
	assert.True(t, ids["vendor-a"])
	assert.True(t, ids["vendor-b"])
}

func TestFilterEnabledAdapters(t *testing.T) {
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	require.NoError(t, store.SaveVendor(ctx, &model.VendorInfo{
		ID: "lkq", Name: "LKQ", Reliability: 0.9, Enabled: true,
	}))
	require.NoError(t, store.SaveVendor(ctx, &model.VendorInfo{
		ID: "oeconnection", Name: "OEConnection", Reliability: 0.95, Enabled: false,
	}))

	path := writeTempFile(t, "vendors.json", `{
		"lkq": {"GM84044368": {"available": true, "price": "420", "lead_time_days": 2, "reliability": 0.9}},
		"oeconnection": {"GM84044368": {"available": true, "price": "480", "lead_time_days": 1, "reliability": 0.95}},
		"unregistered": {"GM84044368": {"available": true, "price": "500", "lead_time_days": 3, "reliability": 0.8}}
	}`)

	adapters, err := loadStaticAdapters(path)
	require.NoError(t, err)
	require.Len(t, adapters, 3)

	enabled, err := filterEnabledAdapters(ctx, store, adapters)
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, a := range enabled {
		ids[a.ID()] = true
	}
	assert.True(t, ids["lkq"])
	assert.True(t, ids["unregistered"], "vendors the registry has never seen stay queryable")
	assert.False(t, ids["oeconnection"], "disabled vendors must not be queried")
}
