package main

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farhaan96/CollisionOS-sub012/internal/common"
)

func TestSourcingPolicy_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	_ = sourceCmd()

	policy := sourcingPolicy()
	assert.True(t, policy.BaseMarkup.Equal(decimal.NewFromFloat(0.25)), "got %s", policy.BaseMarkup)
	assert.True(t, policy.ApprovalThreshold.Equal(decimal.NewFromInt(1000)), "got %s", policy.ApprovalThreshold)
}

func TestSourcingPolicy_FlagsReachGenerator(t *testing.T) {
	t.Cleanup(viper.Reset)
	cmd := sourceCmd()

	require.NoError(t, cmd.Flags().Set("markup", "0.15"))
	require.NoError(t, cmd.Flags().Set("approval-threshold", "2500"))

	policy := sourcingPolicy()
	assert.True(t, policy.BaseMarkup.Equal(decimal.NewFromFloat(0.15)), "got %s", policy.BaseMarkup)
	assert.True(t, policy.ApprovalThreshold.Equal(decimal.NewFromInt(2500)), "got %s", policy.ApprovalThreshold)
}

func TestRunSource_RequiresQuotesFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	batch := writeTempFile(t, "estimate.json", `{
		"vehicle": {"year": 2017, "make": "Chevrolet", "model": "Malibu"},
		"lines": [{"line_number": 1, "part_number": "GM-84044368",
		           "description": "Front Bumper Cover", "unit_cost": "450", "quantity": 1}]
	}`)

	cmd := sourceCmd()
	cmd.SetContext(context.Background())

	err := runSource(cmd, []string{batch})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingConfig)

	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr, "missing --quotes should surface as a user-facing error")
}
