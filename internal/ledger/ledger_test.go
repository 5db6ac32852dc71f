package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Srijapotha/new-camme-project/internal/models"
)

func TestComputeCostImpressionsAndClicks(t *testing.T) {
	rates := RateTable{CPM: 145, CPC: 5}
	counts := EventCounts{Impressions: 1000, Clicks: 10}

	cost := ComputeCost(rates, counts)
	assert.InDelta(t, 195.0, cost, 1e-9)
}

func TestComputeCostMissingRatesAreZero(t *testing.T) {
	rates := RateTable{CPC: 2}
	counts := EventCounts{Views: 500, Installs: 3, FormSubmits: 7, Clicks: 4}

	assert.InDelta(t, 8.0, ComputeCost(rates, counts), 1e-9)
}

func TestComputeCostIsPure(t *testing.T) {
	rates := Rates(models.AdModelElite, models.AdElementAppInstall, "video")
	counts := EventCounts{Impressions: 2500, Clicks: 3, Views: 40, Engagements: 12, Installs: 2, FormSubmits: 1}

	first := ComputeCost(rates, counts)
	second := ComputeCost(rates, counts)
	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first, 0.0)
}

func TestApplyCostWithinWallet(t *testing.T) {
	app := ApplyCost(2500, 0, 0, 195)

	assert.InDelta(t, 2305.0, app.WalletAfter, 1e-9)
	assert.InDelta(t, 0.0, app.OverageAfter, 1e-9)
	assert.InDelta(t, 195.0, app.TotalSpentAfter, 1e-9)
}

func TestApplyCostOverage(t *testing.T) {
	// Second batch from a wallet of 2305 costing 2500: shortfall 195.
	app := ApplyCost(2305, 0, 195, 2500)

	assert.InDelta(t, 0.0, app.WalletAfter, 1e-9)
	assert.InDelta(t, 195.0, app.OverageAfter, 1e-9)
	assert.InDelta(t, 2695.0, app.TotalSpentAfter, 1e-9)
}

func TestApplyCostExhaustedWalletAccruesFullCost(t *testing.T) {
	app := ApplyCost(0, 195, 2695, 50)

	assert.InDelta(t, 0.0, app.WalletAfter, 1e-9)
	assert.InDelta(t, 245.0, app.OverageAfter, 1e-9)
	assert.InDelta(t, 2745.0, app.TotalSpentAfter, 1e-9)
}

func TestApplyCostInvariants(t *testing.T) {
	cases := []struct {
		wallet, overage, spent, cost float64
	}{
		{0, 0, 0, 0},
		{100, 0, 0, 100},
		{100, 0, 0, 100.5},
		{2500, 10, 400, 33.33},
		{0.25, 0, 0, 1},
	}
	for _, tc := range cases {
		app := ApplyCost(tc.wallet, tc.overage, tc.spent, tc.cost)

		assert.GreaterOrEqual(t, app.WalletAfter, 0.0)
		assert.InDelta(t, tc.spent+tc.cost, app.TotalSpentAfter, 1e-9)
		assert.InDelta(t, max(0, tc.cost-tc.wallet), app.OverageAfter-tc.overage, 1e-9)
		assert.InDelta(t, max(0, tc.wallet-tc.cost), app.WalletAfter, 1e-9)
	}
}

func TestValidateRejectsNegativeCounts(t *testing.T) {
	require.NoError(t, EventCounts{Clicks: 1}.Validate())
	require.ErrorIs(t, EventCounts{Impressions: -1}.Validate(), ErrNegativeCounts)
	require.ErrorIs(t, EventCounts{FormSubmits: -5}.Validate(), ErrNegativeCounts)
}

func TestRatesUnknownComboIsZeroTable(t *testing.T) {
	assert.Equal(t, RateTable{}, Rates("unknown", models.AdElementForm, "image"))
	assert.Equal(t, RateTable{}, Rates(models.AdModelFree, "banner", "image"))
}

func TestRatesFreeTierSpecValues(t *testing.T) {
	rates := Rates(models.AdModelFree, models.AdElementAppInstall, "image")
	assert.Equal(t, 145.0, rates.CPM)
	assert.Equal(t, 5.0, rates.CPC)
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
