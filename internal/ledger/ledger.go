// Package ledger is the pure computation core of ad billing: cost of an
// event batch under a rate table, and its application to a wallet. No I/O
// happens here; callers own persistence and at-most-once application.
package ledger

import "errors"

// ErrNegativeCounts rejects malformed event batches.
var ErrNegativeCounts = errors.New("event counts must be non-negative")

// EventCounts is a batch of discrete ad events.
type EventCounts struct {
	Impressions int64 `json:"impressions"`
	Clicks      int64 `json:"clicks"`
	Views       int64 `json:"views"`
	Engagements int64 `json:"engagements"`
	Installs    int64 `json:"installs"`
	FormSubmits int64 `json:"formSubmits"`
}

// Validate rejects batches containing a negative count.
func (c EventCounts) Validate() error {
	if c.Impressions < 0 || c.Clicks < 0 || c.Views < 0 ||
		c.Engagements < 0 || c.Installs < 0 || c.FormSubmits < 0 {
		return ErrNegativeCounts
	}
	return nil
}

// Total is the number of discrete units in the batch.
func (c EventCounts) Total() int64 {
	return c.Impressions + c.Clicks + c.Views + c.Engagements + c.Installs + c.FormSubmits
}

// ComputeCost prices an event batch under a rate table. Impressions bill at
// CPM per thousand; every other metric bills per unit. Absent rates are zero.
func ComputeCost(rates RateTable, counts EventCounts) float64 {
	var total float64
	total += (rates.CPM / 1000) * float64(counts.Impressions)
	total += rates.CPC * float64(counts.Clicks)
	total += rates.CPV * float64(counts.Views)
	total += rates.CPE * float64(counts.Engagements)
	total += rates.CPI * float64(counts.Installs)
	total += rates.CPA * float64(counts.FormSubmits)
	return total
}

// Application is the result of applying a cost to a wallet.
type Application struct {
	WalletAfter     float64
	OverageAfter    float64
	TotalSpentAfter float64
}

// ApplyCost deducts cost from the wallet first; any shortfall accrues to
// overage and the wallet clamps at zero. totalSpent grows by exactly cost.
// Pure; callers are responsible for at-most-once application per batch.
func ApplyCost(wallet, overage, totalSpent, cost float64) Application {
	app := Application{
		OverageAfter:    overage,
		TotalSpentAfter: totalSpent + cost,
	}
	if wallet >= cost {
		app.WalletAfter = wallet - cost
	} else {
		app.OverageAfter += cost - wallet
		app.WalletAfter = 0
	}
	return app
}
