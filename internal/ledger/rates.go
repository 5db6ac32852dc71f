package ledger

import "github.com/Srijapotha/new-camme-project/internal/models"

// RateTable holds per-unit prices for one (tier, element, content kind)
// combination. A zero value means the metric is not billed for that slot.
type RateTable struct {
	CPC float64 // cost per click
	CPM float64 // cost per mille impressions
	CPV float64 // cost per view
	CPA float64 // cost per form submission
	CPE float64 // cost per engagement
	CPI float64 // cost per install
}

// pricing is the full tier x element x content-kind grid.
var pricing = map[string]map[string]map[string]RateTable{
	models.AdModelFree: {
		models.AdElementAppInstall: {
			"image": {CPC: 5, CPM: 145, CPE: 1, CPI: 30},
			"video": {CPC: 7, CPM: 170, CPV: 0.5, CPE: 1.5, CPI: 40},
		},
		models.AdElementForm: {
			"image": {CPC: 3, CPM: 110, CPA: 4, CPE: 0.75},
			"video": {CPC: 6, CPM: 150, CPV: 0.75, CPA: 7, CPE: 1},
		},
		models.AdElementWebpage: {
			"image": {CPC: 1.5, CPM: 85, CPE: 0.5},
			"video": {CPC: 4, CPM: 125, CPV: 0.4, CPE: 1},
		},
	},
	models.AdModelPremium: {
		models.AdElementAppInstall: {
			"image": {CPC: 6, CPM: 135, CPE: 1.25, CPI: 40},
			"video": {CPC: 9, CPM: 170, CPV: 0.6, CPA: 4, CPE: 2, CPI: 52},
		},
		models.AdElementForm: {
			"image": {CPC: 3.5, CPM: 110, CPA: 4.5, CPE: 0.9},
			"video": {CPC: 7, CPM: 150, CPV: 0.9, CPA: 8, CPE: 1.25},
		},
		models.AdElementWebpage: {
			"image": {CPC: 1.75, CPM: 90, CPE: 0.65},
			"video": {CPC: 4.5, CPM: 125, CPV: 0.45, CPE: 1.25},
		},
	},
	models.AdModelElite: {
		models.AdElementAppInstall: {
			"image": {CPC: 7, CPM: 145, CPE: 1.5, CPI: 45},
			"video": {CPC: 10, CPM: 180, CPV: 0.75, CPA: 5, CPE: 2.5, CPI: 60},
		},
		models.AdElementForm: {
			"image": {CPC: 4, CPM: 120, CPA: 5, CPE: 1},
			"video": {CPC: 8, CPM: 160, CPV: 1, CPA: 9, CPE: 1.5},
		},
		models.AdElementWebpage: {
			"image": {CPC: 2, CPM: 95, CPE: 0.75},
			"video": {CPC: 5, CPM: 135, CPV: 0.5, CPE: 1.5},
		},
	},
	models.AdModelUltimate: {
		models.AdElementAppInstall: {
			"image": {CPC: 8, CPM: 160, CPE: 1.75, CPI: 50},
			"video": {CPC: 12, CPM: 200, CPV: 0.9, CPA: 6, CPE: 3, CPI: 70},
		},
		models.AdElementForm: {
			"image": {CPC: 5, CPM: 135, CPA: 6, CPE: 1.25},
			"video": {CPC: 9, CPM: 180, CPV: 1.2, CPA: 10, CPE: 1.75},
		},
		models.AdElementWebpage: {
			"image": {CPC: 2.5, CPM: 105, CPE: 0.9},
			"video": {CPC: 6, CPM: 150, CPV: 0.6, CPE: 1.75},
		},
	},
}

// Rates returns the rate table for the given combination. Unknown
// combinations get a zero table, so every metric bills at zero.
func Rates(adModel, adElement, contentType string) RateTable {
	if byElement, ok := pricing[adModel]; ok {
		if byContent, ok := byElement[adElement]; ok {
			if rates, ok := byContent[contentType]; ok {
				return rates
			}
		}
	}
	return RateTable{}
}
