package models

import "github.com/shopspring/decimal"

// PortfolioSummary aggregates the derived values of a set of assets.
type PortfolioSummary struct {
	AssetCount         int     `json:"asset_count"`
	TotalInvested      float64 `json:"total_invested"`
	CurrentValue       float64 `json:"current_value"`
	GainLoss           float64 `json:"gain_loss"`
	GainLossPercentage float64 `json:"gain_loss_percentage"`
	TopGainer          string  `json:"top_gainer,omitempty"`
	TopLoser           string  `json:"top_loser,omitempty"`
}

// Summarize totals assets and picks the best and worst performers by gain %.
// Ties keep the first asset seen.
func Summarize(assets []Asset) PortfolioSummary {
	invested := decimal.Zero
	current := decimal.Zero

	var best, worst decimal.Decimal
	summary := PortfolioSummary{AssetCount: len(assets)}

	for i, a := range assets {
		invested = invested.Add(a.TotalPurchaseValue())
		current = current.Add(a.CurrentValue())

		pct := a.GainLossPercentage()
		if i == 0 || pct.GreaterThan(best) {
			best = pct
			summary.TopGainer = a.Ticker
		}
		if i == 0 || pct.LessThan(worst) {
			worst = pct
			summary.TopLoser = a.Ticker
		}
	}

	gain := current.Sub(invested)
	summary.TotalInvested = invested.InexactFloat64()
	summary.CurrentValue = current.InexactFloat64()
	summary.GainLoss = gain.InexactFloat64()
	summary.GainLossPercentage = percentOf(gain, invested).InexactFloat64()
	return summary
}
