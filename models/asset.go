package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Asset is a held position. Derived values are computed on read, never stored.
type Asset struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Ticker        string    `gorm:"not null;index" json:"ticker"`
	Name          string    `json:"name"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	PurchasePrice float64   `gorm:"not null" json:"purchase_price"`
	CurrentPrice  float64   `gorm:"not null" json:"current_price"`
	PortfolioID   uint      `gorm:"not null;index" json:"portfolio_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// PriceOrFallback returns price, or fallback when price is unknown.
func PriceOrFallback(price, fallback float64) float64 {
	if price <= 0 {
		return fallback
	}
	return price
}

func (a Asset) TotalPurchaseValue() decimal.Decimal {
	return decimal.NewFromInt(int64(a.Quantity)).Mul(decimal.NewFromFloat(a.PurchasePrice))
}

func (a Asset) CurrentValue() decimal.Decimal {
	return decimal.NewFromInt(int64(a.Quantity)).Mul(decimal.NewFromFloat(a.CurrentPrice))
}

func (a Asset) GainLoss() decimal.Decimal {
	return a.CurrentValue().Sub(a.TotalPurchaseValue())
}

// GainLossPercentage is zero when nothing was invested.
func (a Asset) GainLossPercentage() decimal.Decimal {
	return percentOf(a.GainLoss(), a.TotalPurchaseValue())
}

func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100))
}

// AssetResponse is the JSON view of an asset, including derived values.
type AssetResponse struct {
	Asset
	TotalPurchaseValue float64 `json:"total_purchase_value"`
	CurrentValue       float64 `json:"current_value"`
	GainLoss           float64 `json:"gain_loss"`
	GainLossPercentage float64 `json:"gain_loss_percentage"`
}

func NewAssetResponse(a Asset) AssetResponse {
	return AssetResponse{
		Asset:              a,
		TotalPurchaseValue: a.TotalPurchaseValue().InexactFloat64(),
		CurrentValue:       a.CurrentValue().InexactFloat64(),
		GainLoss:           a.GainLoss().InexactFloat64(),
		GainLossPercentage: a.GainLossPercentage().InexactFloat64(),
	}
}

func NewAssetResponses(assets []Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, NewAssetResponse(a))
	}
	return out
}
