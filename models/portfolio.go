package models

import "time"

type Portfolio struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	Name         string        `gorm:"not null" json:"name"`
	UserID       uint          `gorm:"not null;index" json:"user_id"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
	Assets       []Asset       `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// DefaultPortfolioName is the name of the portfolio created at registration.
func DefaultPortfolioName(userName string) string {
	return userName + "'s Portfolio"
}

// PortfolioResponse is a portfolio with its priced assets and totals.
type PortfolioResponse struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	UserID    uint             `json:"user_id"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	Assets    []AssetResponse  `json:"assets"`
	Summary   PortfolioSummary `json:"summary"`
}

func NewPortfolioResponse(p Portfolio, assets []Asset) PortfolioResponse {
	return PortfolioResponse{
		ID:        p.ID,
		Name:      p.Name,
		UserID:    p.UserID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Assets:    NewAssetResponses(assets),
		Summary:   Summarize(assets),
	}
}
