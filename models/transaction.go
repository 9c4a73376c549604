package models

import "time"

const (
	TransactionBuy  = "buy"
	TransactionSell = "sell"
)

// Transaction is a ledger entry written alongside the asset change that caused it.
// AssetID carries no foreign key so entries outlive deleted assets.
type Transaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PortfolioID uint      `gorm:"not null;index" json:"portfolio_id"`
	AssetID     uint      `gorm:"index" json:"asset_id"`
	Ticker      string    `gorm:"not null" json:"ticker"`
	Type        string    `gorm:"not null" json:"type"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Price       float64   `gorm:"not null" json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}
