package database

import (
	"context"

	"gorm.io/gorm"

	"investment-portfolio/models"
)

// CreatePortfolio inserts a portfolio. db may be a transaction.
func CreatePortfolio(ctx context.Context, db *gorm.DB, portfolio *models.Portfolio) error {
	return db.WithContext(ctx).Create(portfolio).Error
}

// GetPortfolioByUser returns the user's first portfolio.
func GetPortfolioByUser(ctx context.Context, db *gorm.DB, userID uint) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	if err := db.WithContext(ctx).Where("user_id = ?", userID).Order("id").First(&portfolio).Error; err != nil {
		return nil, err
	}
	return &portfolio, nil
}

// ListTransactions returns the portfolio's ledger, newest first.
func ListTransactions(ctx context.Context, db *gorm.DB, portfolioID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := db.WithContext(ctx).
		Where("portfolio_id = ?", portfolioID).
		Order("id DESC").
		Find(&txs).Error
	return txs, err
}
