package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"investment-portfolio/config"
	"investment-portfolio/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "portfolio.db"),
	}
	db, err := config.OpenDB(cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestUser(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Portfolio) {
	t.Helper()

	user := &models.User{Name: "Ana", Email: email, Password: "hash"}
	portfolio, err := CreateUserWithPortfolio(context.Background(), db, user)
	require.NoError(t, err)
	return user, portfolio
}

func newTestAsset(t *testing.T, db *gorm.DB, portfolioID uint, ticker string, qty int, price float64) *models.Asset {
	t.Helper()

	asset := &models.Asset{
		Ticker:        ticker,
		Quantity:      qty,
		PurchasePrice: price,
		CurrentPrice:  price,
		PortfolioID:   portfolioID,
	}
	require.NoError(t, CreateAsset(context.Background(), db, asset))
	return asset
}
