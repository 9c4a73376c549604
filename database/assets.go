package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"investment-portfolio/models"
)

// AssetUpdate carries the optional fields of an asset update. Nil fields are left alone.
type AssetUpdate struct {
	Quantity      *int
	PurchasePrice *float64
	CurrentPrice  *float64
}

// CreateAsset inserts asset and records the matching buy in the ledger.
func CreateAsset(ctx context.Context, db *gorm.DB, asset *models.Asset) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(asset).Error; err != nil {
			return fmt.Errorf("creating asset: %w", err)
		}
		return recordTransaction(tx, asset, models.TransactionBuy, asset.Quantity, asset.PurchasePrice)
	})
}

func ListAssetsByPortfolio(ctx context.Context, db *gorm.DB, portfolioID uint) ([]models.Asset, error) {
	var assets []models.Asset
	err := db.WithContext(ctx).Where("portfolio_id = ?", portfolioID).Order("id").Find(&assets).Error
	return assets, err
}

func GetAssetByID(ctx context.Context, db *gorm.DB, id uint) (*models.Asset, error) {
	var asset models.Asset
	if err := db.WithContext(ctx).First(&asset, id).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

// UpdateAsset applies upd to the asset. A quantity change is recorded as a buy
// (at the purchase price) or a sell (at the current price) of the difference.
func UpdateAsset(ctx context.Context, db *gorm.DB, id uint, upd AssetUpdate) (*models.Asset, error) {
	var asset models.Asset

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&asset, id).Error; err != nil {
			return err
		}

		previous := asset.Quantity
		if upd.Quantity != nil {
			asset.Quantity = *upd.Quantity
		}
		if upd.PurchasePrice != nil {
			asset.PurchasePrice = *upd.PurchasePrice
		}
		if upd.CurrentPrice != nil {
			asset.CurrentPrice = *upd.CurrentPrice
		}

		if err := tx.Save(&asset).Error; err != nil {
			return fmt.Errorf("updating asset: %w", err)
		}

		switch diff := asset.Quantity - previous; {
		case diff > 0:
			return recordTransaction(tx, &asset, models.TransactionBuy, diff, asset.PurchasePrice)
		case diff < 0:
			return recordTransaction(tx, &asset, models.TransactionSell, -diff, asset.CurrentPrice)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// DeleteAsset removes the asset, recording the sale of the whole position.
func DeleteAsset(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.First(&asset, id).Error; err != nil {
			return err
		}
		if err := recordTransaction(tx, &asset, models.TransactionSell, asset.Quantity, asset.CurrentPrice); err != nil {
			return err
		}
		return tx.Delete(&asset).Error
	})
}

// UpdateCurrentPrices sets current_price on every asset of the portfolio whose
// ticker has a known price. It returns the number of assets changed.
func UpdateCurrentPrices(ctx context.Context, db *gorm.DB, portfolioID uint, prices map[string]float64) (int, error) {
	updated := 0

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var assets []models.Asset
		if err := tx.Where("portfolio_id = ?", portfolioID).Find(&assets).Error; err != nil {
			return err
		}

		for _, a := range assets {
			price, ok := prices[a.Ticker]
			if !ok || price <= 0 {
				continue
			}
			if err := tx.Model(&models.Asset{}).Where("id = ?", a.ID).Update("current_price", price).Error; err != nil {
				return fmt.Errorf("updating %s price: %w", a.Ticker, err)
			}
			updated++
		}
		return nil
	})
	return updated, err
}

func recordTransaction(tx *gorm.DB, asset *models.Asset, kind string, quantity int, price float64) error {
	entry := models.Transaction{
		PortfolioID: asset.PortfolioID,
		AssetID:     asset.ID,
		Ticker:      asset.Ticker,
		Type:        kind,
		Quantity:    quantity,
		Price:       price,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("recording %s transaction: %w", kind, err)
	}
	return nil
}
