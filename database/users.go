package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"investment-portfolio/models"
)

// CreateUserWithPortfolio inserts user and its default portfolio in one transaction.
// A taken email surfaces as gorm.ErrDuplicatedKey.
func CreateUserWithPortfolio(ctx context.Context, db *gorm.DB, user *models.User) (*models.Portfolio, error) {
	var portfolio models.Portfolio

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		portfolio = models.Portfolio{
			Name:   models.DefaultPortfolioName(user.Name),
			UserID: user.ID,
		}
		if err := CreatePortfolio(ctx, tx, &portfolio); err != nil {
			return fmt.Errorf("creating portfolio: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &portfolio, nil
}

func GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByID(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the user; portfolios, assets and ledger entries go with it.
func DeleteUser(ctx context.Context, db *gorm.DB, id uint) error {
	result := db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
