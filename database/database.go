// Package database holds the schema migration and the CRUD operations over
// users, portfolios, assets and their ledger. Lookups that find nothing return
// an error wrapping gorm.ErrRecordNotFound.
package database

import (
	"gorm.io/gorm"

	"investment-portfolio/models"
)

// Migrate creates or updates the schema, including cascading foreign keys.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Portfolio{},
		&models.Asset{},
		&models.Transaction{},
	)
}
