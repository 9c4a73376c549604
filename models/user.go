package models

import "time"

// User owns portfolios. Deleting a user removes everything below it.
type User struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Name       string      `gorm:"not null" json:"name"`
	Email      string      `gorm:"uniqueIndex;not null" json:"email"`
	Password   string      `gorm:"not null" json:"-"`
	IsActive   bool        `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time   `json:"created_at"`
	Portfolios []Portfolio `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
