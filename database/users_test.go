package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"investment-portfolio/models"
)

func TestCreateUserWithPortfolio(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, portfolio := newTestUser(t, db, "ana@example.com")

	assert.NotZero(t, user.ID)
	assert.True(t, user.IsActive)
	assert.Equal(t, user.ID, portfolio.UserID)
	assert.Equal(t, "Ana's Portfolio", portfolio.Name)

	byEmail, err := GetUserByEmail(ctx, db, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := GetUserByID(ctx, db, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", byID.Email)
}

func TestCreateUserWithPortfolio_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	newTestUser(t, db, "ana@example.com")

	_, err := CreateUserWithPortfolio(context.Background(), db, &models.User{Name: "Other", Email: "ana@example.com", Password: "x"})
	assert.Error(t, err)

	var portfolios int64
	require.NoError(t, db.Model(&models.Portfolio{}).Count(&portfolios).Error)
	assert.Equal(t, int64(1), portfolios)
}

func TestGetUser_NotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	_, err := GetUserByEmail(ctx, db, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = GetUserByID(ctx, db, 42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteUser_Cascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	user, portfolio := newTestUser(t, db, "ana@example.com")
	other, otherPortfolio := newTestUser(t, db, "bia@example.com")
	newTestAsset(t, db, portfolio.ID, "PETR4", 10, 30)
	newTestAsset(t, db, otherPortfolio.ID, "VALE3", 5, 60)

	require.NoError(t, DeleteUser(ctx, db, user.ID))

	var count int64
	require.NoError(t, db.Model(&models.Portfolio{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Asset{}).Where("portfolio_id = ?", portfolio.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Model(&models.Transaction{}).Where("portfolio_id = ?", portfolio.ID).Count(&count).Error)
	assert.Zero(t, count)

	// the other user is untouched
	_, err := GetUserByID(ctx, db, other.ID)
	require.NoError(t, err)
	assets, err := ListAssetsByPortfolio(ctx, db, otherPortfolio.ID)
	require.NoError(t, err)
	assert.Len(t, assets, 1)

	assert.ErrorIs(t, DeleteUser(ctx, db, user.ID), gorm.ErrRecordNotFound)
}
