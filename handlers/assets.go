package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"investment-portfolio/apperrors"
	"investment-portfolio/database"
	"investment-portfolio/models"
)

type CreateAssetInput struct {
	Ticker        string  `json:"ticker" binding:"required"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity" binding:"required,gt=0"`
	PurchasePrice float64 `json:"purchase_price" binding:"required,gt=0"`
}

type UpdateAssetInput struct {
	Quantity      *int     `json:"quantity" binding:"omitempty,gt=0"`
	PurchasePrice *float64 `json:"purchase_price" binding:"omitempty,gt=0"`
	CurrentPrice  *float64 `json:"current_price" binding:"omitempty,gte=0"`
}

func (in UpdateAssetInput) validate() error {
	switch {
	case in.Quantity != nil && *in.Quantity <= 0:
		return apperrors.Validation("quantity must be greater than 0", nil)
	case in.PurchasePrice != nil && *in.PurchasePrice <= 0:
		return apperrors.Validation("purchase_price must be greater than 0", nil)
	case in.CurrentPrice != nil && *in.CurrentPrice < 0:
		return apperrors.Validation("current_price must not be negative", nil)
	}
	return nil
}

// CreateAsset validates the ticker against the quote provider and adds the
// position to the user's portfolio.
func (h *Handler) CreateAsset(c *gin.Context) {
	var input CreateAssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	ticker := models.NormalizeTicker(input.Ticker)
	if ticker == "" {
		h.respondError(c, apperrors.Validation("Ticker is required", nil))
		return
	}
	ctx := c.Request.Context()

	portfolio, err := h.userPortfolio(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	quote, err := h.quotes.GetQuote(ctx, ticker)
	if err != nil {
		h.respondError(c, quoteError(err))
		return
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = quote.DisplayName()
	}

	asset := models.Asset{
		Ticker:        ticker,
		Name:          name,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		CurrentPrice:  models.PriceOrFallback(quote.RegularMarketPrice, input.PurchasePrice),
		PortfolioID:   portfolio.ID,
	}
	if err := database.CreateAsset(ctx, h.db, &asset); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewAssetResponse(asset))
}

func (h *Handler) ListAssets(c *gin.Context) {
	portfolio, err := h.userPortfolio(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	assets, err := database.ListAssetsByPortfolio(c.Request.Context(), h.db, portfolio.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAssetResponses(assets))
}

func (h *Handler) GetAsset(c *gin.Context) {
	asset, err := h.ownedAsset(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewAssetResponse(*asset))
}

// UpdateAsset applies the given fields, then tries to refresh the current
// price. A failed refresh does not fail the update.
func (h *Handler) UpdateAsset(c *gin.Context) {
	var input UpdateAssetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.respondError(c, bindError(err))
		return
	}
	if err := input.validate(); err != nil {
		h.respondError(c, err)
		return
	}
	ctx := c.Request.Context()

	asset, err := h.ownedAsset(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	upd := database.AssetUpdate{
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		CurrentPrice:  input.CurrentPrice,
	}

	quote, err := h.quotes.GetQuote(ctx, asset.Ticker)
	switch {
	case err != nil:
		h.log.Warn().Err(err).Str("ticker", asset.Ticker).Uint("asset_id", asset.ID).Msg("price refresh failed, keeping stored price")
	case quote.RegularMarketPrice > 0:
		price := quote.RegularMarketPrice
		upd.CurrentPrice = &price
	}

	updated, err := database.UpdateAsset(ctx, h.db, asset.ID, upd)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.respondError(c, apperrors.NotFound("Asset not found", err))
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewAssetResponse(*updated))
}

func (h *Handler) DeleteAsset(c *gin.Context) {
	asset, err := h.ownedAsset(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	err = database.DeleteAsset(c.Request.Context(), h.db, asset.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.respondError(c, apperrors.NotFound("Asset not found", err))
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
