package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"investment-portfolio/apperrors"
	"investment-portfolio/database"
	"investment-portfolio/models"
)

// GetPortfolio returns the user's portfolio with priced assets and totals.
func (h *Handler) GetPortfolio(c *gin.Context) {
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

	c.JSON(http.StatusOK, models.NewPortfolioResponse(*portfolio, assets))
}

// RefreshPortfolio re-prices every asset with one batched quote request.
func (h *Handler) RefreshPortfolio(c *gin.Context) {
	ctx := c.Request.Context()

	portfolio, err := h.userPortfolio(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	assets, err := database.ListAssetsByPortfolio(ctx, h.db, portfolio.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if len(assets) > 0 {
		seen := make(map[string]bool, len(assets))
		tickers := make([]string, 0, len(assets))
		for _, a := range assets {
			if !seen[a.Ticker] {
				seen[a.Ticker] = true
				tickers = append(tickers, a.Ticker)
			}
		}

		// a failed batch is a provider failure even when it reports not-found
		quotes, err := h.quotes.GetQuotes(ctx, tickers)
		if err != nil {
			h.respondError(c, apperrors.External("Quote provider unavailable", err))
			return
		}

		prices := make(map[string]float64, len(quotes))
		for _, q := range quotes {
			prices[models.NormalizeTicker(q.Symbol)] = q.RegularMarketPrice
		}

		updated, err := database.UpdateCurrentPrices(ctx, h.db, portfolio.ID, prices)
		if err != nil {
			h.respondError(c, err)
			return
		}
		h.log.Info().Uint("portfolio_id", portfolio.ID).Int("updated", updated).Int("assets", len(assets)).Msg("portfolio prices refreshed")

		if assets, err = database.ListAssetsByPortfolio(ctx, h.db, portfolio.ID); err != nil {
			h.respondError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, models.NewPortfolioResponse(*portfolio, assets))
}

// ListTransactions returns the buy/sell ledger, newest first.
func (h *Handler) ListTransactions(c *gin.Context) {
	portfolio, err := h.userPortfolio(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	entries, err := database.ListTransactions(c.Request.Context(), h.db, portfolio.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.Transaction{}
	}
	c.JSON(http.StatusOK, entries)
}
