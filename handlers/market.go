package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"investment-portfolio/apperrors"
)

// GetQuote proxies a single brapi quote.
func (h *Handler) GetQuote(c *gin.Context) {
	quote, err := h.quotes.GetQuote(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		h.respondError(c, quoteError(err))
		return
	}
	c.JSON(http.StatusOK, quote)
}

// GetQuotes proxies a batched quote for ?tickers=A,B,C.
func (h *Handler) GetQuotes(c *gin.Context) {
	var tickers []string
	for _, t := range strings.Split(c.Query("tickers"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			tickers = append(tickers, t)
		}
	}
	if len(tickers) == 0 {
		h.respondError(c, apperrors.Validation("tickers is required", nil))
		return
	}

	quotes, err := h.quotes.GetQuotes(c.Request.Context(), tickers)
	if err != nil {
		h.respondError(c, quoteError(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": quotes})
}

func (h *Handler) GetFundamentals(c *gin.Context) {
	quote, err := h.quotes.GetFundamentals(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		h.respondError(c, quoteError(err))
		return
	}
	c.JSON(http.StatusOK, quote)
}

// SearchTickers accepts either ?query= or ?q=.
func (h *Handler) SearchTickers(c *gin.Context) {
	query := strings.TrimSpace(c.Query("query"))
	if query == "" {
		query = strings.TrimSpace(c.Query("q"))
	}
	if query == "" {
		h.respondError(c, apperrors.Validation("query is required", nil))
		return
	}

	stocks, err := h.quotes.Search(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, apperrors.External("Quote provider unavailable", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stocks": stocks})
}

func (h *Handler) AvailableTickers(c *gin.Context) {
	stocks, err := h.quotes.Available(c.Request.Context())
	if err != nil {
		h.respondError(c, apperrors.External("Quote provider unavailable", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"stocks": stocks})
}
