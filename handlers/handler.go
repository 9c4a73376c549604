package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"investment-portfolio/apperrors"
	"investment-portfolio/auth"
	"investment-portfolio/database"
	"investment-portfolio/middleware"
	"investment-portfolio/models"
	"investment-portfolio/quotes"
)

// QuoteProvider is the market data the handlers need. *quotes.Client implements it.
type QuoteProvider interface {
	GetQuote(ctx context.Context, ticker string) (*quotes.Quote, error)
	GetQuotes(ctx context.Context, tickers []string) ([]quotes.Quote, error)
	GetFundamentals(ctx context.Context, ticker string) (*quotes.Quote, error)
	Search(ctx context.Context, query string) ([]string, error)
	Available(ctx context.Context) ([]string, error)
}

// Handler serves the HTTP API.
type Handler struct {
	db       *gorm.DB
	quotes   QuoteProvider
	tokens   *auth.TokenIssuer
	sessions auth.SessionStore // nil disables refresh tokens
	log      zerolog.Logger
}

func New(db *gorm.DB, quotes QuoteProvider, tokens *auth.TokenIssuer, sessions auth.SessionStore, log zerolog.Logger) *Handler {
	return &Handler{
		db:       db,
		quotes:   quotes,
		tokens:   tokens,
		sessions: sessions,
		log:      log.With().Str("component", "handlers").Logger(),
	}
}

func (h *Handler) lookupUser(ctx context.Context, id uint) (*models.User, error) {
	return database.GetUserByID(ctx, h.db, id)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	appErr := apperrors.As(err)
	status := appErr.StatusCode()
	if status >= http.StatusInternalServerError {
		c.Error(err)
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(appErr.Message)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": appErr.Message})
}

// userPortfolio returns the portfolio of the authenticated user.
func (h *Handler) userPortfolio(c *gin.Context) (*models.Portfolio, error) {
	user := middleware.CurrentUser(c)
	portfolio, err := database.GetPortfolioByUser(c.Request.Context(), h.db, user.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Portfolio not found", err)
	}
	if err != nil {
		return nil, err
	}
	return portfolio, nil
}

// ownedAsset loads the asset named by the :id parameter, enforcing that it
// belongs to the authenticated user's portfolio.
func (h *Handler) ownedAsset(c *gin.Context) (*models.Asset, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return nil, apperrors.Validation("Invalid asset id", err)
	}

	asset, err := database.GetAssetByID(c.Request.Context(), h.db, uint(id))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("Asset not found", err)
	}
	if err != nil {
		return nil, err
	}

	portfolio, err := h.userPortfolio(c)
	if err != nil {
		return nil, err
	}
	if asset.PortfolioID != portfolio.ID {
		return nil, apperrors.Authorization("Access denied", nil)
	}
	return asset, nil
}

func quoteError(err error) error {
	if errors.Is(err, quotes.ErrTickerNotFound) {
		return apperrors.NotFound("Ticker not found", err)
	}
	return apperrors.External("Quote provider unavailable", err)
}

func bindError(err error) error {
	return apperrors.Validation(err.Error(), err)
}
