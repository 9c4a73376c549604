package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"investment-portfolio/metrics"
	"investment-portfolio/middleware"
)

// RouterConfig holds the cross-cutting pieces of the router.
type RouterConfig struct {
	Log                zerolog.Logger
	Metrics            *metrics.Metrics // nil disables /metrics
	AllowedOrigins     []string
	AuthRateLimitRPS   float64 // <= 0 disables rate limiting
	AuthRateLimitBurst int
}

// NewRouter wires every route of the API.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(cfg.Log),
		middleware.CORS(cfg.AllowedOrigins),
	)
	if cfg.Metrics != nil {
		router.Use(middleware.Metrics(cfg.Metrics))
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	router.GET("/", h.Health)

	requireAuth := middleware.JWTAuth(h.tokens, h.lookupUser)
	var limit gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if cfg.AuthRateLimitRPS > 0 {
		limit = middleware.RateLimit(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)
	}

	api := router.Group("/api")

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", limit, h.Register)
		authRoutes.POST("/login", limit, h.Login)
		authRoutes.POST("/refresh", limit, h.Refresh)
		authRoutes.POST("/logout", h.Logout)
		authRoutes.GET("/me", requireAuth, h.Me)
		authRoutes.DELETE("/me", requireAuth, h.DeleteMe)
	}

	portfolio := api.Group("/portfolio", requireAuth)
	{
		portfolio.GET("", h.GetPortfolio)
		portfolio.POST("/refresh", h.RefreshPortfolio)
		portfolio.GET("/transactions", h.ListTransactions)
	}

	assets := api.Group("/assets", requireAuth)
	{
		assets.POST("", h.CreateAsset)
		assets.GET("", h.ListAssets)
		assets.GET("/:id", h.GetAsset)
		assets.PUT("/:id", h.UpdateAsset)
		assets.DELETE("/:id", h.DeleteAsset)
	}

	brapi := api.Group("/brapi")
	{
		brapi.GET("/quote/:ticker", h.GetQuote)
		brapi.GET("/quotes", h.GetQuotes)
		brapi.GET("/search", h.SearchTickers)
		brapi.GET("/tickers", h.AvailableTickers)
		brapi.GET("/available", h.AvailableTickers)
		brapi.GET("/fundamentals/:ticker", h.GetFundamentals)
	}

	return router
}
