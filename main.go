package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"investment-portfolio/auth"
	"investment-portfolio/config"
	"investment-portfolio/database"
	"investment-portfolio/handlers"
	"investment-portfolio/logger"
	"investment-portfolio/metrics"
	"investment-portfolio/quotes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	log.Info().Str("db_driver", cfg.DBDriver).Msg("Starting Investment Portfolio API")

	db, err := config.OpenDB(cfg, log)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	var sessions auth.SessionStore
	if cfg.SessionsEnabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := config.OpenRedis(ctx, cfg)
		cancel()
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessions = auth.NewRedisSessionStore(rdb)
		log.Info().Str("addr", cfg.RedisAddr).Msg("Refresh token sessions enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, refresh tokens disabled")
	}

	m := metrics.New()
	quoteClient := quotes.NewClient(quotes.Config{
		BaseURL: cfg.BrapiBaseURL,
		Token:   cfg.BrapiToken,
		Timeout: cfg.BrapiTimeout,
	}, m, log)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	gin.SetMode(cfg.GinMode)
	h := handlers.New(db, quoteClient, issuer, sessions, log)
	router := handlers.NewRouter(h, handlers.RouterConfig{
		Log:                log,
		Metrics:            m,
		AllowedOrigins:     cfg.CORSAllowedOrigins,
		AuthRateLimitRPS:   cfg.AuthRateLimitRPS,
		AuthRateLimitBurst: cfg.AuthRateLimitBurst,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info().Msg("Server stopped")
	return nil
}
