package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/convograph/dialogd/internal/config"
	"github.com/convograph/dialogd/internal/engine"
	"github.com/convograph/dialogd/internal/intent"
	"github.com/convograph/dialogd/internal/logging"
	"github.com/convograph/dialogd/internal/response"
	"github.com/convograph/dialogd/internal/store"
	handler "github.com/convograph/dialogd/internal/transport/http"
	"github.com/convograph/dialogd/internal/validation"
	"github.com/convograph/dialogd/policy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(nil, cfg.LogLevel)
	log.Info().Int("port", cfg.HTTPPort).Str("database", cfg.DatabaseDSN).Msg("starting dialogue service")

	db, err := store.NewSQLiteStore(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize store")
	}
	defer db.Close()

	ctx := context.Background()
	admission, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize admission policy")
	}

	validator := validation.New(cfg.MaxMessageLength, admission)
	classifier := intent.NewClassifier()
	generator := response.NewGenerator(nil)
	eng := engine.New(validator, classifier, generator, db, cfg.ContextWindowSize, log.Sub("engine"))

	h := handler.NewHandler(eng, db, cfg, log.Sub("http"))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	h.RegisterRoutes(e)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.HTTPPort).Msg("dialogue API started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shutdown server gracefully")
	}

	log.Info().Msg("dialogue service stopped")
}
