package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/riskibarqy/dart-league-stats/internal/app"
	"github.com/riskibarqy/dart-league-stats/internal/config"
	"github.com/riskibarqy/dart-league-stats/internal/observability"
	"github.com/riskibarqy/dart-league-stats/internal/platform/logging"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stopObservability, err := observability.Start(cfg, logger)
	if err != nil {
		logger.Error("start observability", "error", err)
		os.Exit(1)
	}

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	srv, err := app.NewHTTPServer(cfg, container, logger)
	if err != nil {
		logger.Error("build http server", "error", err)
		os.Exit(1)
	}

	scheduler, err := app.NewScrapeScheduler(cfg, container.Runs, logger)
	if err != nil {
		logger.Error("build scrape scheduler", "error", err)
		os.Exit(1)
	}
	if scheduler != nil {
		scheduler.Start()
		logger.Info("scrape scheduler started", "cron", cfg.ScrapeCron, "timezone", cfg.ScrapeCronTimezone)
	}

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		<-scheduler.Stop().Done()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if err := container.Runs.Shutdown(shutdownCtx); err != nil {
		logger.Error("scrape runs did not finish", "error", err)
	}
	if err := container.Close(); err != nil {
		logger.Error("close container", "error", err)
	}
	if err := stopObservability(shutdownCtx); err != nil {
		logger.Error("stop observability", "error", err)
	}

	logger.Info("http server stopped")
}
