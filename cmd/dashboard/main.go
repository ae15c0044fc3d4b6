// Command dashboard serves the HFMD surveillance dataset API: the clean
// daily table, the monthly aggregates, and the derived-metric summaries
// behind the temporal, weather-correlation, and regional dashboard views.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/epiwatch/hfmd-dashboard/internal/adapter/http"
	"github.com/epiwatch/hfmd-dashboard/internal/adapter/source"
	"github.com/epiwatch/hfmd-dashboard/internal/cache"
	"github.com/epiwatch/hfmd-dashboard/internal/config"
	"github.com/epiwatch/hfmd-dashboard/internal/domain"
	"github.com/epiwatch/hfmd-dashboard/internal/observability"
	"github.com/epiwatch/hfmd-dashboard/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	format, err := source.ParseFormat(cfg.DatasetFormat)
	if err != nil {
		logger.Error("invalid dataset format", "error", err)
		os.Exit(1)
	}

	var loader source.Loader
	if cfg.DatasetURL != "" {
		loader = source.NewHTTPLoader(cfg.DatasetURL, format, cfg.FetchTimeout, logger)
		logger.Info("dataset source", "url", cfg.DatasetURL, "format", format)
	} else {
		loader = source.NewFileLoader(cfg.DatasetPath, format)
		logger.Info("dataset source", "path", cfg.DatasetPath, "format", format)
	}

	opts := domain.Options{
		Dedupe:         cfg.DedupePolicy,
		RequireWeather: cfg.RequireWeather,
	}
	results := cache.New[pipeline.Result](cfg.CacheSize, cfg.CacheTTL, nil)
	p := pipeline.New(loader, opts, cfg.MonthLabel, results, logger, metrics, nil)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Warm the cache so the first request doesn't pay for the full run.
	go func() {
		if _, err := p.Run(ctx); err != nil {
			logger.Warn("initial dataset run failed", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
