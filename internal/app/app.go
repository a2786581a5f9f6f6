// Package app wires the tracker together and runs the HTTP service.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devpouya/swiss-media-bias-tracker/internal/authors"
	"github.com/devpouya/swiss-media-bias-tracker/internal/classifier"
	"github.com/devpouya/swiss-media-bias-tracker/internal/collector"
	"github.com/devpouya/swiss-media-bias-tracker/internal/config"
	"github.com/devpouya/swiss-media-bias-tracker/internal/feeds"
	"github.com/devpouya/swiss-media-bias-tracker/internal/logger"
	"github.com/devpouya/swiss-media-bias-tracker/internal/pipeline"
	"github.com/devpouya/swiss-media-bias-tracker/internal/ratelimit"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
	"github.com/devpouya/swiss-media-bias-tracker/internal/scraper"
	"github.com/devpouya/swiss-media-bias-tracker/internal/server"
	"github.com/devpouya/swiss-media-bias-tracker/internal/stats"
	"github.com/devpouya/swiss-media-bias-tracker/internal/storage"
)

// Run builds every component from configuration and serves until interrupted.
func Run() error {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	reg := registry.Default()
	if cfg.SourcesConfigPath != "" {
		reg, err = registry.LoadFile(cfg.SourcesConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load sources config: %w", err)
		}
		logger.Info("registry loaded from file", "path", cfg.SourcesConfigPath,
			"topics", len(reg.Topics()), "sources", len(reg.Sources()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.InitSchema(ctx); err != nil {
		return err
	}

	gemini, err := classifier.NewGeminiClient(ctx, cfg.GoogleAPIKey)
	if err != nil {
		return err
	}
	defer gemini.Close()

	// One limiter per process: the classifier quota is account-wide.
	limiter := ratelimit.New(cfg.ClassifyInterval)
	orchestrator := classifier.NewOrchestrator(gemini, limiter, cfg.ClassifyMaxAttempts, cfg.ClassifyBaseDelay)

	scr := scraper.New(cfg.RequestTimeout)
	fetcher := feeds.NewFetcher(scr)
	col := collector.New(reg, fetcher, scr, cfg.SourcePause)

	resolver := authors.NewResolver(store)
	aggregator := stats.New(store)

	pipe := pipeline.New(reg, store, col, orchestrator, resolver, authors.Extract,
		aggregator, cfg.CommitBatchSize, cfg.DaysBackDefault)

	srv := server.New(reg, store, pipe)
	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      srv.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", cfg.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
