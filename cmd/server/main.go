// CineNiche - Movie Catalog and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cineniche

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/cineniche/internal/api"
	"github.com/tomtom215/cineniche/internal/cache"
	"github.com/tomtom215/cineniche/internal/config"
	"github.com/tomtom215/cineniche/internal/database"
	"github.com/tomtom215/cineniche/internal/logging"
	"github.com/tomtom215/cineniche/internal/metrics"
	"github.com/tomtom215/cineniche/internal/supervisor"
	"github.com/tomtom215/cineniche/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const uptimeInterval = 15 * time.Second

func main() {
	startTime := time.Now()

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().Str("version", version).Msg("Starting CineNiche with supervisor tree")

	metrics.SetAppInfo(version)
	stopUptime := make(chan struct{})
	defer close(stopUptime)
	metrics.StartUptimeTracker(startTime, uptimeInterval, stopUptime)

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Str("path", cfg.Database.Path).Msg("Database initialized successfully")

	seedDatabase(db, cfg)

	engine, err := initRecommend(cfg, db)
	if err != nil {
		// Fatal skips deferred calls, so close explicitly.
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to initialize recommendation engine")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Data layer
	tree.AddDataService(services.NewCheckpointService(
		db, cfg.Database.CheckpointInterval, logging.WithComponent("checkpoint")))

	similarityCache, err := newSimilarityCache(cfg)
	if err != nil {
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to create similarity cache")
	}
	defer similarityCache.Close()

	// Worker layer
	importComponents, err := InitImport(cfg, db, tree, similarityCache.Clear)
	if err != nil {
		_ = db.Close()
		logging.Fatal().Err(err).Msg("Failed to initialize legacy import")
	}
	defer importComponents.Close()

	handler := api.NewHandler(db, engine, importComponents.Controller(), api.HandlerConfig{
		Limits:         buildEngineConfig(cfg).Limits,
		RequestTimeout: cfg.API.RequestTimeout,
		Version:        version,
		Cache:          similarityCache,
	})
	chiMW := api.NewChiMiddleware(api.ChiMiddlewareConfigFromAPI(&cfg.API))
	if cfg.API.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, chiMW).Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Dur("uptime", time.Since(startTime)).Msg("Application stopped gracefully")
}

// seedDatabase loads the CSV exports into empty tables. A failed seed is
// logged and startup continues with whatever the tables already hold.
func seedDatabase(db *database.DB, cfg *config.Config) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := db.SeedFromCSV(ctx, cfg.Database.SeedMoviesCSV, cfg.Database.SeedRatingsCSV)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to seed database from CSV")
		return
	}
	logging.Info().
		Int64("movies", result.Movies).
		Int64("ratings", result.Ratings).
		Bool("movies_skipped", result.MoviesSkipped).
		Bool("ratings_skipped", result.RatingsSkipped).
		Msg("Database seed complete")
}

// newSimilarityCache returns nil when RECOMMEND_CACHE_SIZE is zero.
func newSimilarityCache(cfg *config.Config) (*cache.Cache, error) {
	if cfg.Recommend.CacheSize == 0 {
		logging.Info().Msg("Similarity cache disabled (RECOMMEND_CACHE_SIZE=0)")
		return nil, nil
	}
	c, err := cache.New(cache.Config{
		MaxEntries: int64(cfg.Recommend.CacheSize),
		TTL:        cfg.Recommend.CacheTTL,
	})
	if err != nil {
		return nil, err
	}
	logging.Info().
		Int("size", cfg.Recommend.CacheSize).
		Dur("ttl", cfg.Recommend.CacheTTL).
		Msg("Similarity cache enabled")
	return c, nil
}
