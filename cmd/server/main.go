// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package main is the entry point for the MotorMatch server.
//
// MotorMatch serves personalized car recommendations from observed user
// behavior: vehicle views, searches, wishlist changes, and comparisons
// feed a preference profile, and a set of scoring strategies keeps six
// recommendation sections fresh.
//
// The server initializes components in the following order:
//
//  1. Configuration: layered Koanf sources (defaults, YAML file, env)
//  2. Logging: global zerolog setup
//  3. Catalog: vehicle inventory from a JSON file or a generated sample
//  4. Behavior log, recommendation engine, and section store
//  5. Archive (optional): durable Badger mirror of behavior events
//  6. Scheduler: debounced activity, staleness, and manual triggers
//  7. Supervision tree: refresh loop and HTTP API under suture
//
// Configuration keys use the MOTORMATCH_ prefix in the environment, e.g.
// MOTORMATCH_SERVER_PORT=8480, MOTORMATCH_ARCHIVE_ENABLED=true. A YAML
// file path can be forced with CONFIG_PATH.
//
// The server shuts down gracefully on SIGINT and SIGTERM: the listener
// drains in-flight requests, the refresh loop disarms its timers, and the
// archive is flushed and closed.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/motormatch/motormatch/internal/api"
	"github.com/motormatch/motormatch/internal/behavior"
	"github.com/motormatch/motormatch/internal/config"
	"github.com/motormatch/motormatch/internal/inventory"
	"github.com/motormatch/motormatch/internal/logging"
	"github.com/motormatch/motormatch/internal/recommend"
	"github.com/motormatch/motormatch/internal/scheduler"
	"github.com/motormatch/motormatch/internal/sections"
	"github.com/motormatch/motormatch/internal/storage"
	"github.com/motormatch/motormatch/internal/supervisor"
	"github.com/motormatch/motormatch/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logger := logging.Logger()
		logger.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	catalog, err := loadCatalog(cfg.Catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	logger.Info().Int("vehicles", catalog.Len()).Msg("catalog loaded")

	log := behavior.NewLog(logger)

	engine := recommend.NewEngine(catalog, log, recommend.Config{
		SectionLimit:    cfg.Engine.SectionLimit,
		TrendingMinYear: cfg.Engine.TrendingMinYear,
		Seed:            cfg.Engine.Seed,
	}, logger)

	store := sections.NewStore(cfg.Scheduler.RefreshInterval, logger)

	var archive *storage.Archive
	if cfg.Archive.Enabled {
		archive, err = storage.Open(storage.Options{
			Path:     cfg.Archive.Path,
			InMemory: cfg.Archive.InMemory,
		}, logger)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer func() {
			if cerr := archive.Close(); cerr != nil {
				logger.Error().Err(cerr).Msg("close archive")
			}
		}()
		logger.Info().Str("path", cfg.Archive.Path).Bool("in_memory", cfg.Archive.InMemory).Msg("archive opened")
	}

	sched := scheduler.New(scheduler.Config{
		Enabled:           cfg.Scheduler.Enabled,
		Debounce:          cfg.Scheduler.Debounce,
		ActivityThreshold: cfg.Scheduler.ActivityThreshold,
		Cooldown:          cfg.Scheduler.Cooldown,
	}, store, engine, log, logger)

	server := api.NewServer(catalog, log, store, sched, engine, archive, api.Options{
		CORSOrigins: cfg.Server.CORSOrigins,
		RateLimit:   cfg.Server.RateLimit,
		RateWindow:  cfg.Server.RateWindow,
	}, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.Add(services.NewRefreshService(sched, cfg.Scheduler.StaleCheckInterval, logger))
	tree.Add(services.NewHTTPService(httpServer, cfg.Server.Timeout))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", httpServer.Addr).Msg("motormatch starting")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervision tree: %w", err)
	}
	logger.Info().Msg("motormatch stopped")
	return nil
}

// loadCatalog reads the inventory file when configured and falls back to
// the generated sample catalog otherwise.
func loadCatalog(cfg config.CatalogConfig) (*inventory.Catalog, error) {
	if cfg.Path != "" {
		return inventory.LoadFile(cfg.Path)
	}
	return inventory.NewCatalog(inventory.SampleVehicles(cfg.SampleSize, cfg.SampleSeed)), nil
}
