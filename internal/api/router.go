// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package api exposes the personalization engine over HTTP using chi.
//
// Event ingestion endpoints record behavior, mirror it to the archive when
// one is configured, and nudge the refresh scheduler. Read endpoints serve
// the current section state; they never trigger recomputation themselves.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/motormatch/motormatch/internal/behavior"
	"github.com/motormatch/motormatch/internal/inventory"
	"github.com/motormatch/motormatch/internal/recommend"
	"github.com/motormatch/motormatch/internal/scheduler"
	"github.com/motormatch/motormatch/internal/sections"
	"github.com/motormatch/motormatch/internal/storage"
)

// Options tunes the HTTP surface.
type Options struct {
	// CORSOrigins lists allowed origins. Empty means "*".
	CORSOrigins []string

	// RateLimit is the per-IP request budget per RateWindow. Zero
	// disables rate limiting.
	RateLimit  int
	RateWindow time.Duration
}

// Server wires the engine's components behind HTTP handlers.
type Server struct {
	catalog *inventory.Catalog
	log     *behavior.Log
	store   *sections.Store
	sched   *scheduler.Scheduler
	engine  *recommend.Engine
	archive *storage.Archive

	opts     Options
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewServer builds the HTTP layer. archive may be nil when durable
// mirroring is disabled.
func NewServer(
	catalog *inventory.Catalog,
	log *behavior.Log,
	store *sections.Store,
	sched *scheduler.Scheduler,
	engine *recommend.Engine,
	archive *storage.Archive,
	opts Options,
	logger zerolog.Logger,
) *Server {
	return &Server{
		catalog:  catalog,
		log:      log,
		store:    store,
		sched:    sched,
		engine:   engine,
		archive:  archive,
		opts:     opts,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "api").Logger(),
	}
}

// Routes assembles the full router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	origins := s.opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.opts.RateLimit > 0 {
			window := s.opts.RateWindow
			if window <= 0 {
				window = time.Minute
			}
			r.Use(httprate.LimitByIP(s.opts.RateLimit, window))
		}
		r.Use(s.instrument)

		r.Route("/events", func(r chi.Router) {
			r.Post("/view", s.handleRecordView)
			r.Post("/search", s.handleRecordSearch)
			r.Post("/wishlist", s.handleRecordWishlist)
			r.Post("/compare", s.handleRecordCompare)
		})

		r.Get("/sections", s.handleSections)
		r.Get("/sections/{category}", s.handleSection)
		r.Post("/sections/reorder", s.handleReorderSections)
		r.Put("/sections/enabled", s.handleSetEnabled)
		r.Put("/sections/refresh-interval", s.handleSetRefreshInterval)
		r.Delete("/sections", s.handleClearSections)

		r.Post("/feedback", s.handleFeedback)
		r.Post("/feedback/boost", s.handleBoost)

		r.Post("/refresh", s.handleRefresh)

		r.Get("/profile", s.handleProfile)
		r.Put("/profile", s.handleSetProfile)
		r.Post("/profile/infer", s.handleInferProfile)

		r.Get("/vehicles", s.handleVehicles)
		r.Get("/vehicles/{id}", s.handleVehicle)
		r.Get("/vehicles/{id}/similar", s.handleSimilarVehicles)
		r.Delete("/vehicles/{id}/recommendations", s.handleRemoveVehicle)

		r.Post("/tracking", s.handleTracking)
		r.Delete("/behavior", s.handleClearBehavior)

		r.Get("/history/views", s.handleArchivedViews)
		r.Get("/history/searches", s.handleArchivedSearches)
	})

	return r
}
