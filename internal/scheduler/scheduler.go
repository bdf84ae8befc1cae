// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package scheduler

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/motormatch/motormatch/internal/behavior"
	"github.com/motormatch/motormatch/internal/metrics"
	"github.com/motormatch/motormatch/internal/recommend"
	"github.com/motormatch/motormatch/internal/sections"
)

// Refusal reasons returned by ManualRefresh.
var (
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrRefreshCooldown   = errors.New("refresh inside cooldown window")
	ErrRefreshDisabled   = errors.New("auto refresh disabled")
)

// ActivitySource reports behavior list sizes for change detection.
type ActivitySource interface {
	Counts() behavior.Counts
}

// Config tunes the refresh triggers.
type Config struct {
	// Enabled gates all automatic refreshes.
	Enabled bool

	// Debounce is how long activity must stay quiet before a refresh
	// fires. New qualifying activity restarts the timer.
	Debounce time.Duration

	// ActivityThreshold is the minimum change in behavior counts, summed
	// across views, searches, and wishlist, that arms the debounce timer.
	ActivityThreshold int

	// Cooldown is the minimum gap between a completed refresh and the
	// next activity-triggered one.
	Cooldown time.Duration
}

// DefaultConfig returns the production trigger settings.
func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		Debounce:          3 * time.Second,
		ActivityThreshold: 2,
		Cooldown:          30 * time.Second,
	}
}

// Scheduler coordinates recommendation refreshes.
type Scheduler struct {
	cfg      Config
	store    *sections.Store
	engine   *recommend.Engine
	activity ActivitySource
	logger   zerolog.Logger

	mu         sync.Mutex
	timer      *time.Timer
	lastCounts behavior.Counts
	stopped    bool

	now func() time.Time
}

// New builds a scheduler. Zero config fields fall back to defaults.
func New(cfg Config, store *sections.Store, engine *recommend.Engine, activity ActivitySource, logger zerolog.Logger) *Scheduler {
	def := DefaultConfig()
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if cfg.ActivityThreshold <= 0 {
		cfg.ActivityThreshold = def.ActivityThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	return &Scheduler{
		cfg:      cfg,
		store:    store,
		engine:   engine,
		activity: activity,
		logger:   logger.With().Str("component", "scheduler").Logger(),
		now:      time.Now,
	}
}

// NotifyActivity is called after behavior events are recorded. When the
// summed change in views, searches, and wishlist since the last qualifying
// notification reaches the threshold, the debounce timer is (re)armed.
// Compares are excluded from change detection.
func (s *Scheduler) NotifyActivity() {
	if !s.cfg.Enabled || !s.store.Initialized() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}

	current := s.activity.Counts()
	change := abs(current.Views-s.lastCounts.Views) +
		abs(current.Searches-s.lastCounts.Searches) +
		abs(current.Wishlist-s.lastCounts.Wishlist)
	if change < s.cfg.ActivityThreshold {
		return
	}

	s.lastCounts = current
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.cfg.Debounce, func() {
		s.refresh("activity", true)
	})
	s.logger.Debug().Int("change", change).Msg("debounce timer armed")
}

// CheckStale refreshes when the store has gone stale. The staleness path
// skips the cooldown: the refresh interval is already far longer.
func (s *Scheduler) CheckStale() {
	if !s.cfg.Enabled {
		return
	}
	if !s.store.NeedsRefresh() {
		return
	}
	s.refresh("stale", false)
}

// ManualRefresh runs a user-requested refresh, honoring the cooldown and
// the in-progress gate. The returned error names the refusal reason.
func (s *Scheduler) ManualRefresh() error {
	return s.refresh("manual", true)
}

// Startup runs the initial refresh that seeds the sections. It bypasses
// the cooldown and the enabled flag.
func (s *Scheduler) Startup() error {
	return s.refresh("startup", false)
}

// Stop disarms any pending debounce timer. In-flight refreshes finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Scheduler) refresh(trigger string, honorCooldown bool) error {
	if honorCooldown {
		if !s.cfg.Enabled {
			metrics.RefreshDropped.WithLabelValues("disabled").Inc()
			return ErrRefreshDisabled
		}
		if last := s.store.LastRefresh(); !last.IsZero() && s.now().Sub(last) < s.cfg.Cooldown {
			metrics.RefreshDropped.WithLabelValues("cooldown").Inc()
			s.logger.Debug().Str("trigger", trigger).Msg("refresh dropped, cooldown")
			return ErrRefreshCooldown
		}
	}

	if !s.store.TryStartRefresh() {
		metrics.RefreshDropped.WithLabelValues("in_progress").Inc()
		s.logger.Debug().Str("trigger", trigger).Msg("refresh dropped, already running")
		return ErrRefreshInProgress
	}

	start := s.now()
	for _, cat := range s.store.Enabled() {
		s.refreshSection(cat)
	}
	s.store.CompleteRefresh()

	metrics.RefreshCycles.WithLabelValues(trigger).Inc()
	metrics.RefreshDuration.Observe(s.now().Sub(start).Seconds())
	s.logger.Info().
		Str("trigger", trigger).
		Dur("took", s.now().Sub(start)).
		Msg("recommendations refreshed")
	return nil
}

// refreshSection recomputes one section. A panicking strategy loses its
// section for this cycle but never takes down the rest of the refresh.
func (s *Scheduler) refreshSection(cat recommend.Category) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("category", cat.String()).
				Interface("panic", r).
				Msg("section refresh panicked")
		}
	}()

	items := s.engine.ScoreCategory(cat, s.engine.SectionLimit())
	s.store.SetSectionItems(cat, items)
	metrics.SectionItems.WithLabelValues(cat.String()).Set(float64(len(items)))
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
