// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RefreshScheduler is the slice of the scheduler this service drives.
type RefreshScheduler interface {
	// Startup seeds the sections with their first refresh.
	Startup() error

	// CheckStale refreshes when the sections have gone stale.
	CheckStale()

	// Stop disarms pending triggers.
	Stop()
}

// RefreshService runs the scheduler's time-based side: one startup
// refresh, then a periodic staleness poll. Activity-driven refreshes
// arrive through the API and do not pass through here.
type RefreshService struct {
	sched         RefreshScheduler
	checkInterval time.Duration
	logger        zerolog.Logger
}

// NewRefreshService builds the service. checkInterval is how often
// staleness is polled, not how often sections refresh.
func NewRefreshService(sched RefreshScheduler, checkInterval time.Duration, logger zerolog.Logger) *RefreshService {
	if checkInterval <= 0 {
		checkInterval = time.Minute
	}
	return &RefreshService{
		sched:         sched,
		checkInterval: checkInterval,
		logger:        logger.With().Str("service", "refresh").Logger(),
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	s.logger.Info().
		Dur("check_interval", s.checkInterval).
		Msg("refresh service starting")

	if err := s.sched.Startup(); err != nil {
		// A refused startup refresh means another path already seeded
		// the sections; the ticker covers everything after that.
		s.logger.Warn().Err(err).Msg("startup refresh refused")
	}

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.sched.Stop()
			s.logger.Info().Msg("refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.sched.CheckStale()
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *RefreshService) String() string {
	return "refresh-scheduler"
}
