// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package metrics exposes the Prometheus instrumentation for the engine.
// Collectors register on the default registry; serve them with
// promhttp.Handler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BehaviorEvents counts recorded behavior events by type
	// (view, search, wishlist, compare).
	BehaviorEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "motormatch",
		Name:      "behavior_events_total",
		Help:      "Behavior events recorded, by event type.",
	}, []string{"type"})

	// RefreshCycles counts completed recommendation refreshes by trigger
	// (activity, stale, manual, startup).
	RefreshCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "motormatch",
		Name:      "refresh_cycles_total",
		Help:      "Completed recommendation refresh cycles, by trigger.",
	}, []string{"trigger"})

	// RefreshDropped counts refresh triggers that were dropped rather
	// than queued (in_progress, cooldown, disabled).
	RefreshDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "motormatch",
		Name:      "refresh_dropped_total",
		Help:      "Refresh triggers dropped instead of queued, by reason.",
	}, []string{"reason"})

	// RefreshDuration observes wall time per refresh cycle.
	RefreshDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "motormatch",
		Name:      "refresh_duration_seconds",
		Help:      "Wall time of a full recommendation refresh cycle.",
		Buckets:   prometheus.DefBuckets,
	})

	// SectionItems tracks the current item count per section.
	SectionItems = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "motormatch",
		Name:      "section_items",
		Help:      "Items currently held per recommendation section.",
	}, []string{"category"})

	// FeedbackEvents counts feedback submissions by action.
	FeedbackEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "motormatch",
		Name:      "feedback_events_total",
		Help:      "Feedback submissions, by action.",
	}, []string{"action"})

	// APIRequests counts HTTP requests by route and status code.
	APIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "motormatch",
		Name:      "api_requests_total",
		Help:      "HTTP requests served, by route and status.",
	}, []string{"route", "status"})

	// APIRequestDuration observes HTTP request latency by route.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "motormatch",
		Name:      "api_request_duration_seconds",
		Help:      "HTTP request latency, by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)
