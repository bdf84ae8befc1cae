// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package behavior

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Log is the bounded behavior store. All methods are safe for concurrent
// use; a single mutex guards every list and the profile so a record and its
// trim are one atomic step.
type Log struct {
	mu sync.Mutex

	views    []ViewEvent
	searches []SearchEvent
	wishlist []WishlistEvent
	compares []CompareEvent

	profile         Profile
	trackingEnabled bool
	sessionStart    time.Time

	logger zerolog.Logger
	now    func() time.Time
}

// NewLog returns an empty log with tracking enabled and the default
// profile. The session clock starts now.
func NewLog(logger zerolog.Logger) *Log {
	l := &Log{
		profile:         DefaultProfile(),
		trackingEnabled: true,
		logger:          logger.With().Str("component", "behavior").Logger(),
		now:             time.Now,
	}
	l.sessionStart = l.now()
	return l
}

// SetTrackingEnabled toggles event collection. Disabling does not discard
// history already collected.
func (l *Log) SetTrackingEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.trackingEnabled = enabled
	l.logger.Info().Bool("enabled", enabled).Msg("tracking toggled")
}

// TrackingEnabled reports whether events are currently being collected.
func (l *Log) TrackingEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trackingEnabled
}

// RecordView stores a vehicle view at the head of the view history.
// A zero timestamp is filled with the current time.
func (l *Log) RecordView(ev ViewEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.trackingEnabled {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = l.now()
	}
	l.views = prepend(l.views, ev, MaxViews)
	l.logger.Debug().
		Str("vehicle_id", ev.VehicleID).
		Str("make", ev.Make).
		Msg("view recorded")
}

// RecordSearch stores a search at the head of the search history. The event
// is assigned a fresh ID; a zero timestamp is filled with the current time.
func (l *Log) RecordSearch(ev SearchEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.trackingEnabled {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = l.now()
	}
	l.searches = prepend(l.searches, ev, MaxSearches)
	l.logger.Debug().
		Str("query", ev.Query).
		Int("results", ev.ResultCount).
		Msg("search recorded")
}

// RecordWishlist stores a wishlist add or remove at the head of the
// wishlist history.
func (l *Log) RecordWishlist(ev WishlistEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.trackingEnabled {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = l.now()
	}
	l.wishlist = prepend(l.wishlist, ev, MaxWishlist)
	l.logger.Debug().
		Str("vehicle_id", ev.VehicleID).
		Str("action", ev.Action).
		Msg("wishlist recorded")
}

// RecordCompare stores a comparison at the head of the compare history.
func (l *Log) RecordCompare(ev CompareEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.trackingEnabled {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = l.now()
	}
	l.compares = prepend(l.compares, ev, MaxCompares)
	l.logger.Debug().
		Int("vehicles", len(ev.VehicleIDs)).
		Msg("compare recorded")
}

// Views returns a copy of the view history, newest first.
func (l *Log) Views() []ViewEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ViewEvent, len(l.views))
	copy(out, l.views)
	return out
}

// Searches returns a copy of the search history, newest first.
func (l *Log) Searches() []SearchEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]SearchEvent, len(l.searches))
	copy(out, l.searches)
	return out
}

// Wishlist returns a copy of the wishlist history, newest first.
func (l *Log) Wishlist() []WishlistEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]WishlistEvent, len(l.wishlist))
	copy(out, l.wishlist)
	return out
}

// Compares returns a copy of the compare history, newest first.
func (l *Log) Compares() []CompareEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]CompareEvent, len(l.compares))
	copy(out, l.compares)
	return out
}

// Counts returns the current size of each event list.
func (l *Log) Counts() Counts {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Counts{
		Views:    len(l.views),
		Searches: len(l.searches),
		Wishlist: len(l.wishlist),
		Compares: len(l.compares),
	}
}

// RecentActivity returns counts of events whose timestamp falls within the
// last 24 hours.
func (l *Log) RecentActivity() Counts {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-24 * time.Hour)
	var c Counts
	for _, ev := range l.views {
		if ev.Timestamp.After(cutoff) {
			c.Views++
		}
	}
	for _, ev := range l.searches {
		if ev.Timestamp.After(cutoff) {
			c.Searches++
		}
	}
	for _, ev := range l.wishlist {
		if ev.Timestamp.After(cutoff) {
			c.Wishlist++
		}
	}
	for _, ev := range l.compares {
		if ev.Timestamp.After(cutoff) {
			c.Compares++
		}
	}
	return c
}

// SessionDuration reports how long the log has been live.
func (l *Log) SessionDuration() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.now().Sub(l.sessionStart)
}

// Profile returns a copy of the current preference profile.
func (l *Log) Profile() Profile {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyProfile(l.profile)
}

// SetProfile replaces the user-set profile fields. Inferred fields (budget,
// brands, fuels) are taken as given and will be rewritten by the next
// inference pass.
func (l *Log) SetProfile(p Profile) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.profile = copyProfile(p)
}

// Clear drops all event history, resets the profile to its defaults, and
// restarts the session clock. The tracking toggle is left as is.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.views = nil
	l.searches = nil
	l.wishlist = nil
	l.compares = nil
	l.profile = DefaultProfile()
	l.sessionStart = l.now()
	l.logger.Info().Msg("behavior history cleared")
}

// InferPreferences recomputes the budget range, brand ranking, and fuel
// ranking from the view history. It reports whether inference ran; fewer
// than MinViewsForInference views leaves the profile untouched. Running
// twice on the same history yields the same profile.
func (l *Log) InferPreferences() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.views) < MinViewsForInference {
		return false
	}

	var minPrice, maxPrice int64
	brandFreq := make(map[string]int)
	fuelFreq := make(map[string]int)
	for i, ev := range l.views {
		if i == 0 || ev.Price < minPrice {
			minPrice = ev.Price
		}
		if ev.Price > maxPrice {
			maxPrice = ev.Price
		}
		if ev.Make != "" {
			brandFreq[ev.Make]++
		}
		if ev.FuelType != "" {
			fuelFreq[ev.FuelType]++
		}
	}

	budgetMin := int64(float64(minPrice) * 0.8)
	if budgetMin < BudgetFloor {
		budgetMin = BudgetFloor
	}
	budgetMax := int64(float64(maxPrice) * 1.2)
	if budgetMax > BudgetCeiling {
		budgetMax = BudgetCeiling
	}

	l.profile.BudgetMin = budgetMin
	l.profile.BudgetMax = budgetMax
	l.profile.PreferredBrands = topByFrequency(brandFreq, 3)
	l.profile.PreferredFuels = topByFrequency(fuelFreq, 2)

	l.logger.Info().
		Int64("budget_min", budgetMin).
		Int64("budget_max", budgetMax).
		Strs("brands", l.profile.PreferredBrands).
		Strs("fuels", l.profile.PreferredFuels).
		Msg("preferences inferred")
	return true
}

// prepend puts ev at the head of list and trims the tail to limit entries.
func prepend[T any](list []T, ev T, limit int) []T {
	list = append(list, ev)
	copy(list[1:], list)
	list[0] = ev
	if len(list) > limit {
		list = list[:limit]
	}
	return list
}

// topByFrequency returns up to n keys ordered by descending count, with
// name order breaking ties so repeated inference is deterministic.
func topByFrequency(freq map[string]int, n int) []string {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func copyProfile(p Profile) Profile {
	out := p
	out.PreferredBrands = append([]string(nil), p.PreferredBrands...)
	out.PreferredFuels = append([]string(nil), p.PreferredFuels...)
	out.PreferredBodyTypes = append([]string(nil), p.PreferredBodyTypes...)
	return out
}
