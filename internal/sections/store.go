// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

// Package sections holds the recommendation section state: per-section
// items, the refresh gate, enabled-section order, and the feedback trail.
package sections

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/motormatch/motormatch/internal/recommend"
)

// DefaultRefreshInterval is the staleness window after which sections are
// recomputed even without new activity.
const DefaultRefreshInterval = 30 * time.Minute

// MaxFeedback bounds the retained feedback trail.
const MaxFeedback = 100

// Section is a read-only snapshot of one recommendation section.
type Section struct {
	Category    recommend.Category `json:"category"`
	Title       string             `json:"title"`
	Items       []recommend.Item   `json:"items"`
	Loading     bool               `json:"loading"`
	LastUpdated time.Time          `json:"last_updated"`
}

type sectionState struct {
	items       []recommend.Item
	loading     bool
	lastUpdated time.Time
}

// Store is the mutable recommendation state. All methods are safe for
// concurrent use.
type Store struct {
	mu sync.Mutex

	sections map[recommend.Category]*sectionState
	enabled  []recommend.Category

	loading         bool
	initialized     bool
	lastRefresh     time.Time
	refreshInterval time.Duration

	feedback []Feedback

	logger zerolog.Logger
	now    func() time.Time
}

// NewStore returns a store with all six sections empty and the default
// section set enabled. A non-positive interval falls back to the default.
func NewStore(refreshInterval time.Duration, logger zerolog.Logger) *Store {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}
	s := &Store{
		sections:        make(map[recommend.Category]*sectionState, len(recommend.SectionCategories)),
		enabled:         append([]recommend.Category(nil), recommend.DefaultEnabled...),
		refreshInterval: refreshInterval,
		logger:          logger.With().Str("component", "sections").Logger(),
		now:             time.Now,
	}
	for _, cat := range recommend.SectionCategories {
		s.sections[cat] = &sectionState{}
	}
	return s
}

// TryStartRefresh attempts to claim the refresh gate. It reports false,
// without queueing, when a refresh is already running. On success the
// enabled sections are marked loading.
func (s *Store) TryStartRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return false
	}
	s.loading = true
	for _, cat := range s.enabled {
		s.sections[cat].loading = true
	}
	return true
}

// SetSectionItems replaces the items of one section and stamps it updated.
func (s *Store) SetSectionItems(cat recommend.Category, items []recommend.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sections[cat]
	if !ok {
		return
	}
	st.items = append([]recommend.Item(nil), items...)
	st.loading = false
	st.lastUpdated = s.now()
}

// CompleteRefresh releases the refresh gate and anchors the cooldown and
// staleness clocks to now.
func (s *Store) CompleteRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loading = false
	s.initialized = true
	s.lastRefresh = s.now()
	for _, st := range s.sections {
		st.loading = false
	}
}

// Loading reports whether a refresh is in progress.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Initialized reports whether at least one refresh has completed.
func (s *Store) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// LastRefresh returns when the last refresh completed. The zero time means
// no refresh has completed yet.
func (s *Store) LastRefresh() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRefresh
}

// NeedsRefresh reports whether sections are stale: never refreshed, or the
// refresh interval has elapsed since the last completion.
func (s *Store) NeedsRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRefresh.IsZero() {
		return true
	}
	return s.now().Sub(s.lastRefresh) > s.refreshInterval
}

// RefreshInterval returns the staleness window.
func (s *Store) RefreshInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshInterval
}

// SetRefreshInterval replaces the staleness window. Non-positive values
// are ignored.
func (s *Store) SetRefreshInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshInterval = d
}

// Enabled returns a copy of the enabled categories in display order.
func (s *Store) Enabled() []recommend.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recommend.Category(nil), s.enabled...)
}

// SetEnabled replaces the enabled category set.
func (s *Store) SetEnabled(cats []recommend.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.enabled = append([]recommend.Category(nil), cats...)
}

// Section returns a snapshot of one section.
func (s *Store) Section(cat recommend.Category) (Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sections[cat]
	if !ok {
		return Section{}, false
	}
	return snapshotSection(cat, st), true
}

// VisibleSections returns the enabled sections that have items, in enabled
// order. Empty sections are hidden rather than rendered blank.
func (s *Store) VisibleSections() []Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Section, 0, len(s.enabled))
	for _, cat := range s.enabled {
		st, ok := s.sections[cat]
		if !ok || len(st.items) == 0 {
			continue
		}
		out = append(out, snapshotSection(cat, st))
	}
	return out
}

// Snapshot returns all six sections in canonical order, including empty
// and disabled ones.
func (s *Store) Snapshot() []Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Section, 0, len(recommend.SectionCategories))
	for _, cat := range recommend.SectionCategories {
		out = append(out, snapshotSection(cat, s.sections[cat]))
	}
	return out
}

// ClearAll empties every section and resets the refresh clocks, returning
// the store to its never-refreshed state. Enabled sections and feedback
// are kept.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.sections {
		st.items = nil
		st.lastUpdated = time.Time{}
	}
	s.initialized = false
	s.lastRefresh = time.Time{}
	s.logger.Info().Msg("sections cleared")
}

func snapshotSection(cat recommend.Category, st *sectionState) Section {
	items := make([]recommend.Item, len(st.items))
	copy(items, st.items)
	return Section{
		Category:    cat,
		Title:       cat.Title(),
		Items:       items,
		Loading:     st.loading,
		LastUpdated: st.lastUpdated,
	}
}
