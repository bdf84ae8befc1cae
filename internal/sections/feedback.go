// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package sections

import (
	"fmt"
	"sort"
	"time"

	"github.com/motormatch/motormatch/internal/recommend"
)

// FeedbackAction is the kind of reaction a user gave to a recommended
// vehicle.
type FeedbackAction string

// Supported feedback actions.
const (
	ActionLike          FeedbackAction = "like"
	ActionView          FeedbackAction = "view"
	ActionDislike       FeedbackAction = "dislike"
	ActionNotInterested FeedbackAction = "not_interested"
)

// ParseFeedbackAction validates a wire action string.
func ParseFeedbackAction(s string) (FeedbackAction, error) {
	switch FeedbackAction(s) {
	case ActionLike, ActionView, ActionDislike, ActionNotInterested:
		return FeedbackAction(s), nil
	default:
		return "", fmt.Errorf("unknown feedback action %q", s)
	}
}

// engagementWeight maps an action to its contribution when ranking
// sections by engagement.
func (a FeedbackAction) engagementWeight() int {
	switch a {
	case ActionLike:
		return 3
	case ActionView:
		return 1
	case ActionDislike:
		return -1
	case ActionNotInterested:
		return -2
	default:
		return 0
	}
}

// Feedback is one user reaction, recorded against the section it happened
// in.
type Feedback struct {
	VehicleID string             `json:"vehicle_id"`
	Action    FeedbackAction     `json:"action"`
	Category  recommend.Category `json:"category"`
	Timestamp time.Time          `json:"timestamp"`
}

// engagementFallback is the section order used for categories with no
// feedback yet.
var engagementFallback = []recommend.Category{
	recommend.CategorySimilar,
	recommend.CategoryBudget,
	recommend.CategoryPopular,
	recommend.CategoryNew,
	recommend.CategoryTrending,
	recommend.CategoryBrandPreference,
}

// AddFeedback records a reaction at the head of the feedback trail. A
// dislike or not-interested also removes the vehicle from every section,
// so a rejected vehicle disappears immediately.
func (s *Store) AddFeedback(fb Feedback) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fb.Timestamp.IsZero() {
		fb.Timestamp = s.now()
	}

	s.feedback = append(s.feedback, Feedback{})
	copy(s.feedback[1:], s.feedback)
	s.feedback[0] = fb
	if len(s.feedback) > MaxFeedback {
		s.feedback = s.feedback[:MaxFeedback]
	}

	if fb.Action == ActionDislike || fb.Action == ActionNotInterested {
		s.removeVehicleLocked(fb.VehicleID)
	}

	s.logger.Debug().
		Str("vehicle_id", fb.VehicleID).
		Str("action", string(fb.Action)).
		Str("category", fb.Category.String()).
		Msg("feedback recorded")
}

// Feedback returns a copy of the feedback trail, newest first.
func (s *Store) Feedback() []Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Feedback, len(s.feedback))
	copy(out, s.feedback)
	return out
}

// RemoveVehicle drops a vehicle from every section, for example after a
// purchase or test-drive booking.
func (s *Store) RemoveVehicle(vehicleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeVehicleLocked(vehicleID)
}

func (s *Store) removeVehicleLocked(vehicleID string) {
	for _, st := range s.sections {
		kept := st.items[:0]
		for _, it := range st.items {
			if it.Vehicle.ID != vehicleID {
				kept = append(kept, it)
			}
		}
		st.items = kept
	}
}

// Boost multiplies the vehicle's score within one section and re-sorts
// that section. The boosted score is kept as computed even past 1.0, so a
// boosted vehicle outranks every baseline item until the next refresh
// rescores the section.
func (s *Store) Boost(vehicleID string, cat recommend.Category, factor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boostLocked(vehicleID, factor, func(c recommend.Category) bool { return c == cat })
}

// BoostEverywhere applies Boost across all sections holding the vehicle.
func (s *Store) BoostEverywhere(vehicleID string, factor float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boostLocked(vehicleID, factor, func(recommend.Category) bool { return true })
}

func (s *Store) boostLocked(vehicleID string, factor float64, match func(recommend.Category) bool) {
	for cat, st := range s.sections {
		if !match(cat) {
			continue
		}
		for i := range st.items {
			if st.items[i].Vehicle.ID != vehicleID {
				continue
			}
			st.items[i].Score *= factor
			st.items[i].Reasons = append(st.items[i].Reasons, "Based on your recent interest")
			sort.SliceStable(st.items, func(a, b int) bool {
				return st.items[a].Score > st.items[b].Score
			})
			break
		}
	}
}

// ReorderByEngagement rewrites the enabled section list: categories with
// feedback first, ranked by weighted engagement, then the remaining
// categories in fallback order. A section disabled by the user can come
// back once its items draw feedback.
func (s *Store) ReorderByEngagement() {
	s.mu.Lock()
	defer s.mu.Unlock()

	engagement := make(map[recommend.Category]int)
	for _, fb := range s.feedback {
		engagement[fb.Category] += fb.Action.engagementWeight()
	}

	engaged := make([]recommend.Category, 0, len(engagement))
	for cat := range engagement {
		engaged = append(engaged, cat)
	}
	sort.SliceStable(engaged, func(i, j int) bool {
		if engagement[engaged[i]] != engagement[engaged[j]] {
			return engagement[engaged[i]] > engagement[engaged[j]]
		}
		return fallbackRank(engaged[i]) < fallbackRank(engaged[j])
	})

	order := engaged
	for _, cat := range engagementFallback {
		if _, ok := engagement[cat]; !ok {
			order = append(order, cat)
		}
	}
	s.enabled = order

	s.logger.Debug().
		Int("engaged", len(engaged)).
		Msg("sections reordered by engagement")
}

func fallbackRank(cat recommend.Category) int {
	for i, c := range engagementFallback {
		if c == cat {
			return i
		}
	}
	return len(engagementFallback)
}
