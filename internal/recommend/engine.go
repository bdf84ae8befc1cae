// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package recommend

import (
	"math"
	"math/rand"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/motormatch/motormatch/internal/behavior"
	"github.com/motormatch/motormatch/internal/inventory"
)

// BehaviorSource is the read side of the behavior log the engine scores
// against. Declared here so the engine does not depend on a concrete store.
type BehaviorSource interface {
	Views() []behavior.ViewEvent
	Searches() []behavior.SearchEvent
	Profile() behavior.Profile
}

// Config tunes the engine.
type Config struct {
	// SectionLimit is the default number of items per section.
	SectionLimit int

	// TrendingMinYear is the oldest model year considered trending.
	TrendingMinYear int

	// Seed fixes the jitter source. Zero seeds from the clock.
	Seed int64
}

// DefaultConfig returns the production engine settings.
func DefaultConfig() Config {
	return Config{
		SectionLimit:    5,
		TrendingMinYear: 2024,
	}
}

// Engine produces scored recommendations from the catalog and a behavior
// snapshot. Safe for concurrent use.
type Engine struct {
	catalog *inventory.Catalog
	source  BehaviorSource
	cfg     Config
	logger  zerolog.Logger

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewEngine builds an engine over the given catalog and behavior source.
func NewEngine(catalog *inventory.Catalog, source BehaviorSource, cfg Config, logger zerolog.Logger) *Engine {
	if cfg.SectionLimit <= 0 {
		cfg.SectionLimit = DefaultConfig().SectionLimit
	}
	if cfg.TrendingMinYear == 0 {
		cfg.TrendingMinYear = DefaultConfig().TrendingMinYear
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63() //nolint:gosec // jitter only, not security sensitive
	}
	return &Engine{
		catalog: catalog,
		source:  source,
		cfg:     cfg,
		logger:  logger.With().Str("component", "recommend").Logger(),
		rng:     rand.New(rand.NewSource(seed)), //nolint:gosec // jitter only
	}
}

// SectionLimit returns the configured default items-per-section count.
func (e *Engine) SectionLimit() int {
	return e.cfg.SectionLimit
}

// ScoreCategory produces the items backing the given section. A limit of
// zero or less falls back to the configured section limit.
func (e *Engine) ScoreCategory(cat Category, limit int) []Item {
	if limit <= 0 {
		limit = e.cfg.SectionLimit
	}

	switch cat {
	case CategoryPopular:
		return e.Popular(limit)
	case CategoryNew, CategoryTrending:
		return e.Trending(limit)
	case CategoryBudget:
		items := e.Personalized(limit)
		filtered := make([]Item, 0, limit)
		for _, it := range items {
			if it.Category == CategoryBudget {
				filtered = append(filtered, it)
			}
			if len(filtered) >= limit {
				break
			}
		}
		return filtered
	default:
		return e.Personalized(limit)
	}
}

// Personalized scores a shuffled catalog pass against the behavior
// snapshot. Each match adds its weight and a reason; unmatched vehicles
// fall through as popular picks.
func (e *Engine) Personalized(limit int) []Item {
	if limit <= 0 {
		return []Item{}
	}

	profile := e.source.Profile()
	recentBrands := e.recentBrands()

	preferredFuels := make(map[string]struct{}, len(profile.PreferredFuels))
	for _, f := range profile.PreferredFuels {
		preferredFuels[f] = struct{}{}
	}

	shuffled := e.catalog.Vehicles()
	e.withRNG(func(rng *rand.Rand) {
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
	})

	items := make([]Item, 0, limit)
	for _, v := range shuffled {
		if len(items) >= limit {
			break
		}

		score := 0.3
		reasons := make([]string, 0, 3)
		category := CategoryPopular

		if _, ok := recentBrands[v.Make]; ok {
			score += 0.4
			reasons = append(reasons, "More "+v.Make+" models")
			category = CategoryBrandPreference
		}
		if profile.BudgetMax > 0 && v.Price <= profile.BudgetMax {
			score += 0.2
			reasons = append(reasons, "Within your budget")
			category = CategoryBudget
		}
		if _, ok := preferredFuels[v.FuelType]; ok {
			score += 0.3
			reasons = append(reasons, "Your preferred "+v.FuelType+" fuel type")
			category = CategoryFuelPreference
		}

		e.withRNG(func(rng *rand.Rand) {
			score += rng.Float64() * 0.1
		})

		if len(reasons) == 0 {
			reasons = append(reasons, "Popular choice")
		}

		items = append(items, Item{
			Vehicle:    v,
			Score:      math.Min(score, 1.0),
			Reasons:    capReasons(reasons),
			Category:   category,
			Confidence: math.Min(score+0.2, 0.9),
		})
	}

	sortByScore(items)
	return items
}

// SimilarToVehicle scores the catalog against one target vehicle. An
// unknown target yields no items.
func (e *Engine) SimilarToVehicle(vehicleID string, limit int) []Item {
	target, ok := e.catalog.Get(vehicleID)
	if !ok {
		e.logger.Warn().Str("vehicle_id", vehicleID).Msg("similar target not in catalog")
		return []Item{}
	}
	if limit <= 0 {
		limit = e.cfg.SectionLimit
	}

	items := make([]Item, 0, e.catalog.Len())
	for _, v := range e.catalog.Vehicles() {
		if v.ID == target.ID {
			continue
		}

		score := 0.0
		reasons := make([]string, 0, 4)
		category := CategorySimilar

		if v.Make == target.Make {
			score += 0.5
			reasons = append(reasons, "More "+v.Make+" models")
			category = CategoryBrandPreference
		}
		if v.Category != "" && target.Category != "" && v.Category == target.Category {
			score += 0.3
			reasons = append(reasons, "Similar "+v.Category+" vehicles")
		}
		if target.Price > 0 {
			diff := math.Abs(float64(v.Price-target.Price)) / float64(target.Price)
			if diff <= 0.3 {
				score += 0.2
				reasons = append(reasons, "Similar price range")
			}
		}
		if v.FuelType == target.FuelType {
			score += 0.1
			reasons = append(reasons, v.FuelType+" fuel type")
		}

		items = append(items, Item{
			Vehicle:    v,
			Score:      score,
			Reasons:    capReasons(reasons),
			Category:   category,
			Confidence: math.Min(score+0.3, 0.9),
		})
	}

	sortByScore(items)
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

// Trending returns the newest models at or above the trending year cutoff.
func (e *Engine) Trending(limit int) []Item {
	if limit <= 0 {
		return []Item{}
	}

	newest := make([]inventory.Vehicle, 0)
	for _, v := range e.catalog.Vehicles() {
		if v.Year >= e.cfg.TrendingMinYear {
			newest = append(newest, v)
		}
	}
	sort.SliceStable(newest, func(i, j int) bool {
		return newest[i].Year > newest[j].Year
	})
	if len(newest) > limit {
		newest = newest[:limit]
	}

	items := make([]Item, 0, len(newest))
	for _, v := range newest {
		var score float64
		e.withRNG(func(rng *rand.Rand) {
			score = rng.Float64()*0.5 + 0.5
		})
		items = append(items, Item{
			Vehicle:    v,
			Score:      score,
			Reasons:    []string{"Trending model"},
			Category:   CategoryNew,
			Confidence: 0.8,
		})
	}
	return items
}

// Popular picks one vehicle per make, walking makes in catalog order.
func (e *Engine) Popular(limit int) []Item {
	if limit <= 0 {
		return []Item{}
	}

	items := make([]Item, 0, limit)
	for _, makeName := range e.catalog.Makes() {
		if len(items) >= limit {
			break
		}
		candidates := e.catalog.ByMake(makeName)
		if len(candidates) == 0 {
			continue
		}

		var pick inventory.Vehicle
		var score float64
		e.withRNG(func(rng *rand.Rand) {
			pick = candidates[rng.Intn(len(candidates))]
			score = rng.Float64()*0.3 + 0.7
		})

		items = append(items, Item{
			Vehicle:    pick,
			Score:      score,
			Reasons:    []string{"Popular choice"},
			Category:   CategoryPopular,
			Confidence: 0.8,
		})
	}
	return items
}

// recentBrands collects makes from the three newest views and any catalog
// make named in the two newest search queries.
func (e *Engine) recentBrands() map[string]struct{} {
	brands := make(map[string]struct{})

	views := e.source.Views()
	for i, v := range views {
		if i >= 3 {
			break
		}
		if v.Make != "" {
			brands[v.Make] = struct{}{}
		}
	}

	makes := e.catalog.Makes()
	searches := e.source.Searches()
	for i, s := range searches {
		if i >= 2 {
			break
		}
		query := strings.ToLower(s.Query)
		for _, m := range makes {
			if strings.Contains(query, strings.ToLower(m)) {
				brands[m] = struct{}{}
			}
		}
	}
	return brands
}

func (e *Engine) withRNG(fn func(*rand.Rand)) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	fn(e.rng)
}

func sortByScore(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

// capReasons keeps at most the first two reasons, matching what the UI
// shows per card.
func capReasons(reasons []string) []string {
	if len(reasons) > 2 {
		return reasons[:2]
	}
	return reasons
}
