// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package recommend

import (
	"fmt"

	"github.com/motormatch/motormatch/internal/inventory"
)

// Category identifies a recommendation section or the dominant reason a
// vehicle was recommended.
type Category int

// Section categories. CategoryFuelPreference is never a section of its
// own: it only tags items whose fuel match dominated the score.
const (
	CategorySimilar Category = iota
	CategoryBudget
	CategoryPopular
	CategoryNew
	CategoryBrandPreference
	CategoryTrending
	CategoryFuelPreference
)

// SectionCategories lists the categories that can back a section, in
// default display order.
var SectionCategories = []Category{
	CategorySimilar,
	CategoryBudget,
	CategoryPopular,
	CategoryNew,
	CategoryBrandPreference,
	CategoryTrending,
}

// DefaultEnabled lists the categories enabled for new users.
var DefaultEnabled = []Category{
	CategorySimilar,
	CategoryBudget,
	CategoryPopular,
	CategoryNew,
	CategoryTrending,
}

// String returns the wire key for the category.
func (c Category) String() string {
	switch c {
	case CategorySimilar:
		return "similar"
	case CategoryBudget:
		return "budget"
	case CategoryPopular:
		return "popular"
	case CategoryNew:
		return "new"
	case CategoryBrandPreference:
		return "brand_preference"
	case CategoryTrending:
		return "trending"
	case CategoryFuelPreference:
		return "fuel_preference"
	default:
		return "unknown"
	}
}

// Title returns the display heading for the category's section.
func (c Category) Title() string {
	switch c {
	case CategorySimilar:
		return "Similar to what you viewed"
	case CategoryBudget:
		return "Within your budget"
	case CategoryPopular:
		return "Popular choices"
	case CategoryNew:
		return "New arrivals"
	case CategoryBrandPreference:
		return "From your preferred brands"
	case CategoryTrending:
		return "Trending now"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler so categories serialize as
// their wire keys.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unlike ParseCategory
// it accepts "fuel_preference", which appears as an item tag but never
// names a section.
func (c *Category) UnmarshalText(text []byte) error {
	if string(text) == "fuel_preference" {
		*c = CategoryFuelPreference
		return nil
	}
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory maps a wire key to a section category. Keys that are not
// valid sections (including "fuel_preference") are rejected.
func ParseCategory(key string) (Category, error) {
	switch key {
	case "similar":
		return CategorySimilar, nil
	case "budget":
		return CategoryBudget, nil
	case "popular":
		return CategoryPopular, nil
	case "new":
		return CategoryNew, nil
	case "brand_preference":
		return CategoryBrandPreference, nil
	case "trending":
		return CategoryTrending, nil
	default:
		return 0, fmt.Errorf("unknown section category %q", key)
	}
}

// Item is a scored recommendation.
type Item struct {
	// Vehicle is the recommended catalog entry.
	Vehicle inventory.Vehicle `json:"vehicle"`

	// Score orders items within a section. Baseline scoring keeps it in
	// [0, 1]; feedback boosts may push it above 1.
	Score float64 `json:"score"`

	// Reasons are up to two short explanations shown to the user.
	Reasons []string `json:"reasons"`

	// Category tags the dominant signal behind the score.
	Category Category `json:"category"`

	// Confidence estimates how reliable the score is, in [0, 1].
	Confidence float64 `json:"confidence"`
}
