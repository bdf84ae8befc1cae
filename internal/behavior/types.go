// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package behavior

import "time"

// History caps. Lists are trimmed from the tail once a record pushes them
// past these bounds.
const (
	MaxViews    = 100
	MaxSearches = 50
	MaxWishlist = 50
	MaxCompares = 20
)

// MinViewsForInference is the view-history size below which preference
// inference refuses to run.
const MinViewsForInference = 5

// Inferred budget bounds in rupees.
const (
	BudgetFloor   int64 = 100_000
	BudgetCeiling int64 = 5_000_000
)

// ViewEvent records a single vehicle detail view.
type ViewEvent struct {
	VehicleID string    `json:"vehicle_id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Price     int64     `json:"price"`
	FuelType  string    `json:"fuel_type"`
	Category  string    `json:"category,omitempty"`
	Duration  int       `json:"duration_seconds,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SearchEvent records a catalog search with any structured filters the user
// applied alongside the free-text query.
type SearchEvent struct {
	ID          string            `json:"id"`
	Query       string            `json:"query"`
	Filters     map[string]string `json:"filters,omitempty"`
	ResultCount int               `json:"result_count"`
	Timestamp   time.Time         `json:"timestamp"`
}

// WishlistEvent records a vehicle being added to or removed from the
// wishlist. Action is "add" or "remove". Make, model, and price are copied
// from the catalog entry so wishlist history stays meaningful after the
// vehicle leaves the inventory.
type WishlistEvent struct {
	VehicleID string    `json:"vehicle_id"`
	Make      string    `json:"make"`
	Model     string    `json:"model"`
	Price     int64     `json:"price"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// CompareEvent records a side-by-side comparison of two or more vehicles
// and how long the user spent on the comparison screen.
type CompareEvent struct {
	VehicleIDs []string  `json:"vehicle_ids"`
	Duration   int       `json:"duration_seconds,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Profile holds the user's preference profile. Budget, brand, and fuel
// rankings are rewritten by inference; the remaining fields only change
// when the user sets them.
type Profile struct {
	BudgetMin          int64    `json:"budget_min"`
	BudgetMax          int64    `json:"budget_max"`
	PreferredBrands    []string `json:"preferred_brands"`
	PreferredFuels     []string `json:"preferred_fuels"`
	PreferredBodyTypes []string `json:"preferred_body_types"`
	MaxVehicleAge      int      `json:"max_vehicle_age"`
	FamilySize         int      `json:"family_size"`
	PrimaryUse         string   `json:"primary_use"`
}

// DefaultProfile returns the profile used before any inference has run.
func DefaultProfile() Profile {
	return Profile{
		BudgetMin:          200_000,
		BudgetMax:          2_000_000,
		PreferredBrands:    []string{},
		PreferredFuels:     []string{},
		PreferredBodyTypes: []string{},
		MaxVehicleAge:      10,
		FamilySize:         4,
		PrimaryUse:         "mixed",
	}
}

// Counts summarizes list sizes for refresh-trigger accounting.
type Counts struct {
	Views    int `json:"views"`
	Searches int `json:"searches"`
	Wishlist int `json:"wishlist"`
	Compares int `json:"compares"`
}

// Total returns the sum across all event lists.
func (c Counts) Total() int {
	return c.Views + c.Searches + c.Wishlist + c.Compares
}
