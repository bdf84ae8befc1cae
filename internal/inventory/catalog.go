// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package inventory

import (
	"fmt"
	"os"
	"strings"

	json "github.com/goccy/go-json"
)

// Catalog is an immutable, in-memory snapshot of the vehicle inventory.
// It is safe for concurrent use: nothing mutates it after construction.
type Catalog struct {
	vehicles []Vehicle
	byID     map[string]Vehicle
}

// NewCatalog builds a catalog from the given vehicles.
// Duplicate IDs keep the first occurrence; later entries are dropped.
func NewCatalog(vehicles []Vehicle) *Catalog {
	c := &Catalog{
		vehicles: make([]Vehicle, 0, len(vehicles)),
		byID:     make(map[string]Vehicle, len(vehicles)),
	}
	for _, v := range vehicles {
		if _, seen := c.byID[v.ID]; seen {
			continue
		}
		c.byID[v.ID] = v
		c.vehicles = append(c.vehicles, v)
	}
	return c
}

// LoadFile reads a catalog snapshot from a JSON file containing an array of
// Vehicle objects.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var vehicles []Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	return NewCatalog(vehicles), nil
}

// Len returns the number of vehicles in the catalog.
func (c *Catalog) Len() int {
	return len(c.vehicles)
}

// Vehicles returns a copy of the full vehicle list.
func (c *Catalog) Vehicles() []Vehicle {
	out := make([]Vehicle, len(c.vehicles))
	copy(out, c.vehicles)
	return out
}

// Get returns the vehicle with the given ID.
func (c *Catalog) Get(id string) (Vehicle, bool) {
	v, ok := c.byID[id]
	return v, ok
}

// Makes returns the distinct manufacturer names in catalog order.
func (c *Catalog) Makes() []string {
	seen := make(map[string]struct{})
	makes := make([]string, 0)
	for _, v := range c.vehicles {
		if _, ok := seen[v.Make]; ok {
			continue
		}
		seen[v.Make] = struct{}{}
		makes = append(makes, v.Make)
	}
	return makes
}

// Search returns vehicles matching the free-text query and filter.
// The query matches make, model, fuel type, and category, case-insensitive.
// An empty query matches everything; a nil filter applies no constraints.
func (c *Catalog) Search(query string, f *Filter) []Vehicle {
	query = strings.ToLower(strings.TrimSpace(query))

	results := make([]Vehicle, 0)
	for _, v := range c.vehicles {
		if query != "" && !matchesQuery(v, query) {
			continue
		}
		if f != nil && !matchesFilter(v, f) {
			continue
		}
		results = append(results, v)
	}
	return results
}

// ByMake returns vehicles of the given make, case-insensitive.
func (c *Catalog) ByMake(make string) []Vehicle {
	return c.Search("", &Filter{Make: make})
}

// ByFuelType returns vehicles with the given fuel type, case-insensitive.
func (c *Catalog) ByFuelType(fuelType string) []Vehicle {
	return c.Search("", &Filter{FuelType: fuelType})
}

// ByCategory returns vehicles of the given body type, case-insensitive.
func (c *Catalog) ByCategory(category string) []Vehicle {
	return c.Search("", &Filter{Category: category})
}

// ByPriceRange returns vehicles priced within [min, max] inclusive.
func (c *Catalog) ByPriceRange(minPrice, maxPrice int64) []Vehicle {
	return c.Search("", &Filter{MinPrice: minPrice, MaxPrice: maxPrice})
}

func matchesQuery(v Vehicle, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(v.Make), lowerQuery) ||
		strings.Contains(strings.ToLower(v.Model), lowerQuery) ||
		strings.Contains(strings.ToLower(v.FuelType), lowerQuery) ||
		(v.Category != "" && strings.Contains(strings.ToLower(v.Category), lowerQuery))
}

func matchesFilter(v Vehicle, f *Filter) bool {
	if f.Make != "" && !strings.EqualFold(v.Make, f.Make) {
		return false
	}
	if f.FuelType != "" && !strings.EqualFold(v.FuelType, f.FuelType) {
		return false
	}
	if f.Category != "" && !strings.EqualFold(v.Category, f.Category) {
		return false
	}
	if f.MinPrice > 0 && v.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && v.Price > f.MaxPrice {
		return false
	}
	if f.Year > 0 && v.Year != f.Year {
		return false
	}
	return true
}
