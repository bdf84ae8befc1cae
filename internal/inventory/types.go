// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package inventory

// Vehicle is a single catalog entry.
//
// The only invariant the catalog enforces is ID uniqueness; all other fields
// are trusted as supplied by the inventory source.
type Vehicle struct {
	// ID uniquely identifies the vehicle within the catalog.
	ID string `json:"id"`

	// Make is the manufacturer brand name.
	Make string `json:"make"`

	// Model is the model name within the make.
	Model string `json:"model"`

	// Year is the model year.
	Year int `json:"year"`

	// Price is the listed price in rupees.
	Price int64 `json:"price"`

	// FuelType is the fuel variant (Petrol, Diesel, Electric, Hybrid, CNG).
	FuelType string `json:"fuel_type"`

	// Mileage is the efficiency rating as displayed (e.g. "18 kmpl").
	Mileage string `json:"mileage,omitempty"`

	// Transmission is the gearbox type, if known.
	Transmission string `json:"transmission,omitempty"`

	// Category is the body type (Hatchback, Sedan, SUV, MUV), if known.
	Category string `json:"category,omitempty"`

	// Seating is the seat count, if known.
	Seating int `json:"seating,omitempty"`

	// Features lists optional highlight features.
	Features []string `json:"features,omitempty"`

	// ImageURL points at the primary listing image.
	ImageURL string `json:"image_url,omitempty"`
}

// Filter narrows a catalog query. Zero values mean "no constraint".
type Filter struct {
	// Make matches the manufacturer, case-insensitive.
	Make string `json:"make,omitempty"`

	// FuelType matches the fuel variant, case-insensitive.
	FuelType string `json:"fuel_type,omitempty"`

	// Category matches the body type, case-insensitive.
	Category string `json:"category,omitempty"`

	// MinPrice is the inclusive lower price bound.
	MinPrice int64 `json:"min_price,omitempty"`

	// MaxPrice is the inclusive upper price bound. Zero disables the bound.
	MaxPrice int64 `json:"max_price,omitempty"`

	// Year matches the exact model year. Zero disables the constraint.
	Year int `json:"year,omitempty"`
}
