// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package inventory

import (
	"fmt"
	"math/rand"
)

// sampleModels maps each make to its model lineup for generated catalogs.
// Prices are base figures in rupees; generation adds bounded variance.
var sampleModels = map[string][]struct {
	model    string
	price    int64
	category string
}{
	"Maruti Suzuki": {
		{"Swift", 650000, "Hatchback"},
		{"Baleno", 750000, "Hatchback"},
		{"Brezza", 900000, "SUV"},
		{"Ertiga", 950000, "MUV"},
	},
	"Hyundai": {
		{"i20", 750000, "Hatchback"},
		{"Verna", 1150000, "Sedan"},
		{"Creta", 1200000, "SUV"},
	},
	"Tata": {
		{"Tiago", 600000, "Hatchback"},
		{"Nexon", 900000, "SUV"},
		{"Harrier", 1600000, "SUV"},
	},
	"Mahindra": {
		{"XUV300", 950000, "SUV"},
		{"Scorpio-N", 1400000, "SUV"},
	},
	"Toyota": {
		{"Glanza", 700000, "Hatchback"},
		{"Camry", 4600000, "Sedan"},
		{"Innova Crysta", 2000000, "MUV"},
	},
	"Honda": {
		{"Amaze", 750000, "Sedan"},
		{"City", 1250000, "Sedan"},
	},
	"Kia": {
		{"Sonet", 800000, "SUV"},
		{"Seltos", 1100000, "SUV"},
	},
}

var sampleMakeOrder = []string{
	"Maruti Suzuki", "Hyundai", "Tata", "Mahindra", "Toyota", "Honda", "Kia",
}

var sampleFuels = []string{"Petrol", "Diesel", "CNG", "Electric", "Hybrid"}

// SampleVehicles generates a deterministic catalog of n vehicles for the
// given seed. It stands in for a real inventory feed in development and
// tests.
func SampleVehicles(n int, seed int64) []Vehicle {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // sample data only

	vehicles := make([]Vehicle, 0, n)
	for i := 0; i < n; i++ {
		makeName := sampleMakeOrder[i%len(sampleMakeOrder)]
		lineup := sampleModels[makeName]
		entry := lineup[rng.Intn(len(lineup))]

		// Bounded variance keeps generated prices plausible per model.
		price := entry.price + int64(rng.Intn(100_001)) - 50_000

		vehicles = append(vehicles, Vehicle{
			ID:           fmt.Sprintf("veh-%04d", i+1),
			Make:         makeName,
			Model:        entry.model,
			Year:         2020 + rng.Intn(6),
			Price:        price,
			FuelType:     sampleFuels[rng.Intn(len(sampleFuels))],
			Mileage:      fmt.Sprintf("%d kmpl", 12+rng.Intn(14)),
			Transmission: []string{"Manual", "Automatic"}[rng.Intn(2)],
			Category:     entry.category,
			Seating:      5,
		})
	}
	return vehicles
}
