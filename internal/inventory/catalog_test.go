// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package inventory

import (
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
)

func testVehicles() []Vehicle {
	return []Vehicle{
		{ID: "v1", Make: "Toyota", Model: "Camry", Year: 2024, Price: 4_600_000, FuelType: "Petrol", Category: "Sedan"},
		{ID: "v2", Make: "Toyota", Model: "Glanza", Year: 2023, Price: 700_000, FuelType: "Petrol", Category: "Hatchback"},
		{ID: "v3", Make: "Tata", Model: "Nexon", Year: 2025, Price: 900_000, FuelType: "Electric", Category: "SUV"},
		{ID: "v4", Make: "Hyundai", Model: "Creta", Year: 2022, Price: 1_200_000, FuelType: "Diesel", Category: "SUV"},
	}
}

func TestNewCatalogDeduplicatesIDs(t *testing.T) {
	vehicles := testVehicles()
	vehicles = append(vehicles, Vehicle{ID: "v1", Make: "Honda", Model: "City"})

	c := NewCatalog(vehicles)

	if c.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", c.Len())
	}
	v, ok := c.Get("v1")
	if !ok {
		t.Fatal("Get(v1) not found")
	}
	if v.Make != "Toyota" {
		t.Errorf("duplicate ID should keep first entry, got make %q", v.Make)
	}
}

func TestCatalogSearch(t *testing.T) {
	c := NewCatalog(testVehicles())

	tests := []struct {
		name   string
		query  string
		filter *Filter
		want   []string
	}{
		{
			name:  "free text matches make",
			query: "toyota",
			want:  []string{"v1", "v2"},
		},
		{
			name:  "free text matches category",
			query: "suv",
			want:  []string{"v3", "v4"},
		},
		{
			name:   "make filter is case insensitive",
			filter: &Filter{Make: "tata"},
			want:   []string{"v3"},
		},
		{
			name:   "price range is inclusive",
			filter: &Filter{MinPrice: 700_000, MaxPrice: 900_000},
			want:   []string{"v2", "v3"},
		},
		{
			name:   "year filter",
			filter: &Filter{Year: 2022},
			want:   []string{"v4"},
		},
		{
			name:   "query and filter combine",
			query:  "toyota",
			filter: &Filter{MaxPrice: 1_000_000},
			want:   []string{"v2"},
		},
		{
			name:   "no match returns empty not nil",
			query:  "ferrari",
			filter: nil,
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Search(tt.query, tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("Search() returned %d vehicles, want %d", len(got), len(tt.want))
			}
			for i, v := range got {
				if v.ID != tt.want[i] {
					t.Errorf("result[%d] = %s, want %s", i, v.ID, tt.want[i])
				}
			}
		})
	}
}

func TestCatalogConvenienceQueries(t *testing.T) {
	c := NewCatalog(testVehicles())

	if got := c.ByMake("Toyota"); len(got) != 2 {
		t.Errorf("ByMake(Toyota) = %d vehicles, want 2", len(got))
	}
	if got := c.ByFuelType("electric"); len(got) != 1 || got[0].ID != "v3" {
		t.Errorf("ByFuelType(electric) = %v, want [v3]", got)
	}
	if got := c.ByCategory("Sedan"); len(got) != 1 || got[0].ID != "v1" {
		t.Errorf("ByCategory(Sedan) = %v, want [v1]", got)
	}
	if got := c.ByPriceRange(1_000_000, 5_000_000); len(got) != 2 {
		t.Errorf("ByPriceRange = %d vehicles, want 2", len(got))
	}
}

func TestCatalogMakesPreservesOrder(t *testing.T) {
	c := NewCatalog(testVehicles())

	want := []string{"Toyota", "Tata", "Hyundai"}
	got := c.Makes()
	if len(got) != len(want) {
		t.Fatalf("Makes() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Makes()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLoadFile(t *testing.T) {
	data, err := json.Marshal(testVehicles())
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if c.Len() != 4 {
		t.Errorf("loaded %d vehicles, want 4", c.Len())
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("LoadFile(missing) should return an error")
	}
}

func TestSampleVehiclesDeterministic(t *testing.T) {
	a := SampleVehicles(50, 7)
	b := SampleVehicles(50, 7)

	if len(a) != 50 {
		t.Fatalf("generated %d vehicles, want 50", len(a))
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Price != b[i].Price || a[i].Model != b[i].Model {
			t.Fatalf("same seed produced different vehicles at index %d", i)
		}
	}
}
