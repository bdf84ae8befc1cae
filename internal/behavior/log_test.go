// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package behavior

import (
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestLog() *Log {
	return NewLog(zerolog.Nop())
}

func TestRecordViewOrderAndCap(t *testing.T) {
	l := newTestLog()

	for i := 0; i < MaxViews+10; i++ {
		l.RecordView(ViewEvent{VehicleID: fmt.Sprintf("v%d", i)})
	}

	views := l.Views()
	if len(views) != MaxViews {
		t.Fatalf("got %d views, want cap %d", len(views), MaxViews)
	}
	if views[0].VehicleID != fmt.Sprintf("v%d", MaxViews+9) {
		t.Errorf("newest view = %s, want v%d", views[0].VehicleID, MaxViews+9)
	}
	if views[len(views)-1].VehicleID != "v10" {
		t.Errorf("oldest retained view = %s, want v10 (tail trimmed)", views[len(views)-1].VehicleID)
	}
}

func TestRecordCaps(t *testing.T) {
	l := newTestLog()

	for i := 0; i < 60; i++ {
		l.RecordSearch(SearchEvent{Query: "swift"})
		l.RecordWishlist(WishlistEvent{VehicleID: "v1", Action: "add"})
		l.RecordCompare(CompareEvent{VehicleIDs: []string{"v1", "v2"}})
	}

	c := l.Counts()
	if c.Searches != MaxSearches {
		t.Errorf("searches = %d, want %d", c.Searches, MaxSearches)
	}
	if c.Wishlist != MaxWishlist {
		t.Errorf("wishlist = %d, want %d", c.Wishlist, MaxWishlist)
	}
	if c.Compares != MaxCompares {
		t.Errorf("compares = %d, want %d", c.Compares, MaxCompares)
	}
}

func TestRecordSearchAssignsID(t *testing.T) {
	l := newTestLog()
	l.RecordSearch(SearchEvent{Query: "nexon"})

	searches := l.Searches()
	if len(searches) != 1 {
		t.Fatalf("got %d searches, want 1", len(searches))
	}
	if searches[0].ID == "" {
		t.Error("search event should be assigned an ID")
	}
	if searches[0].Timestamp.IsZero() {
		t.Error("search event should be assigned a timestamp")
	}
}

func TestRecordWishlistKeepsVehicleDetails(t *testing.T) {
	l := newTestLog()
	l.RecordWishlist(WishlistEvent{
		VehicleID: "v1",
		Make:      "Tata",
		Model:     "Nexon",
		Price:     900_000,
		Action:    "add",
	})

	wl := l.Wishlist()
	if len(wl) != 1 {
		t.Fatalf("got %d wishlist events, want 1", len(wl))
	}
	if wl[0].Make != "Tata" || wl[0].Model != "Nexon" || wl[0].Price != 900_000 {
		t.Errorf("wishlist event = %+v, want vehicle details retained", wl[0])
	}
}

func TestRecordCompareKeepsDuration(t *testing.T) {
	l := newTestLog()
	l.RecordCompare(CompareEvent{VehicleIDs: []string{"v1", "v2"}, Duration: 90})

	compares := l.Compares()
	if len(compares) != 1 || compares[0].Duration != 90 {
		t.Errorf("compare events = %+v, want one with duration 90", compares)
	}
}

func TestTrackingDisabledDropsEvents(t *testing.T) {
	l := newTestLog()
	l.SetTrackingEnabled(false)

	l.RecordView(ViewEvent{VehicleID: "v1"})
	l.RecordSearch(SearchEvent{Query: "q"})
	l.RecordWishlist(WishlistEvent{VehicleID: "v1", Action: "add"})
	l.RecordCompare(CompareEvent{VehicleIDs: []string{"v1", "v2"}})

	if total := l.Counts().Total(); total != 0 {
		t.Errorf("recorded %d events while tracking disabled, want 0", total)
	}

	l.SetTrackingEnabled(true)
	l.RecordView(ViewEvent{VehicleID: "v2"})
	if l.Counts().Views != 1 {
		t.Error("re-enabling tracking should resume collection")
	}
}

func TestInferPreferencesRequiresMinimumViews(t *testing.T) {
	l := newTestLog()

	for i := 0; i < MinViewsForInference-1; i++ {
		l.RecordView(ViewEvent{VehicleID: fmt.Sprintf("v%d", i), Make: "Tata", Price: 900_000})
	}
	if l.InferPreferences() {
		t.Fatal("inference should not run below the view minimum")
	}
	if p := l.Profile(); p.BudgetMin != 200_000 || p.BudgetMax != 2_000_000 {
		t.Errorf("profile changed without inference: %+v", p)
	}
}

func TestInferPreferences(t *testing.T) {
	l := newTestLog()

	// Three Tata views, two Hyundai, one Toyota; fuels lean Petrol then
	// Electric. Prices span 700k..1.2M.
	views := []ViewEvent{
		{VehicleID: "v1", Make: "Tata", Price: 900_000, FuelType: "Petrol"},
		{VehicleID: "v2", Make: "Tata", Price: 700_000, FuelType: "Electric"},
		{VehicleID: "v3", Make: "Hyundai", Price: 1_200_000, FuelType: "Petrol"},
		{VehicleID: "v4", Make: "Hyundai", Price: 750_000, FuelType: "Petrol"},
		{VehicleID: "v5", Make: "Tata", Price: 900_000, FuelType: "Electric"},
		{VehicleID: "v6", Make: "Toyota", Price: 800_000, FuelType: "Diesel"},
	}
	for _, v := range views {
		l.RecordView(v)
	}

	if !l.InferPreferences() {
		t.Fatal("inference should run with enough views")
	}

	p := l.Profile()
	if want := int64(560_000); p.BudgetMin != want { // 700k * 0.8
		t.Errorf("BudgetMin = %d, want %d", p.BudgetMin, want)
	}
	if want := int64(1_440_000); p.BudgetMax != want { // 1.2M * 1.2
		t.Errorf("BudgetMax = %d, want %d", p.BudgetMax, want)
	}
	wantBrands := []string{"Tata", "Hyundai", "Toyota"}
	if len(p.PreferredBrands) != 3 {
		t.Fatalf("PreferredBrands = %v, want %v", p.PreferredBrands, wantBrands)
	}
	for i, b := range wantBrands {
		if p.PreferredBrands[i] != b {
			t.Errorf("PreferredBrands[%d] = %s, want %s", i, p.PreferredBrands[i], b)
		}
	}
	wantFuels := []string{"Petrol", "Electric"}
	if len(p.PreferredFuels) != 2 || p.PreferredFuels[0] != wantFuels[0] || p.PreferredFuels[1] != wantFuels[1] {
		t.Errorf("PreferredFuels = %v, want %v", p.PreferredFuels, wantFuels)
	}
}

func TestInferPreferencesClampsBudget(t *testing.T) {
	l := newTestLog()

	for i := 0; i < MinViewsForInference; i++ {
		l.RecordView(ViewEvent{VehicleID: fmt.Sprintf("v%d", i), Make: "Toyota", Price: 50_000})
	}
	l.RecordView(ViewEvent{VehicleID: "vx", Make: "Toyota", Price: 9_000_000})

	l.InferPreferences()
	p := l.Profile()
	if p.BudgetMin != BudgetFloor {
		t.Errorf("BudgetMin = %d, want floor %d", p.BudgetMin, BudgetFloor)
	}
	if p.BudgetMax != BudgetCeiling {
		t.Errorf("BudgetMax = %d, want ceiling %d", p.BudgetMax, BudgetCeiling)
	}
}

func TestInferPreferencesIdempotent(t *testing.T) {
	l := newTestLog()
	for i := 0; i < 6; i++ {
		l.RecordView(ViewEvent{VehicleID: fmt.Sprintf("v%d", i), Make: "Kia", Price: 800_000, FuelType: "Petrol"})
	}

	l.InferPreferences()
	first := l.Profile()
	l.InferPreferences()
	second := l.Profile()

	if first.BudgetMin != second.BudgetMin || first.BudgetMax != second.BudgetMax {
		t.Errorf("repeated inference changed budget: %+v vs %+v", first, second)
	}
	if len(first.PreferredBrands) != len(second.PreferredBrands) {
		t.Errorf("repeated inference changed brands: %v vs %v", first.PreferredBrands, second.PreferredBrands)
	}
}

func TestInferPreferencesKeepsUserFields(t *testing.T) {
	l := newTestLog()
	p := l.Profile()
	p.FamilySize = 6
	p.PrimaryUse = "family"
	l.SetProfile(p)

	for i := 0; i < 6; i++ {
		l.RecordView(ViewEvent{VehicleID: fmt.Sprintf("v%d", i), Make: "Mahindra", Price: 1_400_000})
	}
	l.InferPreferences()

	got := l.Profile()
	if got.FamilySize != 6 || got.PrimaryUse != "family" {
		t.Errorf("inference overwrote user-set fields: %+v", got)
	}
}

func TestClearResetsEverything(t *testing.T) {
	l := newTestLog()
	for i := 0; i < 6; i++ {
		l.RecordView(ViewEvent{VehicleID: fmt.Sprintf("v%d", i), Make: "Tata", Price: 900_000})
	}
	l.InferPreferences()

	l.Clear()

	if total := l.Counts().Total(); total != 0 {
		t.Errorf("Clear left %d events", total)
	}
	p := l.Profile()
	def := DefaultProfile()
	if p.BudgetMin != def.BudgetMin || p.BudgetMax != def.BudgetMax || len(p.PreferredBrands) != 0 {
		t.Errorf("Clear should reset profile to defaults, got %+v", p)
	}
	if !l.TrackingEnabled() {
		t.Error("Clear should not touch the tracking toggle")
	}
}

func TestRecentActivityWindow(t *testing.T) {
	l := newTestLog()
	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	l.RecordView(ViewEvent{VehicleID: "old", Timestamp: base.Add(-25 * time.Hour)})
	l.RecordView(ViewEvent{VehicleID: "fresh", Timestamp: base.Add(-1 * time.Hour)})
	l.RecordSearch(SearchEvent{Query: "q", Timestamp: base.Add(-23 * time.Hour)})

	c := l.RecentActivity()
	if c.Views != 1 {
		t.Errorf("recent views = %d, want 1", c.Views)
	}
	if c.Searches != 1 {
		t.Errorf("recent searches = %d, want 1", c.Searches)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	l := newTestLog()
	l.RecordView(ViewEvent{VehicleID: "v1"})

	views := l.Views()
	views[0].VehicleID = "mutated"

	if l.Views()[0].VehicleID != "v1" {
		t.Error("mutating the returned slice should not affect the log")
	}

	p := l.Profile()
	p.PreferredBrands = append(p.PreferredBrands, "Injected")
	p.PreferredBodyTypes = append(p.PreferredBodyTypes, "Injected")
	if len(l.Profile().PreferredBrands) != 0 || len(l.Profile().PreferredBodyTypes) != 0 {
		t.Error("mutating the returned profile should not affect the log")
	}
}
