// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/motormatch/motormatch/internal/behavior"
	"github.com/motormatch/motormatch/internal/inventory"
	"github.com/motormatch/motormatch/internal/metrics"
	"github.com/motormatch/motormatch/internal/recommend"
	"github.com/motormatch/motormatch/internal/scheduler"
	"github.com/motormatch/motormatch/internal/sections"
)

// --- events ---

type viewRequest struct {
	VehicleID       string `json:"vehicle_id" validate:"required"`
	DurationSeconds int    `json:"duration_seconds" validate:"gte=0"`
}

func (s *Server) handleRecordView(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if !s.decode(w, r, &req) {
		return
	}

	v, ok := s.catalog.Get(req.VehicleID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	ev := behavior.ViewEvent{
		VehicleID: v.ID,
		Make:      v.Make,
		Model:     v.Model,
		Price:     v.Price,
		FuelType:  v.FuelType,
		Category:  v.Category,
		Duration:  req.DurationSeconds,
		Timestamp: time.Now(),
	}
	s.recordEvent(w, "view", func() error {
		s.log.RecordView(ev)
		if s.archive != nil {
			return s.archive.ArchiveView(ev)
		}
		return nil
	})
}

type searchRequest struct {
	Query string `json:"query"`
	Make  string `json:"make"`
	Fuel  string `json:"fuel_type"`
	Body  string `json:"category"`
	MinPr int64  `json:"min_price" validate:"gte=0"`
	MaxPr int64  `json:"max_price" validate:"gte=0"`
	Year  int    `json:"year" validate:"gte=0"`
}

type searchResponse struct {
	Count    int                 `json:"count"`
	Vehicles []inventory.Vehicle `json:"vehicles"`
	Tracking bool                `json:"tracking_enabled"`
}

func (s *Server) handleRecordSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !s.decode(w, r, &req) {
		return
	}

	filter := &inventory.Filter{
		Make:     req.Make,
		FuelType: req.Fuel,
		Category: req.Body,
		MinPrice: req.MinPr,
		MaxPrice: req.MaxPr,
		Year:     req.Year,
	}
	results := s.catalog.Search(req.Query, filter)

	ev := behavior.SearchEvent{
		Query:       req.Query,
		Filters:     searchFilters(req),
		ResultCount: len(results),
		Timestamp:   time.Now(),
	}
	if s.log.TrackingEnabled() {
		s.log.RecordSearch(ev)
		if s.archive != nil {
			if err := s.archive.ArchiveSearch(ev); err != nil {
				s.logger.Error().Err(err).Msg("archive search event")
			}
		}
		metrics.BehaviorEvents.WithLabelValues("search").Inc()
		s.sched.NotifyActivity()
	}

	s.writeJSON(w, http.StatusOK, searchResponse{
		Count:    len(results),
		Vehicles: results,
		Tracking: s.log.TrackingEnabled(),
	})
}

func searchFilters(req searchRequest) map[string]string {
	f := make(map[string]string)
	if req.Make != "" {
		f["make"] = req.Make
	}
	if req.Fuel != "" {
		f["fuel_type"] = req.Fuel
	}
	if req.Body != "" {
		f["category"] = req.Body
	}
	if req.MinPr > 0 {
		f["min_price"] = strconv.FormatInt(req.MinPr, 10)
	}
	if req.MaxPr > 0 {
		f["max_price"] = strconv.FormatInt(req.MaxPr, 10)
	}
	if req.Year > 0 {
		f["year"] = strconv.Itoa(req.Year)
	}
	if len(f) == 0 {
		return nil
	}
	return f
}

type wishlistRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=add remove"`
}

func (s *Server) handleRecordWishlist(w http.ResponseWriter, r *http.Request) {
	var req wishlistRequest
	if !s.decode(w, r, &req) {
		return
	}
	v, ok := s.catalog.Get(req.VehicleID)
	if !ok {
		s.writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	ev := behavior.WishlistEvent{
		VehicleID: v.ID,
		Make:      v.Make,
		Model:     v.Model,
		Price:     v.Price,
		Action:    req.Action,
		Timestamp: time.Now(),
	}
	s.recordEvent(w, "wishlist", func() error {
		s.log.RecordWishlist(ev)
		if s.archive != nil {
			return s.archive.ArchiveWishlist(ev)
		}
		return nil
	})
}

type compareRequest struct {
	VehicleIDs      []string `json:"vehicle_ids" validate:"required,min=2,dive,required"`
	DurationSeconds int      `json:"duration_seconds" validate:"gte=0"`
}

func (s *Server) handleRecordCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !s.decode(w, r, &req) {
		return
	}

	ev := behavior.CompareEvent{
		VehicleIDs: req.VehicleIDs,
		Duration:   req.DurationSeconds,
		Timestamp:  time.Now(),
	}
	s.recordEvent(w, "compare", func() error {
		s.log.RecordCompare(ev)
		if s.archive != nil {
			return s.archive.ArchiveCompare(ev)
		}
		return nil
	})
}

type recordResponse struct {
	Tracking bool `json:"tracking_enabled"`
}

// recordEvent runs the record closure when tracking is on, mirrors errors
// to the log only, and always answers 202. An archive failure never fails
// the ingest path.
func (s *Server) recordEvent(w http.ResponseWriter, kind string, record func() error) {
	if s.log.TrackingEnabled() {
		if err := record(); err != nil {
			s.logger.Error().Err(err).Str("type", kind).Msg("archive behavior event")
		}
		metrics.BehaviorEvents.WithLabelValues(kind).Inc()
		s.sched.NotifyActivity()
	}
	s.writeJSON(w, http.StatusAccepted, recordResponse{Tracking: s.log.TrackingEnabled()})
}

// --- sections ---

type sectionsResponse struct {
	Sections    []sections.Section `json:"sections"`
	LastRefresh time.Time          `json:"last_refresh"`
	Loading     bool               `json:"loading"`
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	var secs []sections.Section
	if r.URL.Query().Get("all") == "true" {
		secs = s.store.Snapshot()
	} else {
		secs = s.store.VisibleSections()
	}
	s.writeJSON(w, http.StatusOK, sectionsResponse{
		Sections:    secs,
		LastRefresh: s.store.LastRefresh(),
		Loading:     s.store.Loading(),
	})
}

func (s *Server) handleSection(w http.ResponseWriter, r *http.Request) {
	cat, err := recommend.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sec, ok := s.store.Section(cat)
	if !ok {
		s.writeError(w, http.StatusNotFound, "section not found")
		return
	}
	s.writeJSON(w, http.StatusOK, sec)
}

type enabledResponse struct {
	Enabled []recommend.Category `json:"enabled"`
}

func (s *Server) handleReorderSections(w http.ResponseWriter, _ *http.Request) {
	s.store.ReorderByEngagement()
	s.writeJSON(w, http.StatusOK, enabledResponse{Enabled: s.store.Enabled()})
}

type setEnabledRequest struct {
	Categories []string `json:"categories" validate:"required,min=1"`
}

func (s *Server) handleSetEnabled(w http.ResponseWriter, r *http.Request) {
	var req setEnabledRequest
	if !s.decode(w, r, &req) {
		return
	}

	cats := make([]recommend.Category, 0, len(req.Categories))
	for _, key := range req.Categories {
		cat, err := recommend.ParseCategory(key)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		cats = append(cats, cat)
	}
	s.store.SetEnabled(cats)
	s.writeJSON(w, http.StatusOK, enabledResponse{Enabled: s.store.Enabled()})
}

type refreshIntervalRequest struct {
	IntervalSeconds int `json:"interval_seconds" validate:"required,gt=0"`
}

type refreshIntervalResponse struct {
	IntervalSeconds int `json:"interval_seconds"`
}

func (s *Server) handleSetRefreshInterval(w http.ResponseWriter, r *http.Request) {
	var req refreshIntervalRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.store.SetRefreshInterval(time.Duration(req.IntervalSeconds) * time.Second)
	s.writeJSON(w, http.StatusOK, refreshIntervalResponse{
		IntervalSeconds: int(s.store.RefreshInterval() / time.Second),
	})
}

func (s *Server) handleClearSections(w http.ResponseWriter, _ *http.Request) {
	s.store.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

// --- feedback ---

type feedbackRequest struct {
	VehicleID string `json:"vehicle_id" validate:"required"`
	Action    string `json:"action" validate:"required"`
	Category  string `json:"category" validate:"required"`
}

func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !s.decode(w, r, &req) {
		return
	}

	action, err := sections.ParseFeedbackAction(req.Action)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	cat, err := recommend.ParseCategory(req.Category)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.store.AddFeedback(sections.Feedback{
		VehicleID: req.VehicleID,
		Action:    action,
		Category:  cat,
		Timestamp: time.Now(),
	})
	metrics.FeedbackEvents.WithLabelValues(string(action)).Inc()
	w.WriteHeader(http.StatusNoContent)
}

type boostRequest struct {
	VehicleID string  `json:"vehicle_id" validate:"required"`
	Category  string  `json:"category" validate:"required"`
	Factor    float64 `json:"factor" validate:"gte=0"`
}

func (s *Server) handleBoost(w http.ResponseWriter, r *http.Request) {
	var req boostRequest
	if !s.decode(w, r, &req) {
		return
	}

	factor := req.Factor
	if factor == 0 {
		factor = 1.5
	}

	if req.Category == "all" {
		s.store.BoostEverywhere(req.VehicleID, factor)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	cat, err := recommend.ParseCategory(req.Category)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.store.Boost(req.VehicleID, cat, factor)
	w.WriteHeader(http.StatusNoContent)
}

// --- refresh ---

type refreshResponse struct {
	RefreshedAt time.Time `json:"refreshed_at"`
}

func (s *Server) handleRefresh(w http.ResponseWriter, _ *http.Request) {
	err := s.sched.ManualRefresh()
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, refreshResponse{RefreshedAt: s.store.LastRefresh()})
	case errors.Is(err, scheduler.ErrRefreshInProgress):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, scheduler.ErrRefreshCooldown):
		s.writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, scheduler.ErrRefreshDisabled):
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// --- profile and behavior ---

type profileResponse struct {
	Profile        behavior.Profile `json:"profile"`
	Counts         behavior.Counts  `json:"counts"`
	RecentActivity behavior.Counts  `json:"recent_activity"`
	SessionSeconds int64            `json:"session_seconds"`
	Tracking       bool             `json:"tracking_enabled"`
}

func (s *Server) handleProfile(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, profileResponse{
		Profile:        s.log.Profile(),
		Counts:         s.log.Counts(),
		RecentActivity: s.log.RecentActivity(),
		SessionSeconds: int64(s.log.SessionDuration().Seconds()),
		Tracking:       s.log.TrackingEnabled(),
	})
}

type profileRequest struct {
	BudgetMin          int64    `json:"budget_min" validate:"gte=0"`
	BudgetMax          int64    `json:"budget_max" validate:"gtefield=BudgetMin"`
	PreferredBrands    []string `json:"preferred_brands"`
	PreferredFuels     []string `json:"preferred_fuels"`
	PreferredBodyTypes []string `json:"preferred_body_types"`
	MaxVehicleAge      int      `json:"max_vehicle_age" validate:"gte=0"`
	FamilySize         int      `json:"family_size" validate:"gte=0"`
	PrimaryUse         string   `json:"primary_use" validate:"omitempty,oneof=city highway mixed family commercial"`
}

func (s *Server) handleSetProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !s.decode(w, r, &req) {
		return
	}

	s.log.SetProfile(behavior.Profile{
		BudgetMin:          req.BudgetMin,
		BudgetMax:          req.BudgetMax,
		PreferredBrands:    req.PreferredBrands,
		PreferredFuels:     req.PreferredFuels,
		PreferredBodyTypes: req.PreferredBodyTypes,
		MaxVehicleAge:      req.MaxVehicleAge,
		FamilySize:         req.FamilySize,
		PrimaryUse:         req.PrimaryUse,
	})
	s.writeJSON(w, http.StatusOK, s.log.Profile())
}

type inferResponse struct {
	Inferred bool             `json:"inferred"`
	Profile  behavior.Profile `json:"profile"`
}

func (s *Server) handleInferProfile(w http.ResponseWriter, _ *http.Request) {
	ran := s.log.InferPreferences()
	s.writeJSON(w, http.StatusOK, inferResponse{Inferred: ran, Profile: s.log.Profile()})
}

type trackingRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

func (s *Server) handleTracking(w http.ResponseWriter, r *http.Request) {
	var req trackingRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.log.SetTrackingEnabled(*req.Enabled)
	s.writeJSON(w, http.StatusOK, recordResponse{Tracking: s.log.TrackingEnabled()})
}

func (s *Server) handleClearBehavior(w http.ResponseWriter, _ *http.Request) {
	s.log.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// --- vehicles ---

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &inventory.Filter{
		Make:     q.Get("make"),
		FuelType: q.Get("fuel_type"),
		Category: q.Get("category"),
	}
	if v := q.Get("min_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid min_price")
			return
		}
		filter.MinPrice = n
	}
	if v := q.Get("max_price"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid max_price")
			return
		}
		filter.MaxPrice = n
	}
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		filter.Year = n
	}

	results := s.catalog.Search(q.Get("q"), filter)
	s.writeJSON(w, http.StatusOK, searchResponse{
		Count:    len(results),
		Vehicles: results,
		Tracking: s.log.TrackingEnabled(),
	})
}

func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	v, ok := s.catalog.Get(chi.URLParam(r, "id"))
	if !ok {
		s.writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

type similarResponse struct {
	VehicleID string           `json:"vehicle_id"`
	Items     []recommend.Item `json:"items"`
}

func (s *Server) handleSimilarVehicles(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.catalog.Get(id); !ok {
		s.writeError(w, http.StatusNotFound, "vehicle not found")
		return
	}

	limit := 6
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 50 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	s.writeJSON(w, http.StatusOK, similarResponse{
		VehicleID: id,
		Items:     s.engine.SimilarToVehicle(id, limit),
	})
}

func (s *Server) handleRemoveVehicle(w http.ResponseWriter, r *http.Request) {
	s.store.RemoveVehicle(chi.URLParam(r, "id"))
	w.WriteHeader(http.StatusNoContent)
}

// --- archived history ---

type archivedViewsResponse struct {
	Count int                  `json:"count"`
	Views []behavior.ViewEvent `json:"views"`
}

type archivedSearchesResponse struct {
	Count    int                    `json:"count"`
	Searches []behavior.SearchEvent `json:"searches"`
}

// historyLimit parses the limit query parameter for archive reads. It
// writes the error response itself on invalid input.
func (s *Server) historyLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 500 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return 0, false
		}
		limit = n
	}
	return limit, true
}

func (s *Server) handleArchivedViews(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeError(w, http.StatusServiceUnavailable, "archive disabled")
		return
	}
	limit, ok := s.historyLimit(w, r)
	if !ok {
		return
	}
	views, err := s.archive.Views(limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("read archived views")
		s.writeError(w, http.StatusInternalServerError, "read archive")
		return
	}
	s.writeJSON(w, http.StatusOK, archivedViewsResponse{Count: len(views), Views: views})
}

func (s *Server) handleArchivedSearches(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeError(w, http.StatusServiceUnavailable, "archive disabled")
		return
	}
	limit, ok := s.historyLimit(w, r)
	if !ok {
		return
	}
	searches, err := s.archive.Searches(limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("read archived searches")
		s.writeError(w, http.StatusInternalServerError, "read archive")
		return
	}
	s.writeJSON(w, http.StatusOK, archivedSearchesResponse{Count: len(searches), Searches: searches})
}

// --- health ---

type healthResponse struct {
	Status      string `json:"status"`
	Initialized bool   `json:"initialized"`
	Vehicles    int    `json:"vehicles"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:      "ok",
		Initialized: s.store.Initialized(),
		Vehicles:    s.catalog.Len(),
	})
}
