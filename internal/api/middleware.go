// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/motormatch/motormatch/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// requestID honors a caller-supplied X-Request-ID and generates one
// otherwise, echoing it back on the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// instrument records request count and latency per route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		metrics.APIRequests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		metrics.APIRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())

		s.logger.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request served")
	})
}
