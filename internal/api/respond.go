// MotorMatch - Car Marketplace Personalization Engine
// Copyright 2026 MotorMatch Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/motormatch/motormatch

package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

// decode unmarshals and validates a request body into dst. It writes the
// error response itself and reports whether the caller should proceed.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			s.writeError(w, http.StatusBadRequest, "invalid field "+verrs[0].Namespace())
			return false
		}
		s.writeError(w, http.StatusBadRequest, "invalid request")
		return false
	}
	return true
}
