// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API: template catalog, template
// application, categories, usage statistics, settings, and session auth.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"templatekit/internal/engine"
)

// respondJSON writes the payload as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

// errorBody is the error envelope every failure response uses.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// respondError maps an engine error to its HTTP status and envelope.
// Errors without an engine kind become opaque 500s; their detail goes to
// the log, not the client.
func respondError(w http.ResponseWriter, err error) {
	var e *engine.Error
	if !errors.As(err, &e) {
		slog.Error("unhandled error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{
			Error: errorDetail{Kind: "internal", Message: "An unexpected error occurred."},
		})
		return
	}

	status := http.StatusInternalServerError
	switch e.Kind {
	case engine.KindValidationFailed:
		status = http.StatusBadRequest
	case engine.KindPermissionDenied:
		status = http.StatusForbidden
	case engine.KindTemplateNotFound, engine.KindPostNotFound:
		status = http.StatusNotFound
	case engine.KindIncompatibleType:
		status = http.StatusUnprocessableEntity
	case engine.KindDependencyFailure:
		slog.Error("dependency failure", "error", e)
		status = http.StatusBadGateway
	}

	respondJSON(w, status, errorBody{
		Error: errorDetail{Kind: string(e.Kind), Message: e.Message},
	})
}

// respondValidation is the shorthand for request-shape failures.
func respondValidation(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorBody{
		Error: errorDetail{Kind: string(engine.KindValidationFailed), Message: message},
	})
}

// respondNotFound writes a 404 with the given kind.
func respondNotFound(w http.ResponseWriter, kind, message string) {
	respondJSON(w, http.StatusNotFound, errorBody{
		Error: errorDetail{Kind: kind, Message: message},
	})
}

// idParam parses the {id} route parameter. Returns 0 when it is not a
// positive integer.
func idParam(r *http.Request) int64 {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// decodeJSON reads a JSON request body into dst with a size cap.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
