// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"catalogtree/internal/catalog"
	"catalogtree/internal/taxonomy"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// apiError is the error envelope returned by every endpoint.
type apiError struct {
	Error      string            `json:"error"`
	Message    string            `json:"message"`
	Fields     map[string]string `json:"fields,omitempty"`
	ChildCount int               `json:"child_count,omitempty"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}

// decodeJSON reads a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// writeServiceError maps catalog and taxonomy errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *catalog.ValidationError
	var hc *taxonomy.HasChildrenError

	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, apiError{
			Error: "validation_failed", Message: ve.Error(), Fields: ve.Fields,
		})
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, catalog.ErrSlugTaken):
		writeError(w, http.StatusConflict, "slug_taken", err.Error())
	case errors.As(err, &hc):
		writeJSON(w, http.StatusConflict, apiError{
			Error: taxonomy.ReasonHasChildren, Message: hc.Error(), ChildCount: hc.Count,
		})
	default:
		switch reason := taxonomy.ReasonCode(err); reason {
		case taxonomy.ReasonSelfParent, taxonomy.ReasonCircularReference, taxonomy.ReasonCorruptedHierarchy:
			writeError(w, http.StatusConflict, reason, err.Error())
		case taxonomy.ReasonParentNotFound:
			writeError(w, http.StatusUnprocessableEntity, reason, err.Error())
		case taxonomy.ReasonUnknownCategory:
			writeError(w, http.StatusNotFound, reason, err.Error())
		default:
			slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
			writeError(w, http.StatusInternalServerError, "internal", "internal server error")
		}
	}
}
