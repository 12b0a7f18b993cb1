// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chain for the
// catalog tree API.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"catalogtree/internal/handlers"
	"catalogtree/internal/middleware"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps are the collaborators the router wires together.
type Deps struct {
	Sessions   middleware.Sessions
	Categories *handlers.Categories
	// Limiter rate-limits category mutations. Optional.
	Limiter *middleware.WriteLimiter
	// Checks are run by /health, keyed by dependency name.
	Checks map[string]HealthCheck
}

// New creates and returns the configured Chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "no such endpoint"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method_not_allowed", "message": "method not allowed"})
	})

	r.Get("/health", healthHandler(d.Checks))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LoadSession(d.Sessions))

		var writes []func(http.Handler) http.Handler
		if d.Limiter != nil {
			writes = append(writes, d.Limiter.Middleware)
		}

		r.Delete("/session", d.Categories.ResetSession)
		r.Route("/categories", func(r chi.Router) {
			d.Categories.Mount(r, writes...)
		})
	})

	return r
}

// healthHandler runs every check with a short timeout and reports 503 if
// any of them fails.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]any{"status": "ok"}
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				body["status"] = "degraded"
				continue
			}
			results[name] = "ok"
		}
		if len(results) > 0 {
			body["checks"] = results
		}
		writeJSON(w, status, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
