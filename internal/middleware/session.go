// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"catalogtree/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// SessionKey is the context key for the session data.
const SessionKey contextKey = "session"

// Sessions is the session storage LoadSession needs. *session.Store
// satisfies it.
type Sessions interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
	Create(ctx context.Context, w http.ResponseWriter, data *session.Data) (string, error)
}

// LoadSession puts the viewer's session in the request context, creating
// one on the first visit. If the session backend fails, the request gets
// an unsaved session so the tree can still be browsed.
func LoadSession(store Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			data, err := store.Get(ctx, r)
			if err != nil {
				slog.Warn("session load failed", "error", err)
			}
			if data == nil {
				data = &session.Data{}
				if err == nil {
					if _, err := store.Create(ctx, w, data); err != nil {
						slog.Warn("session create failed", "error", err)
					}
				}
			}

			next.ServeHTTP(w, r.WithContext(WithSession(ctx, data)))
		})
	}
}

// WithSession returns a copy of ctx carrying data.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if LoadSession did not run.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
