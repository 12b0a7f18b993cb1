// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// WriteLimiter rate-limits mutating requests per client IP using a
// sliding window. GET, HEAD and OPTIONS requests are not counted.
type WriteLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	now    func() time.Time
	stopCh chan struct{}
}

// NewWriteLimiter creates a limiter allowing limit writes per window for
// each client. It starts a background goroutine that drops idle clients.
func NewWriteLimiter(limit int, window time.Duration) *WriteLimiter {
	l := &WriteLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
		stopCh: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.sweep()
			case <-l.stopCh:
				return
			}
		}
	}()

	return l
}

// Stop terminates the background sweep goroutine.
func (l *WriteLimiter) Stop() {
	close(l.stopCh)
}

// allow records a hit for key and reports whether it is within the limit.
// When it is not, the returned duration is how long until the oldest hit
// leaves the window.
func (l *WriteLimiter) allow(key string) (bool, time.Duration) {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	recent := l.hits[key][:0]
	for _, ts := range l.hits[key] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.limit {
		l.hits[key] = recent
		return false, recent[0].Sub(cutoff)
	}
	l.hits[key] = append(recent, now)
	return true, 0
}

// sweep removes clients with no hit inside the window.
func (l *WriteLimiter) sweep() {
	cutoff := l.now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, hits := range l.hits {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(l.hits, key)
		}
	}
}

// Middleware returns an HTTP middleware that limits mutating requests by
// client IP.
func (l *WriteLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		ok, wait := l.allow(clientIP(r))
		if !ok {
			secs := int(wait.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many write requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the client's IP address, checking X-Forwarded-For
// and X-Real-IP headers for proxied requests.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
