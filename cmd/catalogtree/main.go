// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the catalog category tree server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"catalogtree/internal/cache"
	"catalogtree/internal/catalog"
	"catalogtree/internal/config"
	"catalogtree/internal/database"
	"catalogtree/internal/events"
	"catalogtree/internal/handlers"
	"catalogtree/internal/middleware"
	"catalogtree/internal/router"
	"catalogtree/internal/session"
	"catalogtree/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"page_size", cfg.TreePageSize,
		"write_rate_limit", cfg.WriteRateLimit,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the demo tree (no-op if categories already exist).
	if cfg.SeedDemo {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (session store + record snapshot cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyAddr(), cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark session cookies as Secure (HTTPS-only).
	sessionStore := session.NewStore(valkeyClient, !cfg.IsDev())

	opts := catalog.Options{
		PageSize:    cfg.TreePageSize,
		MaxPageSize: cfg.TreeMaxPageSize,
	}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		opts.Events = publisher
	}

	categoryStore := cache.NewCategories(store.NewCategoryStore(db), valkeyClient, cache.DefaultSnapshotTTL)
	svc := catalog.NewService(categoryStore, opts)

	var limiter *middleware.WriteLimiter
	if cfg.WriteRateLimit > 0 {
		limiter = middleware.NewWriteLimiter(cfg.WriteRateLimit, time.Minute)
		defer limiter.Stop()
	}

	r := router.New(router.Deps{
		Sessions:   sessionStore,
		Categories: handlers.NewCategories(svc, sessionStore),
		Limiter:    limiter,
		Checks: map[string]router.HealthCheck{
			"postgres": db.PingContext,
			"valkey": func(ctx context.Context) error {
				return valkeyClient.Ping(ctx).Err()
			},
		},
	})

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
