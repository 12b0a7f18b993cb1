// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"catalogtree/internal/cache"
	"catalogtree/internal/catalog"
	"catalogtree/internal/database"
	"catalogtree/internal/middleware"
	"catalogtree/internal/session"
	"catalogtree/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "catalogtree")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "catalogtree")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "categories:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB         *sql.DB
	Valkey     *redis.Client
	Sessions   *session.Store
	Store      *cache.Categories
	Service    *catalog.Service
	Categories *Categories
	Router     chi.Router
}

// newTestEnv wires the real store behind the snapshot cache, sessions and
// handlers.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	client := testValkeyClient(t)

	env := &testEnv{
		DB:       db,
		Valkey:   client,
		Sessions: session.NewStore(client, false),
	}
	env.Store = cache.NewCategories(store.NewCategoryStore(db), client, time.Minute)
	env.Service = catalog.NewService(env.Store, catalog.Options{PageSize: 500, MaxPageSize: 500})
	env.Categories = NewCategories(env.Service, env.Sessions)

	r := chi.NewRouter()
	r.Use(middleware.LoadSession(env.Sessions))
	r.Route("/api/categories", env.Categories.Routes)
	env.Router = r
	return env
}

// serve sends a request carrying cookies and returns the recorder.
func (e *testEnv) serve(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.Router.ServeHTTP(rr, req)
	return rr
}

// cleanCategories removes categories created by a test, children first.
func cleanCategories(t *testing.T, db *sql.DB, ids ...uuid.UUID) {
	t.Helper()
	for i := len(ids) - 1; i >= 0; i-- {
		db.Exec("DELETE FROM categories WHERE id = $1", ids[i])
	}
}
