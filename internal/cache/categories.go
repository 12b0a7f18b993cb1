// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// categories.go keeps a snapshot of the full category record set in Valkey
// so tree views skip the table scan. Snapshots are keyed by a generation
// counter that every structural write bumps after it commits, so a reader
// that raced a write stores its snapshot under a generation nobody reads
// again.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"catalogtree/internal/models"
	"catalogtree/internal/store"
	"catalogtree/internal/taxonomy"
)

const (
	// generationKey holds the current snapshot generation.
	generationKey = "categories:gen"

	// snapshotKeyPrefix is the Valkey key prefix for record snapshots.
	snapshotKeyPrefix = "categories:snapshot:"

	// DefaultSnapshotTTL bounds how long a snapshot can outlive a write
	// whose generation bump failed.
	DefaultSnapshotTTL = 5 * time.Minute
)

// Backend is the category persistence being cached. *store.CategoryStore
// satisfies it.
type Backend interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
	Create(ctx context.Context, c *models.Category, check store.Check) (*models.Category, error)
	Update(ctx context.Context, c *models.Category, check store.Check) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID, check store.Check) error
	Reorder(ctx context.Context, moves []taxonomy.Move, check store.Check) error
}

// Categories wraps a Backend with a Valkey snapshot of List. Point reads
// go straight to the backend. Valkey failures are logged and the backend
// answers instead.
type Categories struct {
	Backend
	client *redis.Client
	ttl    time.Duration
}

// NewCategories creates a snapshot cache in front of backend.
func NewCategories(backend Backend, client *redis.Client, ttl time.Duration) *Categories {
	if ttl == 0 {
		ttl = DefaultSnapshotTTL
	}
	return &Categories{Backend: backend, client: client, ttl: ttl}
}

// List returns the cached snapshot for the current generation, loading and
// storing it on a miss.
func (c *Categories) List(ctx context.Context) ([]models.Category, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		slog.Warn("category cache generation error", "error", err)
		return c.Backend.List(ctx)
	}
	key := snapshotKeyPrefix + strconv.FormatInt(gen, 10)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var records []models.Category
		if err := json.Unmarshal(data, &records); err == nil {
			slog.Debug("category cache hit", "generation", gen)
			return records, nil
		}
		slog.Warn("category cache decode error", "key", key, "error", err)
	case !errors.Is(err, redis.Nil):
		slog.Warn("category cache get error", "key", key, "error", err)
	}

	records, err := c.Backend.List(ctx)
	if err != nil {
		return nil, err
	}

	data, err = json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode category snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("category cache set error", "key", key, "error", err)
	}
	return records, nil
}

// Create inserts through the backend and invalidates the snapshot.
func (c *Categories) Create(ctx context.Context, cat *models.Category, check store.Check) (*models.Category, error) {
	out, err := c.Backend.Create(ctx, cat, check)
	if err == nil {
		c.Invalidate(ctx)
	}
	return out, err
}

// Update writes through the backend and invalidates the snapshot.
func (c *Categories) Update(ctx context.Context, cat *models.Category, check store.Check) (*models.Category, error) {
	out, err := c.Backend.Update(ctx, cat, check)
	if err == nil {
		c.Invalidate(ctx)
	}
	return out, err
}

// Delete removes through the backend and invalidates the snapshot.
func (c *Categories) Delete(ctx context.Context, id uuid.UUID, check store.Check) error {
	err := c.Backend.Delete(ctx, id, check)
	if err == nil {
		c.Invalidate(ctx)
	}
	return err
}

// Reorder moves through the backend and invalidates the snapshot.
func (c *Categories) Reorder(ctx context.Context, moves []taxonomy.Move, check store.Check) error {
	err := c.Backend.Reorder(ctx, moves, check)
	if err == nil {
		c.Invalidate(ctx)
	}
	return err
}

// Invalidate bumps the generation so the next List reloads from the backend.
func (c *Categories) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.Warn("category cache invalidate error", "error", err)
		return
	}
	slog.Debug("category cache invalidated")
}

func (c *Categories) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}
