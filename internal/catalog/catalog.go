// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog turns mutation intents from the HTTP layer into checked,
// serialized writes against the category store, and assembles the
// flattened tree view each viewer sees.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"catalogtree/internal/events"
	"catalogtree/internal/models"
	"catalogtree/internal/slug"
	"catalogtree/internal/store"
	"catalogtree/internal/taxonomy"
)

var (
	// ErrNotFound is returned when a category does not exist.
	ErrNotFound = errors.New("category not found")

	// ErrSlugTaken is returned when an explicit slug is already in use.
	ErrSlugTaken = store.ErrSlugTaken
)

// Repository is the persistence the service needs. *store.CategoryStore
// satisfies it.
type Repository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
	NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
	Create(ctx context.Context, c *models.Category, check store.Check) (*models.Category, error)
	Update(ctx context.Context, c *models.Category, check store.Check) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID, check store.Check) error
	Reorder(ctx context.Context, moves []taxonomy.Move, check store.Check) error
}

// Options configures pagination of the flattened view and the optional
// change feed.
type Options struct {
	PageSize    int
	MaxPageSize int
	Events      events.Publisher
}

// Service implements the category operations.
type Service struct {
	repo        Repository
	events      events.Publisher
	pageSize    int
	maxPageSize int
}

// NewService creates a Service. Non-positive page sizes fall back to
// 50 rows per page and a maximum of 500.
func NewService(repo Repository, opts Options) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = 50
	}
	if opts.MaxPageSize <= 0 {
		opts.MaxPageSize = 500
	}
	if opts.PageSize > opts.MaxPageSize {
		opts.PageSize = opts.MaxPageSize
	}
	return &Service{repo: repo, events: opts.Events, pageSize: opts.PageSize, maxPageSize: opts.MaxPageSize}
}

// publish sends e to the change feed. The write it describes is already
// committed, so a failure is logged and not returned.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		slog.Warn("category event not published", "type", e.Type, "category_id", e.CategoryID, "error", err)
	}
}

// forest loads every record and builds the tree, logging any repairs the
// builder had to make.
func (s *Service) forest(ctx context.Context) ([]models.Category, *taxonomy.Forest, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load categories: %w", err)
	}
	f := taxonomy.Build(records)
	for _, w := range f.Warnings {
		slog.Warn("category hierarchy repaired on read",
			"kind", w.Kind, "category_id", w.ID, "parent_id", w.ParentID)
	}
	return records, f, nil
}

// Detail is a single category with its position in the tree.
type Detail struct {
	Category   models.Category   `json:"category"`
	Path       []string          `json:"path"`
	Trail      []models.Category `json:"trail"`
	ChildCount int               `json:"child_count"`
}

// Get returns a category with its breadcrumb trail.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}

	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return &Detail{
		Category:   *c,
		Path:       taxonomy.ResolvePath(*c, records),
		Trail:      taxonomy.Trail(*c, records),
		ChildCount: taxonomy.ChildCount(id, records),
	}, nil
}

// Breadcrumb returns the root-first names leading to a category.
func (s *Service) Breadcrumb(ctx context.Context, id uuid.UUID) ([]string, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.Path, nil
}

// Create validates in and inserts a new category. The parent must exist at
// commit time.
func (s *Service) Create(ctx context.Context, in Input) (*models.Category, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	c := in.category()
	var err error
	if c.Slug, err = s.resolveSlug(ctx, in, uuid.Nil); err != nil {
		return nil, err
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	} else if c.SortOrder, err = s.repo.NextSortOrder(ctx, c.ParentID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, c, func(records []models.Category) error {
		return requireParent(c.ParentID, records)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("category created", "id", created.ID, "slug", created.Slug, "parent_id", created.ParentID)
	s.publish(ctx, events.New(events.CategoryCreated, created.ID, created.ParentID))
	return created, nil
}

// Update replaces the editable fields of a category. The parent only
// changes when in names one (see Input), and a blank slug keeps the
// current one. A changed parent is validated for cycles against the
// records read under the write lock.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*models.Category, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	c := in.category()
	c.ID = id
	if parent, ok := in.parentChange(); ok {
		c.ParentID = parent
	} else {
		c.ParentID = existing.ParentID
	}
	if in.Slug == "" {
		c.Slug = existing.Slug
	} else if c.Slug, err = s.resolveSlug(ctx, in, id); err != nil {
		return nil, err
	}

	moved := !sameParent(existing.ParentID, c.ParentID)
	switch {
	case in.SortOrder != nil:
		c.SortOrder = *in.SortOrder
	case moved:
		if c.SortOrder, err = s.repo.NextSortOrder(ctx, c.ParentID); err != nil {
			return nil, err
		}
	default:
		c.SortOrder = existing.SortOrder
	}

	updated, err := s.repo.Update(ctx, c, func(records []models.Category) error {
		current, ok := find(id, records)
		if !ok {
			return ErrNotFound
		}
		if sameParent(current.ParentID, c.ParentID) {
			return nil
		}
		return taxonomy.ValidateReparent(id, c.ParentID, records)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	kind := events.CategoryUpdated
	if moved {
		kind = events.CategoryMoved
		slog.Info("category moved", "id", id, "from", existing.ParentID, "to", updated.ParentID)
	}
	s.publish(ctx, events.New(kind, id, updated.ParentID))
	return updated, nil
}

// Delete removes a category that has no children.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id, func(records []models.Category) error {
		if _, ok := find(id, records); !ok {
			return ErrNotFound
		}
		return taxonomy.CanDelete(id, records)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	slog.Info("category deleted", "id", id)
	s.publish(ctx, events.New(events.CategoryDeleted, id, nil))
	return nil
}

// Reorder applies a batch of moves. The batch is accepted or rejected as a
// whole.
func (s *Service) Reorder(ctx context.Context, moves []taxonomy.Move) error {
	if err := validateMoves(moves); err != nil {
		return err
	}
	err := s.repo.Reorder(ctx, moves, func(records []models.Category) error {
		return taxonomy.ValidateMoves(moves, records)
	})
	if err != nil {
		return err
	}
	slog.Info("categories reordered", "moves", len(moves))
	e := events.New(events.CategoryReordered, uuid.Nil, nil)
	for _, m := range moves {
		e.Categories = append(e.Categories, m.ID)
	}
	s.publish(ctx, e)
	return nil
}

// resolveSlug returns the explicit slug if it is free, or a unique slug
// generated from the name.
func (s *Service) resolveSlug(ctx context.Context, in Input, self uuid.UUID) (string, error) {
	taken := func(candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate, self)
	}

	if in.Slug != "" {
		used, err := taken(in.Slug)
		if err != nil {
			return "", err
		}
		if used {
			return "", ErrSlugTaken
		}
		return in.Slug, nil
	}

	base := slug.Generate(in.Name)
	if base == "" {
		base = "category"
	}
	return slug.Unique(base, taken)
}

// requireParent rejects a parent id that is not among records.
func requireParent(parentID *uuid.UUID, records []models.Category) error {
	if parentID == nil {
		return nil
	}
	if _, ok := find(*parentID, records); !ok {
		return taxonomy.ErrParentNotFound
	}
	return nil
}

func find(id uuid.UUID, records []models.Category) (models.Category, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Category{}, false
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
