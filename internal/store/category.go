// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"catalogtree/internal/models"
	"catalogtree/internal/taxonomy"
)

// structureLockKey is the advisory lock key that serializes structural
// writes (create, update, delete, reorder) on the category tree.
const structureLockKey int64 = 0x63617467_74726565

// uniqueViolation is the PostgreSQL error code for unique constraint
// violations.
const uniqueViolation = "23505"

// ErrSlugTaken is returned when a write collides with an existing slug.
var ErrSlugTaken = errors.New("slug already in use")

// Check inspects the records read under the structure lock and returns an
// error to abort the write. The records are the state the write will be
// committed against.
type Check func(records []models.Category) error

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, seo_title, seo_description,
	visibility, sort_order, parent_id, product_count, created_at, updated_at`

// queryer is satisfied by both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanCategory scans a row into a Category struct.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.SEOTitle, &c.SEODescription,
		&c.Visibility, &c.SortOrder, &c.ParentID, &c.ProductCount,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories. Order is by sort_order then name, but the
// tree builder does not rely on it.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	return listCategories(ctx, s.db)
}

func listCategories(ctx context.Context, q queryer) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// SlugExists reports whether slug is used by a category other than exclude.
// Pass uuid.Nil to check against every category.
func (s *CategoryStore) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE slug = $1 AND id <> $2)`,
		slug, exclude,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category slug: %w", err)
	}
	return exists, nil
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// structural runs fn in a transaction holding the structure lock. The
// records passed to check are read after the lock is taken, so concurrent
// structural writes are validated against each other's committed results.
func (s *CategoryStore) structural(ctx context.Context, check Check, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, structureLockKey); err != nil {
		return fmt.Errorf("lock category tree: %w", err)
	}

	if check != nil {
		records, err := listCategories(ctx, tx)
		if err != nil {
			return err
		}
		if err := check(records); err != nil {
			return err
		}
	}

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Create inserts a new category after check accepts the current records.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category, check Check) (*models.Category, error) {
	var result *models.Category
	err := s.structural(ctx, check, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO categories (name, slug, description, seo_title, seo_description,
			                        visibility, sort_order, parent_id, product_count)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING `+categoryColumns,
			c.Name, c.Slug, c.Description, c.SEOTitle, c.SEODescription,
			c.Visibility, c.SortOrder, c.ParentID, c.ProductCount,
		)
		var err error
		result, err = scanCategory(row)
		if err != nil {
			return fmt.Errorf("create category: %w", mapWriteError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update modifies an existing category after check accepts the current
// records. Returns sql.ErrNoRows if the category does not exist.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category, check Check) (*models.Category, error) {
	var result *models.Category
	err := s.structural(ctx, check, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			UPDATE categories SET
				name = $1, slug = $2, description = $3, seo_title = $4,
				seo_description = $5, visibility = $6, sort_order = $7,
				parent_id = $8, updated_at = NOW()
			WHERE id = $9
			RETURNING `+categoryColumns,
			c.Name, c.Slug, c.Description, c.SEOTitle, c.SEODescription,
			c.Visibility, c.SortOrder, c.ParentID, c.ID,
		)
		var err error
		result, err = scanCategory(row)
		if err != nil {
			return fmt.Errorf("update category: %w", mapWriteError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a category after check accepts the current records.
// Returns sql.ErrNoRows if the category does not exist.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID, check Check) error {
	return s.structural(ctx, check, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("delete category: %w", sql.ErrNoRows)
		}
		return nil
	})
}

// Reorder updates sort_order and parent_id for multiple categories after
// check accepts the current records.
func (s *CategoryStore) Reorder(ctx context.Context, moves []taxonomy.Move, check Check) error {
	return s.structural(ctx, check, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			UPDATE categories SET parent_id = $1, sort_order = $2, updated_at = $3
			WHERE id = $4`)
		if err != nil {
			return fmt.Errorf("prepare reorder: %w", err)
		}
		defer stmt.Close()

		now := time.Now()
		for _, m := range moves {
			if _, err := stmt.ExecContext(ctx, m.ParentID, m.SortOrder, now, m.ID); err != nil {
				return fmt.Errorf("reorder category %s: %w", m.ID, err)
			}
		}
		return nil
	})
}

// mapWriteError translates a slug unique violation into ErrSlugTaken.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "categories_slug_key" {
		return ErrSlugTaken
	}
	return err
}
