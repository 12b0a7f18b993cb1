// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// seedCategory is one row of the development category tree. Parent is an
// index into the seed slice, or -1 for a root.
type seedCategory struct {
	name, slug, description string
	parent                  int
}

var seedCategories = []seedCategory{
	{"Furniture", "furniture", "Tables, seating and storage.", -1},
	{"Chairs", "chairs", "Seating for home and work.", 0},
	{"Office Chairs", "office-chairs", "Ergonomic task and executive chairs.", 1},
	{"Dining Chairs", "dining-chairs", "", 1},
	{"Tables", "tables", "", 0},
	{"Lighting", "lighting", "Lamps and fixtures.", -1},
	{"Desk Lamps", "desk-lamps", "Task lighting for the office.", 5},
	{"Floor Lamps", "floor-lamps", "", 5},
}

// Seed populates the database with a small category tree for development.
// It does nothing if any category exists already.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	ids := make([]uuid.UUID, len(seedCategories))
	sortOrder := make(map[int]int)
	for i, sc := range seedCategories {
		ids[i] = uuid.New()
		var parent *uuid.UUID
		if sc.parent >= 0 {
			parent = &ids[sc.parent]
		}
		_, err := tx.Exec(`
			INSERT INTO categories (id, name, slug, description, parent_id, sort_order)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, ids[i], sc.name, sc.slug, sc.description, parent, sortOrder[sc.parent])
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", sc.slug, err)
		}
		sortOrder[sc.parent]++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with development categories", "count", len(seedCategories))
	return nil
}
