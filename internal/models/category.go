// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Visibility controls whether a category is shown on the storefront.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Category is a single catalog category as stored: a flat record with an
// optional reference to its parent. The tree is derived from these records
// by the taxonomy package and is never persisted.
type Category struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug"`
	Description    string     `json:"description"`
	SEOTitle       string     `json:"seo_title"`
	SEODescription string     `json:"seo_description"`
	Visibility     Visibility `json:"visibility"`
	SortOrder      int        `json:"sort_order"`
	ParentID       *uuid.UUID `json:"parent_id"`
	ProductCount   int        `json:"product_count"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// IsRoot returns true if the category has no parent reference.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// IsPublic returns true if the category is visible on the storefront.
func (c *Category) IsPublic() bool {
	return c.Visibility == VisibilityPublic
}

// HasParent returns true if the category's parent reference equals id.
func (c *Category) HasParent(id uuid.UUID) bool {
	return c.ParentID != nil && *c.ParentID == id
}
