// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"

	"github.com/google/uuid"

	"catalogtree/internal/models"
	"catalogtree/internal/taxonomy"
)

// ViewRequest describes the page of the tree a viewer asks for.
type ViewRequest struct {
	Query   string
	Page    int
	PerPage int
	State   taxonomy.ViewState
}

// Row is one visible line of the flattened tree.
type Row struct {
	ID           uuid.UUID         `json:"id"`
	ParentID     *uuid.UUID        `json:"parent_id"`
	Name         string            `json:"name"`
	Slug         string            `json:"slug"`
	Visibility   models.Visibility `json:"visibility"`
	SortOrder    int               `json:"sort_order"`
	ProductCount int               `json:"product_count"`
	Depth        int               `json:"depth"`
	HasChildren  bool              `json:"has_children"`
	Expanded     bool              `json:"expanded"`
	Match        bool              `json:"match"`
}

// View is one page of the flattened tree.
type View struct {
	Rows       []Row              `json:"rows"`
	Query      string             `json:"query,omitempty"`
	Page       int                `json:"page"`
	PerPage    int                `json:"per_page"`
	TotalItems int                `json:"total_items"`
	TotalPages int                `json:"total_pages"`
	Warnings   []taxonomy.Warning `json:"warnings,omitempty"`
}

// View builds the tree, applies the viewer's expand state for the query
// and returns the requested page together with the updated state.
func (s *Service) View(ctx context.Context, req ViewRequest) (*View, taxonomy.ViewState, error) {
	_, f, err := s.forest(ctx)
	if err != nil {
		return nil, req.State, err
	}

	state := req.State.WithQuery(f, req.Query)

	var rows []taxonomy.Row
	if state.Searching() {
		rows = taxonomy.FlattenMatching(f, state.Expanded, state.Query)
	} else {
		rows = taxonomy.Flatten(f, state.Expanded)
	}

	perPage := s.perPage(req.PerPage)
	page, totalPages := paginate(req.Page, perPage, len(rows))
	start := (page - 1) * perPage
	end := min(start+perPage, len(rows))

	out := make([]Row, 0, end-start)
	for _, r := range rows[start:end] {
		c := r.Node.Category
		out = append(out, Row{
			ID:           c.ID,
			ParentID:     c.ParentID,
			Name:         c.Name,
			Slug:         c.Slug,
			Visibility:   c.Visibility,
			SortOrder:    c.SortOrder,
			ProductCount: c.ProductCount,
			Depth:        r.Depth,
			HasChildren:  r.HasChildren,
			Expanded:     r.Expanded,
			Match:        r.Match,
		})
	}

	return &View{
		Rows:       out,
		Query:      state.Query,
		Page:       page,
		PerPage:    perPage,
		TotalItems: len(rows),
		TotalPages: totalPages,
		Warnings:   f.Warnings,
	}, state, nil
}

// ExpandAll returns state with every node that has children expanded.
func (s *Service) ExpandAll(ctx context.Context, state taxonomy.ViewState) (taxonomy.ViewState, error) {
	_, f, err := s.forest(ctx)
	if err != nil {
		return state, err
	}
	return state.Replace(taxonomy.ExpandAll(f)), nil
}

// CollapseAll returns state with nothing expanded.
func (s *Service) CollapseAll(state taxonomy.ViewState) taxonomy.ViewState {
	return state.Replace(taxonomy.CollapseAll())
}

// Toggle expands or collapses a single category in state.
func (s *Service) Toggle(ctx context.Context, state taxonomy.ViewState, id uuid.UUID, expanded bool) (taxonomy.ViewState, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return state, err
	}
	if c == nil {
		return state, ErrNotFound
	}
	return state.Toggle(id, expanded), nil
}

func (s *Service) perPage(requested int) int {
	switch {
	case requested <= 0:
		return s.pageSize
	case requested > s.maxPageSize:
		return s.maxPageSize
	default:
		return requested
	}
}

// paginate clamps page to [1, totalPages]. An empty view has one page.
func paginate(page, perPage, total int) (int, int) {
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page = max(page, 1)
	page = min(page, totalPages)
	return page, totalPages
}
