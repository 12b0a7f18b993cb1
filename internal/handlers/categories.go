// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON API for browsing and editing the
// category tree.
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"catalogtree/internal/catalog"
	"catalogtree/internal/middleware"
	"catalogtree/internal/session"
	"catalogtree/internal/taxonomy"
)

// Sessions persists viewer sessions. *session.Store satisfies it.
type Sessions interface {
	Save(ctx context.Context, data *session.Data) error
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

// Categories groups the category endpoints.
type Categories struct {
	svc      *catalog.Service
	sessions Sessions
}

// NewCategories creates the category handlers.
func NewCategories(svc *catalog.Service, sessions Sessions) *Categories {
	return &Categories{svc: svc, sessions: sessions}
}

// Routes registers the category endpoints on r, which is expected to be
// mounted at /api/categories.
func (h *Categories) Routes(r chi.Router) {
	h.Mount(r)
}

// Mount registers the category endpoints on r and wraps the mutation
// routes in writes. Expand and collapse only touch the viewer's session
// and are not wrapped.
func (h *Categories) Mount(r chi.Router, writes ...func(http.Handler) http.Handler) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/expand-all", h.ExpandAll)
	r.Post("/collapse-all", h.CollapseAll)
	r.Post("/{id}/expand", h.Expand)
	r.Post("/{id}/collapse", h.Collapse)

	r.Group(func(r chi.Router) {
		r.Use(writes...)
		r.Post("/", h.Create)
		r.Post("/reorder", h.Reorder)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// reorderRequest is the body of POST /api/categories/reorder.
type reorderRequest struct {
	Moves []taxonomy.Move `json:"moves"`
}

// List returns one page of the flattened tree for the viewer's expand
// state. A q parameter starts, refines or (when empty) ends a search;
// without it the viewer's active search, if any, is kept.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	q := r.URL.Query()

	query := sess.View.Query
	if q.Has("q") {
		query = q.Get("q")
	}

	view, state, err := h.svc.View(r.Context(), catalog.ViewRequest{
		Query:   query,
		Page:    intParam(q.Get("page")),
		PerPage: intParam(q.Get("per_page")),
		State:   sess.View,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.saveView(r.Context(), sess, state)
	writeJSON(w, http.StatusOK, view)
}

// Get returns a category with its breadcrumb.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	detail, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Create adds a category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var in catalog.Input
	if !decodeJSON(w, r, &in) {
		return
	}

	c, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/categories/"+c.ID.String())
	writeJSON(w, http.StatusCreated, c)
}

// Update replaces a category's editable fields, including its parent.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in catalog.Input
	if !decodeJSON(w, r, &in) {
		return
	}

	c, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete removes a category without children.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}

	// Drop the id from the viewer's state so it is not carried forever.
	sess := h.session(r)
	h.saveView(r.Context(), sess, sess.View.Toggle(id, false))
	w.WriteHeader(http.StatusNoContent)
}

// Reorder applies a batch of drag-and-drop moves.
func (h *Categories) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.svc.Reorder(r.Context(), req.Moves); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Expand opens one category and returns the refreshed view.
func (h *Categories) Expand(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, true)
}

// Collapse closes one category and returns the refreshed view.
func (h *Categories) Collapse(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, false)
}

func (h *Categories) toggle(w http.ResponseWriter, r *http.Request, expanded bool) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sess := h.session(r)
	state, err := h.svc.Toggle(r.Context(), sess.View, id, expanded)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.saveView(r.Context(), sess, state)
	h.List(w, r)
}

// ExpandAll opens every category with children, ending any search.
func (h *Categories) ExpandAll(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	state, err := h.svc.ExpandAll(r.Context(), sess.View)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.saveView(r.Context(), sess, state)
	h.List(w, r)
}

// CollapseAll closes every category, ending any search.
func (h *Categories) CollapseAll(w http.ResponseWriter, r *http.Request) {
	sess := h.session(r)
	h.saveView(r.Context(), sess, h.svc.CollapseAll(sess.View))
	h.List(w, r)
}

// ResetSession drops the viewer's session, forgetting its expand state.
func (h *Categories) ResetSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context(), w, r); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// session returns the viewer's session, or an unsaved one.
func (h *Categories) session(r *http.Request) *session.Data {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		return sess
	}
	return &session.Data{}
}

// saveView stores state on sess when it changed. Failures are logged and
// the request proceeds with the in-memory state.
func (h *Categories) saveView(ctx context.Context, sess *session.Data, state taxonomy.ViewState) {
	if sess.View.Equal(state) {
		return
	}
	sess.View = state
	if sess.ID == "" {
		return
	}
	if err := h.sessions.Save(ctx, sess); err != nil {
		slog.Warn("save view state failed", "error", err)
	}
}

// pathID parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "invalid category id")
		return uuid.Nil, false
	}
	return id, true
}

// intParam parses a non-negative integer query parameter; anything else
// yields 0, which the service treats as the default.
func intParam(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
