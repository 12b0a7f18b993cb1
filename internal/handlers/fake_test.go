package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"github.com/google/uuid"

	"catalogtree/internal/models"
	"catalogtree/internal/session"
	"catalogtree/internal/store"
	"catalogtree/internal/taxonomy"
)

// memRepo is an in-memory catalog.Repository for handler tests.
type memRepo struct {
	mu      sync.Mutex
	records []models.Category
}

func (m *memRepo) List(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.records), nil
}

func (m *memRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.index(id); i >= 0 {
		c := m.records[i]
		return &c, nil
	}
	return nil, nil
}

func (m *memRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.ContainsFunc(m.records, func(r models.Category) bool {
		return r.Slug == slug && r.ID != exclude
	}), nil
}

func (m *memRepo) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := 0
	for _, r := range m.records {
		if r.ParentID == nil && parentID == nil || r.ParentID != nil && parentID != nil && *r.ParentID == *parentID {
			next = max(next, r.SortOrder+1)
		}
	}
	return next, nil
}

func (m *memRepo) Create(ctx context.Context, c *models.Category, check store.Check) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := check(slices.Clone(m.records)); err != nil {
		return nil, err
	}
	created := *c
	created.ID = uuid.New()
	m.records = append(m.records, created)
	return &created, nil
}

func (m *memRepo) Update(ctx context.Context, c *models.Category, check store.Check) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := check(slices.Clone(m.records)); err != nil {
		return nil, err
	}
	i := m.index(c.ID)
	if i < 0 {
		return nil, fmt.Errorf("update category: %w", sql.ErrNoRows)
	}
	m.records[i] = *c
	return c, nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID, check store.Check) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := check(slices.Clone(m.records)); err != nil {
		return err
	}
	if i := m.index(id); i >= 0 {
		m.records = slices.Delete(m.records, i, i+1)
		return nil
	}
	return fmt.Errorf("delete category: %w", sql.ErrNoRows)
}

func (m *memRepo) Reorder(ctx context.Context, moves []taxonomy.Move, check store.Check) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := check(slices.Clone(m.records)); err != nil {
		return err
	}
	for _, mv := range moves {
		if i := m.index(mv.ID); i >= 0 {
			m.records[i].ParentID, m.records[i].SortOrder = mv.ParentID, mv.SortOrder
		}
	}
	return nil
}

func (m *memRepo) index(id uuid.UUID) int {
	return slices.IndexFunc(m.records, func(r models.Category) bool { return r.ID == id })
}

// memSessions records saved sessions.
type memSessions struct {
	saved     int
	destroyed int
}

func (m *memSessions) Save(ctx context.Context, data *session.Data) error {
	m.saved++
	return nil
}

func (m *memSessions) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	m.destroyed++
	return nil
}
