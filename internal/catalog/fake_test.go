package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalogtree/internal/events"
	"catalogtree/internal/models"
	"catalogtree/internal/store"
	"catalogtree/internal/taxonomy"
)

// memRepo is an in-memory Repository. Structural writes hold the mutex
// for the check and the write, mirroring the store's advisory lock.
type memRepo struct {
	mu      sync.Mutex
	records []models.Category
	listErr error
}

func newMemRepo(records ...models.Category) *memRepo {
	return &memRepo{records: slices.Clone(records)}
}

func (m *memRepo) List(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
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
	for _, r := range m.records {
		if r.Slug == slug && r.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRepo) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := 0
	for _, r := range m.records {
		if sameParent(r.ParentID, parentID) && r.SortOrder >= next {
			next = r.SortOrder + 1
		}
	}
	return next, nil
}

func (m *memRepo) Create(ctx context.Context, c *models.Category, check store.Check) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(check); err != nil {
		return nil, err
	}
	if m.slugUsed(c.Slug, uuid.Nil) {
		return nil, fmt.Errorf("create category: %w", store.ErrSlugTaken)
	}
	created := *c
	created.ID = uuid.New()
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	m.records = append(m.records, created)
	return &created, nil
}

func (m *memRepo) Update(ctx context.Context, c *models.Category, check store.Check) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(check); err != nil {
		return nil, err
	}
	i := m.index(c.ID)
	if i < 0 {
		return nil, fmt.Errorf("update category: %w", sql.ErrNoRows)
	}
	if m.slugUsed(c.Slug, c.ID) {
		return nil, fmt.Errorf("update category: %w", store.ErrSlugTaken)
	}
	updated := *c
	updated.ProductCount = m.records[i].ProductCount
	updated.CreatedAt = m.records[i].CreatedAt
	updated.UpdatedAt = time.Now()
	m.records[i] = updated
	return &updated, nil
}

func (m *memRepo) Delete(ctx context.Context, id uuid.UUID, check store.Check) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(check); err != nil {
		return err
	}
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("delete category: %w", sql.ErrNoRows)
	}
	m.records = slices.Delete(m.records, i, i+1)
	return nil
}

func (m *memRepo) Reorder(ctx context.Context, moves []taxonomy.Move, check store.Check) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(check); err != nil {
		return err
	}
	for _, mv := range moves {
		if i := m.index(mv.ID); i >= 0 {
			m.records[i].ParentID = mv.ParentID
			m.records[i].SortOrder = mv.SortOrder
		}
	}
	return nil
}

func (m *memRepo) check(check store.Check) error {
	if check == nil {
		return nil
	}
	return check(slices.Clone(m.records))
}

func (m *memRepo) index(id uuid.UUID) int {
	return slices.IndexFunc(m.records, func(r models.Category) bool { return r.ID == id })
}

func (m *memRepo) slugUsed(slug string, exclude uuid.UUID) bool {
	return slices.ContainsFunc(m.records, func(r models.Category) bool {
		return r.Slug == slug && r.ID != exclude
	})
}

// recorder collects published events.
type recorder struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (r *recorder) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}
