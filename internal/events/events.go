// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package events publishes a change feed of committed category writes so
// downstream consumers (search indexers, storefront caches) can follow the
// tree without polling the database.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Type names a kind of category change.
type Type string

const (
	CategoryCreated   Type = "category.created"
	CategoryUpdated   Type = "category.updated"
	CategoryMoved     Type = "category.moved"
	CategoryDeleted   Type = "category.deleted"
	CategoryReordered Type = "category.reordered"
)

// Event is one committed change. CategoryID is uuid.Nil for batch
// reorders, which list the affected ids in Categories instead.
type Event struct {
	ID         uuid.UUID   `json:"id"`
	Type       Type        `json:"type"`
	CategoryID uuid.UUID   `json:"category_id,omitzero"`
	ParentID   *uuid.UUID  `json:"parent_id,omitempty"`
	Categories []uuid.UUID `json:"categories,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// New stamps an event with a fresh id and the current time.
func New(t Type, categoryID uuid.UUID, parentID *uuid.UUID) Event {
	return Event{
		ID:         uuid.New(),
		Type:       t,
		CategoryID: categoryID,
		ParentID:   parentID,
		OccurredAt: time.Now().UTC(),
	}
}

// Key is the partition key. Events for one category share a partition so
// consumers see them in commit order.
func (e Event) Key() []byte {
	if e.CategoryID == uuid.Nil {
		return []byte("reorder")
	}
	return []byte(e.CategoryID.String())
}

// Encode returns the JSON wire form of the event.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Publisher delivers events to the change feed.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}
