// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"github.com/google/uuid"

	"catalogtree/internal/models"
)

// ChildCount returns how many records reference id as their parent.
func ChildCount(id uuid.UUID, records []models.Category) int {
	n := 0
	for i := range records {
		if records[i].HasParent(id) {
			n++
		}
	}
	return n
}

// CanDelete returns nil if no record references id as its parent, and a
// *HasChildrenError carrying the exact child count otherwise. Children are
// never moved or removed on the caller's behalf.
func CanDelete(id uuid.UUID, records []models.Category) error {
	if n := ChildCount(id, records); n > 0 {
		return &HasChildrenError{ID: id, Count: n}
	}
	return nil
}
