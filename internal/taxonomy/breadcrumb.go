// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"slices"

	"github.com/google/uuid"

	"catalogtree/internal/models"
)

// Trail returns c and its ancestors, root first. The walk stops at a nil or
// unresolvable parent, or after len(records) steps on cyclic data, in which
// case the partial trail gathered so far is returned.
func Trail(c models.Category, records []models.Category) []models.Category {
	byID := make(map[uuid.UUID]models.Category, len(records))
	for _, r := range records {
		if _, dup := byID[r.ID]; !dup {
			byID[r.ID] = r
		}
	}

	trail := []models.Category{c}
	cur := c
	for steps := 0; cur.ParentID != nil && steps < len(records); steps++ {
		parent, ok := byID[*cur.ParentID]
		if !ok {
			break
		}
		trail = append(trail, parent)
		cur = parent
	}
	slices.Reverse(trail)
	return trail
}

// ResolvePath returns the breadcrumb names for c, root first.
func ResolvePath(c models.Category, records []models.Category) []string {
	trail := Trail(c, records)
	names := make([]string, len(trail))
	for i, t := range trail {
		names[i] = t.Name
	}
	return names
}
