// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"fmt"

	"github.com/google/uuid"

	"catalogtree/internal/models"
)

// parentIndex maps each record id to its parent reference.
type parentIndex map[uuid.UUID]*uuid.UUID

func indexParents(records []models.Category) parentIndex {
	idx := make(parentIndex, len(records))
	for i := range records {
		if _, dup := idx[records[i].ID]; !dup {
			idx[records[i].ID] = records[i].ParentID
		}
	}
	return idx
}

// ValidateReparent decides whether nodeID may be placed under
// proposedParentID given the current records. A nil proposedParentID moves
// the node to the root level and is always accepted. nodeID does not need
// to exist yet, which lets the same check cover creation.
//
// The returned error is one of ErrSelfParent, ErrParentNotFound,
// ErrCircularReference or ErrCorruptedHierarchy; nil means accept.
func ValidateReparent(nodeID uuid.UUID, proposedParentID *uuid.UUID, records []models.Category) error {
	return indexParents(records).validate(nodeID, proposedParentID)
}

func (idx parentIndex) validate(nodeID uuid.UUID, proposedParentID *uuid.UUID) error {
	if proposedParentID == nil {
		return nil
	}
	if *proposedParentID == nodeID {
		return ErrSelfParent
	}
	if _, ok := idx[*proposedParentID]; !ok {
		return ErrParentNotFound
	}

	cur := *proposedParentID
	for steps := 0; steps <= len(idx); steps++ {
		if cur == nodeID {
			return ErrCircularReference
		}
		next, ok := idx[cur]
		if !ok || next == nil {
			// Reached a root, or an ancestor whose parent dangles and is
			// therefore displayed as a root.
			return nil
		}
		cur = *next
	}
	return ErrCorruptedHierarchy
}

// Move is a single entry of a batch reorder: place ID under ParentID at
// position SortOrder.
type Move struct {
	ID        uuid.UUID  `json:"id" validate:"required"`
	ParentID  *uuid.UUID `json:"parent_id"`
	SortOrder int        `json:"sort_order"`
}

// ValidateMoves checks a batch of moves against the records, applying each
// accepted move to a working copy before checking the next. Two moves that
// are individually valid but jointly form a cycle are rejected. Every
// moved id must exist.
func ValidateMoves(moves []Move, records []models.Category) error {
	idx := indexParents(records)
	for i, m := range moves {
		if _, ok := idx[m.ID]; !ok {
			return fmt.Errorf("move %d: category %s: %w", i, m.ID, ErrUnknownCategory)
		}
		if err := idx.validate(m.ID, m.ParentID); err != nil {
			return fmt.Errorf("move %d: category %s: %w", i, m.ID, err)
		}
		idx[m.ID] = m.ParentID
	}
	return nil
}
