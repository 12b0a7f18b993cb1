// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrSelfParent is returned when a category is proposed as its own parent.
	ErrSelfParent = errors.New("category cannot be its own parent")

	// ErrCircularReference is returned when the proposed parent is a
	// descendant of the category being moved.
	ErrCircularReference = errors.New("proposed parent is a descendant of the category")

	// ErrCorruptedHierarchy is returned when an ancestor walk does not reach
	// a root within the record count. It points at bad stored data, not at
	// the attempted change.
	ErrCorruptedHierarchy = errors.New("category hierarchy is corrupted")

	// ErrParentNotFound is returned when a write references a parent id
	// that does not exist.
	ErrParentNotFound = errors.New("parent category not found")

	// ErrUnknownCategory is returned when a batch names a category id that
	// is not among the records.
	ErrUnknownCategory = errors.New("category not found")
)

// HasChildrenError is returned when deleting a category that still has
// subcategories.
type HasChildrenError struct {
	ID    uuid.UUID
	Count int
}

func (e *HasChildrenError) Error() string {
	if e.Count == 1 {
		return "1 subcategory must be moved or deleted first"
	}
	return fmt.Sprintf("%d subcategories must be moved or deleted first", e.Count)
}

// Reason codes returned to API callers.
const (
	ReasonSelfParent         = "self_parent"
	ReasonCircularReference  = "circular_reference"
	ReasonCorruptedHierarchy = "corrupted_hierarchy"
	ReasonParentNotFound     = "parent_not_found"
	ReasonHasChildren        = "has_children"
	ReasonUnknownCategory    = "unknown_category"
)

// ReasonCode maps an error from this package to a stable reason code.
// Returns "" for nil and for errors not produced here.
func ReasonCode(err error) string {
	var hc *HasChildrenError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSelfParent):
		return ReasonSelfParent
	case errors.Is(err, ErrCircularReference):
		return ReasonCircularReference
	case errors.Is(err, ErrCorruptedHierarchy):
		return ReasonCorruptedHierarchy
	case errors.Is(err, ErrParentNotFound):
		return ReasonParentNotFound
	case errors.Is(err, ErrUnknownCategory):
		return ReasonUnknownCategory
	case errors.As(err, &hc):
		return ReasonHasChildren
	}
	return ""
}
