package taxonomy

import (
	"errors"
	"testing"

	"catalogtree/internal/models"
)

func TestCanDelete(t *testing.T) {
	a, b := idFor(1), idFor(2)
	records := []models.Category{
		cat(a, "A", nil),
		cat(b, "B", ptr(a)),
	}

	err := CanDelete(a, records)
	var hc *HasChildrenError
	if !errors.As(err, &hc) {
		t.Fatalf("CanDelete(A): got %v, want *HasChildrenError", err)
	}
	if hc.Count != 1 || hc.ID != a {
		t.Errorf("HasChildrenError: got %+v, want count 1 for A", hc)
	}

	if err := CanDelete(b, records); err != nil {
		t.Errorf("CanDelete(leaf): got %v, want nil", err)
	}

	// Reparent B away from A, then A may go.
	records[1].ParentID = nil
	if err := CanDelete(a, records); err != nil {
		t.Errorf("CanDelete(A) after move: got %v, want nil", err)
	}

	// Remove B entirely.
	if err := CanDelete(a, records[:1]); err != nil {
		t.Errorf("CanDelete(A) after removal: got %v, want nil", err)
	}
}

func TestCanDeleteCountsOnlyDirectChildren(t *testing.T) {
	records, furnitureID, chairsID, _ := furniture()
	records = append(records, cat(idFor(9), "Sofas", ptr(furnitureID)))

	if n := ChildCount(furnitureID, records); n != 2 {
		t.Errorf("ChildCount(Furniture): got %d, want 2", n)
	}
	if n := ChildCount(chairsID, records); n != 1 {
		t.Errorf("ChildCount(Chairs): got %d, want 1", n)
	}
}

func TestHasChildrenErrorMessage(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{1, "1 subcategory must be moved or deleted first"},
		{4, "4 subcategories must be moved or deleted first"},
	}
	for _, tt := range tests {
		err := &HasChildrenError{Count: tt.count}
		if got := err.Error(); got != tt.want {
			t.Errorf("count %d: got %q, want %q", tt.count, got, tt.want)
		}
	}
}
