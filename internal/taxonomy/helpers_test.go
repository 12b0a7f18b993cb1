package taxonomy

import (
	"fmt"

	"github.com/google/uuid"

	"catalogtree/internal/models"
	"catalogtree/internal/slug"
)

// idFor returns a deterministic id for fixture index i.
func idFor(i int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("category-%d", i)))
}

// cat returns a public category with the given name and optional parent.
func cat(id uuid.UUID, name string, parent *uuid.UUID) models.Category {
	return models.Category{
		ID:         id,
		Name:       name,
		Slug:       slug.Generate(name),
		Visibility: models.VisibilityPublic,
		ParentID:   parent,
	}
}

func ptr(id uuid.UUID) *uuid.UUID {
	return &id
}

// furniture returns the Furniture > Chairs > Office Chairs chain used by
// several tests, plus the three ids.
func furniture() ([]models.Category, uuid.UUID, uuid.UUID, uuid.UUID) {
	furnitureID, chairsID, officeID := idFor(1), idFor(2), idFor(3)
	records := []models.Category{
		cat(furnitureID, "Furniture", nil),
		cat(chairsID, "Chairs", ptr(furnitureID)),
		cat(officeID, "Office Chairs", ptr(chairsID)),
	}
	return records, furnitureID, chairsID, officeID
}

// rowNames returns the category names of rows in order.
func rowNames(rows []Row) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Node.Category.Name
	}
	return names
}

// countNodes counts every node reachable from the forest's roots.
func countNodes(f *Forest) int {
	n := 0
	f.Walk(func(*Node) bool {
		n++
		return true
	})
	return n
}
