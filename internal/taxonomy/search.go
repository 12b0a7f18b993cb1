// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"strings"

	"github.com/google/uuid"

	"catalogtree/internal/models"
)

// normalizeQuery trims and lower-cases a search query. An empty result
// means "match everything".
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// Matches reports whether the record's searchable fields contain query,
// ignoring case. A blank query matches every record.
func Matches(c models.Category, query string) bool {
	return matchesNormalized(c, normalizeQuery(query))
}

func matchesNormalized(c models.Category, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range [...]string{c.Name, c.Slug, c.Description, c.SEOTitle, c.SEODescription} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// SubtreeMatches reports whether the node or any of its descendants
// matches query.
func SubtreeMatches(n *Node, query string) bool {
	if n == nil {
		return false
	}
	q := normalizeQuery(query)
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if matchesNormalized(cur.Category, q) {
			return true
		}
		stack = append(stack, cur.Children...)
	}
	return false
}

// subtreeMatchSet returns the ids of every node in the forest whose subtree
// matches the normalized query. It visits each node once, computing results
// bottom-up from a reverse pre-order.
func subtreeMatchSet(f *Forest, q string) map[uuid.UUID]bool {
	var order []*Node
	f.Walk(func(n *Node) bool {
		order = append(order, n)
		return true
	})

	hits := make(map[uuid.UUID]bool)
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		if matchesNormalized(n.Category, q) {
			hits[n.ID()] = true
			continue
		}
		for _, c := range n.Children {
			if hits[c.ID()] {
				hits[n.ID()] = true
				break
			}
		}
	}
	return hits
}
