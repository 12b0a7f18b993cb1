// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import "github.com/google/uuid"

// Row is one line of a flattened tree.
type Row struct {
	Node        *Node `json:"-"`
	Depth       int   `json:"depth"`
	HasChildren bool  `json:"has_children"`
	Expanded    bool  `json:"expanded"`
	// Match is false for rows shown only as context for a matching
	// descendant. Without a search every row matches.
	Match bool `json:"match"`
}

// Flatten projects the forest into pre-order rows in sibling order. A
// node's children follow it only when the node is in expand; collapsed
// subtrees produce no rows at all.
func Flatten(f *Forest, expand ExpandState) []Row {
	return flatten(f, expand, nil, "")
}

// FlattenMatching is Flatten restricted to nodes whose subtree matches
// query. With a blank query it is identical to Flatten.
func FlattenMatching(f *Forest, expand ExpandState, query string) []Row {
	q := normalizeQuery(query)
	if q == "" {
		return Flatten(f, expand)
	}
	return flatten(f, expand, subtreeMatchSet(f, q), q)
}

func flatten(f *Forest, expand ExpandState, keep map[uuid.UUID]bool, q string) []Row {
	var rows []Row
	f.Walk(func(n *Node) bool {
		if keep != nil && !keep[n.ID()] {
			return false
		}
		open := expand.Has(n.ID())
		rows = append(rows, Row{
			Node:        n,
			Depth:       n.Depth,
			HasChildren: n.HasChildren(),
			Expanded:    open,
			Match:       matchesNormalized(n.Category, q),
		})
		return open
	})
	return rows
}
