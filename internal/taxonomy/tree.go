// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy turns the flat category relation into a tree and answers
// the structural questions asked of it: may this node move under that one,
// may this node be deleted, which rows are visible for a given expand
// state, which nodes match a search and what is a node's breadcrumb.
//
// Every function here is a pure computation over a snapshot of records the
// caller already holds. Nothing is cached and nothing performs I/O, so the
// functions are safe to call concurrently against the same snapshot.
package taxonomy

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"catalogtree/internal/models"
)

// Node is a category placed in a built forest.
type Node struct {
	Category models.Category `json:"category"`
	Children []*Node         `json:"children,omitempty"`
	Depth    int             `json:"depth"`
}

// ID returns the id of the wrapped category.
func (n *Node) ID() uuid.UUID {
	return n.Category.ID
}

// HasChildren returns true if the node has at least one child.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// WarningKind classifies a non-fatal problem found while building a forest.
type WarningKind string

const (
	// WarningOrphan means the record's parent id does not resolve.
	WarningOrphan WarningKind = "orphan"
	// WarningCycle means the record sat on (or below) a parent cycle in the
	// stored data and was detached to keep it reachable.
	WarningCycle WarningKind = "cycle"
)

// Warning describes a record that was promoted to root instead of being
// placed under its stored parent.
type Warning struct {
	Kind     WarningKind `json:"kind"`
	ID       uuid.UUID   `json:"id"`
	ParentID uuid.UUID   `json:"parent_id"`
}

// Forest is the result of Build. Roots and every Children slice are in
// sibling order.
type Forest struct {
	Roots    []*Node   `json:"roots"`
	Warnings []Warning `json:"warnings,omitempty"`

	index map[uuid.UUID]*Node
}

// Len returns the number of nodes in the forest.
func (f *Forest) Len() int {
	return len(f.index)
}

// Node returns the node for id, or nil if the forest does not contain it.
func (f *Forest) Node(id uuid.UUID) *Node {
	return f.index[id]
}

// Walk visits every node in pre-order, sibling order. Returning false from
// fn skips the node's children.
func (f *Forest) Walk(fn func(n *Node) bool) {
	stack := make([]*Node, 0, len(f.Roots))
	stack = pushReversed(stack, f.Roots)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if fn(n) {
			stack = pushReversed(stack, n.Children)
		}
	}
}

// Build converts a flat record list into a forest. It never fails: records
// whose parent does not resolve are promoted to root and reported as
// WarningOrphan, and records trapped in a stored parent cycle are detached
// and reported as WarningCycle, so every record appears exactly once.
//
// Duplicate ids keep the first record and drop the rest.
func Build(records []models.Category) *Forest {
	f := &Forest{index: make(map[uuid.UUID]*Node, len(records))}

	order := make([]*Node, 0, len(records))
	for _, rec := range records {
		if _, dup := f.index[rec.ID]; dup {
			continue
		}
		n := &Node{Category: rec}
		f.index[rec.ID] = n
		order = append(order, n)
	}

	for _, n := range order {
		pid := n.Category.ParentID
		if pid == nil {
			f.Roots = append(f.Roots, n)
			continue
		}
		parent, ok := f.index[*pid]
		if !ok {
			f.Roots = append(f.Roots, n)
			f.Warnings = append(f.Warnings, Warning{Kind: WarningOrphan, ID: n.ID(), ParentID: *pid})
			continue
		}
		parent.Children = append(parent.Children, n)
	}

	placed := assignDepths(f.Roots, make(map[uuid.UUID]bool, len(order)))
	if len(placed) < len(order) {
		f.breakCycles(order, placed)
	}

	sortSiblings(f.Roots)
	f.Walk(func(n *Node) bool {
		sortSiblings(n.Children)
		return true
	})
	return f
}

// breakCycles promotes unreachable nodes to root. A node is unreachable
// only if following its parents never ends, i.e. it is on or below a cycle.
func (f *Forest) breakCycles(order []*Node, placed map[uuid.UUID]bool) {
	for _, n := range order {
		if placed[n.ID()] {
			continue
		}
		parent := f.index[*n.Category.ParentID]
		parent.Children = slices.DeleteFunc(parent.Children, func(c *Node) bool { return c == n })
		f.Roots = append(f.Roots, n)
		f.Warnings = append(f.Warnings, Warning{Kind: WarningCycle, ID: n.ID(), ParentID: parent.ID()})
		assignDepths([]*Node{n}, placed)
	}
}

// assignDepths walks down from roots with an explicit stack, setting each
// node's depth and recording it in placed.
func assignDepths(roots []*Node, placed map[uuid.UUID]bool) map[uuid.UUID]bool {
	stack := make([]*Node, 0, len(roots))
	for _, r := range roots {
		r.Depth = 0
		stack = append(stack, r)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		placed[n.ID()] = true
		for _, c := range n.Children {
			c.Depth = n.Depth + 1
			stack = append(stack, c)
		}
	}
	return placed
}

// sortSiblings orders nodes by sort order, then name, then id.
func sortSiblings(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int {
		if c := cmp.Compare(a.Category.SortOrder, b.Category.SortOrder); c != 0 {
			return c
		}
		if c := strings.Compare(a.Category.Name, b.Category.Name); c != 0 {
			return c
		}
		return strings.Compare(a.ID().String(), b.ID().String())
	})
}

// pushReversed appends nodes to stack in reverse so they pop in order.
func pushReversed(stack, nodes []*Node) []*Node {
	for i := len(nodes) - 1; i >= 0; i-- {
		stack = append(stack, nodes[i])
	}
	return stack
}
