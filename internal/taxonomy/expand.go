// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ExpandState is the set of expanded node ids. It is keyed by id, not by
// tree position, so it survives rebuilds. Methods never modify the
// receiver; they return a new state.
type ExpandState map[uuid.UUID]bool

// NewExpandState returns a state with the given ids expanded.
func NewExpandState(ids ...uuid.UUID) ExpandState {
	s := make(ExpandState, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Has reports whether id is expanded.
func (s ExpandState) Has(id uuid.UUID) bool {
	return s[id]
}

// Clone returns an independent copy. Cloning a nil state yields an empty,
// non-nil state.
func (s ExpandState) Clone() ExpandState {
	out := make(ExpandState, len(s))
	maps.Copy(out, s)
	return out
}

// With returns a copy with ids added.
func (s ExpandState) With(ids ...uuid.UUID) ExpandState {
	out := s.Clone()
	for _, id := range ids {
		out[id] = true
	}
	return out
}

// Without returns a copy with ids removed.
func (s ExpandState) Without(ids ...uuid.UUID) ExpandState {
	out := s.Clone()
	for _, id := range ids {
		delete(out, id)
	}
	return out
}

// IDs returns the expanded ids in a stable order.
func (s ExpandState) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id, on := range s {
		if on {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return strings.Compare(a.String(), b.String())
	})
	return ids
}

// Equal reports whether both states expand the same ids.
func (s ExpandState) Equal(other ExpandState) bool {
	return slices.Equal(s.IDs(), other.IDs())
}

// MarshalJSON encodes the state as a sorted array of ids.
func (s ExpandState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

// UnmarshalJSON decodes an array of ids.
func (s *ExpandState) UnmarshalJSON(data []byte) error {
	var ids []uuid.UUID
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewExpandState(ids...)
	return nil
}

// ExpandAll returns a state in which every node that has children is
// expanded.
func ExpandAll(f *Forest) ExpandState {
	s := make(ExpandState)
	f.Walk(func(n *Node) bool {
		if n.HasChildren() {
			s[n.ID()] = true
		}
		return true
	})
	return s
}

// CollapseAll returns the empty state.
func CollapseAll() ExpandState {
	return make(ExpandState)
}

// Reconcile merges into expand every node whose subtree matches query, so
// matches deep in the tree become reachable. The result is a superset of
// expand: ids the viewer opened are never removed, and reconciling an
// already reconciled state changes nothing. A blank query returns an
// unchanged copy.
func Reconcile(f *Forest, query string, expand ExpandState) ExpandState {
	out := expand.Clone()
	q := normalizeQuery(query)
	if q == "" {
		return out
	}
	for id := range subtreeMatchSet(f, q) {
		out[id] = true
	}
	return out
}

// ViewState is one viewer's navigation state across searches. Saved holds
// the expand state from before the active search so that clearing the
// query restores what the viewer had open.
type ViewState struct {
	Expanded ExpandState `json:"expanded"`
	Saved    ExpandState `json:"saved,omitempty"`
	Query    string      `json:"query,omitempty"`
}

// Searching reports whether a search query is active.
func (v ViewState) Searching() bool {
	return normalizeQuery(v.Query) != ""
}

// Equal reports whether both states have the same query and sets.
func (v ViewState) Equal(other ViewState) bool {
	return v.Query == other.Query && v.Expanded.Equal(other.Expanded) && v.Saved.Equal(other.Saved)
}

// WithQuery returns the state for query against f. Starting a search
// snapshots Expanded into Saved before reconciling; changing the query
// reconciles the current state further; repeating the active query keeps
// the state as is; clearing it restores Saved.
func (v ViewState) WithQuery(f *Forest, query string) ViewState {
	q := strings.TrimSpace(query)
	switch {
	case q == "" && !v.Searching():
		return ViewState{Expanded: v.Expanded.Clone()}
	case q == "":
		return ViewState{Expanded: v.Saved.Clone()}
	case q == v.Query:
		return ViewState{Expanded: v.Expanded.Clone(), Saved: v.Saved.Clone(), Query: q}
	case !v.Searching():
		return ViewState{
			Expanded: Reconcile(f, q, v.Expanded),
			Saved:    v.Expanded.Clone(),
			Query:    q,
		}
	default:
		return ViewState{
			Expanded: Reconcile(f, q, v.Expanded),
			Saved:    v.Saved.Clone(),
			Query:    q,
		}
	}
}

// Toggle returns the state with id expanded or collapsed. During a search
// the saved snapshot is updated too, so a node the viewer collapses while
// searching stays collapsed once the search ends.
func (v ViewState) Toggle(id uuid.UUID, expanded bool) ViewState {
	out := ViewState{Query: v.Query}
	if expanded {
		out.Expanded = v.Expanded.With(id)
	} else {
		out.Expanded = v.Expanded.Without(id)
	}
	if v.Searching() {
		if expanded {
			out.Saved = v.Saved.With(id)
		} else {
			out.Saved = v.Saved.Without(id)
		}
	}
	return out
}

// Replace returns the state with its expanded set replaced wholesale, as
// for expand-all and collapse-all. An active search is ended.
func (v ViewState) Replace(expanded ExpandState) ViewState {
	return ViewState{Expanded: expanded.Clone()}
}
