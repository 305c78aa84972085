package models

import (
	"fmt"
	"sort"
)

// Relation labels how a target node was reached from its source.
type Relation string

// Edge relation kinds.
const (
	RelationTypeOf          Relation = "type-of"
	RelationSubclassOf      Relation = "subclass-of"
	RelationHypernymOf      Relation = "hypernym-of"
	RelationDisambiguatedBy Relation = "disambiguated-by"
)

// Valid reports whether r is one of the known relation kinds.
func (r Relation) Valid() bool {
	switch r {
	case RelationTypeOf, RelationSubclassOf, RelationHypernymOf, RelationDisambiguatedBy:
		return true
	}

	return false
}

// ParseRelation converts a stored relation string into a Relation.
func ParseRelation(s string) (Relation, error) {
	r := Relation(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown relation %q", s)
	}

	return r, nil
}

// Edge is a directed, labeled provenance link. Edges are comparable and collapse in sets.
type Edge struct {
	Source   Node     `json:"source"`
	Target   Node     `json:"target"`
	Relation Relation `json:"relation"`
}

// String renders the edge as a readable triple.
func (e Edge) String() string {
	return fmt.Sprintf("(%s, %s, %s)", e.Source, e.Target, e.Relation)
}

// EdgeSet is an unordered set of edges.
type EdgeSet map[Edge]struct{}

// Add inserts e and reports whether it was not already present.
func (s EdgeSet) Add(e Edge) bool {
	if _, ok := s[e]; ok {
		return false
	}

	s[e] = struct{}{}

	return true
}

// Has reports whether e is in the set.
func (s EdgeSet) Has(e Edge) bool {
	_, ok := s[e]
	return ok
}

// Sorted returns the edges ordered by source, target, then relation.
func (s EdgeSet) Sorted() []Edge {
	out := make([]Edge, 0, len(s))
	for e := range s {
		out = append(out, e)
	}

	SortEdges(out)

	return out
}

// SortEdges orders edges by source, target, then relation.
func SortEdges(edges []Edge) {
	sort.Slice(edges, func(i, j int) bool {
		a, b := edges[i], edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}

		if a.Target != b.Target {
			return a.Target < b.Target
		}

		return a.Relation < b.Relation
	})
}
