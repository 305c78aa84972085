// Package models defines data types for the type-ancestry graph.
package models

import "sort"

// Node is a knowledge-graph resource identifier, or the raw surface name used as a traversal seed.
type Node = string

// NodeSet is an unordered set of nodes.
type NodeSet map[Node]struct{}

// NewNodeSet returns a set holding the given nodes.
func NewNodeSet(nodes ...Node) NodeSet {
	s := make(NodeSet, len(nodes))
	for _, n := range nodes {
		s[n] = struct{}{}
	}

	return s
}

// Add inserts n and reports whether it was not already present.
func (s NodeSet) Add(n Node) bool {
	if _, ok := s[n]; ok {
		return false
	}

	s[n] = struct{}{}

	return true
}

// Has reports whether n is in the set.
func (s NodeSet) Has(n Node) bool {
	_, ok := s[n]
	return ok
}

// Sorted returns the members in lexicographic order.
func (s NodeSet) Sorted() []Node {
	out := make([]Node, 0, len(s))
	for n := range s {
		out = append(out, n)
	}

	sort.Strings(out)

	return out
}
