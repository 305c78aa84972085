package models

// Result is the terminal pair of a traversal: the discovered node closure and its provenance edges.
// Nodes and Edges are sorted so equal traversals produce equal results.
type Result struct {
	Seed  Node   `json:"seed"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NewResult builds a sorted Result from the given sets.
func NewResult(seed Node, nodes NodeSet, edges EdgeSet) *Result {
	return &Result{
		Seed:  seed,
		Nodes: nodes.Sorted(),
		Edges: edges.Sorted(),
	}
}

// Targets returns the set of nodes that appear as an edge target.
func (r *Result) Targets() NodeSet {
	s := make(NodeSet, len(r.Edges))
	for _, e := range r.Edges {
		s.Add(e.Target)
	}

	return s
}
