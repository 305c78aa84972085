package ancestry

import (
	"context"

	"github.com/persistorai/typegraph/internal/models"
)

// traversal is the per-call discovery record: a FIFO frontier of discovered-but-unexplored nodes,
// the discovered set, the explored set, and the accumulated edges.
type traversal struct {
	lookup              Lookup
	allowDisambiguation bool
	observer            func(models.Edge)

	frontier   []models.Node
	discovered models.NodeSet
	explored   models.NodeSet
	edges      models.EdgeSet
	lookups    int
}

func newTraversal(lookup Lookup, allowDisambiguation bool, observer func(models.Edge)) *traversal {
	return &traversal{
		lookup:              lookup,
		allowDisambiguation: allowDisambiguation,
		observer:            observer,
		discovered:          make(models.NodeSet),
		explored:            make(models.NodeSet),
		edges:               make(models.EdgeSet),
	}
}

// next pops the next unexplored node from the frontier.
func (t *traversal) next() (models.Node, bool) {
	for len(t.frontier) > 0 {
		n := t.frontier[0]
		t.frontier = t.frontier[1:]

		if !t.explored.Has(n) {
			return n, true
		}
	}

	return "", false
}

// expand queries types and hypernyms of n, falling back to disambiguation when both are empty,
// and records the resulting edges and newly discovered nodes.
func (t *traversal) expand(ctx context.Context, n models.Node) error {
	types, err := t.lookup.LookupTypes(ctx, n)
	if err != nil {
		return err
	}

	hypernyms, err := t.lookup.LookupHypernyms(ctx, n)
	if err != nil {
		return err
	}

	t.lookups += 2

	typeRel := models.RelationTypeOf
	if t.lookup.IsClass(n) {
		typeRel = models.RelationSubclassOf
	}

	for _, target := range types.Sorted() {
		t.record(n, target, typeRel)
	}

	for _, target := range hypernyms.Sorted() {
		t.record(n, target, models.RelationHypernymOf)
	}

	if len(types) > 0 || len(hypernyms) > 0 || !t.allowDisambiguation {
		return nil
	}

	others, err := t.lookup.LookupDisambiguations(ctx, n)
	if err != nil {
		return err
	}

	t.lookups++

	for _, target := range others.Sorted() {
		t.record(n, target, models.RelationDisambiguatedBy)
	}

	return nil
}

func (t *traversal) record(source, target models.Node, rel models.Relation) {
	e := models.Edge{Source: source, Target: target, Relation: rel}
	if t.edges.Add(e) && t.observer != nil {
		t.observer(e)
	}

	if t.discovered.Add(target) {
		t.frontier = append(t.frontier, target)
	}
}
