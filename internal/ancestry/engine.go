// Package ancestry expands a seed node into the full upward closure of its types, superclasses,
// and hypernyms by repeatedly applying single-node lookups until no unexplored node remains.
package ancestry

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/typegraph/internal/models"
)

// Lookup is the knowledge-graph surface the engine depends on.
type Lookup interface {
	IsClass(node models.Node) bool
	LookupTypes(ctx context.Context, node models.Node) (models.NodeSet, error)
	LookupHypernyms(ctx context.Context, node models.Node) (models.NodeSet, error)
	LookupDisambiguations(ctx context.Context, node models.Node) (models.NodeSet, error)
}

// Engine runs ancestry traversals. It is safe for concurrent use; each Discover call owns its state.
type Engine struct {
	lookup   Lookup
	log      *logrus.Logger
	observer func(models.Edge)
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers a callback invoked for every newly recorded edge, in discovery order.
func WithObserver(fn func(models.Edge)) Option {
	return func(e *Engine) { e.observer = fn }
}

// New creates an Engine over the given lookup.
func New(lookup Lookup, log *logrus.Logger, opts ...Option) *Engine {
	e := &Engine{lookup: lookup, log: log}
	for _, o := range opts {
		o(e)
	}

	return e
}

// With returns a copy of the engine with additional options applied.
func (e *Engine) With(opts ...Option) *Engine {
	cp := *e
	for _, o := range opts {
		o(&cp)
	}

	return &cp
}

// Discover computes the type-ancestry closure of seed. The seed itself is part of the returned
// node set only when some edge targets it. Any lookup failure aborts with no partial result.
func (e *Engine) Discover(ctx context.Context, seed models.Node, allowDisambiguation bool) (*models.Result, error) {
	t := newTraversal(e.lookup, allowDisambiguation, e.observer)

	if err := t.expand(ctx, seed); err != nil {
		return nil, err
	}

	for {
		n, ok := t.next()
		if !ok {
			break
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := t.expand(ctx, n); err != nil {
			return nil, err
		}

		t.explored.Add(n)
	}

	e.log.WithFields(logrus.Fields{
		"seed":    seed,
		"nodes":   len(t.discovered),
		"edges":   len(t.edges),
		"lookups": t.lookups,
	}).Debug("ancestry.discover")

	return models.NewResult(seed, t.discovered, t.edges), nil
}
