package main

import (
	"time"

	"github.com/persistorai/typegraph/client"
	"github.com/persistorai/typegraph/internal/config"
	"github.com/persistorai/typegraph/internal/kg"
	"github.com/persistorai/typegraph/internal/models"
	"github.com/persistorai/typegraph/internal/service"
	"github.com/persistorai/typegraph/internal/sparql"
)

// localQueryTimeout bounds each SPARQL request made by local commands.
const localQueryTimeout = 30 * time.Second

// newLocalService wires an in-process AncestryService against flagEndpoint and the namespace
// flags. Local runs are never saved.
func newLocalService(workers int) *service.AncestryService {
	log := newCLILogger()

	q := sparql.New(flagEndpoint,
		sparql.WithTimeout(localQueryTimeout),
		sparql.WithUserAgent("typegraph/"+config.Version),
	)
	graph := kg.New(q, kg.Namespaces{
		Ontology: flagOntology,
		Resource: flagResource,
		Language: flagLanguage,
	}, log)

	return service.NewAncestryService(graph, nil, log, service.WithWorkers(workers))
}

func toClientEdge(e models.Edge) client.Edge {
	return client.Edge{Source: e.Source, Target: e.Target, Relation: string(e.Relation)}
}

func toClientResult(r *models.Result) *client.Result {
	out := &client.Result{
		Seed:  r.Seed,
		Nodes: r.Nodes,
		Edges: make([]client.Edge, len(r.Edges)),
	}
	for i, e := range r.Edges {
		out.Edges[i] = toClientEdge(e)
	}
	return out
}

func toClientResponse(r *models.DiscoverResponse) *client.DiscoverResponse {
	return &client.DiscoverResponse{Name: r.Name, Result: toClientResult(r.Result)}
}
