// Package kg answers single-node lookups against a remote knowledge graph: types, superclasses,
// linguistic hypernyms, disambiguation candidates, and surface-name resolution.
package kg

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/typegraph/internal/metrics"
	"github.com/persistorai/typegraph/internal/models"
	"github.com/persistorai/typegraph/internal/sparql"
)

// Lookup kinds, used as metric labels and API path values.
const (
	KindTypes           = "types"
	KindHypernyms       = "hypernyms"
	KindDisambiguations = "disambiguations"
	KindResolve         = "resolve"
)

// Client issues lookups through a SPARQL querier. It holds no state beyond its configuration.
type Client struct {
	q   sparql.Querier
	ns  Namespaces
	log *logrus.Logger
}

// New creates a Client. Empty namespace fields fall back to the DBpedia defaults.
func New(q sparql.Querier, ns Namespaces, log *logrus.Logger) *Client {
	def := DefaultNamespaces()
	if ns.Ontology == "" {
		ns.Ontology = def.Ontology
	}

	if ns.Resource == "" {
		ns.Resource = def.Resource
	}

	if ns.Language == "" {
		ns.Language = def.Language
	}

	return &Client{q: q, ns: ns, log: log}
}

// Namespaces returns the namespace configuration in use.
func (c *Client) Namespaces() Namespaces {
	return c.ns
}

// IsClass reports whether node denotes an ontology-class resource.
func (c *Client) IsClass(node models.Node) bool {
	return c.ns.IsOntology(node)
}

// LookupTypes returns the superclasses of an ontology class, or the rdf:type values of any other
// node. Results outside both namespaces are dropped and flagged.
func (c *Client) LookupTypes(ctx context.Context, node models.Node) (models.NodeSet, error) {
	query := typeQuery(node)
	if c.IsClass(node) {
		query = superclassQuery(node)
	}

	values, err := c.selectValues(ctx, KindTypes, query, varType)
	if err != nil {
		return nil, fmt.Errorf("querying types for %s: %w", node, err)
	}

	out := make(models.NodeSet, len(values))

	for _, v := range values {
		if !c.ns.Known(v) {
			metrics.NamespaceFiltered.Inc()
			c.log.WithFields(logrus.Fields{
				"node":  node,
				"value": v,
			}).Debug("type outside ontology and resource namespaces dropped")

			continue
		}

		out.Add(v)
	}

	return out, nil
}

// LookupHypernyms returns the linguistic hypernyms of node, unfiltered.
func (c *Client) LookupHypernyms(ctx context.Context, node models.Node) (models.NodeSet, error) {
	values, err := c.selectValues(ctx, KindHypernyms, hypernymQuery(node), varHypernym)
	if err != nil {
		return nil, fmt.Errorf("querying hypernyms for %s: %w", node, err)
	}

	return models.NewNodeSet(values...), nil
}

// LookupDisambiguations returns the resources an ambiguous node disambiguates to.
func (c *Client) LookupDisambiguations(ctx context.Context, node models.Node) (models.NodeSet, error) {
	values, err := c.selectValues(ctx, KindDisambiguations, disambiguationQuery(c.ns, node), varOther)
	if err != nil {
		return nil, fmt.Errorf("querying disambiguations for %s: %w", node, err)
	}

	return models.NewNodeSet(values...), nil
}

// ResolveIdentifier maps a surface name to a canonical identifier. A redirect target wins;
// otherwise an ontology identifier is synthesized when the name occurs in the ontology, and a
// resource identifier when it does not. It never reports "not found".
func (c *Client) ResolveIdentifier(ctx context.Context, surface string) (models.Node, error) {
	name := Capitalize(strings.TrimSpace(surface))

	redirects, err := c.selectValues(ctx, KindResolve, redirectQuery(c.ns, name), varRedirect)
	if err != nil {
		return "", fmt.Errorf("querying redirect for %q: %w", name, err)
	}

	if len(redirects) > 0 {
		return redirects[0], nil
	}

	local := strings.ReplaceAll(name, " ", "_")

	start := time.Now()
	inOntology, err := c.q.Ask(ctx, ontologyCheckQuery(c.ns.Ontology+local))
	c.observe(KindResolve, start, err)

	if err != nil {
		return "", fmt.Errorf("checking ontology for %q: %w", name, err)
	}

	if inOntology {
		return c.ns.Ontology + local, nil
	}

	return c.ns.Resource + local, nil
}

// Name returns the local name of an identifier: its last path or fragment segment.
func Name(node models.Node) string {
	trimmed := strings.TrimRight(node, "/")
	if i := strings.LastIndexAny(trimmed, "/#"); i >= 0 {
		return trimmed[i+1:]
	}

	return trimmed
}

// Capitalize upper-cases the first rune and lower-cases the rest, matching the graph's title casing.
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	r, size := utf8.DecodeRuneInString(s)

	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

// selectValues runs a SELECT query and returns the distinct values bound to variable, in result order.
func (c *Client) selectValues(ctx context.Context, kind, query, variable string) ([]string, error) {
	start := time.Now()
	bindings, err := c.q.Select(ctx, query)
	c.observe(kind, start, err)

	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(bindings))
	values := make([]string, 0, len(bindings))

	for _, b := range bindings {
		v, ok := b.Value(variable)
		if !ok {
			continue
		}

		if _, dup := seen[v]; dup {
			continue
		}

		seen[v] = struct{}{}
		values = append(values, v)
	}

	return values, nil
}

func (c *Client) observe(kind string, start time.Time, err error) {
	metrics.LookupDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
	}

	metrics.LookupsTotal.WithLabelValues(kind, status).Inc()
}
