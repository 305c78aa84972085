package kg

import "strings"

// Default DBpedia namespaces.
const (
	DefaultOntology = "http://dbpedia.org/ontology/"
	DefaultResource = "http://dbpedia.org/resource/"
	DefaultLanguage = "en"
)

// Namespaces holds the identifier prefixes that separate class-like resources from instances.
type Namespaces struct {
	Ontology string
	Resource string
	// Language tags label literals in redirect lookups.
	Language string
}

// DefaultNamespaces returns the DBpedia namespace configuration.
func DefaultNamespaces() Namespaces {
	return Namespaces{
		Ontology: DefaultOntology,
		Resource: DefaultResource,
		Language: DefaultLanguage,
	}
}

// marker strips the scheme so http and https identifiers match the same namespace.
func marker(ns string) string {
	if i := strings.Index(ns, "://"); i >= 0 {
		return ns[i+3:]
	}

	return ns
}

// IsOntology reports whether node belongs to the ontology namespace.
func (n Namespaces) IsOntology(node string) bool {
	return n.Ontology != "" && strings.Contains(node, marker(n.Ontology))
}

// IsResource reports whether node belongs to the resource namespace.
func (n Namespaces) IsResource(node string) bool {
	return n.Resource != "" && strings.Contains(node, marker(n.Resource))
}

// Known reports whether node belongs to either namespace.
func (n Namespaces) Known(node string) bool {
	return n.IsOntology(node) || n.IsResource(node)
}
