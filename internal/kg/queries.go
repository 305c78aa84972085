package kg

import (
	"fmt"

	"github.com/persistorai/typegraph/internal/sparql"
)

const (
	rdfType        = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	rdfsSubClassOf = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	rdfsLabel      = "http://www.w3.org/2000/01/rdf-schema#label"
	goldHypernym   = "http://purl.org/linguistics/gold/hypernym"
)

// Result variable names.
const (
	varType     = "type"
	varHypernym = "hypernym"
	varOther    = "other"
	varRedirect = "redirectsTo"
)

func iri(s string) string {
	return "<" + sparql.EscapeIRI(s) + ">"
}

func typeQuery(node string) string {
	return fmt.Sprintf("SELECT ?%s WHERE { %s <%s> ?%s }", varType, iri(node), rdfType, varType)
}

func superclassQuery(node string) string {
	return fmt.Sprintf("SELECT ?%s WHERE { %s <%s> ?%s }", varType, iri(node), rdfsSubClassOf, varType)
}

func hypernymQuery(node string) string {
	return fmt.Sprintf("SELECT ?%s WHERE { %s <%s> ?%s }", varHypernym, iri(node), goldHypernym, varHypernym)
}

func disambiguationQuery(ns Namespaces, node string) string {
	return fmt.Sprintf("SELECT ?%s WHERE { %s <%swikiPageDisambiguates> ?%s . }",
		varOther, iri(node), ns.Ontology, varOther)
}

func redirectQuery(ns Namespaces, label string) string {
	return fmt.Sprintf(`SELECT ?%s WHERE { ?x <%s> "%s"@%s . ?x <%swikiPageRedirects> ?%s }`,
		varRedirect, rdfsLabel, sparql.EscapeLiteral(label), ns.Language, ns.Ontology, varRedirect)
}

// ontologyCheckQuery asks whether the ontology term occurs anywhere as subject, predicate, or object.
func ontologyCheckQuery(term string) string {
	r := iri(term)
	return fmt.Sprintf("ASK { { %s ?p ?o } UNION { ?s %s ?o } UNION { ?s ?p %s } }", r, r, r)
}
