package sparql

// Term is a single RDF term in a result binding.
type Term struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// IsIRI reports whether the term is an IRI.
func (t Term) IsIRI() bool {
	return t.Type == "uri"
}

// Binding maps result variable names to terms for one solution.
type Binding map[string]Term

// Value returns the lexical value bound to name and whether it was bound.
func (b Binding) Value(name string) (string, bool) {
	t, ok := b[name]
	if !ok {
		return "", false
	}

	return t.Value, true
}

// response is the SPARQL 1.1 Query Results JSON document.
type response struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []Binding `json:"bindings"`
	} `json:"results,omitempty"`
	Boolean *bool `json:"boolean,omitempty"`
}
