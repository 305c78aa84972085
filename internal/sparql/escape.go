package sparql

import "strings"

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeLiteral escapes s for use inside a double-quoted SPARQL string literal.
func EscapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

// iriEscaper percent-encodes characters that may not appear inside <...> IRI references.
var iriEscaper = strings.NewReplacer(
	" ", "%20",
	"<", "%3C",
	">", "%3E",
	`"`, "%22",
	"{", "%7B",
	"}", "%7D",
	"|", "%7C",
	`\`, "%5C",
	"^", "%5E",
	"`", "%60",
)

// EscapeIRI makes s safe to embed in an IRI reference.
func EscapeIRI(s string) string {
	return iriEscaper.Replace(s)
}
