package export

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// TurtleWriter accumulates Turtle subject blocks using prefixed names.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter returns a writer bound to a copy of prefixes.
func NewTurtleWriter(prefixes map[string]string) *TurtleWriter {
	return &TurtleWriter{prefixes: maps.Clone(prefixes)}
}

// WritePrefixes emits one @prefix line per binding, sorted by prefix, and a
// separating blank line.
func (w *TurtleWriter) WritePrefixes() {
	for _, prefix := range slices.Sorted(maps.Keys(w.prefixes)) {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, w.prefixes[prefix])
	}
	w.sb.WriteByte('\n')
}

// WriteStatement emits "subject a Type" followed by one indented line per
// predicate. The last line ends in " ." and the others in " ;".
func (w *TurtleWriter) WriteStatement(s Statement) {
	fmt.Fprintf(&w.sb, "%s a %s%s\n", s.Subject, s.Type, terminator(len(s.Predicates) == 0))
	for i, po := range s.Predicates {
		fmt.Fprintf(&w.sb, "  %s %s%s\n", po.Predicate, turtleObject(po), terminator(i == len(s.Predicates)-1))
	}
	w.sb.WriteByte('\n')
}

// String returns the document with exactly one trailing newline.
func (w *TurtleWriter) String() string {
	return strings.TrimRight(w.sb.String(), " \t\r\n") + "\n"
}

// NTriplesWriter accumulates fully expanded triples, one per line.
type NTriplesWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewNTriplesWriter returns a writer that expands prefixed names with prefixes.
func NewNTriplesWriter(prefixes map[string]string) *NTriplesWriter {
	return &NTriplesWriter{prefixes: prefixes}
}

// WriteStatement emits the rdf:type triple and then one triple per predicate.
func (w *NTriplesWriter) WriteStatement(s Statement) {
	subject := w.iri(s.Subject)
	fmt.Fprintf(&w.sb, "%s %s %s .\n", subject, w.iri(rdfType), w.iri(s.Type))
	for _, po := range s.Predicates {
		object := w.iri(po.Object)
		if po.Literal {
			object = quote(po.Object)
		}
		fmt.Fprintf(&w.sb, "%s %s %s .\n", subject, w.iri(po.Predicate), object)
	}
}

func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

func (w *NTriplesWriter) iri(name string) string {
	return "<" + expand(w.prefixes, name) + ">"
}

func terminator(last bool) string {
	if last {
		return " ."
	}
	return " ;"
}

func turtleObject(po PredicateObject) string {
	if po.Literal {
		return quote(po.Object)
	}
	return po.Object
}

func quote(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}
