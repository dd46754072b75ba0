// Package export serializes a compiled ontology model as OWL2 Turtle,
// N-Triples, and a JSON schema manifest.
//
// The RDF projections collapse ambiguous domains and ranges to generic
// values (owl:Thing, xsd:string); the manifest never collapses. All
// projections are pure functions of the model and byte-for-byte
// reproducible.
package export

import (
	"github.com/c360studio/sintology/ontology"
	"github.com/c360studio/sintology/vocabulary/owl"
)

const rdfType = owl.Type

// PredicateObject is one predicate-object pair of a statement.
type PredicateObject struct {
	Predicate string
	Object    string

	// Literal marks Object as a plain string literal rather than a name.
	Literal bool
}

// Statement is a subject block with its type and further predicates.
// Names are prefixed (":Person", "xsd:string").
type Statement struct {
	Subject    string
	Type       string
	Predicates []PredicateObject
}

// Option configures an RDF projection.
type Option func(*options)

type options struct {
	namespace string
}

// WithNamespace binds the empty prefix to namespace instead of
// owl.DefaultNamespace.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

func applyOptions(opts []Option) options {
	o := options{namespace: owl.DefaultNamespace}
	for _, opt := range opts {
		opt(&o)
	}
	if o.namespace == "" {
		o.namespace = owl.DefaultNamespace
	}
	return o
}

// Statements returns the ontology header, classes, datatype properties and
// object properties of the model, each group in lexical order, with
// ambiguous domains and ranges collapsed.
func Statements(m *ontology.Model) []Statement {
	stmts := []Statement{{
		Subject: local(owl.OntologyResource),
		Type:    owl.Ontology,
	}}

	for _, class := range m.Classes() {
		stmts = append(stmts, Statement{
			Subject: local(class),
			Type:    owl.Class,
			Predicates: []PredicateObject{
				{Predicate: owl.Label, Object: class, Literal: true},
			},
		})
	}

	for _, p := range m.DatatypeProperties() {
		rng := owl.XSDString
		if r, ok := p.ExactRange(); ok {
			rng = r
		}
		stmts = append(stmts, propertyStatement(p, owl.DatatypeProperty, rng))
	}

	for _, p := range m.ObjectProperties() {
		rng := owl.Thing
		if r, ok := p.ExactRange(); ok {
			rng = local(r)
		}
		stmts = append(stmts, propertyStatement(p, owl.ObjectProperty, rng))
	}

	return stmts
}

func propertyStatement(p ontology.Property, typ, rng string) Statement {
	domain := owl.Thing
	if d, ok := p.ExactDomain(); ok {
		domain = local(d)
	}
	return Statement{
		Subject: local(p.Name),
		Type:    typ,
		Predicates: []PredicateObject{
			{Predicate: owl.Domain, Object: domain},
			{Predicate: owl.Range, Object: rng},
		},
	}
}

// Turtle renders the model as an OWL2 ontology in Turtle syntax.
func Turtle(m *ontology.Model, opts ...Option) string {
	o := applyOptions(opts)

	w := NewTurtleWriter(owl.Prefixes(o.namespace))
	w.WritePrefixes()
	for _, s := range Statements(m) {
		w.WriteStatement(s)
	}
	return w.String()
}

// NTriples renders the same statements as Turtle with every name expanded
// to a full IRI, one triple per line.
func NTriples(m *ontology.Model, opts ...Option) string {
	o := applyOptions(opts)

	w := NewNTriplesWriter(owl.Prefixes(o.namespace))
	for _, s := range Statements(m) {
		w.WriteStatement(s)
	}
	return w.String()
}

// local returns the prefixed name of a term in the ontology's own namespace.
func local(name string) string {
	return ":" + name
}

func expand(prefixes map[string]string, name string) string {
	return owl.Expand(prefixes, name)
}
