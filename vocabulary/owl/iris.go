package owl

import "strings"

// DefaultNamespace is the base IRI bound to the empty prefix.
const DefaultNamespace = "http://example.org/sintology#"

// Namespace IRIs of the standard vocabularies.
const (
	NamespaceOWL  = "http://www.w3.org/2002/07/owl#"
	NamespaceRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NamespaceRDFS = "http://www.w3.org/2000/01/rdf-schema#"
	NamespaceXSD  = "http://www.w3.org/2001/XMLSchema#"
)

// Class and property kinds.
const (
	// Ontology is the type of the ontology header resource.
	Ontology = "owl:Ontology"

	// Class is the type of every compiled entity.
	Class = "owl:Class"

	// Thing is the generic class used when a domain or range is ambiguous.
	Thing = "owl:Thing"

	// DatatypeProperty is the type of properties derived from entity fields.
	DatatypeProperty = "owl:DatatypeProperty"

	// ObjectProperty is the type of properties derived from relationships.
	ObjectProperty = "owl:ObjectProperty"
)

// Annotation and schema predicates.
const (
	// Type is rdf:type, written "a" in Turtle.
	Type = "rdf:type"

	// Label is the human-readable name of a class.
	Label = "rdfs:label"

	// Domain constrains the subject of a property.
	Domain = "rdfs:domain"

	// Range constrains the object of a property.
	Range = "rdfs:range"
)

// XSD datatypes.
const (
	XSDString   = "xsd:string"
	XSDDate     = "xsd:date"
	XSDDateTime = "xsd:dateTime"
)

// OntologyResource is the local name of the ontology header subject.
const OntologyResource = "Ontology"

// Prefixes returns the prefix bindings for a base namespace. The empty
// prefix is bound to namespace, or DefaultNamespace when namespace is empty.
func Prefixes(namespace string) map[string]string {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return map[string]string{
		"":     namespace,
		"owl":  NamespaceOWL,
		"rdf":  NamespaceRDF,
		"rdfs": NamespaceRDFS,
		"xsd":  NamespaceXSD,
	}
}

// Expand resolves a prefixed name against the given prefix bindings.
// Names with an unknown prefix, or without a colon, are returned unchanged.
func Expand(prefixes map[string]string, name string) string {
	idx := strings.Index(name, ":")
	if idx < 0 {
		return name
	}
	iri, ok := prefixes[name[:idx]]
	if !ok {
		return name
	}
	return iri + name[idx+1:]
}
