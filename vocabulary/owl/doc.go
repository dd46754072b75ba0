// Package owl provides the OWL2, RDF, RDFS and XSD terms used when
// serializing a compiled ontology.
//
// Terms are kept in prefixed form ("owl:Class", "xsd:string") because the
// Turtle and JSON projections both print them that way. Expand resolves a
// prefixed name to a full IRI for line-based formats such as N-Triples.
//
// # Prefixes
//
//	:     DefaultNamespace (overridable per export)
//	owl   http://www.w3.org/2002/07/owl#
//	rdf   http://www.w3.org/1999/02/22-rdf-syntax-ns#
//	rdfs  http://www.w3.org/2000/01/rdf-schema#
//	xsd   http://www.w3.org/2001/XMLSchema#
package owl
