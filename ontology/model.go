// Package ontology aggregates a parsed ERD into a frozen schema model of
// classes, datatype properties and object properties.
package ontology

import "sort"

// PropertyKind distinguishes datatype properties from object properties.
type PropertyKind string

const (
	// KindDatatype marks a property derived from an entity field.
	KindDatatype PropertyKind = "datatype"

	// KindObject marks a property derived from a relationship.
	KindObject PropertyKind = "object"
)

// Property is a frozen property with its accumulated domain and range sets.
// Domain and Range are sorted and free of duplicates.
type Property struct {
	Name   string
	Kind   PropertyKind
	Domain []string
	Range  []string
}

// ExactDomain returns the sole domain value when the set has exactly one member.
func (p Property) ExactDomain() (string, bool) {
	return exact(p.Domain)
}

// ExactRange returns the sole range value when the set has exactly one member.
func (p Property) ExactRange() (string, bool) {
	return exact(p.Range)
}

func exact(set []string) (string, bool) {
	if len(set) != 1 {
		return "", false
	}
	return set[0], true
}

func (p Property) clone() Property {
	return Property{
		Name:   p.Name,
		Kind:   p.Kind,
		Domain: append([]string(nil), p.Domain...),
		Range:  append([]string(nil), p.Range...),
	}
}

// Model is the immutable result of a build. Every accessor returns a copy,
// so emitters can never mutate shared state.
type Model struct {
	classes  []string
	datatype []Property
	object   []Property
}

// Classes returns the class names in lexical order.
func (m *Model) Classes() []string {
	return append([]string{}, m.classes...)
}

// DatatypeProperties returns datatype properties in lexical name order.
func (m *Model) DatatypeProperties() []Property {
	return cloneAll(m.datatype)
}

// ObjectProperties returns object properties in lexical name order.
func (m *Model) ObjectProperties() []Property {
	return cloneAll(m.object)
}

// Properties returns datatype properties followed by object properties.
func (m *Model) Properties() []Property {
	all := make([]Property, 0, len(m.datatype)+len(m.object))
	all = append(all, cloneAll(m.datatype)...)
	return append(all, cloneAll(m.object)...)
}

// HasClass reports whether name is a compiled class.
func (m *Model) HasClass(name string) bool {
	i := sort.SearchStrings(m.classes, name)
	return i < len(m.classes) && m.classes[i] == name
}

// Property looks up a property by kind and name.
func (m *Model) Property(kind PropertyKind, name string) (Property, bool) {
	props := m.datatype
	if kind == KindObject {
		props = m.object
	}
	i := sort.Search(len(props), func(i int) bool { return props[i].Name >= name })
	if i < len(props) && props[i].Name == name {
		return props[i].clone(), true
	}
	return Property{}, false
}

// Stats summarizes the model's size.
type Stats struct {
	Classes            int `json:"classes"`
	DatatypeProperties int `json:"datatype_properties"`
	ObjectProperties   int `json:"object_properties"`
}

// Stats returns the number of classes and properties in the model.
func (m *Model) Stats() Stats {
	return Stats{
		Classes:            len(m.classes),
		DatatypeProperties: len(m.datatype),
		ObjectProperties:   len(m.object),
	}
}

func cloneAll(props []Property) []Property {
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = p.clone()
	}
	return out
}
