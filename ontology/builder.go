package ontology

import (
	"sort"
	"strings"

	"github.com/c360studio/sintology/erd"
	"github.com/c360studio/sintology/naming"
	"github.com/c360studio/sintology/vocabulary/owl"
)

// datatypeMap maps declared ERD types (lower-cased) to XSD datatypes.
// Unlisted types map to xsd:string.
var datatypeMap = map[string]string{
	"string":   owl.XSDString,
	"date":     owl.XSDDate,
	"datetime": owl.XSDDateTime,
}

// MapDatatype returns the XSD datatype for a declared field type.
func MapDatatype(declared string) string {
	if dt, ok := datatypeMap[strings.ToLower(declared)]; ok {
		return dt
	}
	return owl.XSDString
}

// IsExcludedField reports whether a field is a key column that never
// becomes a property: "id" or any name ending in "_id", case-insensitive.
func IsExcludedField(name string) bool {
	lower := strings.ToLower(name)
	return lower == "id" || strings.HasSuffix(lower, "_id")
}

// ObjectPropertyName returns the canonical name of the object property
// derived from a relationship label and its target entity.
func ObjectPropertyName(label, target string) string {
	return naming.PropertyCase(label) + naming.ClassCase(target)
}

// propertyBuilder accumulates the domain and range sets of one property.
type propertyBuilder struct {
	kind   PropertyKind
	domain map[string]struct{}
	rng    map[string]struct{}
}

// Builder accumulates entities and relationships into mutable maps keyed by
// canonical name. Freeze produces the immutable Model.
type Builder struct {
	classes  map[string]struct{}
	datatype map[string]*propertyBuilder
	object   map[string]*propertyBuilder
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		classes:  make(map[string]struct{}),
		datatype: make(map[string]*propertyBuilder),
		object:   make(map[string]*propertyBuilder),
	}
}

// Build aggregates a parsed diagram into a frozen model.
func Build(d *erd.Diagram) *Model {
	b := NewBuilder()
	if d == nil {
		return b.Freeze()
	}
	for _, e := range d.Entities {
		b.AddEntity(e)
	}
	for _, r := range d.Relationships {
		b.AddRelationship(r)
	}
	return b.Freeze()
}

// AddEntity registers the entity's class and its non-key fields.
// Entities normalizing to an existing class merge into it.
func (b *Builder) AddEntity(e erd.Entity) {
	class := naming.ClassCase(e.Name)
	b.classes[class] = struct{}{}

	for _, f := range e.Fields {
		if IsExcludedField(f.Name) {
			continue
		}
		p := lookup(b.datatype, naming.PropertyCase(f.Name), KindDatatype)
		p.domain[class] = struct{}{}
		p.rng[MapDatatype(f.Type)] = struct{}{}
	}
}

// AddRelationship registers the object property of a relationship. The
// relationship's entities are not registered as classes.
func (b *Builder) AddRelationship(r erd.Relationship) {
	p := lookup(b.object, ObjectPropertyName(r.Label, r.Right), KindObject)
	p.domain[naming.ClassCase(r.Left)] = struct{}{}
	p.rng[naming.ClassCase(r.Right)] = struct{}{}
}

// Freeze returns an immutable snapshot of the accumulated state. The builder
// may keep accumulating afterwards without affecting the snapshot.
func (b *Builder) Freeze() *Model {
	return &Model{
		classes:  sortedKeys(b.classes),
		datatype: freezeProperties(b.datatype),
		object:   freezeProperties(b.object),
	}
}

func lookup(props map[string]*propertyBuilder, name string, kind PropertyKind) *propertyBuilder {
	p, ok := props[name]
	if !ok {
		p = &propertyBuilder{
			kind:   kind,
			domain: make(map[string]struct{}),
			rng:    make(map[string]struct{}),
		}
		props[name] = p
	}
	return p
}

func freezeProperties(props map[string]*propertyBuilder) []Property {
	out := make([]Property, 0, len(props))
	for name, p := range props {
		out = append(out, Property{
			Name:   name,
			Kind:   p.kind,
			Domain: sortedKeys(p.domain),
			Range:  sortedKeys(p.rng),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
