package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/c360studio/sintology/ontology"
	"github.com/c360studio/sintology/vocabulary/owl"
)

// ErrManifestNotFound is returned by ReadManifest when the file is missing.
var ErrManifestNotFound = errors.New("ontology manifest not found")

// ManifestDocument is the JSON schema manifest. Field order matches the
// sorted key order of the serialized form.
type ManifestDocument struct {
	Classes    []ManifestClass    `json:"classes"`
	Properties []ManifestProperty `json:"properties"`
}

// ManifestClass describes one class.
type ManifestClass struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

// ManifestProperty describes one property with its full domain and range.
type ManifestProperty struct {
	Domain []string              `json:"domain"`
	Kind   ontology.PropertyKind `json:"kind"`
	Name   string                `json:"name"`
	Range  []string              `json:"range"`
}

// AppliesTo reports whether the property may be used on instances of class.
func (p ManifestProperty) AppliesTo(class string) bool {
	return slices.Contains(p.Domain, class) || slices.Contains(p.Domain, owl.Thing)
}

// Manifest projects the model into a manifest document. Datatype properties
// come first, then object properties, each in lexical order.
func Manifest(m *ontology.Model) *ManifestDocument {
	doc := &ManifestDocument{
		Classes:    make([]ManifestClass, 0),
		Properties: make([]ManifestProperty, 0),
	}
	for _, class := range m.Classes() {
		doc.Classes = append(doc.Classes, ManifestClass{Label: class, Name: class})
	}
	for _, p := range m.Properties() {
		doc.Properties = append(doc.Properties, ManifestProperty{
			Domain: p.Domain,
			Kind:   p.Kind,
			Name:   p.Name,
			Range:  p.Range,
		})
	}
	return doc
}

// ManifestJSON renders the manifest with 2-space indentation and a single
// trailing newline.
func ManifestJSON(m *ontology.Model) ([]byte, error) {
	return Manifest(m).Encode()
}

// Encode renders the document with 2-space indentation and a single
// trailing newline.
func (d *ManifestDocument) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// ClassNames returns the class names in manifest order.
func (d *ManifestDocument) ClassNames() []string {
	names := make([]string, 0, len(d.Classes))
	for _, c := range d.Classes {
		names = append(names, c.Name)
	}
	return names
}

// HasClass reports whether the manifest declares class.
func (d *ManifestDocument) HasClass(class string) bool {
	return slices.Contains(d.ClassNames(), class)
}

// PropertiesFor returns the properties of the given kind applicable to class.
func (d *ManifestDocument) PropertiesFor(class string, kind ontology.PropertyKind) []ManifestProperty {
	props := make([]ManifestProperty, 0)
	for _, p := range d.Properties {
		if p.Kind == kind && p.AppliesTo(class) {
			props = append(props, p)
		}
	}
	return props
}

// Property looks up a property by kind and name.
func (d *ManifestDocument) Property(kind ontology.PropertyKind, name string) (ManifestProperty, bool) {
	for _, p := range d.Properties {
		if p.Kind == kind && p.Name == name {
			return p, true
		}
	}
	return ManifestProperty{}, false
}

// ParseManifest decodes a manifest document.
func ParseManifest(data []byte) (*ManifestDocument, error) {
	var doc ManifestDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &doc, nil
}

// ReadManifest loads a manifest file.
func ReadManifest(path string) (*ManifestDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrManifestNotFound, path)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}
