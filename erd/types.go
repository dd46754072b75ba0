// Package erd extracts and parses the mermaid entity-relationship diagram
// embedded in a markdown document.
package erd

// Field is a single attribute line inside an entity block.
type Field struct {
	// Name is the attribute name as written (e.g. "full_name").
	Name string

	// Type is the declared type token as written (e.g. "string").
	Type string
}

// Entity is an entity block as written in the diagram.
type Entity struct {
	// Name is the upper-case identifier preceding the opening brace.
	Name string

	// Fields preserves the declaration order of the block's attributes.
	Fields []Field
}

// Relationship is a connector line between two entities.
type Relationship struct {
	Left  string
	Right string
	Label string
}

// Diagram is the raw result of parsing a diagram body.
type Diagram struct {
	Entities      []Entity
	Relationships []Relationship

	// Skipped counts non-blank lines that matched no grammar production.
	Skipped int
}
