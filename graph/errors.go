package graph

import "errors"

// Graph store errors.
var (
	// ErrUnknownClass is returned when a class is not declared in the manifest.
	ErrUnknownClass = errors.New("unknown class")

	// ErrUnknownProperty is returned when a property is not declared in the
	// manifest with the expected kind.
	ErrUnknownProperty = errors.New("unknown property")

	// ErrPropertyMismatch is returned when a property does not apply to a
	// node's class or an edge's target is outside the property's range.
	ErrPropertyMismatch = errors.New("property does not apply")

	// ErrNodeNotFound is returned when a node reference matches no node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrAmbiguousNode is returned when a short node reference matches
	// more than one node.
	ErrAmbiguousNode = errors.New("ambiguous node reference")
)
