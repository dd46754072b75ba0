// Package graph stores instance data typed by a compiled ontology manifest:
// nodes carrying datatype property values and edges carrying object
// properties.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/c360studio/sintology/export"
	"github.com/c360studio/sintology/ontology"
	"github.com/c360studio/sintology/storage"
)

// ShortIDLength is the length of the id prefix used for display.
const ShortIDLength = 8

// labelKeys are the datatype properties consulted, in order, for a node label.
var labelKeys = []string{"name", "fullName", "handle", "title"}

// Node is an instance of a class. Fields are declared in serialized key order.
type Node struct {
	Class      string         `json:"class"`
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

// ShortID returns the display prefix of the node id.
func (n Node) ShortID() string {
	return shortID(n.ID)
}

// Edge links two nodes through an object property.
type Edge struct {
	From string `json:"from"`
	ID   string `json:"id"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// Graph is the persisted node and edge store.
type Graph struct {
	Edges []Edge `json:"edges"`
	Nodes []Node `json:"nodes"`
}

// MergeStats reports what Merge added and skipped.
type MergeStats struct {
	NodesAdded   int
	NodesSkipped int
	EdgesAdded   int
	EdgesSkipped int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		Edges: make([]Edge, 0),
		Nodes: make([]Node, 0),
	}
}

// NewID returns a random identifier: a v4 UUID without dashes.
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// Parse decodes a graph document. Missing sections decode as empty.
func Parse(data []byte) (*Graph, error) {
	g := New()
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("parse graph: %w", err)
	}
	g.normalize()
	return g, nil
}

// Load reads a graph file. A missing file yields an empty graph.
func Load(path string) (*Graph, error) {
	data, err := storage.ReadFile(path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return New(), nil
		}
		return nil, err
	}
	return Parse(data)
}

// Encode renders the graph with 2-space indentation, sorted keys and a
// trailing newline.
func (g *Graph) Encode() ([]byte, error) {
	g.normalize()

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return nil, fmt.Errorf("encode graph: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the graph atomically, creating parent directories.
func (g *Graph) Save(path string) error {
	data, err := g.Encode()
	if err != nil {
		return err
	}
	if err := storage.WriteAtomic(path, data); err != nil {
		return fmt.Errorf("save graph: %w", err)
	}
	return nil
}

// Merge appends the nodes and edges of other whose ids are not yet present.
// Existing records are never replaced.
func (g *Graph) Merge(other *Graph) MergeStats {
	var stats MergeStats
	if other == nil {
		return stats
	}

	nodeIDs := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		nodeIDs[n.ID] = true
	}
	for _, n := range other.Nodes {
		if nodeIDs[n.ID] {
			stats.NodesSkipped++
			continue
		}
		if n.Properties == nil {
			n.Properties = make(map[string]any)
		}
		g.Nodes = append(g.Nodes, n)
		nodeIDs[n.ID] = true
		stats.NodesAdded++
	}

	edgeIDs := make(map[string]bool, len(g.Edges))
	for _, e := range g.Edges {
		edgeIDs[e.ID] = true
	}
	for _, e := range other.Edges {
		if edgeIDs[e.ID] {
			stats.EdgesSkipped++
			continue
		}
		g.Edges = append(g.Edges, e)
		edgeIDs[e.ID] = true
		stats.EdgesAdded++
	}

	return stats
}

// Update loads the graph at path, applies fn and saves the result, all
// while holding the store's file lock. Nothing is saved when fn fails.
func Update(ctx context.Context, path string, fn func(g *Graph) error) error {
	return storage.WithLock(ctx, path, func() error {
		g, err := Load(path)
		if err != nil {
			return err
		}
		if err := fn(g); err != nil {
			return err
		}
		return g.Save(path)
	})
}

// AddNode appends a node.
func (g *Graph) AddNode(n Node) {
	g.Nodes = append(g.Nodes, n)
}

// AddEdge appends an edge.
func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

// Node resolves a reference to a node. The reference is either a full id or
// a prefix of exactly one id.
func (g *Graph) Node(ref string) (Node, error) {
	if ref == "" {
		return Node{}, fmt.Errorf("%w: empty reference", ErrNodeNotFound)
	}

	var matches []Node
	for _, n := range g.Nodes {
		if n.ID == ref {
			return n, nil
		}
		if strings.HasPrefix(n.ID, ref) {
			matches = append(matches, n)
		}
	}

	switch len(matches) {
	case 0:
		return Node{}, fmt.Errorf("%w: %s", ErrNodeNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return Node{}, fmt.Errorf("%w: %s matches %d nodes", ErrAmbiguousNode, ref, len(matches))
	}
}

// NodesByClass groups nodes by class, preserving insertion order within
// each group.
func (g *Graph) NodesByClass() map[string][]Node {
	grouped := make(map[string][]Node)
	for _, n := range g.Nodes {
		grouped[n.Class] = append(grouped[n.Class], n)
	}
	return grouped
}

// Classes returns the sorted classes that have at least one node.
func (g *Graph) Classes() []string {
	return sortedKeys(g.NodesByClass())
}

// Candidates returns the nodes whose class lies in the range of an object
// property.
func (g *Graph) Candidates(prop export.ManifestProperty) []Node {
	out := make([]Node, 0)
	for _, n := range g.Nodes {
		if slices.Contains(prop.Range, n.Class) {
			out = append(out, n)
		}
	}
	return out
}

// Validate checks every node and edge against the manifest and joins all
// problems found.
func (g *Graph) Validate(manifest *export.ManifestDocument) error {
	var errs []error
	byID := make(map[string]Node, len(g.Nodes))

	for _, n := range g.Nodes {
		byID[n.ID] = n
		if !manifest.HasClass(n.Class) {
			errs = append(errs, fmt.Errorf("node %s: %w: %s", n.ShortID(), ErrUnknownClass, n.Class))
			continue
		}
		for _, key := range sortedKeys(n.Properties) {
			if _, err := datatypeProperty(manifest, n.Class, key); err != nil {
				errs = append(errs, fmt.Errorf("node %s: %w", n.ShortID(), err))
			}
		}
	}

	for _, e := range g.Edges {
		from, okFrom := byID[e.From]
		to, okTo := byID[e.To]
		if !okFrom || !okTo {
			errs = append(errs, fmt.Errorf("edge %s: %w", shortID(e.ID), ErrNodeNotFound))
			continue
		}
		if _, err := objectProperty(manifest, from.Class, to.Class, e.Type); err != nil {
			errs = append(errs, fmt.Errorf("edge %s: %w", shortID(e.ID), err))
		}
	}

	return errors.Join(errs...)
}

// NewNode creates a node of class with the given datatype property values.
// Empty values are dropped. Every key must name a datatype property that
// applies to the class.
func NewNode(manifest *export.ManifestDocument, class string, values map[string]string) (Node, error) {
	if !manifest.HasClass(class) {
		return Node{}, fmt.Errorf("%w: %s", ErrUnknownClass, class)
	}

	props := make(map[string]any, len(values))
	for _, key := range sortedKeys(values) {
		if _, err := datatypeProperty(manifest, class, key); err != nil {
			return Node{}, err
		}
		if values[key] == "" {
			continue
		}
		props[key] = values[key]
	}

	return Node{
		Class:      class,
		ID:         NewID(),
		Properties: props,
	}, nil
}

// NewEdge creates an edge of the named object property between two nodes.
func NewEdge(manifest *export.ManifestDocument, from, to Node, property string) (Edge, error) {
	if _, err := objectProperty(manifest, from.Class, to.Class, property); err != nil {
		return Edge{}, err
	}
	return Edge{
		From: from.ID,
		ID:   NewID(),
		To:   to.ID,
		Type: property,
	}, nil
}

// Label returns a display label for a node: the first non-empty of its
// name, fullName, handle or title values, else its short id.
func Label(n Node) string {
	for _, key := range labelKeys {
		v, ok := n.Properties[key]
		if !ok || v == nil {
			continue
		}
		if s := fmt.Sprint(v); s != "" {
			return s
		}
	}
	return n.ShortID()
}

func datatypeProperty(manifest *export.ManifestDocument, class, name string) (export.ManifestProperty, error) {
	prop, ok := manifest.Property(ontology.KindDatatype, name)
	if !ok {
		return prop, fmt.Errorf("%w: datatype property %s", ErrUnknownProperty, name)
	}
	if !prop.AppliesTo(class) {
		return prop, fmt.Errorf("%w: %s is not defined for %s", ErrPropertyMismatch, name, class)
	}
	return prop, nil
}

func objectProperty(manifest *export.ManifestDocument, fromClass, toClass, name string) (export.ManifestProperty, error) {
	prop, ok := manifest.Property(ontology.KindObject, name)
	if !ok {
		return prop, fmt.Errorf("%w: object property %s", ErrUnknownProperty, name)
	}
	if !prop.AppliesTo(fromClass) {
		return prop, fmt.Errorf("%w: %s is not defined for %s", ErrPropertyMismatch, name, fromClass)
	}
	if !slices.Contains(prop.Range, toClass) {
		return prop, fmt.Errorf("%w: %s does not range over %s", ErrPropertyMismatch, name, toClass)
	}
	return prop, nil
}

func (g *Graph) normalize() {
	if g.Edges == nil {
		g.Edges = make([]Edge, 0)
	}
	if g.Nodes == nil {
		g.Nodes = make([]Node, 0)
	}
	for i := range g.Nodes {
		if g.Nodes[i].Properties == nil {
			g.Nodes[i].Properties = make(map[string]any)
		}
	}
}

func shortID(id string) string {
	if len(id) <= ShortIDLength {
		return id
	}
	return id[:ShortIDLength]
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
