package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/c360studio/sintology/export"
	"github.com/c360studio/sintology/graph"
	"github.com/c360studio/sintology/ontology"
	"github.com/c360studio/sintology/vocabulary/owl"
)

// Menu choices of the interactive session.
const (
	menuCreate = "create"
	menuLink   = "link"
	menuList   = "list"
	menuExit   = "exit"
)

// session is an interactive ingestion session over the graph store at path.
// The store is only locked while a change is applied, so other commands can
// write between prompts.
type session struct {
	ctx      context.Context
	manifest *export.ManifestDocument
	path     string
	out      io.Writer

	// graph is the latest snapshot read from or written to the store
	graph *graph.Graph
}

// refresh reloads the snapshot from the store.
func (s *session) refresh() error {
	g, err := graph.Load(s.path)
	if err != nil {
		return err
	}
	s.graph = g
	return nil
}

// commit applies fn to the current store contents under the store lock and
// keeps the saved graph as the new snapshot.
func (s *session) commit(fn func(*graph.Graph)) error {
	return graph.Update(s.ctx, s.path, func(g *graph.Graph) error {
		fn(g)
		s.graph = g
		return nil
	})
}

// run shows the menu until the user exits or aborts.
func (s *session) run() error {
	menu := []huh.Option[string]{
		huh.NewOption("Create entity", menuCreate),
		huh.NewOption("Link entities", menuLink),
		huh.NewOption("List entities", menuList),
		huh.NewOption("Exit", menuExit),
	}

	for {
		if err := s.refresh(); err != nil {
			return err
		}
		choice, err := choose("Ingestion menu", menu)
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		switch choice {
		case menuCreate:
			err = s.createEntity()
		case menuLink:
			err = s.linkEntities()
		case menuList:
			fmt.Fprint(s.out, renderNodeList(s.graph))
		case menuExit:
			return nil
		}

		// Aborting a sub-form returns to the menu
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
	}
}

func (s *session) createEntity() error {
	classes := s.manifest.ClassNames()
	if len(classes) == 0 {
		fmt.Fprintln(s.out, "The ontology declares no classes.")
		return nil
	}

	class, err := choose("Choose a class", huh.NewOptions(classes...))
	if err != nil {
		return err
	}

	props := s.manifest.PropertiesFor(class, ontology.KindDatatype)
	inputs := make([]string, len(props))
	if len(props) > 0 {
		fields := make([]huh.Field, len(props))
		for i, p := range props {
			fields[i] = huh.NewInput().
				Title(p.Name).
				Description(rangeHint(p) + " (leave blank to skip)").
				Value(&inputs[i])
		}
		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return err
		}
	}

	values := make(map[string]string, len(props))
	for i, p := range props {
		values[p.Name] = strings.TrimSpace(inputs[i])
	}

	node, err := graph.NewNode(s.manifest, class, values)
	if err != nil {
		return err
	}
	if err := s.commit(func(g *graph.Graph) { g.AddNode(node) }); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s %s %s\n", successStyle.Render("Created"), class, graph.Label(node))

	if len(s.manifest.PropertiesFor(class, ontology.KindObject)) == 0 {
		return nil
	}

	var addNow bool
	confirm := huh.NewConfirm().
		Title("Add relationships now?").
		Value(&addNow)
	if err := huh.NewForm(huh.NewGroup(confirm)).Run(); err != nil {
		return err
	}
	if !addNow {
		return nil
	}
	return s.addRelationships(node)
}

func (s *session) linkEntities() error {
	if len(s.graph.Nodes) == 0 {
		fmt.Fprintln(s.out, "No entities yet. Create one first.")
		return nil
	}

	id, err := choose("Select source entity", nodeOptions(s.graph.Nodes))
	if err != nil {
		return err
	}
	source, err := s.graph.Node(id)
	if err != nil {
		return err
	}
	return s.addRelationships(source)
}

// addRelationships links source to existing nodes until the user is done.
func (s *session) addRelationships(source graph.Node) error {
	props := s.manifest.PropertiesFor(source.Class, ontology.KindObject)
	if len(props) == 0 {
		fmt.Fprintln(s.out, "No object properties available for this class.")
		return nil
	}

	options := make([]huh.Option[string], 0, len(props)+1)
	for _, p := range props {
		options = append(options, huh.NewOption(p.Name+" "+rangeHint(p), p.Name))
	}
	options = append(options, huh.NewOption("Done", ""))

	for {
		name, err := choose("Select relationship type", options)
		if err != nil || name == "" {
			return err
		}
		prop, _ := s.manifest.Property(ontology.KindObject, name)

		if err := s.refresh(); err != nil {
			return err
		}
		candidates := s.graph.Candidates(prop)
		if len(candidates) == 0 {
			fmt.Fprintln(s.out, "No matching nodes found.")
			continue
		}

		targetOptions := append(nodeOptions(candidates), huh.NewOption("Skip", ""))
		id, err := choose("Select target", targetOptions)
		if err != nil {
			return err
		}
		if id == "" {
			continue
		}
		target, err := s.graph.Node(id)
		if err != nil {
			return err
		}

		edge, err := graph.NewEdge(s.manifest, source, target, name)
		if err != nil {
			return err
		}
		if err := s.commit(func(g *graph.Graph) { g.AddEdge(edge) }); err != nil {
			return err
		}
		fmt.Fprintf(s.out, "%s %s\n", successStyle.Render("Linked"), describeLink(source, name, target))
	}
}

// choose runs a single-select form.
func choose(title string, options []huh.Option[string]) (string, error) {
	var value string
	field := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&value)
	err := huh.NewForm(huh.NewGroup(field)).Run()
	return value, err
}

// nodeOptions lists nodes as select options keyed by id.
func nodeOptions(nodes []graph.Node) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(nodes))
	for _, n := range nodes {
		options = append(options, huh.NewOption(nodeOptionLabel(n), n.ID))
	}
	return options
}

// rangeHint renders a property's range for prompts.
func rangeHint(p export.ManifestProperty) string {
	if len(p.Range) == 0 {
		return "[" + owl.XSDString + "]"
	}
	return "[" + strings.Join(p.Range, ", ") + "]"
}
