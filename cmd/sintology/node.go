package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/sintology/export"
	"github.com/c360studio/sintology/graph"
)

func nodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Create, link and list graph nodes",
	}
	cmd.AddCommand(nodeCreateCmd(a), nodeLinkCmd(a), nodeListCmd(a))
	return cmd
}

func nodeCreateCmd(a *app) *cobra.Command {
	var (
		class       string
		assignments []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a node of an ontology class",
		Example: `  sintology node create --class Person --set fullName="Ada Lovelace"
  sintology node create --class Organization --set name=Acme`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			manifest, err := loadManifest(a.cfg.Paths.JSON)
			if err != nil {
				return err
			}
			values, err := parseAssignments(assignments)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			var created graph.Node
			err = graph.Update(ctx, a.cfg.Paths.Data, func(g *graph.Graph) error {
				n, err := graph.NewNode(manifest, class, values)
				if err != nil {
					return err
				}
				g.AddNode(n)
				created = n
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s [%s]\n",
				successStyle.Render("Created"), created.Class, graph.Label(created), created.ShortID())
			return nil
		},
	}

	addDataFlags(cmd)
	cmd.Flags().StringVar(&class, "class", "", "Class of the new node")
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Datatype property value as key=value (repeatable)")
	_ = cmd.MarkFlagRequired("class")
	return cmd
}

func nodeLinkCmd(a *app) *cobra.Command {
	var from, to, property string

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Link two nodes through an object property",
		Long: `Link records an edge from one node to another. Nodes are referenced by
id or by an unambiguous id prefix, such as the short ids "node list" shows.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			manifest, err := loadManifest(a.cfg.Paths.JSON)
			if err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			var source, target graph.Node
			err = graph.Update(ctx, a.cfg.Paths.Data, func(g *graph.Graph) error {
				var err error
				if source, err = g.Node(from); err != nil {
					return err
				}
				if target, err = g.Node(to); err != nil {
					return err
				}
				e, err := graph.NewEdge(manifest, source, target, property)
				if err != nil {
					return err
				}
				g.AddEdge(e)
				return nil
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("Linked"), describeLink(source, property, target))
			return nil
		},
	}

	addDataFlags(cmd)
	cmd.Flags().StringVar(&from, "from", "", "Source node id or id prefix")
	cmd.Flags().StringVar(&to, "to", "", "Target node id or id prefix")
	cmd.Flags().StringVar(&property, "property", "", "Object property name")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("property")
	return cmd
}

func nodeListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List nodes grouped by class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			g, err := graph.Load(a.cfg.Paths.Data)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderNodeList(g))
			return nil
		},
	}

	addDataFlags(cmd)
	return cmd
}

// loadManifest reads the ontology manifest the graph commands validate against.
func loadManifest(path string) (*export.ManifestDocument, error) {
	manifest, err := export.ReadManifest(path)
	if errors.Is(err, export.ErrManifestNotFound) {
		return nil, fmt.Errorf("%w (run %s to generate it)", err, appName)
	}
	return manifest, err
}

// parseAssignments parses key=value pairs. Later keys override earlier ones.
func parseAssignments(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value", pair)
		}
		values[key] = strings.TrimSpace(value)
	}
	return values, nil
}

// renderNodeList lists nodes grouped by sorted class.
func renderNodeList(g *graph.Graph) string {
	grouped := g.NodesByClass()
	if len(grouped) == 0 {
		return "No entities in the graph yet.\n"
	}

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Entities") + "\n")
	for _, class := range g.Classes() {
		nodes := grouped[class]
		fmt.Fprintf(&sb, "- %s (%d)\n", class, len(nodes))
		for _, n := range nodes {
			fmt.Fprintf(&sb, "  - %s %s\n", graph.Label(n), hintStyle.Render("["+n.ShortID()+"]"))
		}
	}
	return sb.String()
}

func describeLink(source graph.Node, property string, target graph.Node) string {
	return fmt.Sprintf("%s -> %s -> %s", graph.Label(source), property, graph.Label(target))
}

// nodeOptionLabel describes a node in selection lists.
func nodeOptionLabel(n graph.Node) string {
	return fmt.Sprintf("%s (%s, %s)", graph.Label(n), n.Class, n.ShortID())
}
