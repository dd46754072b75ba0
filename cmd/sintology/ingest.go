package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/sintology/graph"
	"github.com/c360studio/sintology/storage"
)

func ingestCmd(a *app) *cobra.Command {
	var (
		loadPath       string
		nonInteractive bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load and interactively record instance data",
		Long: `Ingest merges a nodes/edges file into the graph store (--load) and then
opens an interactive menu to create entities, link them and list them.
Records whose id already exists are kept unchanged.`,
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

			dataPath := a.cfg.Paths.Data
			if loadPath != "" {
				data, err := storage.ReadFile(loadPath)
				if err != nil {
					return err
				}
				incoming, err := graph.Parse(data)
				if err != nil {
					return fmt.Errorf("load %s: %w", loadPath, err)
				}
				if err := incoming.Validate(manifest); err != nil {
					a.logger.Warn("Loaded data does not match the ontology", "path", loadPath, "error", err)
				}

				var stats graph.MergeStats
				err = graph.Update(ctx, dataPath, func(g *graph.Graph) error {
					stats = g.Merge(incoming)
					return nil
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d nodes and %d edges (%d nodes and %d edges already present)\n",
					successStyle.Render("Loaded"), stats.NodesAdded, stats.EdgesAdded, stats.NodesSkipped, stats.EdgesSkipped)
			}

			if nonInteractive {
				return nil
			}
			if !stdinIsTerminal() {
				a.logger.Info("stdin is not a terminal, skipping interactive session")
				return nil
			}

			s := &session{
				ctx:      ctx,
				manifest: manifest,
				path:     dataPath,
				out:      cmd.OutOrStdout(),
			}
			return s.run()
		},
	}

	addDataFlags(cmd)
	cmd.Flags().StringVar(&loadPath, "load", "", "Load nodes/edges from a JSON file into the graph store")
	cmd.Flags().BoolVar(&nonInteractive, "non-interactive", false, "Exit after loading data (skip interactive prompts)")
	return cmd
}
