package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/c360studio/sintology/compiler"
	"github.com/c360studio/sintology/watch"
)

func watchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the ontology whenever the ERD document changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}

			ctx, cancel := signalContext(cmd)
			defer cancel()

			w, err := watch.New(watch.Config{Debounce: a.cfg.Watch.Debounce}, a.cfg.Paths.ERD, a.logger)
			if err != nil {
				return err
			}
			defer w.Close()

			paths, opts := a.compilerPaths(), a.compilerOptions()
			err = w.Run(ctx, func(ctx context.Context) error {
				_, err := compiler.Run(ctx, paths, opts)
				return err
			})

			a.logger.Info("Watcher stopped",
				"regenerations", w.Regenerations(),
				"failures", w.Failures())
			return err
		},
	}

	addOutputFlags(cmd)
	cmd.Flags().Duration(flagDebounce, watch.DefaultDebounce, "Wait this long for further changes before regenerating")
	return cmd
}
