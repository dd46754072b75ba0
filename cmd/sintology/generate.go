package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/sintology/compiler"
	"github.com/c360studio/sintology/config"
)

// generate compiles the configured document once.
func (a *app) generate(cmd *cobra.Command) error {
	ctx, cancel := signalContext(cmd)
	defer cancel()

	result, err := compiler.Run(ctx, a.compilerPaths(), a.compilerOptions())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("Generated"), strings.Join(result.Written, ", "))
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", describeStats(result.Stats))
	return nil
}

// describeStats summarizes compile statistics on one line.
func describeStats(s compiler.Stats) string {
	line := fmt.Sprintf("%d classes, %d datatype properties, %d object properties",
		s.Classes, s.DatatypeProperties, s.ObjectProperties)
	if s.SkippedLines > 0 {
		line += fmt.Sprintf(" (%d unrecognized lines skipped)", s.SkippedLines)
	}
	return line
}

func initCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default " + config.ProjectConfigFile + " in the current directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(cmd, a.logLevel)

			path, created, err := config.NewLoader(a.logger).EnsureProjectConfig()
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("Created"), path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s already exists\n", hintStyle.Render("Kept"), path)
			}
			return nil
		},
	}
}
