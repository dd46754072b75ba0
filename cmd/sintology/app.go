package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/sintology/compiler"
	"github.com/c360studio/sintology/config"
)

// app carries the state shared by every command: global flags, the
// resolved configuration and the logger.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// Flag names mapped onto configuration keys.
const (
	flagERD       = "erd"
	flagOut       = "out"
	flagJSON      = "json"
	flagNTriples  = "ntriples"
	flagNamespace = "namespace"
	flagDebounce  = "debounce"
	flagOntology  = "ontology"
	flagData      = "data"
)

// addOutputFlags registers the generate flags. Defaults come from the
// configuration; the flag values only apply when set explicitly.
func addOutputFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	cmd.Flags().String(flagERD, defaults.Paths.ERD, "Path to the ERD markdown document")
	cmd.Flags().String(flagOut, defaults.Paths.Turtle, "Output Turtle path")
	cmd.Flags().String(flagJSON, defaults.Paths.JSON, "Output JSON manifest path")
	cmd.Flags().String(flagNTriples, defaults.Paths.NTriples, "Output N-Triples path (empty to skip)")
	cmd.Flags().String(flagNamespace, defaults.Ontology.Namespace, "Ontology namespace IRI")
}

// addDataFlags registers the graph store flags.
func addDataFlags(cmd *cobra.Command) {
	defaults := config.DefaultConfig()
	cmd.Flags().String(flagOntology, defaults.Paths.JSON, "Ontology JSON manifest path")
	cmd.Flags().String(flagData, defaults.Paths.Data, "Graph data path")
}

// setup configures logging and resolves the configuration: defaults, user
// and project files, the --config file, then explicitly set flags.
func (a *app) setup(cmd *cobra.Command) error {
	a.logger = newLogger(cmd, a.logLevel)
	slog.SetDefault(a.logger)

	cfg, err := config.NewLoader(a.logger).Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	a.cfg = cfg
	return nil
}

// newLogger builds a text logger on the command's error stream.
func newLogger(cmd *cobra.Command, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// applyFlags copies explicitly set flags into cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	stringFlags := map[string]*string{
		flagERD:       &cfg.Paths.ERD,
		flagOut:       &cfg.Paths.Turtle,
		flagJSON:      &cfg.Paths.JSON,
		flagNTriples:  &cfg.Paths.NTriples,
		flagNamespace: &cfg.Ontology.Namespace,
		flagOntology:  &cfg.Paths.JSON,
		flagData:      &cfg.Paths.Data,
	}
	for name, target := range stringFlags {
		if flags.Lookup(name) == nil || !flags.Changed(name) {
			continue
		}
		v, err := flags.GetString(name)
		if err != nil {
			return err
		}
		*target = v
	}

	if flags.Lookup(flagDebounce) != nil && flags.Changed(flagDebounce) {
		d, err := flags.GetDuration(flagDebounce)
		if err != nil {
			return err
		}
		cfg.Watch.Debounce = d
	}
	return nil
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

func (a *app) compilerPaths() compiler.Paths {
	return compiler.Paths{
		Input:    a.cfg.Paths.ERD,
		Turtle:   a.cfg.Paths.Turtle,
		JSON:     a.cfg.Paths.JSON,
		NTriples: a.cfg.Paths.NTriples,
	}
}

func (a *app) compilerOptions() compiler.Options {
	return compiler.Options{
		Namespace: a.cfg.Ontology.Namespace,
		Logger:    a.logger,
	}
}
