// Package compiler wires extraction, parsing, model building and emission
// into a single compile step, and runs it against the filesystem.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/c360studio/sintology/erd"
	"github.com/c360studio/sintology/export"
	"github.com/c360studio/sintology/ontology"
	"github.com/c360studio/sintology/storage"
)

// ErrInputNotFound is returned by Run when the input document is missing.
var ErrInputNotFound = errors.New("input document not found")

// Options configures a compile.
type Options struct {
	// Namespace is bound to the empty prefix. Empty uses the default.
	Namespace string

	// NTriples also renders the N-Triples projection.
	NTriples bool

	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Stats describes what a compile found and produced.
type Stats struct {
	ontology.Stats
	Entities      int `json:"entities"`
	Relationships int `json:"relationships"`
	SkippedLines  int `json:"skipped_lines"`
}

// Artifacts holds the rendered outputs of one compile.
type Artifacts struct {
	Turtle   []byte
	JSON     []byte
	NTriples []byte // nil unless Options.NTriples

	Model *ontology.Model
	Stats Stats
}

// Compile turns a markdown document into its rendered artifacts. It has no
// side effects besides logging.
func Compile(doc []byte, opts Options) (*Artifacts, error) {
	lines, err := erd.ExtractBlock(string(doc))
	if err != nil {
		return nil, err
	}

	diagram := erd.NewParser(opts.logger()).Parse(lines)
	model := ontology.Build(diagram)

	rdfOpts := []export.Option{export.WithNamespace(opts.Namespace)}

	manifest, err := export.ManifestJSON(model)
	if err != nil {
		return nil, err
	}

	art := &Artifacts{
		Turtle: []byte(export.Turtle(model, rdfOpts...)),
		JSON:   manifest,
		Model:  model,
		Stats: Stats{
			Stats:         model.Stats(),
			Entities:      len(diagram.Entities),
			Relationships: len(diagram.Relationships),
			SkippedLines:  diagram.Skipped,
		},
	}
	if opts.NTriples {
		art.NTriples = []byte(export.NTriples(model, rdfOpts...))
	}
	return art, nil
}

// Paths locates the input document and the outputs of Run.
type Paths struct {
	Input    string
	Turtle   string
	JSON     string
	NTriples string // empty skips the N-Triples output
}

type artifactFile struct {
	path string
	data []byte
}

// Result reports a completed Run.
type Result struct {
	Stats   Stats
	Written []string
}

// Run reads the input document, compiles it and writes every artifact.
// Nothing is written when the input is missing or holds no schema block.
func Run(ctx context.Context, paths Paths, opts Options) (*Result, error) {
	logger := opts.logger()

	doc, err := storage.ReadFile(paths.Input)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInputNotFound, paths.Input)
		}
		return nil, err
	}

	opts.NTriples = paths.NTriples != ""
	art, err := Compile(doc, opts)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", paths.Input, err)
	}

	outputs := []artifactFile{
		{paths.Turtle, art.Turtle},
		{paths.JSON, art.JSON},
	}
	if paths.NTriples != "" {
		outputs = append(outputs, artifactFile{paths.NTriples, art.NTriples})
	}

	// Cancellation is only honored before the first write
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Stats: art.Stats, Written: make([]string, 0, len(outputs))}
	for _, out := range outputs {
		if err := storage.WriteAtomic(out.path, out.data); err != nil {
			return result, fmt.Errorf("write %s: %w", out.path, err)
		}
		result.Written = append(result.Written, out.path)
	}

	logger.Info("Generated ontology",
		"input", paths.Input,
		"classes", art.Stats.Classes,
		"datatype_properties", art.Stats.DatatypeProperties,
		"object_properties", art.Stats.ObjectProperties,
		"skipped_lines", art.Stats.SkippedLines)

	return result, nil
}
