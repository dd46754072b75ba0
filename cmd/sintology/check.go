package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/c360studio/sintology/compiler"
	"github.com/c360studio/sintology/erd"
)

// defaultCheckPattern matches every markdown document below the working
// directory.
const defaultCheckPattern = "**/*.md"

// excludedDirs are never searched for documents.
var excludedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
}

// docStatus is the outcome of checking one document.
type docStatus string

const (
	statusOK       docStatus = "ok"
	statusSkipped  docStatus = "skipped lines"
	statusNoSchema docStatus = "no schema"
	statusError    docStatus = "error"
)

// docReport is the check result of one document.
type docReport struct {
	Path   string
	Status docStatus
	Stats  compiler.Stats
	Err    error
}

func checkCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [pattern]",
		Short: "Validate the ERD blocks of markdown documents",
		Long: `Check compiles every document matching the glob pattern (default
"**/*.md") without writing anything, and reports what each one declares.
Documents without a mermaid block are reported but only fail with --strict.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}

			pattern := defaultCheckPattern
			if len(args) == 1 {
				pattern = args[0]
			}

			reports, err := checkDocuments(pattern, a.compilerOptions())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderReports(reports))

			failed := countFailures(reports, strict)
			if failed > 0 {
				return fmt.Errorf("%d of %d documents failed", failed, len(reports))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on documents without a mermaid block")
	return cmd
}

// checkDocuments compiles every regular file matching pattern.
func checkDocuments(pattern string, opts compiler.Options) ([]docReport, error) {
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob error: %w", err)
	}
	sort.Strings(matches)

	reports := make([]docReport, 0, len(matches))
	for _, path := range matches {
		if isExcluded(path) {
			continue
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		reports = append(reports, checkDocument(path, opts))
	}

	if len(reports) == 0 {
		return nil, fmt.Errorf("no documents match pattern: %s", pattern)
	}
	return reports, nil
}

func checkDocument(path string, opts compiler.Options) docReport {
	report := docReport{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Status = statusError
		report.Err = err
		return report
	}

	art, err := compiler.Compile(data, opts)
	switch {
	case errors.Is(err, erd.ErrMissingSchemaBlock):
		report.Status = statusNoSchema
	case err != nil:
		report.Status = statusError
		report.Err = err
	case art.Stats.SkippedLines > 0:
		report.Status = statusSkipped
		report.Stats = art.Stats
	default:
		report.Status = statusOK
		report.Stats = art.Stats
	}
	return report
}

func isExcluded(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if excludedDirs[part] {
			return true
		}
	}
	return false
}

func countFailures(reports []docReport, strict bool) int {
	failed := 0
	for _, r := range reports {
		if r.Status == statusError || (strict && r.Status == statusNoSchema) {
			failed++
		}
	}
	return failed
}

// renderReports renders the reports as a table.
func renderReports(reports []docReport) string {
	t := newTable("Document", "Status", "Classes", "Datatype", "Object", "Skipped")
	for _, r := range reports {
		row := []string{r.Path, renderStatus(r), "-", "-", "-", "-"}
		if r.Status == statusOK || r.Status == statusSkipped {
			row[2] = strconv.Itoa(r.Stats.Classes)
			row[3] = strconv.Itoa(r.Stats.DatatypeProperties)
			row[4] = strconv.Itoa(r.Stats.ObjectProperties)
			row[5] = strconv.Itoa(r.Stats.SkippedLines)
		}
		t.Row(row...)
	}
	return t.String()
}

func renderStatus(r docReport) string {
	switch r.Status {
	case statusOK:
		return successStyle.Render(string(r.Status))
	case statusSkipped, statusNoSchema:
		return warningStyle.Render(string(r.Status))
	default:
		return failureStyle.Render(fmt.Sprintf("%s: %v", r.Status, r.Err))
	}
}
