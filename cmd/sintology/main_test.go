package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/sintology/compiler"
	"github.com/c360studio/sintology/erd"
	"github.com/c360studio/sintology/export"
	"github.com/c360studio/sintology/graph"
)

const exampleDocument = "# Directory\n\n```mermaid\nerDiagram\n  PERSON {\n    string person_id\n    string full_name\n  }\n  ORGANIZATION {\n    string name\n  }\n  PERSON }o--|| ORGANIZATION : works_for\n```\n"

// execute runs the CLI with args and returns what it printed on stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := rootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

type workspace struct {
	dir      string
	erd      string
	turtle   string
	manifest string
	data     string
}

func newWorkspace(t *testing.T) workspace {
	t.Helper()
	dir := t.TempDir()
	ws := workspace{
		dir:      dir,
		erd:      filepath.Join(dir, "erd", "erd.md"),
		turtle:   filepath.Join(dir, "ontology", "sintology.ttl"),
		manifest: filepath.Join(dir, "ontology", "ontology.json"),
		data:     filepath.Join(dir, "data", "graph.json"),
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(ws.erd), 0755))
	require.NoError(t, os.WriteFile(ws.erd, []byte(exampleDocument), 0644))
	return ws
}

func (ws workspace) generate(t *testing.T) {
	t.Helper()
	_, err := execute(t, "--erd", ws.erd, "--out", ws.turtle, "--json", ws.manifest)
	require.NoError(t, err)
}

func (ws workspace) dataFlags(args ...string) []string {
	return append(args, "--ontology", ws.manifest, "--data", ws.data)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sintology version "+Version+" (build: "+BuildTime+")\n", out)
}

func TestGenerate(t *testing.T) {
	ws := newWorkspace(t)
	nt := filepath.Join(ws.dir, "ontology", "sintology.nt")

	out, err := execute(t, "--erd", ws.erd, "--out", ws.turtle, "--json", ws.manifest, "--ntriples", nt)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated")
	assert.Contains(t, out, "2 classes, 2 datatype properties, 1 object properties")
	assert.Contains(t, out, "1 unrecognized lines skipped")

	ttl, err := os.ReadFile(ws.turtle)
	require.NoError(t, err)
	assert.Contains(t, string(ttl), ":worksForOrganization a owl:ObjectProperty ;\n  rdfs:domain :Person ;\n  rdfs:range :Organization .\n")

	manifest, err := export.ReadManifest(ws.manifest)
	require.NoError(t, err)
	assert.Equal(t, []string{"Organization", "Person"}, manifest.ClassNames())

	_, err = os.Stat(nt)
	assert.NoError(t, err)
}

func TestGenerate_Namespace(t *testing.T) {
	ws := newWorkspace(t)

	_, err := execute(t, "--erd", ws.erd, "--out", ws.turtle, "--json", ws.manifest, "--namespace", "https://acme.test/hr#")
	require.NoError(t, err)

	ttl, err := os.ReadFile(ws.turtle)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(ttl), "@prefix : <https://acme.test/hr#> .\n"))

	_, err = execute(t, "--erd", ws.erd, "--namespace", "no-separator")
	assert.Error(t, err, "namespace is validated")
}

func TestGenerate_Errors(t *testing.T) {
	ws := newWorkspace(t)

	_, err := execute(t, "--erd", filepath.Join(ws.dir, "missing.md"), "--out", ws.turtle, "--json", ws.manifest)
	assert.ErrorIs(t, err, compiler.ErrInputNotFound)

	noBlock := filepath.Join(ws.dir, "prose.md")
	require.NoError(t, os.WriteFile(noBlock, []byte("# Just prose\n"), 0644))
	_, err = execute(t, "--erd", noBlock, "--out", ws.turtle, "--json", ws.manifest)
	assert.ErrorIs(t, err, erd.ErrMissingSchemaBlock)

	_, statErr := os.Stat(filepath.Join(ws.dir, "ontology"))
	assert.True(t, os.IsNotExist(statErr), "nothing is written on failure")

	_, err = execute(t, "unexpected-arg")
	assert.Error(t, err)
}

func TestGenerate_ConfigFile(t *testing.T) {
	ws := newWorkspace(t)
	cfgPath := filepath.Join(ws.dir, "custom.yaml")
	custom := filepath.Join(ws.dir, "custom.ttl")
	content := "paths:\n" +
		"  erd: " + ws.erd + "\n" +
		"  turtle: " + custom + "\n" +
		"  json: " + ws.manifest + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0644))

	_, err := execute(t, "--config", cfgPath)
	require.NoError(t, err)
	_, err = os.Stat(custom)
	assert.NoError(t, err, "config paths are used")

	// Flags override the config file
	_, err = execute(t, "--config", cfgPath, "--out", ws.turtle)
	require.NoError(t, err)
	_, err = os.Stat(ws.turtle)
	assert.NoError(t, err)

	_, err = execute(t, "--config", filepath.Join(ws.dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	out, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created")

	_, err = os.Stat(filepath.Join(dir, "sintology.yaml"))
	require.NoError(t, err)

	out, err = execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	docs := map[string]string{
		"model.md":          exampleDocument,
		"clean.md":          "```mermaid\n  TEAM {\n    string title\n  }\n```\n",
		"notes/prose.md":    "# No diagram\n",
		"notes/partial.md":  "```mermaid\nerDiagram\n  A {\n    string name\n  }\n  not a line\n```\n",
		"vendor/ignored.md": "# Vendored\n",
	}
	for name, content := range docs {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	pattern := filepath.Join(dir, "**", "*.md")

	out, err := execute(t, "check", pattern)
	require.NoError(t, err)
	assert.Contains(t, out, "model.md")
	assert.Contains(t, out, string(statusOK))
	assert.Contains(t, out, string(statusNoSchema))
	assert.Contains(t, out, string(statusSkipped))
	assert.NotContains(t, out, "ignored.md")

	_, err = execute(t, "check", "--strict", pattern)
	assert.Error(t, err)

	_, err = execute(t, "check", filepath.Join(dir, "**", "*.txt"))
	assert.Error(t, err)
}

func TestCheckDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.md")
	require.NoError(t, os.WriteFile(path, []byte(exampleDocument), 0644))

	r := checkDocument(path, compiler.Options{})
	assert.Equal(t, statusSkipped, r.Status, "the erDiagram line is counted as skipped")
	assert.Equal(t, 2, r.Stats.Classes)

	r = checkDocument(filepath.Join(dir, "missing.md"), compiler.Options{})
	assert.Equal(t, statusError, r.Status)
	assert.Error(t, r.Err)

	assert.Equal(t, 1, countFailures([]docReport{{Status: statusError}, {Status: statusNoSchema}}, false))
	assert.Equal(t, 2, countFailures([]docReport{{Status: statusError}, {Status: statusNoSchema}}, true))
	assert.True(t, isExcluded(filepath.Join("a", "node_modules", "b.md")))
	assert.False(t, isExcluded(filepath.Join("a", "docs", "b.md")))
}

func TestNodeWorkflow(t *testing.T) {
	ws := newWorkspace(t)
	ws.generate(t)

	out, err := execute(t, ws.dataFlags("node", "create", "--class", "Person", "--set", "fullName=Ada Lovelace")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Created Person Ada Lovelace")

	_, err = execute(t, ws.dataFlags("node", "create", "--class", "Organization", "--set", "name=Acme")...)
	require.NoError(t, err)

	g, err := graph.Load(ws.data)
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	ada, acme := g.Nodes[0], g.Nodes[1]

	out, err = execute(t, ws.dataFlags("node", "link",
		"--from", ada.ShortID(), "--to", acme.ID, "--property", "worksForOrganization")...)
	require.NoError(t, err)
	assert.Contains(t, out, "Ada Lovelace -> worksForOrganization -> Acme")

	out, err = execute(t, ws.dataFlags("node", "list")...)
	require.NoError(t, err)
	assert.Contains(t, out, "- Organization (1)")
	assert.Contains(t, out, "- Person (1)")
	assert.Contains(t, out, "Ada Lovelace")
	assert.Less(t, strings.Index(out, "Organization"), strings.Index(out, "Person"))

	g, err = graph.Load(ws.data)
	require.NoError(t, err)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, ada.ID, g.Edges[0].From)
	assert.Equal(t, acme.ID, g.Edges[0].To)
}

func TestNodeErrors(t *testing.T) {
	ws := newWorkspace(t)

	_, err := execute(t, ws.dataFlags("node", "create", "--class", "Person")...)
	assert.ErrorIs(t, err, export.ErrManifestNotFound)

	ws.generate(t)

	_, err = execute(t, ws.dataFlags("node", "create", "--class", "Robot")...)
	assert.ErrorIs(t, err, graph.ErrUnknownClass)

	_, err = execute(t, ws.dataFlags("node", "create", "--class", "Person", "--set", "name=Ada")...)
	assert.ErrorIs(t, err, graph.ErrPropertyMismatch)

	_, err = execute(t, ws.dataFlags("node", "create", "--class", "Person", "--set", "broken")...)
	assert.Error(t, err)

	_, err = execute(t, ws.dataFlags("node", "create")...)
	assert.Error(t, err, "class is required")

	_, err = execute(t, ws.dataFlags("node", "link", "--from", "nope", "--to", "nope", "--property", "worksForOrganization")...)
	assert.ErrorIs(t, err, graph.ErrNodeNotFound)

	_, err = os.Stat(ws.data)
	assert.True(t, os.IsNotExist(err), "failed commands do not create the store")
}

func TestNodeList_Empty(t *testing.T) {
	ws := newWorkspace(t)

	out, err := execute(t, ws.dataFlags("node", "list")...)
	require.NoError(t, err)
	assert.Equal(t, "No entities in the graph yet.\n", out)
}

func TestIngest_Load(t *testing.T) {
	ws := newWorkspace(t)
	ws.generate(t)

	incoming := filepath.Join(ws.dir, "seed.json")
	seed := `{
  "nodes": [
    {"class": "Person", "id": "p1", "properties": {"fullName": "Ada"}},
    {"class": "Organization", "id": "o1", "properties": {"name": "Acme"}}
  ],
  "edges": [
    {"id": "e1", "type": "worksForOrganization", "from": "p1", "to": "o1"}
  ]
}`
	require.NoError(t, os.WriteFile(incoming, []byte(seed), 0644))

	out, err := execute(t, ws.dataFlags("ingest", "--load", incoming, "--non-interactive")...)
	require.NoError(t, err)
	assert.Contains(t, out, "2 nodes and 1 edges (0 nodes and 0 edges already present)")

	out, err = execute(t, ws.dataFlags("ingest", "--load", incoming, "--non-interactive")...)
	require.NoError(t, err)
	assert.Contains(t, out, "0 nodes and 0 edges (2 nodes and 1 edges already present)")

	g, err := graph.Load(ws.data)
	require.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	assert.Len(t, g.Edges, 1)
	assert.NoError(t, g.Validate(mustManifest(t, ws.manifest)))
}

func TestIngest_Errors(t *testing.T) {
	ws := newWorkspace(t)

	_, err := execute(t, ws.dataFlags("ingest", "--non-interactive")...)
	assert.ErrorIs(t, err, export.ErrManifestNotFound)

	ws.generate(t)

	_, err = execute(t, ws.dataFlags("ingest", "--load", filepath.Join(ws.dir, "missing.json"), "--non-interactive")...)
	assert.Error(t, err)

	broken := filepath.Join(ws.dir, "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte("{"), 0644))
	_, err = execute(t, ws.dataFlags("ingest", "--load", broken, "--non-interactive")...)
	assert.Error(t, err)
}

func mustManifest(t *testing.T, path string) *export.ManifestDocument {
	t.Helper()
	m, err := export.ReadManifest(path)
	require.NoError(t, err)
	return m
}
