package erd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBlock(t *testing.T) {
	doc := "# Model\n\nSome prose.\n\n```mermaid\nerDiagram\n  PERSON {\n    string name\n  }\n```\n\nTrailing text.\n"

	lines, err := ExtractBlock(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"erDiagram", "  PERSON {", "    string name", "  }"}, lines)
}

func TestExtractBlock_OnlyFirstBlock(t *testing.T) {
	doc := "```mermaid\nA {\n}\n```\n```mermaid\nB {\n}\n```\n"

	lines, err := ExtractBlock(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"A {", "}"}, lines)
}

func TestExtractBlock_IgnoresOtherFences(t *testing.T) {
	doc := "```go\nfunc main() {}\n```\n\n```mermaid\nX {\n}\n```\n"

	lines, err := ExtractBlock(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"X {", "}"}, lines)
}

func TestExtractBlock_WindowsLineEndings(t *testing.T) {
	doc := "intro\r\n```mermaid\r\nPERSON {\r\n  string name\r\n}\r\n```\r\n"

	lines, err := ExtractBlock(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"PERSON {", "  string name", "}"}, lines)
}

func TestExtractBlock_IndentedFences(t *testing.T) {
	doc := "  ```mermaid  \nA {\n}\n   ```\n"

	lines, err := ExtractBlock(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"A {", "}"}, lines)
}

func TestExtractBlock_EmptyBlock(t *testing.T) {
	lines, err := ExtractBlock("```mermaid\n```\n")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestExtractBlock_Missing(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty document", ""},
		{"no fences", "# Title\n\nNo diagram here.\n"},
		{"unclosed block", "```mermaid\nPERSON {\n}\n"},
		{"close without open", "text\n```\n"},
		{"language tag differs", "```mermaidjs\nA {\n}\n```\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := ExtractBlock(tt.doc)
			assert.ErrorIs(t, err, ErrMissingSchemaBlock)
			assert.Nil(t, lines)
		})
	}
}
