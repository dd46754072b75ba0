package erd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ExampleDiagram(t *testing.T) {
	lines := []string{
		"erDiagram",
		"PERSON {",
		"  string full_name",
		"  string person_id",
		"}",
		"ORGANIZATION {",
		"  string name",
		"}",
		"PERSON }o--o{ ORGANIZATION : works_for",
	}

	d := Parse(lines)

	require.Len(t, d.Entities, 2)
	assert.Equal(t, "PERSON", d.Entities[0].Name)
	assert.Equal(t, []Field{
		{Name: "full_name", Type: "string"},
		{Name: "person_id", Type: "string"},
	}, d.Entities[0].Fields)
	assert.Equal(t, "ORGANIZATION", d.Entities[1].Name)
	assert.Equal(t, []Field{{Name: "name", Type: "string"}}, d.Entities[1].Fields)

	require.Len(t, d.Relationships, 1)
	assert.Equal(t, Relationship{Left: "PERSON", Right: "ORGANIZATION", Label: "works_for"}, d.Relationships[0])

	// "erDiagram" matches nothing.
	assert.Equal(t, 1, d.Skipped)
}

func TestParse_FieldOrderPreserved(t *testing.T) {
	d := Parse([]string{
		"EVENT {",
		"  datetime starts_at",
		"  string title",
		"  date created",
		"}",
	})

	require.Len(t, d.Entities, 1)
	names := make([]string, 0, len(d.Entities[0].Fields))
	for _, f := range d.Entities[0].Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"starts_at", "title", "created"}, names)
}

func TestParse_BlankLinesIgnored(t *testing.T) {
	d := Parse([]string{
		"",
		"PERSON {",
		"",
		"   ",
		"  string name",
		"}",
		"",
	})

	require.Len(t, d.Entities, 1)
	assert.Len(t, d.Entities[0].Fields, 1)
	assert.Zero(t, d.Skipped)
}

func TestParse_UnrecognizedLinesSkipped(t *testing.T) {
	d := Parse([]string{
		"%% a mermaid comment",
		"PERSON {",
		"  string name PK",
		"  string email \"contact address\"",
		"  string nickname",
		"}",
		"lowercase_entity {",
		"}",
	})

	require.Len(t, d.Entities, 1)
	assert.Equal(t, []Field{{Name: "nickname", Type: "string"}}, d.Entities[0].Fields)
	// Comment, two malformed fields, lowercase entity header and its stray brace.
	assert.Equal(t, 5, d.Skipped)
}

func TestParse_RelationshipsOnlyOutsideBlocks(t *testing.T) {
	d := Parse([]string{
		"PERSON {",
		"  PERSON ||--o{ ORDER : places",
		"}",
		"PERSON ||--o{ ORDER : places",
	})

	require.Len(t, d.Relationships, 1)
	assert.Equal(t, "places", d.Relationships[0].Label)
	assert.Empty(t, d.Entities[0].Fields)
}

func TestParse_EntityHeaderInsideBlockIsSkipped(t *testing.T) {
	d := Parse([]string{
		"PERSON {",
		"  ADDRESS {",
		"  string street",
		"}",
	})

	require.Len(t, d.Entities, 1)
	assert.Equal(t, "PERSON", d.Entities[0].Name)
	assert.Equal(t, []Field{{Name: "street", Type: "string"}}, d.Entities[0].Fields)
	assert.Equal(t, 1, d.Skipped)
}

func TestParse_DuplicateEntitiesKeptSeparately(t *testing.T) {
	d := Parse([]string{
		"PERSON {",
		"  string name",
		"}",
		"PERSON {",
		"  date born",
		"}",
	})

	require.Len(t, d.Entities, 2)
	assert.Equal(t, "PERSON", d.Entities[0].Name)
	assert.Equal(t, "PERSON", d.Entities[1].Name)
	assert.Equal(t, "name", d.Entities[0].Fields[0].Name)
	assert.Equal(t, "born", d.Entities[1].Fields[0].Name)
}

func TestParse_RelationshipConnectors(t *testing.T) {
	tests := []struct {
		line string
		want Relationship
	}{
		{"CUSTOMER ||--o{ ORDER : places", Relationship{"CUSTOMER", "ORDER", "places"}},
		{"ORDER ||--|{ LINE_ITEM : contains", Relationship{"ORDER", "LINE_ITEM", "contains"}},
		{"A }|..|{ B : uses", Relationship{"A", "B", "uses"}},
		{"A --> B: points to", Relationship{"A", "B", "points to"}},
		{"A ||--o{ B :   padded label   ", Relationship{"A", "B", "padded label"}},
		{`A ||--o{ B : "quoted label"`, Relationship{"A", "B", "quoted label"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			d := Parse([]string{tt.line})
			require.Len(t, d.Relationships, 1)
			assert.Equal(t, tt.want, d.Relationships[0])
		})
	}
}

func TestParse_MalformedRelationshipsSkipped(t *testing.T) {
	d := Parse([]string{
		"A ||--o{ B",
		"A B : label",
		"a ||--o{ b : label",
		"A ||--o{ B :",
		"A ||--o{ B : owns (primary) #1",
		`A ||--o{ B : "<x>"`,
		`A ||--o{ B : ""`,
		`A ||--o{ B : "  "`,
		"A ||--o{ B : __",
		"A ||--o{ B : works.for",
	})

	assert.Empty(t, d.Relationships)
	assert.Equal(t, 10, d.Skipped)
}

func TestParse_UnclosedBlockKeepsFields(t *testing.T) {
	d := Parse([]string{
		"PERSON {",
		"  string name",
	})

	require.Len(t, d.Entities, 1)
	assert.Len(t, d.Entities[0].Fields, 1)
}
