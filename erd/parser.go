package erd

import (
	"log/slog"
	"regexp"
	"strings"
)

var (
	entityPattern       = regexp.MustCompile(`^([A-Z0-9_]+)\s*\{\s*$`)
	fieldPattern        = regexp.MustCompile(`^(\w+)\s+(\w+)$`)
	relationshipPattern = regexp.MustCompile(`^([A-Z0-9_]+)\s+[^A-Z0-9_]+\s+([A-Z0-9_]+)\s*:\s*(.+)$`)
	labelPattern        = regexp.MustCompile(`^[A-Za-z0-9_ -]*[A-Za-z0-9][A-Za-z0-9_ -]*$`)
)

// parseState is the parser's position relative to entity blocks.
type parseState int

const (
	stateOutside parseState = iota
	stateInsideEntity
)

// Parser turns diagram lines into raw entities and relationships.
// Lines that match no production are skipped and counted.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a parser. A nil logger falls back to slog.Default().
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse parses diagram lines with a parser using the default logger.
func Parse(lines []string) *Diagram {
	return NewParser(nil).Parse(lines)
}

// Parse runs the two-state machine over lines. State is local to the call.
func (p *Parser) Parse(lines []string) *Diagram {
	d := &Diagram{
		Entities:      make([]Entity, 0),
		Relationships: make([]Relationship, 0),
	}

	state := stateOutside
	current := -1

	for i, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}

		switch state {
		case stateOutside:
			if m := entityPattern.FindStringSubmatch(stripped); m != nil {
				d.Entities = append(d.Entities, Entity{Name: m[1], Fields: make([]Field, 0)})
				current = len(d.Entities) - 1
				state = stateInsideEntity
				continue
			}
			// A label needs a letter or digit and only [A-Za-z0-9_ -]
			if m := relationshipPattern.FindStringSubmatch(stripped); m != nil {
				if label := cleanLabel(m[3]); labelPattern.MatchString(label) {
					d.Relationships = append(d.Relationships, Relationship{
						Left:  m[1],
						Right: m[2],
						Label: label,
					})
					continue
				}
			}

		case stateInsideEntity:
			if stripped == "}" {
				state = stateOutside
				current = -1
				continue
			}
			if m := fieldPattern.FindStringSubmatch(stripped); m != nil {
				d.Entities[current].Fields = append(d.Entities[current].Fields, Field{
					Name: m[2],
					Type: m[1],
				})
				continue
			}
		}

		d.Skipped++
		p.logger.Debug("Skipping unrecognized diagram line",
			"line", i+1,
			"text", stripped)
	}

	return d
}

// cleanLabel trims the label and removes one pair of enclosing double quotes.
func cleanLabel(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
