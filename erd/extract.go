package erd

import (
	"errors"
	"strings"
)

const (
	// OpenFence opens the diagram block.
	OpenFence = "```mermaid"
	// CloseFence closes the diagram block.
	CloseFence = "```"
)

// ErrMissingSchemaBlock is returned when the document has no complete
// mermaid block.
var ErrMissingSchemaBlock = errors.New("no mermaid schema block found")

// ExtractBlock returns the lines strictly between the first open fence and
// the first close fence after it. Fence lines are compared after trimming
// surrounding whitespace; content after the first block is ignored.
func ExtractBlock(text string) ([]string, error) {
	inBlock := false
	lines := make([]string, 0)

	for _, line := range splitLines(text) {
		marker := strings.TrimSpace(line)
		if !inBlock {
			if marker == OpenFence {
				inBlock = true
			}
			continue
		}
		if marker == CloseFence {
			return lines, nil
		}
		lines = append(lines, line)
	}

	return nil, ErrMissingSchemaBlock
}

// splitLines splits on LF and drops a trailing CR from each line.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
