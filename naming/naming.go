// Package naming converts ERD identifiers into the two canonical casings used
// by the ontology: class-case for classes and property-case for properties.
package naming

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// separators matches runs of underscores, hyphens and whitespace.
var separators = regexp.MustCompile(`[_\s-]+`)

// ClassCase converts an identifier to class-case.
// Example: "full_name" -> "FullName", "PERSON" -> "Person".
func ClassCase(id string) string {
	var sb strings.Builder
	for _, part := range separators.Split(strings.TrimSpace(id), -1) {
		if part == "" {
			continue
		}
		sb.WriteString(capitalize(part))
	}
	return sb.String()
}

// PropertyCase converts an identifier to property-case: class-case with the
// first character lower-cased.
// Example: "works_for" -> "worksFor".
func PropertyCase(id string) string {
	s := ClassCase(id)
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[size:]
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}
