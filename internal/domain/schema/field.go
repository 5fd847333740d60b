package schema

import (
	"fmt"
	"strings"
)

// Wildcard is the single wildcard character allowed in a dynamic field pattern.
const Wildcard = "*"

// Field is a statically declared index field.
type Field struct {
	name      string
	fieldType string
}

// NewField validates and creates a Field. Name must be non-empty and wildcard-free.
func NewField(name, fieldType string) (Field, error) {
	if strings.TrimSpace(name) == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if strings.Contains(name, Wildcard) {
		return Field{}, fmt.Errorf("field name %q must not contain %q", name, Wildcard)
	}
	return Field{name: name, fieldType: fieldType}, nil
}

// ReconstructField creates a Field without validation (storage hydration).
func ReconstructField(name, fieldType string) Field {
	return Field{name: name, fieldType: fieldType}
}

// Name returns the field name.
func (f Field) Name() string { return f.name }

// Type returns the field type name as declared by the schema (e.g. "string", "text_general").
func (f Field) Type() string { return f.fieldType }

// PatternKind tells on which side of a dynamic pattern the wildcard sits.
type PatternKind int

const (
	// PrefixPattern is "X*": matches names starting with X.
	PrefixPattern PatternKind = iota
	// SuffixPattern is "*Y": matches names ending with Y.
	SuffixPattern
)

// DynamicField is a schema rule accepting any field name sharing a literal prefix or suffix.
type DynamicField struct {
	pattern   string
	fieldType string
	kind      PatternKind
	literal   string
}

// NewDynamicField validates and creates a DynamicField.
// The pattern must contain exactly one wildcard, either leading or trailing.
func NewDynamicField(pattern, fieldType string) (DynamicField, error) {
	if pattern == "" {
		return DynamicField{}, fmt.Errorf("dynamic field pattern is required")
	}
	if n := strings.Count(pattern, Wildcard); n != 1 {
		return DynamicField{}, fmt.Errorf("dynamic field pattern %q must contain exactly one %q, got %d",
			pattern, Wildcard, n)
	}
	df, ok := parsePattern(pattern, fieldType)
	if !ok {
		return DynamicField{}, fmt.Errorf("dynamic field pattern %q must start or end with %q", pattern, Wildcard)
	}
	return df, nil
}

// ReconstructDynamicField creates a DynamicField from a stored pattern.
// A malformed pattern degrades to one that never matches.
func ReconstructDynamicField(pattern, fieldType string) DynamicField {
	if df, ok := parsePattern(pattern, fieldType); ok {
		return df
	}
	return DynamicField{pattern: pattern, fieldType: fieldType, kind: -1}
}

func parsePattern(pattern, fieldType string) (DynamicField, bool) {
	switch {
	case strings.HasPrefix(pattern, Wildcard):
		return DynamicField{
			pattern: pattern, fieldType: fieldType,
			kind: SuffixPattern, literal: pattern[len(Wildcard):],
		}, true
	case strings.HasSuffix(pattern, Wildcard):
		return DynamicField{
			pattern: pattern, fieldType: fieldType,
			kind: PrefixPattern, literal: pattern[:len(pattern)-len(Wildcard)],
		}, true
	default:
		return DynamicField{}, false
	}
}

// Pattern returns the declared pattern, wildcard included.
func (d DynamicField) Pattern() string { return d.pattern }

// Type returns the field type applied to matching names.
func (d DynamicField) Type() string { return d.fieldType }

// Kind returns whether the pattern is a prefix or a suffix pattern.
func (d DynamicField) Kind() PatternKind { return d.kind }

// Matches reports whether name is covered by the pattern.
// Matching is a literal, case-sensitive prefix or suffix comparison.
func (d DynamicField) Matches(name string) bool {
	switch d.kind {
	case PrefixPattern:
		return strings.HasPrefix(name, d.literal)
	case SuffixPattern:
		return strings.HasSuffix(name, d.literal)
	default:
		return false
	}
}
