package schema

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/schemaguard/internal/domain"
)

// Schema is an immutable snapshot of an index's field contract.
type Schema struct {
	fields    []Field
	byName    map[string]int
	dynamic   []DynamicField
	uniqueKey string
}

// New validates and creates a Schema.
// Field names and dynamic patterns must be unique; a non-empty unique key must name a static field.
// Violations wrap domain.ErrInvalidSchema.
func New(fields []Field, dynamic []DynamicField, uniqueKey string) (*Schema, error) {
	s := build(fields, dynamic, uniqueKey)
	if len(s.byName) != len(fields) {
		return nil, fmt.Errorf("%w: duplicate field name: %s", domain.ErrInvalidSchema, firstDuplicate(fields))
	}
	seen := make(map[string]bool, len(dynamic))
	for _, d := range dynamic {
		if seen[d.Pattern()] {
			return nil, fmt.Errorf("%w: duplicate dynamic field pattern: %s", domain.ErrInvalidSchema, d.Pattern())
		}
		seen[d.Pattern()] = true
	}
	if uniqueKey != "" && !s.HasStaticField(uniqueKey) {
		return nil, fmt.Errorf("%w: unique key %q is not a declared field", domain.ErrInvalidSchema, uniqueKey)
	}
	return s, nil
}

// Reconstruct creates a Schema without validation (storage hydration).
// On duplicate field names the first declaration wins.
func Reconstruct(fields []Field, dynamic []DynamicField, uniqueKey string) *Schema {
	return build(fields, dynamic, uniqueKey)
}

// Empty returns a schema with no fields, no dynamic fields and no unique key.
func Empty() *Schema {
	return build(nil, nil, "")
}

func build(fields []Field, dynamic []DynamicField, uniqueKey string) *Schema {
	s := &Schema{
		fields:    make([]Field, 0, len(fields)),
		byName:    make(map[string]int, len(fields)),
		dynamic:   append([]DynamicField(nil), dynamic...),
		uniqueKey: uniqueKey,
	}
	for _, f := range fields {
		if _, dup := s.byName[f.Name()]; dup {
			continue
		}
		s.byName[f.Name()] = len(s.fields)
		s.fields = append(s.fields, f)
	}
	return s
}

func firstDuplicate(fields []Field) string {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name()] {
			return f.Name()
		}
		seen[f.Name()] = true
	}
	return ""
}

// HasStaticField reports whether a field with exactly this name is declared.
func (s *Schema) HasStaticField(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Field returns the static field with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Fields returns the static fields in declaration order.
func (s *Schema) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// DynamicFieldPatterns returns the dynamic field declarations in declaration order.
func (s *Schema) DynamicFieldPatterns() []DynamicField {
	return append([]DynamicField(nil), s.dynamic...)
}

// MatchDynamic returns the first dynamic field whose pattern covers name.
func (s *Schema) MatchDynamic(name string) (DynamicField, bool) {
	for _, d := range s.dynamic {
		if d.Matches(name) {
			return d, true
		}
	}
	return DynamicField{}, false
}

// UniqueKeyFieldName returns the unique key field, if the schema declares one.
func (s *Schema) UniqueKeyFieldName() (string, bool) {
	return s.uniqueKey, s.uniqueKey != ""
}

// Builder accumulates declarations and produces a validated Schema.
// Invalid declarations are collected and reported together by Build.
type Builder struct {
	fields    []Field
	dynamic   []DynamicField
	uniqueKey string
	errs      []error
}

// NewBuilder starts an empty schema declaration.
func NewBuilder() *Builder {
	return &Builder{}
}

// Field declares a static field.
func (b *Builder) Field(name, fieldType string) *Builder {
	f, err := NewField(name, fieldType)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.fields = append(b.fields, f)
	return b
}

// DynamicField declares a dynamic field pattern.
func (b *Builder) DynamicField(pattern, fieldType string) *Builder {
	d, err := NewDynamicField(pattern, fieldType)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.dynamic = append(b.dynamic, d)
	return b
}

// UniqueKey sets the unique key field name.
func (b *Builder) UniqueKey(name string) *Builder {
	b.uniqueKey = name
	return b
}

// Build validates the accumulated declarations.
func (b *Builder) Build() (*Schema, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, errors.Join(b.errs...))
	}
	return New(b.fields, b.dynamic, b.uniqueKey)
}
