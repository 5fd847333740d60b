package schemaguard

import (
	"io"

	domschema "github.com/kailas-cloud/schemaguard/internal/domain/schema"
	schemarepo "github.com/kailas-cloud/schemaguard/internal/repository/schema"
)

// Field is a static schema field.
type Field struct {
	Name string
	Type string
}

// DynamicField is a single-wildcard field pattern such as "attr_*" or "*_s".
type DynamicField struct {
	Pattern string
	Type    string
}

// Schema is an immutable index schema.
type Schema struct {
	inner *domschema.Schema
}

// NewSchema validates and builds a schema. uniqueKey may be empty.
func NewSchema(fields []Field, dynamicFields []DynamicField, uniqueKey string) (*Schema, error) {
	b := domschema.NewBuilder()
	for _, f := range fields {
		b.Field(f.Name, f.Type)
	}
	for _, d := range dynamicFields {
		b.DynamicField(d.Pattern, d.Type)
	}
	s, err := b.UniqueKey(uniqueKey).Build()
	if err != nil {
		return nil, err
	}
	return &Schema{inner: s}, nil
}

// ParseSchemaXML reads a Solr schema.xml or managed-schema document.
func ParseSchemaXML(r io.Reader) (*Schema, error) {
	s, err := schemarepo.ParseXML(r)
	if err != nil {
		return nil, err
	}
	return &Schema{inner: s}, nil
}

// Fields returns the static fields in declaration order.
func (s *Schema) Fields() []Field {
	src := s.inner.Fields()
	out := make([]Field, len(src))
	for i, f := range src {
		out[i] = Field{Name: f.Name(), Type: f.Type()}
	}
	return out
}

// DynamicFields returns the dynamic field patterns in declaration order.
func (s *Schema) DynamicFields() []DynamicField {
	src := s.inner.DynamicFieldPatterns()
	out := make([]DynamicField, len(src))
	for i, d := range src {
		out[i] = DynamicField{Pattern: d.Pattern(), Type: d.Type()}
	}
	return out
}

// UniqueKey returns the unique key field name, if declared.
func (s *Schema) UniqueKey() (string, bool) {
	return s.inner.UniqueKeyFieldName()
}

// HasField reports whether name is a static field or matches a dynamic pattern.
func (s *Schema) HasField(name string) bool {
	if s.inner.HasStaticField(name) {
		return true
	}
	_, ok := s.inner.MatchDynamic(name)
	return ok
}
