package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/schemaguard/internal/domain"
)

func basicSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := NewBuilder().
		Field("id", "string").
		Field("name", "text_general").
		DynamicField("producer_*", "string").
		DynamicField("*_i", "pint").
		UniqueKey("id").
		Build()
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	return s
}

func TestSchema_Lookup(t *testing.T) {
	s := basicSchema(t)

	if !s.HasStaticField("id") || !s.HasStaticField("name") {
		t.Error("expected static fields id and name")
	}
	if s.HasStaticField("producer_s") {
		t.Error("dynamic match must not count as static field")
	}
	if f, ok := s.Field("name"); !ok || f.Type() != "text_general" {
		t.Errorf("Field(name) = %v, %v", f, ok)
	}
	if key, ok := s.UniqueKeyFieldName(); !ok || key != "id" {
		t.Errorf("UniqueKeyFieldName() = %q, %v", key, ok)
	}
	if d, ok := s.MatchDynamic("count_i"); !ok || d.Pattern() != "*_i" {
		t.Errorf("MatchDynamic(count_i) = %v, %v", d.Pattern(), ok)
	}
	if _, ok := s.MatchDynamic("unknown"); ok {
		t.Error("MatchDynamic(unknown) should not match")
	}
}

func TestSchema_DeclarationOrder(t *testing.T) {
	s := basicSchema(t)

	fields := s.Fields()
	if len(fields) != 2 || fields[0].Name() != "id" || fields[1].Name() != "name" {
		t.Errorf("Fields() order = %v", fields)
	}
	dyn := s.DynamicFieldPatterns()
	if len(dyn) != 2 || dyn[0].Pattern() != "producer_*" || dyn[1].Pattern() != "*_i" {
		t.Errorf("DynamicFieldPatterns() order = %v", dyn)
	}
}

func TestSchema_AccessorsReturnCopies(t *testing.T) {
	s := basicSchema(t)

	fields := s.Fields()
	fields[0] = ReconstructField("mutated", "string")
	if !s.HasStaticField("id") || s.Fields()[0].Name() != "id" {
		t.Error("schema mutated through Fields() slice")
	}
	dyn := s.DynamicFieldPatterns()
	dyn[0] = ReconstructDynamicField("x*", "string")
	if s.DynamicFieldPatterns()[0].Pattern() != "producer_*" {
		t.Error("schema mutated through DynamicFieldPatterns() slice")
	}
}

func TestNew_DuplicateField(t *testing.T) {
	fields := []Field{ReconstructField("id", "string"), ReconstructField("id", "long")}
	_, err := New(fields, nil, "")
	if err == nil {
		t.Fatal("expected error for duplicate field")
	}
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
	if !strings.Contains(err.Error(), "duplicate field name: id") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_DuplicatePattern(t *testing.T) {
	dyn := []DynamicField{ReconstructDynamicField("*_s", "string"), ReconstructDynamicField("*_s", "text")}
	_, err := New(nil, dyn, "")
	if err == nil {
		t.Fatal("expected error for duplicate pattern")
	}
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
	if !strings.Contains(err.Error(), "duplicate dynamic field pattern") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_UnknownUniqueKey(t *testing.T) {
	_, err := New([]Field{ReconstructField("name", "string")}, nil, "id")
	if err == nil {
		t.Fatal("expected error for undeclared unique key")
	}
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
	if !strings.Contains(err.Error(), "unique key") {
		t.Errorf("error = %q", err)
	}
}

func TestBuilder_CollectsErrors(t *testing.T) {
	_, err := NewBuilder().Field("", "string").DynamicField("bad", "string").Build()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Errorf("expected ErrInvalidSchema, got %v", err)
	}
	if !strings.Contains(err.Error(), "required") || !strings.Contains(err.Error(), "exactly one") {
		t.Errorf("error should report both declarations, got %q", err)
	}
}

func TestReconstruct_FirstDeclarationWins(t *testing.T) {
	s := Reconstruct([]Field{ReconstructField("id", "string"), ReconstructField("id", "long")}, nil, "id")
	if f, _ := s.Field("id"); f.Type() != "string" {
		t.Errorf("Field(id).Type() = %q, want string", f.Type())
	}
	if len(s.Fields()) != 1 {
		t.Errorf("len(Fields()) = %d, want 1", len(s.Fields()))
	}
}

func TestEmpty(t *testing.T) {
	s := Empty()
	if s.HasStaticField("score") {
		t.Error("empty schema has no fields")
	}
	if len(s.DynamicFieldPatterns()) != 0 {
		t.Error("empty schema has no dynamic fields")
	}
	if _, ok := s.UniqueKeyFieldName(); ok {
		t.Error("empty schema has no unique key")
	}
}
