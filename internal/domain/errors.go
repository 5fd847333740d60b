package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidSchema signals a malformed schema definition.
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrInvalidMapping signals a malformed mapping declaration.
	ErrInvalidMapping = errors.New("invalid mapping")
	// ErrSchemaUnavailable signals that no schema was supplied to a validation pass.
	ErrSchemaUnavailable = errors.New("schema unavailable")
	// ErrMappingUnavailable signals that no mapping model was supplied to the validation engine.
	ErrMappingUnavailable = errors.New("mapping unavailable")
	// ErrUnknownDocumentType signals a document type without any registered mapping.
	ErrUnknownDocumentType = errors.New("unknown document type")
	// ErrIndexNotFound signals a missing search index during introspection.
	ErrIndexNotFound = errors.New("index not found")
)

// SchemaSyntaxError wraps ErrInvalidSchema with the offending declaration.
type SchemaSyntaxError struct {
	Element string
	Name    string
	Reason  string
}

func (e *SchemaSyntaxError) Error() string {
	return fmt.Sprintf("%s: %s %q: %s", ErrInvalidSchema.Error(), e.Element, e.Name, e.Reason)
}

func (e *SchemaSyntaxError) Unwrap() error { return ErrInvalidSchema }

// NewSchemaSyntaxError creates a schema syntax error.
func NewSchemaSyntaxError(element, name, reason string) error {
	return &SchemaSyntaxError{Element: element, Name: name, Reason: reason}
}
