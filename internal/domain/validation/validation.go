// Package validation holds the results produced by mapping validation rules.
package validation

import "fmt"

// Error describes one mapping misconfiguration. It is returned as data, never raised.
type Error struct {
	Rule       string
	PropertyID string
	FieldName  string
	Message    string
}

// String renders the error message.
func (e Error) String() string { return e.Message }

// MissingFieldMessage is the message for a property whose field is absent from the schema.
func MissingFieldMessage(propertyID, fieldName string) string {
	return fmt.Sprintf("%s maps to field '%s', which does not exist in the index schema", propertyID, fieldName)
}

// Report is the outcome of one validation pass for one document type.
type Report struct {
	DocumentType string
	Errors       []Error
}

// Valid reports whether the pass found no errors.
func (r Report) Valid() bool { return len(r.Errors) == 0 }
