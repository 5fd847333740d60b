package schemaguard

import (
	"errors"
	"fmt"
	"io"

	"github.com/kailas-cloud/schemaguard/internal/domain"
	dommapping "github.com/kailas-cloud/schemaguard/internal/domain/mapping"
	mappingrepo "github.com/kailas-cloud/schemaguard/internal/repository/mapping"
)

// Mapping is a read-only property-to-field table for one or more document types.
type Mapping struct {
	model *dommapping.Model
}

// DocumentTypes returns the mapped document types in registration order.
func (m *Mapping) DocumentTypes() []string {
	return m.model.DocumentTypes()
}

// ParseMapping decodes a YAML mapping document.
func ParseMapping(r io.Reader) (*Mapping, error) {
	model, err := mappingrepo.Parse(r)
	if err != nil {
		return nil, err
	}
	return &Mapping{model: model}, nil
}

// LoadMapping reads and merges YAML mapping files.
func LoadMapping(paths ...string) (*Mapping, error) {
	model, err := mappingrepo.Load(paths...)
	if err != nil {
		return nil, err
	}
	return &Mapping{model: model}, nil
}

// MappingBuilder declares mappings fluently. Errors are collected and
// reported by Build.
type MappingBuilder struct {
	model *dommapping.Model
	errs  []error
}

// NewMapping starts an empty mapping declaration.
func NewMapping() *MappingBuilder {
	return &MappingBuilder{model: dommapping.NewModel()}
}

// Document starts the property list of documentType.
func (b *MappingBuilder) Document(documentType string) *DocumentBuilder {
	if documentType == "" {
		b.errs = append(b.errs, fmt.Errorf("%w: document type is required", domain.ErrInvalidMapping))
	}
	return &DocumentBuilder{parent: b, documentType: documentType}
}

// Build returns the mapping or every declaration error joined.
func (b *MappingBuilder) Build() (*Mapping, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	return &Mapping{model: b.model}, nil
}

// DocumentBuilder declares the properties of one document type.
type DocumentBuilder struct {
	parent       *MappingBuilder
	documentType string
	last         string
}

// Property maps propertyID to fieldName. The field "score" marks a computed
// relevance score and a field containing "*" marks a pattern-mapped property.
func (d *DocumentBuilder) Property(propertyID, fieldName string) *DocumentBuilder {
	if d.documentType == "" {
		return d
	}
	if err := d.parent.model.Add(d.documentType, propertyID, fieldName); err != nil {
		d.parent.errs = append(d.parent.errs, err)
		d.last = ""
		return d
	}
	d.last = propertyID
	return d
}

// UniqueKey marks the most recently declared property as the document's unique key.
func (d *DocumentBuilder) UniqueKey() *DocumentBuilder {
	if d.documentType == "" {
		return d
	}
	if d.last == "" {
		d.parent.errs = append(d.parent.errs,
			fmt.Errorf("%w: UniqueKey called before Property for %s", domain.ErrInvalidMapping, d.documentType))
		return d
	}
	if err := d.parent.model.SetUniqueKey(d.documentType, d.last); err != nil {
		d.parent.errs = append(d.parent.errs, err)
	}
	return d
}

// Document finishes this document type and starts the next one.
func (d *DocumentBuilder) Document(documentType string) *DocumentBuilder {
	return d.parent.Document(documentType)
}

// Build finishes the declaration. See MappingBuilder.Build.
func (d *DocumentBuilder) Build() (*Mapping, error) {
	return d.parent.Build()
}
