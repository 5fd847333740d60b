package schema

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kailas-cloud/schemaguard/internal/domain"
	domschema "github.com/kailas-cloud/schemaguard/internal/domain/schema"
)

// xmlField is a <field> or <dynamicField> declaration.
type xmlField struct {
	Name string `xml:"name,attr"`
	Type string `xml:"type,attr"`
}

// xmlSchema covers both the flat layout and the legacy <fields>-wrapped layout.
type xmlSchema struct {
	XMLName        xml.Name   `xml:"schema"`
	Name           string     `xml:"name,attr"`
	Fields         []xmlField `xml:"field"`
	DynamicFields  []xmlField `xml:"dynamicField"`
	WrappedFields  []xmlField `xml:"fields>field"`
	WrappedDynamic []xmlField `xml:"fields>dynamicField"`
	UniqueKey      string     `xml:"uniqueKey"`
}

// ParseXML reads a Solr schema.xml (or managed-schema) document.
// Field types, copyField and analyzer sections are not interpreted.
func ParseXML(r io.Reader) (*domschema.Schema, error) {
	var doc xmlSchema
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", domain.ErrInvalidSchema)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSchema, err)
	}

	b := domschema.NewBuilder()
	var errs []error

	for _, f := range append(doc.WrappedFields, doc.Fields...) {
		if _, err := domschema.NewField(f.Name, f.Type); err != nil {
			errs = append(errs, domain.NewSchemaSyntaxError("field", f.Name, err.Error()))
			continue
		}
		b.Field(f.Name, f.Type)
	}
	for _, d := range append(doc.WrappedDynamic, doc.DynamicFields...) {
		if _, err := domschema.NewDynamicField(d.Name, d.Type); err != nil {
			errs = append(errs, domain.NewSchemaSyntaxError("dynamicField", d.Name, err.Error()))
			continue
		}
		b.DynamicField(d.Name, d.Type)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	s, err := b.UniqueKey(strings.TrimSpace(doc.UniqueKey)).Build()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// XMLParser adapts ParseXML to usecase/schema.Parser.
type XMLParser struct{}

// Parse implements usecase/schema.Parser.
func (XMLParser) Parse(r io.Reader) (*domschema.Schema, error) {
	return ParseXML(r)
}
