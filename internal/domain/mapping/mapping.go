package mapping

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/schemaguard/internal/domain"
)

// ScoreField is the relevance pseudo-field computed by the search service at query time.
const ScoreField = "score"

// wildcard marks a field name expression that stands for a family of dynamic fields.
const wildcard = "*"

// PropertyMapping associates one document property with an index field.
type PropertyMapping struct {
	propertyID    string
	fieldName     string
	computedScore bool
	patternMapped bool
}

// NewPropertyMapping creates a PropertyMapping and resolves its flags from the field name:
// the reserved score field is a computed score, a field name with a wildcard is pattern mapped.
func NewPropertyMapping(propertyID, fieldName string) PropertyMapping {
	return PropertyMapping{
		propertyID:    propertyID,
		fieldName:     fieldName,
		computedScore: fieldName == ScoreField,
		patternMapped: strings.Contains(fieldName, wildcard),
	}
}

// ReconstructPropertyMapping creates a PropertyMapping with explicitly resolved flags.
func ReconstructPropertyMapping(propertyID, fieldName string, computedScore, patternMapped bool) PropertyMapping {
	return PropertyMapping{
		propertyID:    propertyID,
		fieldName:     fieldName,
		computedScore: computedScore,
		patternMapped: patternMapped,
	}
}

// PropertyID returns the opaque property identifier.
func (p PropertyMapping) PropertyID() string { return p.propertyID }

// FieldName returns the mapped index field name (or wildcard expression).
func (p PropertyMapping) FieldName() string { return p.fieldName }

// IsComputedScore reports whether the property receives the query-time relevance score.
func (p PropertyMapping) IsComputedScore() bool { return p.computedScore }

// IsPatternMapped reports whether the property is bound to a wildcard field expression.
func (p PropertyMapping) IsPatternMapped() bool { return p.patternMapped }

// Model is the property-to-field table for any number of document types.
// It is filled once by a configuration source and read-only afterwards;
// concurrent reads are safe, concurrent Add calls are not.
type Model struct {
	types      []string
	properties map[string][]PropertyMapping
	positions  map[string]map[string]int
	uniqueKeys map[string]string
}

// NewModel creates an empty mapping model.
func NewModel() *Model {
	return &Model{
		properties: make(map[string][]PropertyMapping),
		positions:  make(map[string]map[string]int),
		uniqueKeys: make(map[string]string),
	}
}

// Add registers propertyID of documentType as mapped to fieldName.
func (m *Model) Add(documentType, propertyID, fieldName string) error {
	return m.AddProperty(documentType, NewPropertyMapping(propertyID, fieldName))
}

// AddProperty registers a property mapping with pre-resolved flags.
// Property identifiers are unique per document type.
func (m *Model) AddProperty(documentType string, p PropertyMapping) error {
	if documentType == "" {
		return fmt.Errorf("%w: document type is required", domain.ErrInvalidMapping)
	}
	if p.PropertyID() == "" {
		return fmt.Errorf("%w: property id is required for %s", domain.ErrInvalidMapping, documentType)
	}
	pos, ok := m.positions[documentType]
	if !ok {
		pos = make(map[string]int)
		m.positions[documentType] = pos
		m.types = append(m.types, documentType)
	}
	if _, dup := pos[p.PropertyID()]; dup {
		return fmt.Errorf("%w: property %s.%s is mapped twice",
			domain.ErrInvalidMapping, documentType, p.PropertyID())
	}
	pos[p.PropertyID()] = len(m.properties[documentType])
	m.properties[documentType] = append(m.properties[documentType], p)
	return nil
}

// SetUniqueKey marks an already registered property as the document's unique key.
func (m *Model) SetUniqueKey(documentType, propertyID string) error {
	if _, ok := m.positions[documentType][propertyID]; !ok {
		return fmt.Errorf("%w: unique key %s.%s is not a mapped property",
			domain.ErrInvalidMapping, documentType, propertyID)
	}
	m.uniqueKeys[documentType] = propertyID
	return nil
}

// PropertiesFor returns the mappings of documentType in declaration order.
// Unknown document types yield an empty slice.
func (m *Model) PropertiesFor(documentType string) []PropertyMapping {
	return append([]PropertyMapping(nil), m.properties[documentType]...)
}

// UniqueKey returns the property registered as the unique key of documentType.
func (m *Model) UniqueKey(documentType string) (PropertyMapping, bool) {
	id, ok := m.uniqueKeys[documentType]
	if !ok {
		return PropertyMapping{}, false
	}
	return m.properties[documentType][m.positions[documentType][id]], true
}

// Has reports whether documentType has at least one registered property.
func (m *Model) Has(documentType string) bool {
	_, ok := m.positions[documentType]
	return ok
}

// DocumentTypes returns the registered document types in registration order.
func (m *Model) DocumentTypes() []string {
	return append([]string(nil), m.types...)
}
