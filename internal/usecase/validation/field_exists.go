package validation

import (
	"iter"
	"strings"

	domval "github.com/kailas-cloud/schemaguard/internal/domain/validation"
)

// FieldExistsRuleName identifies FieldExistsRule in reports and metrics.
const FieldExistsRuleName = "mapped_field_exists"

// FieldExistsRule reports every mapped property whose field is neither a static field
// nor covered by a dynamic field pattern of the schema.
// The computed score pseudo-field and pattern-mapped properties are always exempt.
type FieldExistsRule struct{}

// Name implements Rule.
func (FieldExistsRule) Name() string { return FieldExistsRuleName }

// Validate implements Rule.
func (r FieldExistsRule) Validate(documentType string, m Mapping, s Schema) iter.Seq[domval.Error] {
	return func(yield func(domval.Error) bool) {
		for _, p := range m.PropertiesFor(documentType) {
			if p.IsComputedScore() || p.IsPatternMapped() {
				continue
			}
			if fieldExists(s, p.FieldName()) {
				continue
			}
			err := domval.Error{
				Rule:       r.Name(),
				PropertyID: p.PropertyID(),
				FieldName:  p.FieldName(),
				Message:    domval.MissingFieldMessage(p.PropertyID(), p.FieldName()),
			}
			if !yield(err) {
				return
			}
		}
	}
}

// fieldExists reports whether name is declared statically or matched by a dynamic pattern.
// A blank name never exists.
func fieldExists(s Schema, name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	if s.HasStaticField(name) {
		return true
	}
	for _, d := range s.DynamicFieldPatterns() {
		if d.Matches(name) {
			return true
		}
	}
	return false
}
