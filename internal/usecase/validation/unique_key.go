package validation

import (
	"fmt"
	"iter"

	domval "github.com/kailas-cloud/schemaguard/internal/domain/validation"
)

// UniqueKeyRuleName identifies UniqueKeyRule in reports and metrics.
const UniqueKeyRuleName = "unique_key_mapped"

// UniqueKeyRule checks the schema's unique key against the mapping.
// When the schema declares a unique key, a declared unique key property must map to it;
// without a declared one, some property must map to it. Document types without properties
// and schemas without a unique key produce nothing.
type UniqueKeyRule struct{}

// Name implements Rule.
func (UniqueKeyRule) Name() string { return UniqueKeyRuleName }

// Validate implements Rule.
func (r UniqueKeyRule) Validate(documentType string, m Mapping, s Schema) iter.Seq[domval.Error] {
	return func(yield func(domval.Error) bool) {
		key, ok := s.UniqueKeyFieldName()
		if !ok {
			return
		}
		props := m.PropertiesFor(documentType)
		if len(props) == 0 {
			return
		}

		if p, declared := m.UniqueKey(documentType); declared {
			if p.FieldName() != key {
				yield(domval.Error{
					Rule:       r.Name(),
					PropertyID: p.PropertyID(),
					FieldName:  p.FieldName(),
					Message: fmt.Sprintf("%s is the unique key but maps to field '%s'; the index schema's unique key is '%s'",
						p.PropertyID(), p.FieldName(), key),
				})
			}
			return
		}

		for _, p := range props {
			if p.FieldName() == key {
				return
			}
		}
		yield(domval.Error{
			Rule:      r.Name(),
			FieldName: key,
			Message:   fmt.Sprintf("%s has no property mapped to the index schema's unique key '%s'", documentType, key),
		})
	}
}
