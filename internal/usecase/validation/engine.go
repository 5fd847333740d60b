package validation

import (
	"fmt"
	"iter"
	"slices"

	"github.com/kailas-cloud/schemaguard/internal/domain"
	"github.com/kailas-cloud/schemaguard/internal/domain/mapping"
	"github.com/kailas-cloud/schemaguard/internal/domain/schema"
	domval "github.com/kailas-cloud/schemaguard/internal/domain/validation"
)

// DefaultRules returns the rule set used by the service and the CLI.
func DefaultRules() []Rule {
	return []Rule{FieldExistsRule{}, UniqueKeyRule{}}
}

// Engine runs an ordered set of rules against one mapping model.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	mapping Mapping
	rules   []Rule
}

// NewEngine creates an engine. A missing mapping model or a nil rule is a contract violation.
func NewEngine(m Mapping, rules ...Rule) (*Engine, error) {
	if isNilMapping(m) {
		return nil, domain.ErrMappingUnavailable
	}
	for i, r := range rules {
		if r == nil {
			return nil, fmt.Errorf("rule %d is nil", i)
		}
	}
	return &Engine{mapping: m, rules: slices.Clone(rules)}, nil
}

// Rules returns the registered rules in registration order.
func (e *Engine) Rules() []Rule {
	return slices.Clone(e.rules)
}

// EnumerateValidationResults runs every rule for documentType and concatenates their
// results in rule-registration order. All rules always run; a missing schema fails before any.
func (e *Engine) EnumerateValidationResults(documentType string, s Schema) (iter.Seq[domval.Error], error) {
	if isNilSchema(s) {
		return nil, domain.ErrSchemaUnavailable
	}
	return func(yield func(domval.Error) bool) {
		for _, r := range e.rules {
			for verr := range r.Validate(documentType, e.mapping, s) {
				if !yield(verr) {
					return
				}
			}
		}
	}, nil
}

// Validate collects the results of EnumerateValidationResults into a report.
func (e *Engine) Validate(documentType string, s Schema) (domval.Report, error) {
	seq, err := e.EnumerateValidationResults(documentType, s)
	if err != nil {
		return domval.Report{}, err
	}
	return domval.Report{DocumentType: documentType, Errors: slices.Collect(seq)}, nil
}

// isNilSchema also catches a typed nil *schema.Schema wrapped in the interface.
func isNilSchema(s Schema) bool {
	if s == nil {
		return true
	}
	ps, ok := s.(*schema.Schema)
	return ok && ps == nil
}

func isNilMapping(m Mapping) bool {
	if m == nil {
		return true
	}
	pm, ok := m.(*mapping.Model)
	return ok && pm == nil
}
