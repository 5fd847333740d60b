package schemaguard

import (
	"fmt"

	"github.com/kailas-cloud/schemaguard/internal/domain"
	domval "github.com/kailas-cloud/schemaguard/internal/domain/validation"
	validationuc "github.com/kailas-cloud/schemaguard/internal/usecase/validation"
)

// ValidationError is one mapping misconfiguration found by a rule.
type ValidationError struct {
	DocumentType string
	Rule         string
	PropertyID   string
	FieldName    string
	Message      string
}

func (e ValidationError) String() string { return e.Message }

// Rule is a built-in validation rule.
type Rule struct {
	impl validationuc.Rule
}

// Name returns the rule identifier reported in ValidationError.Rule.
func (r Rule) Name() string { return r.impl.Name() }

// FieldExistsRule reports properties mapped to fields absent from the schema.
func FieldExistsRule() Rule { return Rule{impl: validationuc.FieldExistsRule{}} }

// UniqueKeyRule reports documents that do not map the schema's unique key.
func UniqueKeyRule() Rule { return Rule{impl: validationuc.UniqueKeyRule{}} }

// ValidateOption configures Validate.
type ValidateOption interface {
	apply(*validateConfig)
}

type validateOptionFunc func(*validateConfig)

func (f validateOptionFunc) apply(c *validateConfig) { f(c) }

type validateConfig struct {
	rules         []Rule
	rulesSet      bool
	documentTypes []string
}

// WithRules replaces the default rule set (field existence, unique key).
// Rules run in the given order.
func WithRules(rules ...Rule) ValidateOption {
	return validateOptionFunc(func(c *validateConfig) {
		c.rules = rules
		c.rulesSet = true
	})
}

// WithDocumentTypes restricts validation to the given document types.
// Default: every type of the mapping.
func WithDocumentTypes(types ...string) ValidateOption {
	return validateOptionFunc(func(c *validateConfig) {
		c.documentTypes = types
	})
}

// Validate checks mapping against schema and returns every error found,
// grouped by document type and ordered by rule within each type.
// An empty result means the mapping is consistent with the schema.
func Validate(schema *Schema, mapping *Mapping, opts ...ValidateOption) ([]ValidationError, error) {
	if schema == nil || schema.inner == nil {
		return nil, ErrSchemaUnavailable
	}
	if mapping == nil || mapping.model == nil {
		return nil, ErrMappingUnavailable
	}

	cfg := &validateConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	rules := validationuc.DefaultRules()
	if cfg.rulesSet {
		rules = make([]validationuc.Rule, len(cfg.rules))
		for i, r := range cfg.rules {
			if r.impl == nil {
				return nil, fmt.Errorf("rule %d is not initialized", i)
			}
			rules[i] = r.impl
		}
	}

	engine, err := validationuc.NewEngine(mapping.model, rules...)
	if err != nil {
		return nil, err
	}

	types := cfg.documentTypes
	if len(types) == 0 {
		types = mapping.model.DocumentTypes()
	}
	var out []ValidationError
	for _, t := range types {
		if !mapping.model.Has(t) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDocumentType, t)
		}
		seq, err := engine.EnumerateValidationResults(t, schema.inner)
		if err != nil {
			return nil, err
		}
		for e := range seq {
			out = append(out, fromDomainError(t, e))
		}
	}
	return out, nil
}

func fromDomainError(documentType string, e domval.Error) ValidationError {
	return ValidationError{
		DocumentType: documentType,
		Rule:         e.Rule,
		PropertyID:   e.PropertyID,
		FieldName:    e.FieldName,
		Message:      e.Message,
	}
}
