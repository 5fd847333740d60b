package validation

import (
	"context"
	"iter"

	"github.com/kailas-cloud/schemaguard/internal/domain/mapping"
	"github.com/kailas-cloud/schemaguard/internal/domain/schema"
	domval "github.com/kailas-cloud/schemaguard/internal/domain/validation"
)

// Schema is the read-only view of an index schema consumed by rules.
type Schema interface {
	HasStaticField(name string) bool
	DynamicFieldPatterns() []schema.DynamicField
	UniqueKeyFieldName() (string, bool)
}

// Mapping is the read-only view of a property-to-field table consumed by rules.
type Mapping interface {
	PropertiesFor(documentType string) []mapping.PropertyMapping
	UniqueKey(documentType string) (mapping.PropertyMapping, bool)
}

// Rule inspects one document type's mapping against a schema.
// Implementations must be pure: no side effects, deterministic output, restartable sequences.
type Rule interface {
	Name() string
	Validate(documentType string, m Mapping, s Schema) iter.Seq[domval.Error]
}

// SchemaRepository resolves stored schema snapshots by name.
type SchemaRepository interface {
	Get(ctx context.Context, name string) (*schema.Schema, error)
}

// MappingRegistry is a Mapping that can enumerate its document types.
type MappingRegistry interface {
	Mapping
	DocumentTypes() []string
	Has(documentType string) bool
}
