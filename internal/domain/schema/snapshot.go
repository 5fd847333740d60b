package schema

import (
	"fmt"
	"regexp"
	"time"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Source tells where a snapshot's schema was read from.
type Source string

const (
	// SourceXML is a Solr schema.xml upload.
	SourceXML Source = "xml"
	// SourceIndex is a live FT index read through FT.INFO.
	SourceIndex Source = "index"
)

// IsValid checks if the source is supported.
func (s Source) IsValid() bool {
	return s == SourceXML || s == SourceIndex
}

// Snapshot is a named, stored schema (immutable value object).
type Snapshot struct {
	name      string
	source    Source
	origin    string
	schema    *Schema
	createdAt int64
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("schema name is required")
	}
	if len(name) > 64 {
		return fmt.Errorf("schema name too long (max 64)")
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("schema name must be alphanumeric with underscores and hyphens")
	}
	return nil
}

// NewSnapshot validates and creates a Snapshot stamped with the current time.
// Name: ^[a-zA-Z0-9_-]+$, 1-64 chars. Origin is the index name for SourceIndex, free text otherwise.
func NewSnapshot(name string, source Source, origin string, s *Schema) (Snapshot, error) {
	if err := validateName(name); err != nil {
		return Snapshot{}, err
	}
	if !source.IsValid() {
		return Snapshot{}, fmt.Errorf("invalid schema source: %q", source)
	}
	if s == nil {
		return Snapshot{}, fmt.Errorf("schema is required")
	}
	return Snapshot{
		name:      name,
		source:    source,
		origin:    origin,
		schema:    s,
		createdAt: time.Now().UnixMilli(),
	}, nil
}

// ReconstructSnapshot creates a Snapshot without validation (storage hydration).
func ReconstructSnapshot(name string, source Source, origin string, s *Schema, createdAt int64) Snapshot {
	if s == nil {
		s = Empty()
	}
	return Snapshot{name: name, source: source, origin: origin, schema: s, createdAt: createdAt}
}

// Name returns the snapshot name.
func (s Snapshot) Name() string { return s.name }

// Source returns where the schema was read from.
func (s Snapshot) Source() Source { return s.source }

// Origin returns the index name or upload label the schema was read from.
func (s Snapshot) Origin() string { return s.origin }

// Schema returns the snapshot's schema.
func (s Snapshot) Schema() *Schema { return s.schema }

// CreatedAt returns the creation time in unix millis.
func (s Snapshot) CreatedAt() int64 { return s.createdAt }
