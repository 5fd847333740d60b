package schema

import (
	"context"
	"io"

	domschema "github.com/kailas-cloud/schemaguard/internal/domain/schema"
)

// Repository defines the storage contract for schema snapshots.
type Repository interface {
	Save(ctx context.Context, snap domschema.Snapshot) error
	Create(ctx context.Context, snap domschema.Snapshot) error
	GetSnapshot(ctx context.Context, name string) (domschema.Snapshot, error)
	List(ctx context.Context) ([]domschema.Snapshot, error)
	Delete(ctx context.Context, name string) error
}

// Introspector reads the field contract of a live search index.
type Introspector interface {
	Introspect(ctx context.Context, index string) (*domschema.Schema, error)
}

// Parser decodes a schema document.
type Parser interface {
	Parse(r io.Reader) (*domschema.Schema, error)
}
