package health

import "context"

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// MappingRegistry exposes the document types loaded at startup.
type MappingRegistry interface {
	DocumentTypes() []string
}
