package schema

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/kailas-cloud/schemaguard/internal/domain"
	domschema "github.com/kailas-cloud/schemaguard/internal/domain/schema"
	"github.com/kailas-cloud/schemaguard/internal/metrics"
)

// Service handles schema snapshot import, introspection and CRUD.
type Service struct {
	repo         Repository
	introspector Introspector
	parser       Parser
	logger       *zap.Logger
}

// New creates a schema service. introspector may be nil when no search backend is available.
func New(repo Repository, introspector Introspector, parser Parser, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, introspector: introspector, parser: parser, logger: logger}
}

// Import parses a schema document and stores it under name, replacing any previous snapshot.
func (s *Service) Import(ctx context.Context, name, origin string, r io.Reader) (domschema.Snapshot, error) {
	sch, err := s.parser.Parse(r)
	if err != nil {
		return domschema.Snapshot{}, fmt.Errorf("parse schema: %w", err)
	}
	return s.store(ctx, name, domschema.SourceXML, origin, sch, false)
}

// Create is Import that fails with domain.ErrAlreadyExists when name is taken.
func (s *Service) Create(ctx context.Context, name, origin string, r io.Reader) (domschema.Snapshot, error) {
	sch, err := s.parser.Parse(r)
	if err != nil {
		return domschema.Snapshot{}, fmt.Errorf("parse schema: %w", err)
	}
	return s.store(ctx, name, domschema.SourceXML, origin, sch, true)
}

// Introspect reads the live index and stores its field contract under name.
func (s *Service) Introspect(ctx context.Context, name, index string) (domschema.Snapshot, error) {
	if s.introspector == nil {
		return domschema.Snapshot{}, fmt.Errorf("introspect %s: %w", index, domain.ErrSchemaUnavailable)
	}
	if index == "" {
		return domschema.Snapshot{}, fmt.Errorf("%w: index name is required", domain.ErrInvalidSchema)
	}
	sch, err := s.introspector.Introspect(ctx, index)
	if err != nil {
		return domschema.Snapshot{}, fmt.Errorf("introspect %s: %w", index, err)
	}
	return s.store(ctx, name, domschema.SourceIndex, index, sch, false)
}

func (s *Service) store(
	ctx context.Context, name string, source domschema.Source, origin string, sch *domschema.Schema, createOnly bool,
) (domschema.Snapshot, error) {
	snap, err := domschema.NewSnapshot(name, source, origin, sch)
	if err != nil {
		return domschema.Snapshot{}, fmt.Errorf("validate snapshot: %w: %w", domain.ErrInvalidSchema, err)
	}
	save := s.repo.Save
	if createOnly {
		save = s.repo.Create
	}
	if err := save(ctx, snap); err != nil {
		return domschema.Snapshot{}, fmt.Errorf("save schema: %w", err)
	}

	metrics.SchemaSnapshotsTotal.WithLabelValues(string(source)).Inc()
	s.logger.Info("Schema snapshot stored",
		zap.String("schema", name),
		zap.String("source", string(source)),
		zap.String("origin", origin),
		zap.Int("fields", len(sch.Fields())),
		zap.Int("dynamic_fields", len(sch.DynamicFieldPatterns())),
	)
	return snap, nil
}

// Get retrieves a snapshot by name.
func (s *Service) Get(ctx context.Context, name string) (domschema.Snapshot, error) {
	snap, err := s.repo.GetSnapshot(ctx, name)
	if err != nil {
		return domschema.Snapshot{}, fmt.Errorf("get schema: %w", err)
	}
	return snap, nil
}

// List returns all snapshots.
func (s *Service) List(ctx context.Context) ([]domschema.Snapshot, error) {
	snaps, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	return snaps, nil
}

// Delete removes a snapshot.
func (s *Service) Delete(ctx context.Context, name string) error {
	if err := s.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete schema: %w", err)
	}
	return nil
}
