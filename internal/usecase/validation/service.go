package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/schemaguard/internal/domain"
	domval "github.com/kailas-cloud/schemaguard/internal/domain/validation"
	"github.com/kailas-cloud/schemaguard/internal/metrics"
)

// Request selects what a validation pass covers.
type Request struct {
	// DocumentTypes to validate; empty means every type of the mapping.
	DocumentTypes []string
	// Mapping overrides the service's registered mapping when non-nil.
	Mapping MappingRegistry
}

// Result is the outcome of one validation pass over one schema.
type Result struct {
	ID       string
	Schema   string
	Reports  []domval.Report
	Duration time.Duration
}

// Valid reports whether no document type produced errors.
func (r Result) Valid() bool {
	for _, rep := range r.Reports {
		if !rep.Valid() {
			return false
		}
	}
	return true
}

// ErrorCount returns the total number of errors across reports.
func (r Result) ErrorCount() int {
	n := 0
	for _, rep := range r.Reports {
		n += len(rep.Errors)
	}
	return n
}

// Service validates mappings against stored or supplied schemas.
type Service struct {
	schemas  SchemaRepository
	mappings MappingRegistry
	rules    []Rule
	logger   *zap.Logger
}

// New creates a validation service. mappings may be nil when every request brings its own.
func New(schemas SchemaRepository, mappings MappingRegistry, rules []Rule, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{schemas: schemas, mappings: mappings, rules: rules, logger: logger}
}

// Validate loads the named schema snapshot and validates the requested document types against it.
func (s *Service) Validate(ctx context.Context, schemaName string, req Request) (Result, error) {
	sch, err := s.schemas.Get(ctx, schemaName)
	if err != nil {
		return Result{}, fmt.Errorf("load schema %s: %w", schemaName, err)
	}
	res, err := s.Check(sch, req)
	if err != nil {
		return Result{}, err
	}
	res.Schema = schemaName
	return res, nil
}

// Check validates the requested document types against an in-memory schema.
func (s *Service) Check(sch Schema, req Request) (Result, error) {
	reg, source := req.Mapping, metrics.MappingRequest
	if reg == nil {
		reg, source = s.mappings, metrics.MappingRegistered
	}
	if reg == nil {
		return Result{}, domain.ErrMappingUnavailable
	}

	types := req.DocumentTypes
	if len(types) == 0 {
		types = reg.DocumentTypes()
	}
	for _, t := range types {
		if !reg.Has(t) {
			return Result{}, fmt.Errorf("%w: %s", domain.ErrUnknownDocumentType, t)
		}
	}

	engine, err := NewEngine(reg, s.rules...)
	if err != nil {
		return Result{}, fmt.Errorf("build engine: %w", err)
	}

	res := Result{ID: uuid.NewString()}
	start := time.Now()
	for _, t := range types {
		typeStart := time.Now()
		rep, err := engine.Validate(t, sch)
		if err != nil {
			metrics.ValidationRunsTotal.WithLabelValues(source, "error").Inc()
			return Result{}, fmt.Errorf("validate %s: %w", t, err)
		}
		metrics.ValidationDuration.WithLabelValues(source).Observe(time.Since(typeStart).Seconds())
		metrics.ValidationRunsTotal.WithLabelValues(source, outcome(rep)).Inc()
		res.Reports = append(res.Reports, rep)
	}
	res.Duration = time.Since(start)

	s.logger.Info("Mapping validation completed",
		zap.String("validation_id", res.ID),
		zap.String("mapping", source),
		zap.Strings("document_types", types),
		zap.Int("errors", res.ErrorCount()),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

func outcome(rep domval.Report) string {
	if rep.Valid() {
		return "valid"
	}
	return "invalid"
}
