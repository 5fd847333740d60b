package schemaguard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/schemaguard/internal/db"
	dbRedis "github.com/kailas-cloud/schemaguard/internal/db/redis"
	domschema "github.com/kailas-cloud/schemaguard/internal/domain/schema"
	schemarepo "github.com/kailas-cloud/schemaguard/internal/repository/schema"
	healthuc "github.com/kailas-cloud/schemaguard/internal/usecase/health"
	schemauc "github.com/kailas-cloud/schemaguard/internal/usecase/schema"
)

const defaultReadinessTimeout = 10 * time.Second

// SchemaInfo summarizes a stored schema snapshot.
type SchemaInfo struct {
	Name          string
	Source        string // "xml" or "index"
	Origin        string
	Fields        int
	DynamicFields int
	UniqueKey     string
	CreatedAt     time.Time
}

// Client stores named schema snapshots in Valkey or Redis and validates mappings against them.
type Client struct {
	store   db.Store
	repo    *schemarepo.Repo
	schemas *schemauc.Service
	health  healthUseCase
}

// New creates a Client and connects to the database.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("schemaguard: database address required (use WithValkey or WithRedis)")
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("schemaguard: database not ready: %w", err)
	}

	return wireClient(store, cfg), nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Username: cfg.username,
			Password: cfg.password,
			DB:       cfg.db,
		})
		if err != nil {
			return nil, fmt.Errorf("schemaguard: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("schemaguard: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig) *Client {
	repo := schemarepo.New(store, cfg.keyPrefix).WithTTL(cfg.schemaTTL)
	logger := cfg.logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		store:   store,
		repo:    repo,
		schemas: schemauc.New(repo, repo, schemarepo.XMLParser{}, logger),
		health:  healthuc.New(store, nil),
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// ImportSchema parses a schema.xml document and stores it under name.
// origin is free text recorded with the snapshot, e.g. the file path.
func (c *Client) ImportSchema(ctx context.Context, name, origin string, r io.Reader) (SchemaInfo, error) {
	snap, err := c.schemas.Import(ctx, name, origin, r)
	if err != nil {
		return SchemaInfo{}, err
	}
	return toSchemaInfo(snap), nil
}

// CreateSchema is ImportSchema that fails with ErrAlreadyExists when name is taken.
func (c *Client) CreateSchema(ctx context.Context, name, origin string, r io.Reader) (SchemaInfo, error) {
	snap, err := c.schemas.Create(ctx, name, origin, r)
	if err != nil {
		return SchemaInfo{}, err
	}
	return toSchemaInfo(snap), nil
}

// IntrospectSchema reads the attributes of a live FT index and stores them under name.
func (c *Client) IntrospectSchema(ctx context.Context, name, index string) (SchemaInfo, error) {
	snap, err := c.schemas.Introspect(ctx, name, index)
	if err != nil {
		return SchemaInfo{}, err
	}
	return toSchemaInfo(snap), nil
}

// Schema loads a stored schema by name.
func (c *Client) Schema(ctx context.Context, name string) (*Schema, error) {
	snap, err := c.schemas.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return &Schema{inner: snap.Schema()}, nil
}

// Schemas lists stored snapshots sorted by name.
func (c *Client) Schemas(ctx context.Context) ([]SchemaInfo, error) {
	snaps, err := c.schemas.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SchemaInfo, len(snaps))
	for i, s := range snaps {
		out[i] = toSchemaInfo(s)
	}
	return out, nil
}

// DeleteSchema removes a stored snapshot.
func (c *Client) DeleteSchema(ctx context.Context, name string) error {
	return c.schemas.Delete(ctx, name)
}

// Validate checks mapping against the stored schema schemaName.
func (c *Client) Validate(
	ctx context.Context, schemaName string, mapping *Mapping, opts ...ValidateOption,
) ([]ValidationError, error) {
	s, err := c.Schema(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	return Validate(s, mapping, opts...)
}

func toSchemaInfo(snap domschema.Snapshot) SchemaInfo {
	s := snap.Schema()
	uk, _ := s.UniqueKeyFieldName()
	return SchemaInfo{
		Name:          snap.Name(),
		Source:        string(snap.Source()),
		Origin:        snap.Origin(),
		Fields:        len(s.Fields()),
		DynamicFields: len(s.DynamicFieldPatterns()),
		UniqueKey:     uk,
		CreatedAt:     time.UnixMilli(snap.CreatedAt()),
	}
}
