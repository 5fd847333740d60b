package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/schemaguard/internal/db"
	"github.com/kailas-cloud/schemaguard/internal/domain"
	domschema "github.com/kailas-cloud/schemaguard/internal/domain/schema"
)

// DefaultKeyPrefix namespaces every key written by the repository.
const DefaultKeyPrefix = "schemaguard:"

// store is the consumer interface for schema snapshots (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error)
}

// Repo implements usecase/schema.Repository and usecase/validation.SchemaRepository.
type Repo struct {
	store  store
	prefix string
	ttl    time.Duration
}

// New creates a schema repository. An empty prefix falls back to DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// WithTTL expires snapshots after ttl. Zero keeps them forever.
func (r *Repo) WithTTL(ttl time.Duration) *Repo {
	if ttl > 0 {
		r.ttl = ttl
	}
	return r
}

// Save writes a snapshot, replacing any previous one with the same name.
func (r *Repo) Save(ctx context.Context, snap domschema.Snapshot) error {
	data, err := snapshotToJSON(snap)
	if err != nil {
		return err
	}

	key := r.key(snap.Name())
	if r.ttl > 0 {
		err = r.store.SetWithTTL(ctx, key, data, r.ttl)
	} else {
		err = r.store.Set(ctx, key, data)
	}
	if err != nil {
		return fmt.Errorf("set schema %s: %w", snap.Name(), err)
	}
	return nil
}

// Create writes a snapshot only if no snapshot with the same name exists.
func (r *Repo) Create(ctx context.Context, snap domschema.Snapshot) error {
	data, err := snapshotToJSON(snap)
	if err != nil {
		return err
	}

	created, err := r.store.SetNX(ctx, r.key(snap.Name()), data, r.ttl)
	if err != nil {
		return fmt.Errorf("create schema %s: %w", snap.Name(), err)
	}
	if !created {
		return fmt.Errorf("schema %s: %w", snap.Name(), domain.ErrAlreadyExists)
	}
	return nil
}

// GetSnapshot retrieves a snapshot by name.
func (r *Repo) GetSnapshot(ctx context.Context, name string) (domschema.Snapshot, error) {
	data, err := r.store.Get(ctx, r.key(name))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domschema.Snapshot{}, domain.ErrNotFound
		}
		return domschema.Snapshot{}, fmt.Errorf("get schema %s: %w", name, err)
	}
	return snapshotFromJSON(data)
}

// Get retrieves the schema of a stored snapshot.
func (r *Repo) Get(ctx context.Context, name string) (*domschema.Schema, error) {
	snap, err := r.GetSnapshot(ctx, name)
	if err != nil {
		return nil, err
	}
	return snap.Schema(), nil
}

// List returns all snapshots sorted by name.
func (r *Repo) List(ctx context.Context) ([]domschema.Snapshot, error) {
	keys, err := r.store.Scan(ctx, r.key("*"))
	if err != nil {
		return nil, fmt.Errorf("scan schemas: %w", err)
	}

	snaps := make([]domschema.Snapshot, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Get(ctx, key)
		if err != nil {
			// expired between SCAN and GET
			if errors.Is(err, db.ErrKeyNotFound) {
				continue
			}
			return nil, fmt.Errorf("get schema %s: %w", key, err)
		}
		snap, err := snapshotFromJSON(data)
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", key, err)
		}
		snaps = append(snaps, snap)
	}

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].Name() < snaps[j].Name()
	})
	return snaps, nil
}

// Delete removes a snapshot.
func (r *Repo) Delete(ctx context.Context, name string) error {
	key := r.key(name)
	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del schema %s: %w", name, err)
	}
	return nil
}

// Introspect reads a live FT index and converts its attributes into static fields.
// FT indexes key documents by the Redis key, so no unique key is set.
func (r *Repo) Introspect(ctx context.Context, index string) (*domschema.Schema, error) {
	if !db.IsValidIdentifier(index) {
		return nil, fmt.Errorf("%w: invalid index name %q", domain.ErrInvalidSchema, index)
	}
	info, err := r.store.IndexInfo(ctx, index)
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrIndexNotFound, index)
		}
		return nil, fmt.Errorf("index info %s: %w", index, err)
	}

	b := domschema.NewBuilder()
	for _, a := range info.Attributes {
		b.Field(a.FieldName(), strings.ToLower(a.Type))
	}
	s, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", index, err)
	}
	return s, nil
}

// Valkey key pattern: schemaguard:schema:{name}

func (r *Repo) key(name string) string {
	return fmt.Sprintf("%sschema:%s", r.prefix, name)
}
