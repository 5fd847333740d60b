package schema

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/schemaguard/internal/db"
	domschema "github.com/kailas-cloud/schemaguard/internal/domain/schema"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn        func(ctx context.Context, key string) ([]byte, error)
	setFn        func(ctx context.Context, key string, value []byte) error
	setWithTTLFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	setNXFn      func(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	delFn        func(ctx context.Context, key string) error
	existsFn     func(ctx context.Context, key string) (bool, error)
	scanFn       func(ctx context.Context, pattern string) ([]string, error)
	indexInfoFn  func(ctx context.Context, name string) (*db.IndexInfo, error)
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	return nil
}

func (m *mockStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setWithTTLFn != nil {
		return m.setWithTTLFn(ctx, key, value, ttl)
	}
	return nil
}

func (m *mockStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if m.setNXFn != nil {
		return m.setNXFn(ctx, key, value, ttl)
	}
	return true, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) IndexInfo(ctx context.Context, name string) (*db.IndexInfo, error) {
	if m.indexInfoFn != nil {
		return m.indexInfoFn(ctx, name)
	}
	return nil, db.ErrIndexNotFound
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, ""), ms
}

func testSnapshot(t *testing.T, name string) domschema.Snapshot {
	t.Helper()
	s, err := domschema.NewBuilder().
		Field("id", "string").
		Field("title", "text_general").
		DynamicField("*_s", "string").
		DynamicField("attr_*", "text_general").
		UniqueKey("id").
		Build()
	if err != nil {
		t.Fatalf("build schema: %v", err)
	}
	snap, err := domschema.NewSnapshot(name, domschema.SourceXML, "schema.xml", s)
	if err != nil {
		t.Fatalf("new snapshot: %v", err)
	}
	return snap
}
