package schema

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/schemaguard/internal/domain"
	domschema "github.com/kailas-cloud/schemaguard/internal/domain/schema"
	"github.com/kailas-cloud/schemaguard/internal/metrics"
)

// --- Mocks ---

type mockRepo struct {
	saved      []domschema.Snapshot
	getResult  domschema.Snapshot
	listResult []domschema.Snapshot
	saveErr    error
	getErr     error
	listErr    error
	deleteErr  error
}

func (m *mockRepo) Save(_ context.Context, snap domschema.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, snap)
	return nil
}

func (m *mockRepo) Create(_ context.Context, snap domschema.Snapshot) error {
	for _, s := range m.saved {
		if s.Name() == snap.Name() {
			return domain.ErrAlreadyExists
		}
	}
	return m.Save(context.Background(), snap)
}

func (m *mockRepo) GetSnapshot(_ context.Context, _ string) (domschema.Snapshot, error) {
	return m.getResult, m.getErr
}

func (m *mockRepo) List(_ context.Context) ([]domschema.Snapshot, error) {
	return m.listResult, m.listErr
}

func (m *mockRepo) Delete(_ context.Context, _ string) error {
	return m.deleteErr
}

type mockIntrospector struct {
	index  string
	schema *domschema.Schema
	err    error
}

func (m *mockIntrospector) Introspect(_ context.Context, index string) (*domschema.Schema, error) {
	m.index = index
	return m.schema, m.err
}

// lineParser treats every non-empty input line as a static field name.
type lineParser struct {
	err error
}

func (p lineParser) Parse(r io.Reader) (*domschema.Schema, error) {
	if p.err != nil {
		return nil, p.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b := domschema.NewBuilder()
	for _, line := range strings.Fields(string(data)) {
		b.Field(line, "string")
	}
	return b.Build()
}

// --- Import ---

func TestImport_HappyPath(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, nil, lineParser{}, nil)
	before := testutil.ToFloat64(metrics.SchemaSnapshotsTotal.WithLabelValues("xml"))

	snap, err := svc.Import(context.Background(), "products", "upload", strings.NewReader("id\ntitle"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Name() != "products" || snap.Source() != domschema.SourceXML || snap.Origin() != "upload" {
		t.Errorf("unexpected snapshot: %s %s %s", snap.Name(), snap.Source(), snap.Origin())
	}
	if !snap.Schema().HasStaticField("title") {
		t.Error("expected title field")
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 save, got %d", len(repo.saved))
	}
	if got := testutil.ToFloat64(metrics.SchemaSnapshotsTotal.WithLabelValues("xml")); got != before+1 {
		t.Errorf("schema_snapshots_total{xml} = %v, want %v", got, before+1)
	}
}

func TestImport_ParseError(t *testing.T) {
	repo := &mockRepo{}
	parseErr := domain.NewSchemaSyntaxError("field", "", "field name is required")
	svc := New(repo, nil, lineParser{err: parseErr}, nil)

	_, err := svc.Import(context.Background(), "products", "", strings.NewReader(""))
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
	if len(repo.saved) != 0 {
		t.Error("nothing must be stored on parse failure")
	}
}

func TestImport_InvalidName(t *testing.T) {
	svc := New(&mockRepo{}, nil, lineParser{}, nil)

	_, err := svc.Import(context.Background(), "bad name!", "", strings.NewReader("id"))
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestImport_SaveError(t *testing.T) {
	svc := New(&mockRepo{saveErr: errors.New("connection lost")}, nil, lineParser{}, nil)

	if _, err := svc.Import(context.Background(), "products", "", strings.NewReader("id")); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreate_NewName(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, nil, lineParser{}, nil)

	snap, err := svc.Create(context.Background(), "products", "upload", strings.NewReader("id"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Name() != "products" || len(repo.saved) != 1 {
		t.Errorf("snapshot not stored: %+v", repo.saved)
	}
}

func TestCreate_NameTaken(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, nil, lineParser{}, nil)

	if _, err := svc.Create(context.Background(), "products", "", strings.NewReader("id")); err != nil {
		t.Fatal(err)
	}
	_, err := svc.Create(context.Background(), "products", "", strings.NewReader("id name"))
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if len(repo.saved) != 1 {
		t.Errorf("saved %d snapshots, want 1", len(repo.saved))
	}

	// Import keeps replacing.
	if _, err := svc.Import(context.Background(), "products", "", strings.NewReader("id name")); err != nil {
		t.Fatalf("import over existing name: %v", err)
	}
}

// --- Introspect ---

func TestIntrospect_HappyPath(t *testing.T) {
	repo := &mockRepo{}
	intro := &mockIntrospector{schema: domschema.Empty()}
	svc := New(repo, intro, lineParser{}, nil)

	snap, err := svc.Introspect(context.Background(), "live", "products-idx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intro.index != "products-idx" {
		t.Errorf("introspected %q", intro.index)
	}
	if snap.Source() != domschema.SourceIndex || snap.Origin() != "products-idx" {
		t.Errorf("unexpected snapshot: %s %s", snap.Source(), snap.Origin())
	}
	if len(repo.saved) != 1 {
		t.Errorf("expected 1 save, got %d", len(repo.saved))
	}
}

func TestIntrospect_NoBackend(t *testing.T) {
	svc := New(&mockRepo{}, nil, lineParser{}, nil)

	_, err := svc.Introspect(context.Background(), "live", "idx")
	if !errors.Is(err, domain.ErrSchemaUnavailable) {
		t.Fatalf("expected ErrSchemaUnavailable, got %v", err)
	}
}

func TestIntrospect_MissingIndexName(t *testing.T) {
	svc := New(&mockRepo{}, &mockIntrospector{}, lineParser{}, nil)

	_, err := svc.Introspect(context.Background(), "live", "")
	if !errors.Is(err, domain.ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema, got %v", err)
	}
}

func TestIntrospect_IndexNotFound(t *testing.T) {
	svc := New(&mockRepo{}, &mockIntrospector{err: domain.ErrIndexNotFound}, lineParser{}, nil)

	_, err := svc.Introspect(context.Background(), "live", "missing")
	if !errors.Is(err, domain.ErrIndexNotFound) {
		t.Fatalf("expected ErrIndexNotFound, got %v", err)
	}
}

// --- Get / List / Delete ---

func TestGet_NotFound(t *testing.T) {
	svc := New(&mockRepo{getErr: domain.ErrNotFound}, nil, lineParser{}, nil)

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestList_HappyPath(t *testing.T) {
	snaps := []domschema.Snapshot{
		domschema.ReconstructSnapshot("a", domschema.SourceXML, "", nil, 1),
		domschema.ReconstructSnapshot("b", domschema.SourceIndex, "idx", nil, 2),
	}
	svc := New(&mockRepo{listResult: snaps}, nil, lineParser{}, nil)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 snapshots, got %d", len(got))
	}
}

func TestList_Error(t *testing.T) {
	svc := New(&mockRepo{listErr: errors.New("scan failed")}, nil, lineParser{}, nil)

	if _, err := svc.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestDelete_NotFound(t *testing.T) {
	svc := New(&mockRepo{deleteErr: domain.ErrNotFound}, nil, lineParser{}, nil)

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
