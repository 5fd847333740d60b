package schema

import (
	"fmt"

	"github.com/goccy/go-json"

	domschema "github.com/kailas-cloud/schemaguard/internal/domain/schema"
)

// fieldRow is the JSON form of a static field or dynamic field pattern.
type fieldRow struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// snapshotRow is the stored JSON document of a schema snapshot.
type snapshotRow struct {
	Name          string     `json:"name"`
	Source        string     `json:"source"`
	Origin        string     `json:"origin,omitempty"`
	UniqueKey     string     `json:"unique_key,omitempty"`
	Fields        []fieldRow `json:"fields"`
	DynamicFields []fieldRow `json:"dynamic_fields"`
	CreatedAt     int64      `json:"created_at"`
}

func snapshotToJSON(snap domschema.Snapshot) ([]byte, error) {
	s := snap.Schema()
	fields := s.Fields()
	dynamic := s.DynamicFieldPatterns()

	row := snapshotRow{
		Name:          snap.Name(),
		Source:        string(snap.Source()),
		Origin:        snap.Origin(),
		Fields:        make([]fieldRow, len(fields)),
		DynamicFields: make([]fieldRow, len(dynamic)),
		CreatedAt:     snap.CreatedAt(),
	}
	row.UniqueKey, _ = s.UniqueKeyFieldName()
	for i, f := range fields {
		row.Fields[i] = fieldRow{Name: f.Name(), Type: f.Type()}
	}
	for i, d := range dynamic {
		row.DynamicFields[i] = fieldRow{Name: d.Pattern(), Type: d.Type()}
	}

	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// snapshotFromJSON hydrates a Snapshot from its stored document.
func snapshotFromJSON(data []byte) (domschema.Snapshot, error) {
	var row snapshotRow
	if err := json.Unmarshal(data, &row); err != nil {
		return domschema.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	fields := make([]domschema.Field, len(row.Fields))
	for i, f := range row.Fields {
		fields[i] = domschema.ReconstructField(f.Name, f.Type)
	}
	dynamic := make([]domschema.DynamicField, len(row.DynamicFields))
	for i, d := range row.DynamicFields {
		dynamic[i] = domschema.ReconstructDynamicField(d.Name, d.Type)
	}

	s := domschema.Reconstruct(fields, dynamic, row.UniqueKey)
	return domschema.ReconstructSnapshot(row.Name, domschema.Source(row.Source), row.Origin, s, row.CreatedAt), nil
}
