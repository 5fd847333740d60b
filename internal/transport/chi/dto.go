package chi

import (
	"time"

	domschema "github.com/kailas-cloud/schemaguard/internal/domain/schema"
	domval "github.com/kailas-cloud/schemaguard/internal/domain/validation"
	validationuc "github.com/kailas-cloud/schemaguard/internal/usecase/validation"
)

// ErrorCode is the machine-readable code of an ErrorResponse.
type ErrorCode string

// Error codes returned by the API.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeSchemaNotFound      ErrorCode = "schema_not_found"
	ErrorCodeSchemaExists        ErrorCode = "schema_exists"
	ErrorCodeIndexNotFound       ErrorCode = "index_not_found"
	ErrorCodeUnknownDocumentType ErrorCode = "unknown_document_type"
	ErrorCodeMappingUnavailable  ErrorCode = "mapping_unavailable"
	ErrorCodeSchemaUnavailable   ErrorCode = "schema_unavailable"
	ErrorCodeRequestTooLarge     ErrorCode = "request_too_large"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// FieldDefinition is a static field or a dynamic field pattern.
type FieldDefinition struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// SchemaResponse is a full schema snapshot.
type SchemaResponse struct {
	Name          string            `json:"name"`
	Source        string            `json:"source"`
	Origin        string            `json:"origin,omitempty"`
	UniqueKey     *string           `json:"unique_key,omitempty"`
	Fields        []FieldDefinition `json:"fields"`
	DynamicFields []FieldDefinition `json:"dynamic_fields"`
	CreatedAt     time.Time         `json:"created_at"`
}

// SchemaSummary is one item of SchemaListResponse.
type SchemaSummary struct {
	Name              string    `json:"name"`
	Source            string    `json:"source"`
	Origin            string    `json:"origin,omitempty"`
	FieldCount        int       `json:"field_count"`
	DynamicFieldCount int       `json:"dynamic_field_count"`
	CreatedAt         time.Time `json:"created_at"`
}

// SchemaListResponse lists stored snapshots.
type SchemaListResponse struct {
	Items []SchemaSummary `json:"items"`
}

// ValidationErrorItem is one mapping misconfiguration.
type ValidationErrorItem struct {
	Rule       string `json:"rule"`
	PropertyID string `json:"property_id,omitempty"`
	FieldName  string `json:"field_name"`
	Message    string `json:"message"`
}

// DocumentReport is the outcome for one document type.
type DocumentReport struct {
	DocumentType string                `json:"document_type"`
	Valid        bool                  `json:"valid"`
	Errors       []ValidationErrorItem `json:"errors"`
}

// ValidationResponse is the outcome of POST /schemas/{schema}/validate.
type ValidationResponse struct {
	ID         string           `json:"id"`
	Schema     string           `json:"schema"`
	Valid      bool             `json:"valid"`
	ErrorCount int              `json:"error_count"`
	DurationMs float64          `json:"duration_ms"`
	Reports    []DocumentReport `json:"reports"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func schemaToResponse(snap domschema.Snapshot) SchemaResponse {
	s := snap.Schema()
	fields := s.Fields()
	dynamic := s.DynamicFieldPatterns()

	resp := SchemaResponse{
		Name:          snap.Name(),
		Source:        string(snap.Source()),
		Origin:        snap.Origin(),
		Fields:        make([]FieldDefinition, len(fields)),
		DynamicFields: make([]FieldDefinition, len(dynamic)),
		CreatedAt:     time.UnixMilli(snap.CreatedAt()).UTC(),
	}
	if key, ok := s.UniqueKeyFieldName(); ok {
		resp.UniqueKey = &key
	}
	for i, f := range fields {
		resp.Fields[i] = FieldDefinition{Name: f.Name(), Type: f.Type()}
	}
	for i, d := range dynamic {
		resp.DynamicFields[i] = FieldDefinition{Name: d.Pattern(), Type: d.Type()}
	}
	return resp
}

func schemaToSummary(snap domschema.Snapshot) SchemaSummary {
	s := snap.Schema()
	return SchemaSummary{
		Name:              snap.Name(),
		Source:            string(snap.Source()),
		Origin:            snap.Origin(),
		FieldCount:        len(s.Fields()),
		DynamicFieldCount: len(s.DynamicFieldPatterns()),
		CreatedAt:         time.UnixMilli(snap.CreatedAt()).UTC(),
	}
}

func resultToResponse(res validationuc.Result) ValidationResponse {
	resp := ValidationResponse{
		ID:         res.ID,
		Schema:     res.Schema,
		Valid:      res.Valid(),
		ErrorCount: res.ErrorCount(),
		DurationMs: float64(res.Duration.Microseconds()) / 1000,
		Reports:    make([]DocumentReport, len(res.Reports)),
	}
	for i, rep := range res.Reports {
		resp.Reports[i] = reportToResponse(rep)
	}
	return resp
}

func reportToResponse(rep domval.Report) DocumentReport {
	items := make([]ValidationErrorItem, len(rep.Errors))
	for i, e := range rep.Errors {
		items[i] = ValidationErrorItem{
			Rule:       e.Rule,
			PropertyID: e.PropertyID,
			FieldName:  e.FieldName,
			Message:    e.Message,
		}
	}
	return DocumentReport{DocumentType: rep.DocumentType, Valid: rep.Valid(), Errors: items}
}
