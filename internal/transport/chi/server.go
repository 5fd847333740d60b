package chi

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/schemaguard/internal/domain"
	dommapping "github.com/kailas-cloud/schemaguard/internal/domain/mapping"
	"github.com/kailas-cloud/schemaguard/internal/logger"
	healthuc "github.com/kailas-cloud/schemaguard/internal/usecase/health"
	schemauc "github.com/kailas-cloud/schemaguard/internal/usecase/schema"
	validationuc "github.com/kailas-cloud/schemaguard/internal/usecase/validation"
)

// defaultMaxBodyBytes caps schema and mapping uploads when no limit is configured.
const defaultMaxBodyBytes = 4 << 20

// MappingParser decodes a mapping document sent with a validation request.
type MappingParser interface {
	Parse(r io.Reader) (*dommapping.Model, error)
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the schema and validation API.
type Server struct {
	schemas       *schemauc.Service
	validation    *validationuc.Service
	health        *healthuc.Service
	mappings      MappingParser
	logger        *zap.Logger
	maxBodyBytes  int64
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	schemas *schemauc.Service,
	validation *validationuc.Service,
	health *healthuc.Service,
	mappings MappingParser,
	log *zap.Logger,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		schemas:      schemas,
		validation:   validation,
		health:       health,
		mappings:     mappings,
		logger:       log,
		maxBodyBytes: defaultMaxBodyBytes,
	}
	s.errorHandlers = []errorHandler{
		bodyTooLargeHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeSchemaNotFound),
		sentinelHandler(domain.ErrIndexNotFound, http.StatusNotFound, ErrorCodeIndexNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeSchemaExists),
		sentinelHandler(domain.ErrUnknownDocumentType, http.StatusNotFound, ErrorCodeUnknownDocumentType),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrInvalidMapping, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrMappingUnavailable, http.StatusUnprocessableEntity, ErrorCodeMappingUnavailable),
		sentinelHandler(domain.ErrSchemaUnavailable, http.StatusServiceUnavailable, ErrorCodeSchemaUnavailable),
	}
	return s
}

// WithMaxBodyBytes caps request bodies.
func (s *Server) WithMaxBodyBytes(n int64) *Server {
	if n > 0 {
		s.maxBodyBytes = n
	}
	return s
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/schemas", func(r chi.Router) {
		r.Get("/", s.ListSchemas)
		r.Put("/{schema}", s.ImportSchema)
		r.Get("/{schema}", s.GetSchema)
		r.Delete("/{schema}", s.DeleteSchema)
		r.Post("/{schema}/introspect", s.IntrospectSchema)
		r.Post("/{schema}/validate", s.ValidateMapping)
	})
}

// ImportSchema handles PUT /schemas/{schema} with a schema.xml body.
// With "If-None-Match: *" an existing schema is left untouched and 409 is returned.
func (s *Server) ImportSchema(w http.ResponseWriter, r *http.Request) {
	name, ok := s.schemaParam(w, r)
	if !ok {
		return
	}
	var origin string
	if err := runtime.BindQueryParameter("form", true, false, "origin", r.URL.Query(), &origin); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter origin: "+err.Error())
		return
	}

	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	store := s.schemas.Import
	if r.Header.Get("If-None-Match") == "*" {
		store = s.schemas.Create
	}
	snap, err := store(r.Context(), name, origin, body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, schemaToResponse(snap))
}

// IntrospectSchema handles POST /schemas/{schema}/introspect?index=.
func (s *Server) IntrospectSchema(w http.ResponseWriter, r *http.Request) {
	name, ok := s.schemaParam(w, r)
	if !ok {
		return
	}
	var index string
	if err := runtime.BindQueryParameter("form", true, true, "index", r.URL.Query(), &index); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter index: "+err.Error())
		return
	}

	snap, err := s.schemas.Introspect(r.Context(), name, index)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, schemaToResponse(snap))
}

// ListSchemas handles GET /schemas.
func (s *Server) ListSchemas(w http.ResponseWriter, r *http.Request) {
	snaps, err := s.schemas.List(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SchemaSummary, len(snaps))
	for i, snap := range snaps {
		items[i] = schemaToSummary(snap)
	}
	writeJSON(w, http.StatusOK, SchemaListResponse{Items: items})
}

// GetSchema handles GET /schemas/{schema}.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	name, ok := s.schemaParam(w, r)
	if !ok {
		return
	}

	snap, err := s.schemas.Get(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, schemaToResponse(snap))
}

// DeleteSchema handles DELETE /schemas/{schema}.
func (s *Server) DeleteSchema(w http.ResponseWriter, r *http.Request) {
	name, ok := s.schemaParam(w, r)
	if !ok {
		return
	}

	if err := s.schemas.Delete(r.Context(), name); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ValidateMapping handles POST /schemas/{schema}/validate?type=.
// An empty body validates the server's configured mappings; otherwise the body is a YAML mapping document.
func (s *Server) ValidateMapping(w http.ResponseWriter, r *http.Request) {
	name, ok := s.schemaParam(w, r)
	if !ok {
		return
	}
	var types []string
	if err := runtime.BindQueryParameter("form", true, false, "type", r.URL.Query(), &types); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter type: "+err.Error())
		return
	}

	req := validationuc.Request{DocumentTypes: types}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if len(bytes.TrimSpace(data)) > 0 {
		m, err := s.mappings.Parse(bytes.NewReader(data))
		if err != nil {
			s.handleDomainError(w, r, err)
			return
		}
		req.Mapping = m
	}

	res, err := s.validation.Validate(r.Context(), name, req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	logger.FromContext(r.Context()).Debug("validation served",
		zap.String("validation_id", res.ID),
		zap.String("schema", name),
		zap.Bool("valid", res.Valid()),
	)
	writeJSON(w, http.StatusOK, resultToResponse(res))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// schemaParam binds the {schema} path segment; writes a 400 and returns false on failure.
func (s *Server) schemaParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "schema", chi.URLParam(r, "schema"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid format for parameter schema: "+err.Error())
		return "", false
	}
	return name, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// detailedSentinels carry user input in their message and are returned verbatim.
var detailedSentinels = []error{
	domain.ErrInvalidSchema,
	domain.ErrInvalidMapping,
	domain.ErrUnknownDocumentType,
	domain.ErrIndexNotFound,
}

// opaqueSentinels are reported by their sentinel text only.
var opaqueSentinels = []error{
	domain.ErrNotFound,
	domain.ErrAlreadyExists,
	domain.ErrMappingUnavailable,
	domain.ErrSchemaUnavailable,
}

// safeDomainMessage returns a client message for err without exposing internals.
func safeDomainMessage(err error) string {
	for _, s := range detailedSentinels {
		if errors.Is(err, s) {
			return err.Error()
		}
	}
	for _, s := range opaqueSentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func bodyTooLargeHandler(w http.ResponseWriter, err error, _ string) bool {
	var tooLarge *http.MaxBytesError
	if !errors.As(err, &tooLarge) {
		return false
	}
	writeError(w, http.StatusRequestEntityTooLarge, ErrorCodeRequestTooLarge, "request body too large")
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn("domain error", zap.String("path", r.URL.Path), zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
