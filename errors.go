package schemaguard

import "github.com/kailas-cloud/schemaguard/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound            = domain.ErrNotFound
	ErrAlreadyExists       = domain.ErrAlreadyExists
	ErrInvalidSchema       = domain.ErrInvalidSchema
	ErrInvalidMapping      = domain.ErrInvalidMapping
	ErrSchemaUnavailable   = domain.ErrSchemaUnavailable
	ErrMappingUnavailable  = domain.ErrMappingUnavailable
	ErrUnknownDocumentType = domain.ErrUnknownDocumentType
	ErrIndexNotFound       = domain.ErrIndexNotFound
)
