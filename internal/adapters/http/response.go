// Package http contains the HTTP adapter (REST API).
//
// Package layout:
// - common/: shared response types and helpers (split out to avoid import cycles)
// - middleware/: HTTP middleware (auth, logging, recovery, metrics)
// - handlers/: HTTP handlers per resource
// - router.go: route configuration
// - server.go: HTTP server lifecycle
//
// The adapter translates HTTP requests into use case calls and holds no
// business logic of its own.
package http

import (
	"github.com/splitzy/expense-service/internal/adapters/http/common"
)

// Re-export types from the common package for convenience
type (
	// APIResponse is the standard API response envelope.
	APIResponse = common.APIResponse
	// APIMeta carries pagination metadata.
	APIMeta = common.APIMeta
	// APIError is the API error structure.
	APIError = common.APIError
	// FieldError describes a single invalid field.
	FieldError = common.FieldError
)

// Re-export error codes
const (
	ErrCodeValidation        = common.ErrCodeValidation
	ErrCodeNotFound          = common.ErrCodeNotFound
	ErrCodeBadRequest        = common.ErrCodeBadRequest
	ErrCodeUnauthorized      = common.ErrCodeUnauthorized
	ErrCodeForbidden         = common.ErrCodeForbidden
	ErrCodeConflict          = common.ErrCodeConflict
	ErrCodeTooManyRequests   = common.ErrCodeTooManyRequests
	ErrCodeSplitMismatch     = common.ErrCodeSplitMismatch
	ErrCodeInconsistentSplit = common.ErrCodeInconsistentSplit
	ErrCodeOverSettlement    = common.ErrCodeOverSettlement
	ErrCodeInvalidState      = common.ErrCodeInvalidState
	ErrCodeInternal          = common.ErrCodeInternal
	ErrCodeConcurrency       = common.ErrCodeConcurrency
	ErrCodeTimeout           = common.ErrCodeTimeout
	ErrCodeUnavailable       = common.ErrCodeUnavailable
)

// Re-export functions
var (
	// GetRequestID returns the request ID from the context.
	GetRequestID = common.GetRequestID
	// SetRequestID stores the request ID in the context.
	SetRequestID = common.SetRequestID
	// Success sends a success response.
	Success = common.Success
	// SuccessWithMeta sends a success response with pagination metadata.
	SuccessWithMeta = common.SuccessWithMeta
	// Error sends an error response.
	Error = common.Error
	// ValidationErrorResponse builds a validation error response.
	ValidationErrorResponse = common.ValidationErrorResponse
	// NotFoundResponse builds a 404 response.
	NotFoundResponse = common.NotFoundResponse
	// BadRequestResponse builds a 400 response.
	BadRequestResponse = common.BadRequestResponse
	// UnauthorizedResponse builds a 401 response.
	UnauthorizedResponse = common.UnauthorizedResponse
	// ForbiddenResponse builds a 403 response.
	ForbiddenResponse = common.ForbiddenResponse
	// ConflictResponse builds a 409 response.
	ConflictResponse = common.ConflictResponse
	// TooManyRequestsResponse builds a 429 response.
	TooManyRequestsResponse = common.TooManyRequestsResponse
	// InternalErrorResponse builds a 500 response.
	InternalErrorResponse = common.InternalErrorResponse
	// HandleDomainError translates a domain error into an HTTP response.
	HandleDomainError = common.HandleDomainError
)
