// Package common holds shared types for the HTTP layer.
//
// Separate package to avoid import cycles between handlers and the main
// http package.
package common

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/splitzy/expense-service/internal/domain/errors"
)

// ============================================
// Standard API Response Format
// ============================================

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Meta      *APIMeta    `json:"meta,omitempty"`
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIMeta carries pagination info.
type APIMeta struct {
	Page       int `json:"page,omitempty"`
	PerPage    int `json:"per_page,omitempty"`
	Total      int `json:"total,omitempty"`
	TotalPages int `json:"total_pages,omitempty"`
}

// APIError is the error body.
type APIError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Fields     []FieldError           `json:"fields,omitempty"`
	RetryAfter int                    `json:"retry_after,omitempty"`
}

// FieldError describes a single invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ============================================
// Error Codes
// ============================================

const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"
	ErrCodeSplitMismatch     = "SPLIT_MISMATCH"
	ErrCodeInconsistentSplit = "INCONSISTENT_SPLIT"
	ErrCodeOverSettlement    = "OVER_SETTLEMENT"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeConcurrency       = "CONCURRENCY_ERROR"
	ErrCodeTimeout           = "TIMEOUT"
	ErrCodeUnavailable       = "SERVICE_UNAVAILABLE"
)

// ============================================
// Request ID
// ============================================

const RequestIDKey = "X-Request-ID"

// GetRequestID returns the request ID from the gin context.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		return id.(string)
	}
	return ""
}

// SetRequestID stores the request ID in the context and response header.
func SetRequestID(c *gin.Context, id string) {
	c.Set(RequestIDKey, id)
	c.Header(RequestIDKey, id)
}

// ============================================
// Response Helpers
// ============================================

// Success sends a successful response.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Data:      data,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// SuccessWithMeta sends a successful response with pagination meta.
func SuccessWithMeta(c *gin.Context, statusCode int, data interface{}, meta *APIMeta) {
	c.JSON(statusCode, APIResponse{
		Success:   true,
		Data:      data,
		Meta:      meta,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// Error sends an error response.
func Error(c *gin.Context, statusCode int, apiError *APIError) {
	c.JSON(statusCode, APIResponse{
		Success:   false,
		Error:     apiError,
		RequestID: GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// ============================================
// Error Response Helpers
// ============================================

// ValidationErrorResponse builds a 400 with field errors.
func ValidationErrorResponse(c *gin.Context, fields []FieldError) {
	Error(c, http.StatusBadRequest, &APIError{
		Code:    ErrCodeValidation,
		Message: "Request validation failed",
		Fields:  fields,
	})
}

// NotFoundResponse builds a 404.
func NotFoundResponse(c *gin.Context, resource string) {
	Error(c, http.StatusNotFound, &APIError{
		Code:    ErrCodeNotFound,
		Message: resource + " not found",
		Details: map[string]interface{}{
			"resource": resource,
		},
	})
}

// BadRequestResponse builds a 400 with a plain message.
func BadRequestResponse(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, &APIError{
		Code:    ErrCodeBadRequest,
		Message: message,
	})
}

// UnauthorizedResponse builds a 401.
func UnauthorizedResponse(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, &APIError{
		Code:    ErrCodeUnauthorized,
		Message: message,
	})
}

// ForbiddenResponse builds a 403.
func ForbiddenResponse(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, &APIError{
		Code:    ErrCodeForbidden,
		Message: message,
	})
}

// ConflictResponse builds a 409.
func ConflictResponse(c *gin.Context, message string) {
	Error(c, http.StatusConflict, &APIError{
		Code:    ErrCodeConflict,
		Message: message,
	})
}

// TooManyRequestsResponse builds a 429.
func TooManyRequestsResponse(c *gin.Context, retryAfter int) {
	Error(c, http.StatusTooManyRequests, &APIError{
		Code:       ErrCodeTooManyRequests,
		Message:    "Too many requests, please try again later",
		RetryAfter: retryAfter,
	})
}

// InternalErrorResponse builds a 500.
func InternalErrorResponse(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, &APIError{
		Code:    ErrCodeInternal,
		Message: message,
	})
}

// ============================================
// Domain Error to HTTP Error Mapper
// ============================================

// HandleDomainError maps a domain error to an HTTP response.
func HandleDomainError(c *gin.Context, err error) {
	if domainerrors.IsValidationError(err) {
		if fields := extractFieldErrors(err); len(fields) > 0 {
			ValidationErrorResponse(c, fields)
			return
		}
		BadRequestResponse(c, err.Error())
		return
	}

	var mismatch *domainerrors.SplitMismatchError
	if errors.As(err, &mismatch) {
		Error(c, http.StatusUnprocessableEntity, &APIError{
			Code:    ErrCodeSplitMismatch,
			Message: mismatch.Error(),
			Details: map[string]interface{}{
				"expected": mismatch.Expected,
				"actual":   mismatch.Actual,
			},
		})
		return
	}

	var over *domainerrors.OverSettlementError
	if errors.As(err, &over) {
		Error(c, http.StatusUnprocessableEntity, &APIError{
			Code:    ErrCodeOverSettlement,
			Message: over.Error(),
			Details: map[string]interface{}{
				"owed":      over.Owed,
				"settled":   over.Settled,
				"attempted": over.Attempted,
			},
		})
		return
	}

	// Conservation violations are internal bugs, not user errors.
	if domainerrors.IsInconsistentSplit(err) {
		Error(c, http.StatusInternalServerError, &APIError{
			Code:    ErrCodeInconsistentSplit,
			Message: "Split computation produced an inconsistent result",
		})
		return
	}

	if domainerrors.IsConcurrencyError(err) {
		Error(c, http.StatusConflict, &APIError{
			Code:    ErrCodeConcurrency,
			Message: "Resource was modified by another request, please retry",
			Details: map[string]interface{}{
				"retryable": true,
			},
		})
		return
	}

	if domainerrors.IsNotFound(err) || errors.Is(err, domainerrors.ErrPairNotFound) {
		NotFoundResponse(c, "Resource")
		return
	}

	switch {
	case errors.Is(err, domainerrors.ErrInvalidState):
		Error(c, http.StatusUnprocessableEntity, &APIError{
			Code:    ErrCodeInvalidState,
			Message: err.Error(),
		})
		return
	case errors.Is(err, domainerrors.ErrInvalidInput),
		errors.Is(err, domainerrors.ErrUnsupportedStrategy),
		errors.Is(err, domainerrors.ErrInvalidSettlementAmount):
		BadRequestResponse(c, err.Error())
		return
	case errors.Is(err, domainerrors.ErrEntityAlreadyExists):
		ConflictResponse(c, err.Error())
		return
	}

	var domainErr *domainerrors.DomainError
	if errors.As(err, &domainErr) {
		Error(c, http.StatusBadRequest, &APIError{
			Code:    domainErr.Code,
			Message: domainErr.Message,
		})
		return
	}

	InternalErrorResponse(c, "An unexpected error occurred")
}

// extractFieldErrors flattens ValidationError / ValidationErrors chains.
func extractFieldErrors(err error) []FieldError {
	var many domainerrors.ValidationErrors
	if errors.As(err, &many) {
		fields := make([]FieldError, 0, len(many))
		for _, v := range many {
			fields = append(fields, FieldError{Field: v.Field, Message: v.Message, Code: "invalid"})
		}
		return fields
	}

	var one domainerrors.ValidationError
	if errors.As(err, &one) {
		return []FieldError{{Field: one.Field, Message: one.Message, Code: "invalid"}}
	}
	return nil
}
