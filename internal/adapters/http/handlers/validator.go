// Package handlers contains the HTTP handlers for the REST API.
//
// A handler accepts the HTTP request, builds a Command/Query DTO, calls a
// use case and renders the result.
package handlers

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/splitzy/expense-service/internal/adapters/http/common"
)

// ============================================
// Custom Validator Setup
// ============================================

var (
	setupOnce sync.Once
	validate  *validator.Validate
)

// Validator returns the shared validator with the domain's custom rules
// registered. Commands carry their own validate tags; handlers run them
// through this instance before invoking a use case.
func Validator() *validator.Validate {
	setupOnce.Do(func() {
		v := validator.New()

		// Use json tag for field names in errors
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		_ = v.RegisterValidation("currency_code", validateCurrencyCode)
		_ = v.RegisterValidation("money_amount", validateMoneyAmount)
		_ = v.RegisterValidation("signed_amount", validateSignedAmount)

		validate = v
	})
	return validate
}

// ============================================
// Custom Validators
// ============================================

// validateCurrencyCode checks a currency code (3 uppercase letters).
func validateCurrencyCode(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if len(code) != 3 {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}

// validateMoneyAmount checks a non-negative decimal string with at most two
// fraction digits.
var moneyPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func validateMoneyAmount(fl validator.FieldLevel) bool {
	return moneyPattern.MatchString(fl.Field().String())
}

// validateSignedAmount also accepts a leading minus. Used for adjustment
// deltas, which may be negative.
var signedPattern = regexp.MustCompile(`^-?\d+(\.\d{1,2})?$`)

func validateSignedAmount(fl validator.FieldLevel) bool {
	return signedPattern.MatchString(fl.Field().String())
}

// ============================================
// Validation Error Handling
// ============================================

// HandleValidationErrors renders validator failures as an HTTP response.
func HandleValidationErrors(c *gin.Context, err error) {
	var fieldErrors []common.FieldError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldErr := range validationErrors {
			fieldErrors = append(fieldErrors, common.FieldError{
				Field:   fieldErr.Field(),
				Message: getValidationMessage(fieldErr),
				Code:    fieldErr.Tag(),
			})
		}
	}

	if len(fieldErrors) == 0 {
		common.BadRequestResponse(c, "Invalid request body: "+err.Error())
		return
	}

	common.ValidationErrorResponse(c, fieldErrors)
}

// getValidationMessage returns a readable message for a failed rule.
func getValidationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Invalid UUID format"
	case "min":
		return "Value is too small (minimum: " + fe.Param() + ")"
	case "max":
		return "Value is too large (maximum: " + fe.Param() + ")"
	case "oneof":
		return "Value must be one of: " + fe.Param()
	case "url":
		return "Invalid URL format"
	case "currency_code":
		return "Invalid currency code (must be 3 uppercase letters)"
	case "money_amount":
		return "Invalid amount format (use decimal like '100.50')"
	case "signed_amount":
		return "Invalid amount format (use decimal like '-12.50')"
	default:
		return "Invalid value"
	}
}

// ============================================
// Request Parsing Helpers
// ============================================

// BindJSON binds the JSON body. Returns false when binding failed and the
// error response was already sent.
func BindJSON[T any](c *gin.Context, req *T) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// ValidateStruct runs the command through the shared validator. Returns
// false when validation failed and the error response was already sent.
func ValidateStruct(c *gin.Context, cmd any) bool {
	if err := Validator().Struct(cmd); err != nil {
		HandleValidationErrors(c, err)
		return false
	}
	return true
}

// ============================================
// Pagination Helper
// ============================================

// PaginationParams are offset/limit parameters from the query string.
type PaginationParams struct {
	Page    int
	PerPage int
}

// DefaultPaginationParams returns the defaults.
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page:    1,
		PerPage: 20,
	}
}

// Offset computes the SQL offset.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ParsePagination parses page/per_page from the request.
func ParsePagination(c *gin.Context) PaginationParams {
	params := DefaultPaginationParams()

	if page := c.Query("page"); page != "" {
		if p := parseInt(page); p > 0 {
			params.Page = p
		}
	}

	if perPage := c.Query("per_page"); perPage != "" {
		if pp := parseInt(perPage); pp > 0 && pp <= 100 {
			params.PerPage = pp
		}
	}

	return params
}

func parseInt(s string) int {
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// BuildMeta builds pagination meta for a listing response.
func BuildMeta(params PaginationParams, total int) *common.APIMeta {
	totalPages := total / params.PerPage
	if total%params.PerPage > 0 {
		totalPages++
	}

	return &common.APIMeta{
		Page:       params.Page,
		PerPage:    params.PerPage,
		Total:      total,
		TotalPages: totalPages,
	}
}
