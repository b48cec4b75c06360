// Package errors defines the domain error taxonomy.
// Typed errors (instead of strings) let callers distinguish the failure
// classes the split and settlement logic produces. All of them are
// deterministic: retrying with the same input reproduces the same failure,
// so none are retryable.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain validation and state checks.
var (
	// Entity lookup
	ErrEntityNotFound      = errors.New("entity not found")
	ErrEntityAlreadyExists = errors.New("entity already exists")

	// Split computation
	ErrInvalidInput        = errors.New("invalid participant input")
	ErrUnsupportedStrategy = errors.New("unsupported split strategy")

	// Expense lifecycle
	ErrInvalidState = errors.New("operation not allowed in current expense state")

	// Settlement
	ErrInvalidSettlementAmount = errors.New("settlement amount must be positive")
	ErrPairNotFound            = errors.New("no balance exists between users")
)

// SplitMismatchError is returned when EXACT or ITEMIZED splits do not sum to
// the expense total. Mismatches are rejected, never corrected; both values
// are carried so callers can report them.
type SplitMismatchError struct {
	Expected string // expense total
	Actual   string // sum of supplied amounts
}

// Error implements the error interface.
func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("split amounts do not match total: expected %s, got %s", e.Expected, e.Actual)
}

// NewSplitMismatchError creates a SplitMismatchError.
func NewSplitMismatchError(expected, actual string) *SplitMismatchError {
	return &SplitMismatchError{Expected: expected, Actual: actual}
}

// InconsistentSplitError signals that an expense failed its conservation
// check after splits were attached. This is a bug signal, not a user error:
// the split engine guarantees conservation for every strategy it accepts,
// so a failed re-check aborts the whole operation.
type InconsistentSplitError struct {
	ExpenseID string
	Total     string
	SplitSum  string
}

// Error implements the error interface.
func (e *InconsistentSplitError) Error() string {
	return fmt.Sprintf("expense %s splits sum to %s, total is %s", e.ExpenseID, e.SplitSum, e.Total)
}

// NewInconsistentSplitError creates an InconsistentSplitError.
func NewInconsistentSplitError(expenseID, total, splitSum string) *InconsistentSplitError {
	return &InconsistentSplitError{ExpenseID: expenseID, Total: total, SplitSum: splitSum}
}

// OverSettlementError is returned when a partial settlement would push the
// settled amount past the owed amount. The split is left unchanged.
type OverSettlementError struct {
	Owed      string
	Settled   string
	Attempted string
}

// Error implements the error interface.
func (e *OverSettlementError) Error() string {
	return fmt.Sprintf("settlement of %s exceeds remaining debt (owed %s, already settled %s)",
		e.Attempted, e.Owed, e.Settled)
}

// NewOverSettlementError creates an OverSettlementError.
func NewOverSettlementError(owed, settled, attempted string) *OverSettlementError {
	return &OverSettlementError{Owed: owed, Settled: settled, Attempted: attempted}
}

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %d error(s)", len(e))
}

// Add appends a validation error.
func (e *ValidationErrors) Add(field, message string) {
	*e = append(*e, ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any validation errors.
func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// DomainError wraps an error with a machine-readable code and context.
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// ConcurrencyError represents a lost optimistic-locking race on a balance or
// expense record. Unlike the rest of the taxonomy this one IS retryable: the
// caller re-reads and reapplies.
type ConcurrencyError struct {
	EntityType string
	EntityID   string
	Message    string
}

// Error implements the error interface.
func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("concurrency error on %s [%s]: %s", e.EntityType, e.EntityID, e.Message)
}

// NewConcurrencyError creates a new concurrency error.
func NewConcurrencyError(entityType, entityID, message string) *ConcurrencyError {
	return &ConcurrencyError{EntityType: entityType, EntityID: entityID, Message: message}
}

// Helper predicates for common error checking.

// IsNotFound checks for "entity not found".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntityNotFound)
}

// IsValidationError checks for field-level validation failures.
func IsValidationError(err error) bool {
	var valErr ValidationError
	var valErrs ValidationErrors
	return errors.As(err, &valErr) || errors.As(err, &valErrs)
}

// IsSplitMismatch checks for an EXACT/ITEMIZED sum mismatch.
func IsSplitMismatch(err error) bool {
	var sm *SplitMismatchError
	return errors.As(err, &sm)
}

// IsInconsistentSplit checks for a conservation violation.
func IsInconsistentSplit(err error) bool {
	var is *InconsistentSplitError
	return errors.As(err, &is)
}

// IsOverSettlement checks for a settlement exceeding the owed amount.
func IsOverSettlement(err error) bool {
	var os *OverSettlementError
	return errors.As(err, &os)
}

// IsConcurrencyError checks for an optimistic-locking conflict.
func IsConcurrencyError(err error) bool {
	var ce *ConcurrencyError
	return errors.As(err, &ce)
}
