package errors

import (
	"errors"
	"fmt"
	"testing"
)

// TestSplitMismatchError tests formatting and errors.As detection
func TestSplitMismatchError(t *testing.T) {
	err := NewSplitMismatchError("100.00", "99.99")

	if !IsSplitMismatch(err) {
		t.Error("IsSplitMismatch() = false, want true")
	}
	if IsSplitMismatch(ErrInvalidInput) {
		t.Error("IsSplitMismatch(ErrInvalidInput) = true, want false")
	}

	var sm *SplitMismatchError
	if !errors.As(err, &sm) {
		t.Fatal("errors.As failed for SplitMismatchError")
	}
	if sm.Expected != "100.00" || sm.Actual != "99.99" {
		t.Errorf("SplitMismatchError carries %s/%s, want 100.00/99.99", sm.Expected, sm.Actual)
	}
}

// TestSplitMismatch_Wrapped verifies detection through wrapping
func TestSplitMismatch_Wrapped(t *testing.T) {
	err := fmt.Errorf("computing splits: %w", NewSplitMismatchError("50.00", "49.00"))
	if !IsSplitMismatch(err) {
		t.Error("IsSplitMismatch() should see through fmt.Errorf wrapping")
	}
}

// TestOverSettlementError tests the over-settlement type
func TestOverSettlementError(t *testing.T) {
	err := NewOverSettlementError("33.34", "30.00", "5.00")
	if !IsOverSettlement(err) {
		t.Error("IsOverSettlement() = false, want true")
	}
	if IsOverSettlement(errors.New("other")) {
		t.Error("IsOverSettlement() on unrelated error = true, want false")
	}
}

// TestInconsistentSplitError tests the conservation-violation type
func TestInconsistentSplitError(t *testing.T) {
	err := NewInconsistentSplitError("abc", "100.00", "99.00")
	if !IsInconsistentSplit(err) {
		t.Error("IsInconsistentSplit() = false, want true")
	}
}

// TestDomainError_Unwrap tests the error chain
func TestDomainError_Unwrap(t *testing.T) {
	base := ErrEntityNotFound
	wrapped := NewDomainError("EXPENSE_NOT_FOUND", "expense not found", base)

	if !errors.Is(wrapped, ErrEntityNotFound) {
		t.Error("DomainError should unwrap to its base error")
	}
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound() should see through DomainError")
	}
}

// TestValidationErrors tests the composite validation error
func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	if errs.HasErrors() {
		t.Error("empty ValidationErrors should not report errors")
	}

	errs.Add("total_amount", "must be positive")
	errs.Add("currency", "is required")

	if !errs.HasErrors() {
		t.Error("ValidationErrors with entries should report errors")
	}
	if len(errs) != 2 {
		t.Errorf("len = %d, want 2", len(errs))
	}
	if !IsValidationError(errs) {
		t.Error("IsValidationError() = false, want true")
	}
}

// TestConcurrencyError tests the optimistic-locking error
func TestConcurrencyError(t *testing.T) {
	err := NewConcurrencyError("Balance", "u1:u2", "version changed")
	if !IsConcurrencyError(err) {
		t.Error("IsConcurrencyError() = false, want true")
	}
	if IsConcurrencyError(ErrPairNotFound) {
		t.Error("IsConcurrencyError(ErrPairNotFound) = true, want false")
	}
}
