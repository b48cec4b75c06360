package valueobjects

import (
	"errors"
	"testing"
)

// TestNewCurrency tests currency code validation and normalization
func TestNewCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCode string
		wantErr  bool
	}{
		{"uppercase code", "USD", "USD", false},
		{"lowercase normalized", "usd", "USD", false},
		{"whitespace trimmed", "  EUR  ", "EUR", false},
		{"inr supported", "INR", "INR", false},
		{"unsupported code", "XXX", "", true},
		{"too short", "US", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			curr, err := NewCurrency(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidCurrency) {
					t.Errorf("NewCurrency(%q) error = %v, want ErrInvalidCurrency", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewCurrency(%q) error = %v, want nil", tt.input, err)
			}
			if curr.Code() != tt.wantCode {
				t.Errorf("NewCurrency(%q).Code() = %q, want %q", tt.input, curr.Code(), tt.wantCode)
			}
		})
	}
}

// TestCurrency_Equals tests value comparison
func TestCurrency_Equals(t *testing.T) {
	if !USD.Equals(MustNewCurrency("usd")) {
		t.Error("USD should equal normalized usd")
	}
	if USD.Equals(EUR) {
		t.Error("USD should not equal EUR")
	}
	if !(Currency{}).IsZero() {
		t.Error("zero Currency should report IsZero")
	}
	if USD.IsZero() {
		t.Error("USD should not report IsZero")
	}
}

// TestMustNewCurrency_Panics verifies the panic contract
func TestMustNewCurrency_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustNewCurrency with invalid code should panic")
		}
	}()
	MustNewCurrency("NOPE")
}
