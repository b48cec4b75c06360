package entities

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	domainerrors "github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

func cents(t *testing.T, v int64) valueobjects.Money {
	t.Helper()
	return valueobjects.NewMoneyFromCents(v, valueobjects.USD)
}

func TestNewSplit(t *testing.T) {
	userID := uuid.New()
	s := NewSplit(userID, cents(t, 3334))

	if s.UserID() != userID {
		t.Errorf("UserID() = %v, want %v", s.UserID(), userID)
	}
	if s.Amount().Cents() != 3334 {
		t.Errorf("Amount() = %d cents, want 3334", s.Amount().Cents())
	}
	if !s.SettledAmount().IsZero() {
		t.Errorf("new split must start unsettled, got %s", s.SettledAmount())
	}
	if s.State() != SettlementUnsettled {
		t.Errorf("State() = %v, want %v", s.State(), SettlementUnsettled)
	}
}

func TestSplitState(t *testing.T) {
	tests := []struct {
		name    string
		amount  int64
		settled int64
		want    SettlementState
	}{
		{"nothing settled", 1000, 0, SettlementUnsettled},
		{"half settled", 1000, 500, SettlementPartiallySettled},
		{"one cent short", 1000, 999, SettlementPartiallySettled},
		{"fully settled", 1000, 1000, SettlementSettled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSplit(uuid.New(), cents(t, tt.amount))
			if tt.settled > 0 {
				if err := s.PartiallySettle(cents(t, tt.settled)); err != nil {
					t.Fatalf("PartiallySettle() error = %v", err)
				}
			}
			if got := s.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitPartiallySettle(t *testing.T) {
	t.Run("accumulates payments", func(t *testing.T) {
		s := NewSplit(uuid.New(), cents(t, 1000))

		if err := s.PartiallySettle(cents(t, 300)); err != nil {
			t.Fatalf("first payment error = %v", err)
		}
		if err := s.PartiallySettle(cents(t, 700)); err != nil {
			t.Fatalf("second payment error = %v", err)
		}
		if !s.IsSettled() {
			t.Error("split should be settled after payments sum to amount")
		}
		if s.RemainingAmount().Cents() != 0 {
			t.Errorf("RemainingAmount() = %d, want 0", s.RemainingAmount().Cents())
		}
	})

	t.Run("rejects zero payment", func(t *testing.T) {
		s := NewSplit(uuid.New(), cents(t, 1000))
		err := s.PartiallySettle(cents(t, 0))
		if !errors.Is(err, domainerrors.ErrInvalidSettlementAmount) {
			t.Errorf("error = %v, want ErrInvalidSettlementAmount", err)
		}
	})

	t.Run("rejects negative payment", func(t *testing.T) {
		s := NewSplit(uuid.New(), cents(t, 1000))
		err := s.PartiallySettle(cents(t, -100))
		if !errors.Is(err, domainerrors.ErrInvalidSettlementAmount) {
			t.Errorf("error = %v, want ErrInvalidSettlementAmount", err)
		}
	})

	t.Run("rejects over-settlement and leaves state unchanged", func(t *testing.T) {
		s := NewSplit(uuid.New(), cents(t, 1000))
		if err := s.PartiallySettle(cents(t, 900)); err != nil {
			t.Fatalf("setup payment error = %v", err)
		}

		err := s.PartiallySettle(cents(t, 200))
		if !domainerrors.IsOverSettlement(err) {
			t.Fatalf("error = %v, want OverSettlementError", err)
		}
		if s.SettledAmount().Cents() != 900 {
			t.Errorf("settled amount changed on failed settlement: %d", s.SettledAmount().Cents())
		}
		if s.State() != SettlementPartiallySettled {
			t.Errorf("State() = %v, want PARTIALLY_SETTLED", s.State())
		}
	})

	t.Run("exact remaining amount settles", func(t *testing.T) {
		s := NewSplit(uuid.New(), cents(t, 1000))
		if err := s.PartiallySettle(cents(t, 900)); err != nil {
			t.Fatalf("setup payment error = %v", err)
		}
		if err := s.PartiallySettle(cents(t, 100)); err != nil {
			t.Fatalf("closing payment error = %v", err)
		}
		if s.State() != SettlementSettled {
			t.Errorf("State() = %v, want SETTLED", s.State())
		}
	})
}

func TestSplitMarkAsSettled(t *testing.T) {
	s := NewSplit(uuid.New(), cents(t, 1000))
	if err := s.PartiallySettle(cents(t, 250)); err != nil {
		t.Fatalf("PartiallySettle() error = %v", err)
	}

	s.MarkAsSettled()
	if !s.IsSettled() {
		t.Error("split should be settled")
	}

	// Idempotent.
	s.MarkAsSettled()
	if s.SettledAmount().Cents() != 1000 {
		t.Errorf("SettledAmount() = %d after repeated settle, want 1000", s.SettledAmount().Cents())
	}
}
