package expense

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	domainerrors "github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/events"
	"github.com/splitzy/expense-service/internal/domain/split"
)

type createFixture struct {
	uc       *CreateExpenseUseCase
	expenses *mockExpenseRepo
	balances *mockBalanceRepo
	outbox   *mockOutbox
	cache    *mockBalanceCache
}

func newCreateFixture() createFixture {
	expenses := newMockExpenseRepo()
	balances := newMockBalanceRepo()
	outbox := newMockOutbox()
	cache := newMockBalanceCache()
	engine := split.NewEngine(slog.New(slog.NewTextHandler(io.Discard, nil)))
	uc := NewCreateExpenseUseCase(expenses, balances, outbox, cache, engine, mockUnitOfWork{})
	return createFixture{uc: uc, expenses: expenses, balances: balances, outbox: outbox, cache: cache}
}

func strp(s string) *string { return &s }

func TestCreateExpenseEqual(t *testing.T) {
	f := newCreateFixture()
	payer := uuid.New()
	p2 := uuid.New()
	p3 := uuid.New()

	dto, err := f.uc.Execute(context.Background(), dtos.CreateExpenseCommand{
		Title:        "Dinner",
		Amount:       "100.00",
		CurrencyCode: "USD",
		PaidByUserID: payer.String(),
		Category:     "FOOD",
		SplitType:    "EQUAL",
		Participants: []dtos.ParticipantInputDTO{
			{UserID: payer.String()},
			{UserID: p2.String()},
			{UserID: p3.String()},
		},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if dto.Amount != "100.00" || dto.Status != "ACTIVE" {
		t.Errorf("dto = %s/%s, want 100.00/ACTIVE", dto.Amount, dto.Status)
	}
	if len(dto.Splits) != 3 {
		t.Fatalf("splits = %d, want 3", len(dto.Splits))
	}
	if dto.Splits[0].Amount != "33.33" || dto.Splits[2].Amount != "33.34" {
		t.Errorf("split amounts = %s..%s, want 33.33..33.34", dto.Splits[0].Amount, dto.Splits[2].Amount)
	}

	// Payer's own split creates no debt; the other two owe the payer.
	b2, err := f.balances.FindByPair(context.Background(), p2, payer)
	if err != nil {
		t.Fatalf("balance p2/payer missing: %v", err)
	}
	owed, err := b2.AmountFor(p2)
	if err != nil {
		t.Fatalf("AmountFor() error = %v", err)
	}
	if owed.Decimal() != "33.33" {
		t.Errorf("p2 owes %s, want 33.33", owed.Decimal())
	}

	if got := len(f.outbox.eventsOfType(events.EventTypeExpenseCreated)); got != 1 {
		t.Errorf("staged ExpenseCreated events = %d, want 1", got)
	}
	if len(f.cache.invalidated) == 0 {
		t.Error("balance cache should be invalidated after create")
	}
}

func TestCreateExpenseExactMismatch(t *testing.T) {
	f := newCreateFixture()
	payer := uuid.New()
	other := uuid.New()

	_, err := f.uc.Execute(context.Background(), dtos.CreateExpenseCommand{
		Title:        "Dinner",
		Amount:       "100.00",
		CurrencyCode: "USD",
		PaidByUserID: payer.String(),
		Category:     "FOOD",
		SplitType:    "EXACT",
		Participants: []dtos.ParticipantInputDTO{
			{UserID: payer.String(), Amount: strp("50.00")},
			{UserID: other.String(), Amount: strp("49.99")},
		},
	})
	if !domainerrors.IsSplitMismatch(err) {
		t.Fatalf("error = %v, want SplitMismatchError", err)
	}

	// Nothing persisted and nothing staged on rejection.
	if n, _ := f.expenses.Count(context.Background(), ports.ExpenseFilter{}); n != 0 {
		t.Errorf("expenses persisted = %d, want 0", n)
	}
	if len(f.outbox.staged) != 0 {
		t.Errorf("staged events = %d, want 0", len(f.outbox.staged))
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	f := newCreateFixture()

	tests := []struct {
		name string
		cmd  dtos.CreateExpenseCommand
	}{
		{"bad currency", dtos.CreateExpenseCommand{
			Title: "x", Amount: "10.00", CurrencyCode: "ZZZ",
			PaidByUserID: uuid.New().String(), Category: "FOOD", SplitType: "EQUAL",
			Participants: []dtos.ParticipantInputDTO{{UserID: uuid.New().String()}},
		}},
		{"bad amount", dtos.CreateExpenseCommand{
			Title: "x", Amount: "ten", CurrencyCode: "USD",
			PaidByUserID: uuid.New().String(), Category: "FOOD", SplitType: "EQUAL",
			Participants: []dtos.ParticipantInputDTO{{UserID: uuid.New().String()}},
		}},
		{"bad payer id", dtos.CreateExpenseCommand{
			Title: "x", Amount: "10.00", CurrencyCode: "USD",
			PaidByUserID: "not-a-uuid", Category: "FOOD", SplitType: "EQUAL",
			Participants: []dtos.ParticipantInputDTO{{UserID: uuid.New().String()}},
		}},
		{"no participants", dtos.CreateExpenseCommand{
			Title: "x", Amount: "10.00", CurrencyCode: "USD",
			PaidByUserID: uuid.New().String(), Category: "FOOD", SplitType: "EQUAL",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.uc.Execute(context.Background(), tt.cmd); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
