// Package expense - SettleSplit use case.
package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/events"
)

// SettleSplitUseCase settles a participant's split in full and removes the
// settled amount from their balance with the payer. Idempotent: settling an
// already settled split moves nothing and emits nothing.
type SettleSplitUseCase struct {
	expenseRepo ports.ExpenseRepository
	balanceRepo ports.BalanceRepository
	outbox      ports.OutboxRepository
	cache       ports.BalanceCache
	uow         ports.UnitOfWork
}

// NewSettleSplitUseCase creates the use case.
func NewSettleSplitUseCase(
	expenseRepo ports.ExpenseRepository,
	balanceRepo ports.BalanceRepository,
	outbox ports.OutboxRepository,
	cache ports.BalanceCache,
	uow ports.UnitOfWork,
) *SettleSplitUseCase {
	return &SettleSplitUseCase{
		expenseRepo: expenseRepo,
		balanceRepo: balanceRepo,
		outbox:      outbox,
		cache:       cache,
		uow:         uow,
	}
}

// Execute settles the split.
func (uc *SettleSplitUseCase) Execute(ctx context.Context, cmd dtos.SettleSplitCommand) (*dtos.ExpenseDTO, error) {
	expenseID, err := uuid.Parse(cmd.ExpenseID)
	if err != nil {
		return nil, errors.ValidationError{Field: "expense_id", Message: "invalid UUID"}
	}
	userID, err := uuid.Parse(cmd.UserID)
	if err != nil {
		return nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID"}
	}

	var exp *entities.Expense
	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		exp, err = uc.expenseRepo.FindByID(txCtx, expenseID)
		if err != nil {
			if errors.IsNotFound(err) {
				return fmt.Errorf("%w: expense %s", errors.ErrEntityNotFound, cmd.ExpenseID)
			}
			return fmt.Errorf("failed to load expense: %w", err)
		}

		delta, err := exp.SettleSplit(userID)
		if err != nil {
			return err
		}
		if delta.IsZero() {
			// Already settled, nothing to write.
			return nil
		}

		if userID != exp.PaidByUserID() {
			if err := reduceDebt(txCtx, uc.balanceRepo, exp, userID, delta); err != nil {
				return err
			}
		}
		if err := uc.expenseRepo.Save(txCtx, exp); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}

		split, err := exp.SplitForUser(userID)
		if err != nil {
			return err
		}
		event := events.NewSplitSettled(exp.ID(), userID, delta.Decimal(), exp.Currency().Code(), split.State())
		if err := uc.outbox.Save(txCtx, event); err != nil {
			return fmt.Errorf("failed to stage event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateBalances(ctx, uc.cache, exp)

	dto := dtos.ToExpenseDTO(exp)
	return &dto, nil
}
