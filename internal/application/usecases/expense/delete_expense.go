// Package expense - DeleteExpense use case.
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

// DeleteExpenseUseCase archives an expense and reverses the unsettled part
// of its debts. The row survives for audit; only balances move.
type DeleteExpenseUseCase struct {
	expenseRepo ports.ExpenseRepository
	balanceRepo ports.BalanceRepository
	outbox      ports.OutboxRepository
	cache       ports.BalanceCache
	uow         ports.UnitOfWork
}

// NewDeleteExpenseUseCase creates the use case.
func NewDeleteExpenseUseCase(
	expenseRepo ports.ExpenseRepository,
	balanceRepo ports.BalanceRepository,
	outbox ports.OutboxRepository,
	cache ports.BalanceCache,
	uow ports.UnitOfWork,
) *DeleteExpenseUseCase {
	return &DeleteExpenseUseCase{
		expenseRepo: expenseRepo,
		balanceRepo: balanceRepo,
		outbox:      outbox,
		cache:       cache,
		uow:         uow,
	}
}

// Execute archives the expense. Archiving twice is rejected.
func (uc *DeleteExpenseUseCase) Execute(ctx context.Context, cmd dtos.DeleteExpenseCommand) error {
	id, err := uuid.Parse(cmd.ExpenseID)
	if err != nil {
		return errors.ValidationError{Field: "expense_id", Message: "invalid UUID"}
	}

	var exp *entities.Expense
	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		exp, err = uc.expenseRepo.FindByID(txCtx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				return fmt.Errorf("%w: expense %s", errors.ErrEntityNotFound, cmd.ExpenseID)
			}
			return fmt.Errorf("failed to load expense: %w", err)
		}
		if !exp.IsActive() {
			return errors.ErrInvalidState
		}

		if err := reverseDebts(txCtx, uc.balanceRepo, exp); err != nil {
			return err
		}

		exp.Deactivate()
		if err := uc.expenseRepo.Save(txCtx, exp); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
		if err := uc.outbox.Save(txCtx, events.NewExpenseDeleted(exp)); err != nil {
			return fmt.Errorf("failed to stage event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	invalidateBalances(ctx, uc.cache, exp)
	return nil
}
