// Package expense - UpdateExpense use case.
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

// UpdateExpenseUseCase applies a partial update to an expense's descriptive
// fields. The total, the split type and the splits are immutable; changing
// the financial shape of an expense means deleting it and recording a new
// one, so balances stay explainable.
type UpdateExpenseUseCase struct {
	expenseRepo ports.ExpenseRepository
	outbox      ports.OutboxRepository
	uow         ports.UnitOfWork
}

// NewUpdateExpenseUseCase creates the use case.
func NewUpdateExpenseUseCase(
	expenseRepo ports.ExpenseRepository,
	outbox ports.OutboxRepository,
	uow ports.UnitOfWork,
) *UpdateExpenseUseCase {
	return &UpdateExpenseUseCase{
		expenseRepo: expenseRepo,
		outbox:      outbox,
		uow:         uow,
	}
}

// Execute updates the expense.
func (uc *UpdateExpenseUseCase) Execute(ctx context.Context, cmd dtos.UpdateExpenseCommand) (*dtos.ExpenseDTO, error) {
	id, err := uuid.Parse(cmd.ExpenseID)
	if err != nil {
		return nil, errors.ValidationError{Field: "expense_id", Message: "invalid UUID"}
	}

	var dto dtos.ExpenseDTO
	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		exp, err := uc.expenseRepo.FindByID(txCtx, id)
		if err != nil {
			if errors.IsNotFound(err) {
				return fmt.Errorf("%w: expense %s", errors.ErrEntityNotFound, cmd.ExpenseID)
			}
			return fmt.Errorf("failed to load expense: %w", err)
		}

		fields := entities.UpdateFields{
			Title:       cmd.Title,
			Description: cmd.Description,
			ExpenseDate: cmd.ExpenseDate,
			Notes:       cmd.Notes,
			ReceiptURL:  cmd.ReceiptURL,
		}
		if cmd.Category != nil {
			c := entities.ExpenseCategory(*cmd.Category)
			fields.Category = &c
		}
		if err := exp.Update(fields); err != nil {
			return err
		}

		if err := uc.expenseRepo.Save(txCtx, exp); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
		if err := uc.outbox.Save(txCtx, events.NewExpenseUpdated(exp)); err != nil {
			return fmt.Errorf("failed to stage event: %w", err)
		}

		dto = dtos.ToExpenseDTO(exp)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}
