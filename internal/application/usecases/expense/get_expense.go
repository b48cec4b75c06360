// Package expense - GetExpense use case.
package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/errors"
)

// GetExpenseUseCase fetches one expense with its splits.
type GetExpenseUseCase struct {
	expenseRepo ports.ExpenseRepository
}

// NewGetExpenseUseCase creates the use case.
func NewGetExpenseUseCase(expenseRepo ports.ExpenseRepository) *GetExpenseUseCase {
	return &GetExpenseUseCase{expenseRepo: expenseRepo}
}

// Execute returns the expense by ID.
func (uc *GetExpenseUseCase) Execute(ctx context.Context, query dtos.GetExpenseQuery) (*dtos.ExpenseDTO, error) {
	id, err := uuid.Parse(query.ExpenseID)
	if err != nil {
		return nil, errors.ValidationError{Field: "expense_id", Message: "invalid UUID"}
	}

	exp, err := uc.expenseRepo.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: expense %s", errors.ErrEntityNotFound, query.ExpenseID)
		}
		return nil, fmt.Errorf("failed to load expense: %w", err)
	}

	dto := dtos.ToExpenseDTO(exp)
	return &dto, nil
}
