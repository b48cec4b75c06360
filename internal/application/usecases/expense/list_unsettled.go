// Package expense - ListUnsettled use case.
package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/errors"
)

// ListUnsettledUseCase lists active expenses on which the user still owes
// part of their split.
type ListUnsettledUseCase struct {
	expenseRepo ports.ExpenseRepository
}

// NewListUnsettledUseCase creates the use case.
func NewListUnsettledUseCase(expenseRepo ports.ExpenseRepository) *ListUnsettledUseCase {
	return &ListUnsettledUseCase{expenseRepo: expenseRepo}
}

// Execute returns one page of the user's unsettled expenses.
func (uc *ListUnsettledUseCase) Execute(ctx context.Context, query dtos.ListUnsettledQuery) (*dtos.ExpenseListDTO, error) {
	userID, err := uuid.Parse(query.UserID)
	if err != nil {
		return nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID"}
	}

	expenses, err := uc.expenseRepo.FindUnsettledByUser(ctx, userID, query.Offset, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled expenses: %w", err)
	}

	return &dtos.ExpenseListDTO{
		Expenses:   dtos.ToExpenseDTOList(expenses),
		TotalCount: int64(len(expenses)),
		Offset:     query.Offset,
		Limit:      query.Limit,
	}, nil
}
