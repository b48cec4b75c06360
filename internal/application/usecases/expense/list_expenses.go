// Package expense - ListExpenses use case.
package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
)

// ListExpensesUseCase lists expenses with filters and pagination.
type ListExpensesUseCase struct {
	expenseRepo ports.ExpenseRepository
}

// NewListExpensesUseCase creates the use case.
func NewListExpensesUseCase(expenseRepo ports.ExpenseRepository) *ListExpensesUseCase {
	return &ListExpensesUseCase{expenseRepo: expenseRepo}
}

// Execute returns one page of matching expenses plus the total count.
func (uc *ListExpensesUseCase) Execute(ctx context.Context, query dtos.ListExpensesQuery) (*dtos.ExpenseListDTO, error) {
	filter, err := buildFilter(query)
	if err != nil {
		return nil, err
	}

	expenses, err := uc.expenseRepo.List(ctx, filter, query.Offset, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	total, err := uc.expenseRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count expenses: %w", err)
	}

	return &dtos.ExpenseListDTO{
		Expenses:   dtos.ToExpenseDTOList(expenses),
		TotalCount: total,
		Offset:     query.Offset,
		Limit:      query.Limit,
	}, nil
}

func buildFilter(query dtos.ListExpensesQuery) (ports.ExpenseFilter, error) {
	var filter ports.ExpenseFilter

	parseID := func(field string, raw *string, dst **uuid.UUID) error {
		if raw == nil {
			return nil
		}
		id, err := uuid.Parse(*raw)
		if err != nil {
			return errors.ValidationError{Field: field, Message: "invalid UUID"}
		}
		*dst = &id
		return nil
	}

	if err := parseID("user_id", query.UserID, &filter.UserID); err != nil {
		return filter, err
	}
	if err := parseID("paid_by", query.PaidBy, &filter.PaidBy); err != nil {
		return filter, err
	}
	if err := parseID("group_id", query.GroupID, &filter.GroupID); err != nil {
		return filter, err
	}

	if query.Category != nil {
		c := entities.ExpenseCategory(*query.Category)
		filter.Category = &c
	}
	if query.SplitType != nil {
		s := entities.SplitType(*query.SplitType)
		filter.SplitType = &s
	}
	if query.Status != nil {
		s := entities.ExpenseStatus(*query.Status)
		filter.Status = &s
	}
	filter.From = query.From
	filter.To = query.To
	return filter, nil
}
