// Package expense - Statistics use case.
package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/errors"
)

// StatisticsUseCase aggregates a user's totals across active expenses,
// optionally bounded by an expense date range: what they paid for, what
// they still owe on other people's expenses, and the net of the two.
type StatisticsUseCase struct {
	expenseRepo ports.ExpenseRepository
}

// NewStatisticsUseCase creates the use case.
func NewStatisticsUseCase(expenseRepo ports.ExpenseRepository) *StatisticsUseCase {
	return &StatisticsUseCase{expenseRepo: expenseRepo}
}

// Execute returns the user's statistics.
func (uc *StatisticsUseCase) Execute(ctx context.Context, query dtos.StatisticsQuery) (*dtos.ExpenseStatisticsDTO, error) {
	userID, err := uuid.Parse(query.UserID)
	if err != nil {
		return nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID"}
	}

	if query.From != nil && query.To != nil && query.To.Before(*query.From) {
		return nil, errors.ValidationError{Field: "to", Message: "range end precedes range start"}
	}

	stats, err := uc.expenseRepo.Statistics(ctx, userID, query.From, query.To)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate statistics: %w", err)
	}

	return &dtos.ExpenseStatisticsDTO{
		UserID:       query.UserID,
		TotalPaid:    stats.TotalPaid,
		TotalOwed:    stats.TotalOwed,
		NetBalance:   stats.NetBalance,
		CurrencyCode: stats.Currency,
		ExpenseCount: stats.ExpenseCount,
	}, nil
}
