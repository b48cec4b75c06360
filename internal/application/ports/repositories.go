// Package ports defines the interfaces the application layer depends on.
// Implementations live in the infrastructure layer; use cases see only
// these contracts.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/domain/entities"
)

// ExpenseRepository persists the Expense aggregate. Save stores the expense
// and all of its splits atomically; a partially saved aggregate is never
// observable.
type ExpenseRepository interface {
	// Save creates or updates an expense with its splits.
	Save(ctx context.Context, expense *entities.Expense) error

	// FindByID loads an expense with its splits. Archived expenses are
	// returned too; callers filter by status where it matters.
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error)

	// List returns expenses matching the filter, newest first.
	List(ctx context.Context, filter ExpenseFilter, offset, limit int) ([]*entities.Expense, error)

	// Count returns the number of expenses matching the filter.
	Count(ctx context.Context, filter ExpenseFilter) (int64, error)

	// FindUnsettledByUser returns active expenses in which the user still
	// owes something on their split.
	FindUnsettledByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*entities.Expense, error)

	// Statistics aggregates totals for a user over active expenses whose
	// expense date falls in [from, to]. Nil bounds are open.
	Statistics(ctx context.Context, userID uuid.UUID, from, to *time.Time) (ExpenseStatistics, error)
}

// ExpenseFilter narrows expense listings. Nil fields match everything.
type ExpenseFilter struct {
	UserID    *uuid.UUID // payer or participant
	PaidBy    *uuid.UUID
	GroupID   *uuid.UUID
	Category  *entities.ExpenseCategory
	SplitType *entities.SplitType
	Status    *entities.ExpenseStatus
	From      *time.Time // expense date range, inclusive
	To        *time.Time
}

// ExpenseStatistics summarizes a user's position across active expenses.
// TotalOwed counts only the unsettled remainder of the user's splits, so
// partial settlements are reflected. Amounts are decimal strings in the
// aggregation currency.
type ExpenseStatistics struct {
	TotalPaid    string
	TotalOwed    string
	NetBalance   string
	Currency     string
	ExpenseCount int64
}

// BalanceRepository persists pair balances. Rows are keyed by the canonical
// user pair and guarded by an optimistic version check: Save with a stale
// version fails with a ConcurrencyError.
type BalanceRepository interface {
	// Save upserts a pair balance. For existing rows the stored version
	// must match the entity's; on success the entity's version is bumped.
	Save(ctx context.Context, balance *entities.PairBalance) error

	// FindByPair loads the balance for a user pair, in either order.
	// Returns ErrEntityNotFound when no row exists.
	FindByPair(ctx context.Context, userA, userB uuid.UUID) (*entities.PairBalance, error)

	// FindByUser returns every pair balance the user participates in.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*entities.PairBalance, error)
}
