// Package expense - shared helpers for the expense use cases.
package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// loadOrCreateBalance fetches the pair balance, creating a zero one when the
// pair has no history yet.
func loadOrCreateBalance(
	ctx context.Context,
	repo ports.BalanceRepository,
	userA, userB uuid.UUID,
	currency valueobjects.Currency,
) (*entities.PairBalance, error) {
	balance, err := repo.FindByPair(ctx, userA, userB)
	if err == nil {
		return balance, nil
	}
	if !errors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}
	return entities.NewPairBalance(userA, userB, currency)
}

// applyDebts moves each participant's share onto their balance with the
// payer. The payer's own split is not a debt.
func applyDebts(ctx context.Context, repo ports.BalanceRepository, exp *entities.Expense) error {
	payer := exp.PaidByUserID()
	for _, s := range exp.Splits() {
		if s.UserID() == payer || !s.Amount().IsPositive() {
			continue
		}
		balance, err := loadOrCreateBalance(ctx, repo, s.UserID(), payer, exp.Currency())
		if err != nil {
			return err
		}
		if err := balance.ApplyDebt(s.UserID(), payer, s.Amount()); err != nil {
			return err
		}
		if err := repo.Save(ctx, balance); err != nil {
			return fmt.Errorf("failed to save balance: %w", err)
		}
	}
	return nil
}

// reverseDebts undoes the unsettled part of each split, used on logical
// deletion. Settled portions already left the balances when they settled.
func reverseDebts(ctx context.Context, repo ports.BalanceRepository, exp *entities.Expense) error {
	payer := exp.PaidByUserID()
	for _, s := range exp.Splits() {
		remaining := s.RemainingAmount()
		if s.UserID() == payer || !remaining.IsPositive() {
			continue
		}
		balance, err := loadOrCreateBalance(ctx, repo, s.UserID(), payer, exp.Currency())
		if err != nil {
			return err
		}
		if err := balance.ReduceDebt(s.UserID(), payer, remaining); err != nil {
			return err
		}
		if err := repo.Save(ctx, balance); err != nil {
			return fmt.Errorf("failed to save balance: %w", err)
		}
	}
	return nil
}

// reduceDebt cancels a settled amount on the participant's balance with the
// payer.
func reduceDebt(
	ctx context.Context,
	repo ports.BalanceRepository,
	exp *entities.Expense,
	userID uuid.UUID,
	delta valueobjects.Money,
) error {
	if !delta.IsPositive() {
		return nil
	}
	balance, err := loadOrCreateBalance(ctx, repo, userID, exp.PaidByUserID(), exp.Currency())
	if err != nil {
		return err
	}
	if err := balance.ReduceDebt(userID, exp.PaidByUserID(), delta); err != nil {
		return err
	}
	if err := repo.Save(ctx, balance); err != nil {
		return fmt.Errorf("failed to save balance: %w", err)
	}
	return nil
}

// invalidateBalances drops cached summaries for everyone the expense
// touches. Best effort: cache errors are swallowed, readers fall through to
// the repository.
func invalidateBalances(ctx context.Context, cache ports.BalanceCache, exp *entities.Expense) {
	if cache == nil {
		return
	}
	users := append(exp.ParticipantIDs(), exp.PaidByUserID())
	_ = cache.Invalidate(ctx, users...)
}
