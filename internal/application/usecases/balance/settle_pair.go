// Package balance - SettlePair use case.
package balance

import (
	"context"
	"fmt"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/errors"
)

// SettlePairUseCase zeroes the balance between two users, recording that
// they squared up outside the system. Individual expense splits are not
// touched; the ledger and the expense history answer different questions.
type SettlePairUseCase struct {
	balanceRepo ports.BalanceRepository
	cache       ports.BalanceCache
	uow         ports.UnitOfWork
}

// NewSettlePairUseCase creates the use case.
func NewSettlePairUseCase(balanceRepo ports.BalanceRepository, cache ports.BalanceCache, uow ports.UnitOfWork) *SettlePairUseCase {
	return &SettlePairUseCase{balanceRepo: balanceRepo, cache: cache, uow: uow}
}

// Execute settles the pair. Settling a pair with no history is an error;
// there is nothing to record.
func (uc *SettlePairUseCase) Execute(ctx context.Context, cmd dtos.SettlePairCommand) (*dtos.PairBalanceDTO, error) {
	userID, otherID, err := parsePair(cmd.UserID, cmd.OtherUserID)
	if err != nil {
		return nil, err
	}

	var dto dtos.PairBalanceDTO
	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		b, err := uc.balanceRepo.FindByPair(txCtx, userID, otherID)
		if err != nil {
			if errors.IsNotFound(err) {
				return errors.ErrPairNotFound
			}
			return fmt.Errorf("failed to load balance: %w", err)
		}

		b.Settle()
		if err := uc.balanceRepo.Save(txCtx, b); err != nil {
			return fmt.Errorf("failed to save balance: %w", err)
		}

		dto, err = dtos.ToPairBalanceDTO(b, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, userID, otherID)
	}
	return &dto, nil
}
