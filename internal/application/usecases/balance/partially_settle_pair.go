// Package balance - PartiallySettlePair use case.
package balance

import (
	"context"
	"fmt"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// PartiallySettlePairUseCase moves a pair balance toward zero by a paid
// amount. A payment past the outstanding debt flips the direction: the
// overshoot becomes credit.
type PartiallySettlePairUseCase struct {
	balanceRepo ports.BalanceRepository
	cache       ports.BalanceCache
	uow         ports.UnitOfWork
}

// NewPartiallySettlePairUseCase creates the use case.
func NewPartiallySettlePairUseCase(balanceRepo ports.BalanceRepository, cache ports.BalanceCache, uow ports.UnitOfWork) *PartiallySettlePairUseCase {
	return &PartiallySettlePairUseCase{balanceRepo: balanceRepo, cache: cache, uow: uow}
}

// Execute records the payment.
func (uc *PartiallySettlePairUseCase) Execute(ctx context.Context, cmd dtos.PartiallySettlePairCommand) (*dtos.PairBalanceDTO, error) {
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

		payment, err := valueobjects.NewMoney(cmd.Amount, b.Amount().Currency())
		if err != nil {
			return errors.ValidationError{Field: "amount", Message: fmt.Sprintf("invalid amount: %v", err)}
		}
		if err := b.PartiallySettle(payment); err != nil {
			return err
		}
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
