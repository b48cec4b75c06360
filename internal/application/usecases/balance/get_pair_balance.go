// Package balance - use cases for the pair balance ledger.
package balance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// GetPairBalanceUseCase reads the balance between two users from the first
// user's perspective. A pair with no history reads as a zero balance, not
// an error.
type GetPairBalanceUseCase struct {
	balanceRepo     ports.BalanceRepository
	defaultCurrency valueobjects.Currency
}

// NewGetPairBalanceUseCase creates the use case. defaultCurrency denominates
// the zero balance returned for pairs with no history.
func NewGetPairBalanceUseCase(balanceRepo ports.BalanceRepository, defaultCurrency valueobjects.Currency) *GetPairBalanceUseCase {
	return &GetPairBalanceUseCase{balanceRepo: balanceRepo, defaultCurrency: defaultCurrency}
}

// Execute returns the pair balance.
func (uc *GetPairBalanceUseCase) Execute(ctx context.Context, query dtos.GetPairBalanceQuery) (*dtos.PairBalanceDTO, error) {
	userID, otherID, err := parsePair(query.UserID, query.OtherUserID)
	if err != nil {
		return nil, err
	}

	b, err := uc.balanceRepo.FindByPair(ctx, userID, otherID)
	if err != nil {
		if errors.IsNotFound(err) {
			zero := valueobjects.Zero(uc.defaultCurrency)
			return &dtos.PairBalanceDTO{
				UserID:         query.UserID,
				CounterpartyID: query.OtherUserID,
				Amount:         zero.Decimal(),
				CurrencyCode:   zero.Currency().Code(),
				Settled:        true,
				UpdatedAt:      time.Now(),
			}, nil
		}
		return nil, fmt.Errorf("failed to load balance: %w", err)
	}

	dto, err := dtos.ToPairBalanceDTO(b, userID)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func parsePair(rawUser, rawOther string) (uuid.UUID, uuid.UUID, error) {
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID"}
	}
	otherID, err := uuid.Parse(rawOther)
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.ValidationError{Field: "other_user_id", Message: "invalid UUID"}
	}
	if userID == otherID {
		return uuid.Nil, uuid.Nil, errors.ValidationError{Field: "other_user_id", Message: "users must differ"}
	}
	return userID, otherID, nil
}
