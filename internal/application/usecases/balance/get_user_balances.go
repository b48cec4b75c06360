// Package balance - GetUserBalances use case.
package balance

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// GetUserBalancesUseCase aggregates every balance a user participates in.
// The summary is served from cache when present; writers invalidate it.
type GetUserBalancesUseCase struct {
	balanceRepo ports.BalanceRepository
	cache       ports.BalanceCache
}

// NewGetUserBalancesUseCase creates the use case.
func NewGetUserBalancesUseCase(balanceRepo ports.BalanceRepository, cache ports.BalanceCache) *GetUserBalancesUseCase {
	return &GetUserBalancesUseCase{balanceRepo: balanceRepo, cache: cache}
}

// Execute returns the user's balance summary. The cache always holds the
// full summary; pagination slices a copy so cached totals stay complete.
func (uc *GetUserBalancesUseCase) Execute(ctx context.Context, query dtos.GetUserBalancesQuery) (*dtos.UserBalancesDTO, error) {
	userID, err := uuid.Parse(query.UserID)
	if err != nil {
		return nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID"}
	}

	if uc.cache != nil {
		if payload, ok, err := uc.cache.GetUserBalances(ctx, userID); err == nil && ok {
			var dto dtos.UserBalancesDTO
			if err := json.Unmarshal(payload, &dto); err == nil {
				return paginate(&dto, query.Offset, query.Limit), nil
			}
			// Corrupt payload, fall through to the repository.
		}
	}

	pairs, err := uc.balanceRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}

	dto, err := buildSummary(userID, pairs)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if payload, err := json.Marshal(dto); err == nil {
			_ = uc.cache.SetUserBalances(ctx, userID, payload)
		}
	}
	return paginate(dto, query.Offset, query.Limit), nil
}

// paginate returns a shallow copy of the summary with Balances windowed by
// offset and limit. A limit of zero or less returns the summary unchanged.
func paginate(dto *dtos.UserBalancesDTO, offset, limit int) *dtos.UserBalancesDTO {
	if limit <= 0 {
		return dto
	}
	page := *dto
	if offset >= len(dto.Balances) {
		page.Balances = []dtos.PairBalanceDTO{}
		return &page
	}
	end := offset + limit
	if end > len(dto.Balances) {
		end = len(dto.Balances)
	}
	page.Balances = dto.Balances[offset:end]
	return &page
}

// buildSummary folds the user's pair balances into a perspective summary.
// Currency comes from the first pair; every pair of a user shares one
// currency by construction.
func buildSummary(userID uuid.UUID, pairs []*entities.PairBalance) (*dtos.UserBalancesDTO, error) {
	currency := valueobjects.USD
	if len(pairs) > 0 {
		currency = pairs[0].Amount().Currency()
	}

	owed := valueobjects.Zero(currency)
	owedToUser := valueobjects.Zero(currency)
	balances := make([]dtos.PairBalanceDTO, 0, len(pairs))

	for _, pair := range pairs {
		entry, err := dtos.ToPairBalanceDTO(pair, userID)
		if err != nil {
			return nil, err
		}
		balances = append(balances, entry)

		amount, err := pair.AmountFor(userID)
		if err != nil {
			return nil, err
		}
		switch {
		case amount.IsPositive():
			owed, err = owed.Add(amount)
		case amount.IsNegative():
			owedToUser, err = owedToUser.Add(amount.Abs())
		}
		if err != nil {
			return nil, err
		}
	}

	net, err := owedToUser.Subtract(owed)
	if err != nil {
		return nil, err
	}

	return &dtos.UserBalancesDTO{
		UserID:          userID.String(),
		Balances:        balances,
		TotalCount:      int64(len(balances)),
		TotalOwed:       owed.Decimal(),
		TotalOwedToUser: owedToUser.Decimal(),
		Net:             net.Decimal(),
		CurrencyCode:    currency.Code(),
	}, nil
}
