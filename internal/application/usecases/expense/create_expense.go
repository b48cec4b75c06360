// Package expense - use cases for the expense aggregate.
package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/events"
	"github.com/splitzy/expense-service/internal/domain/split"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// CreateExpenseUseCase records an expense, computes its splits and moves
// the pair balances, all in one transaction.
//
// Flow:
//  1. Parse and validate the command
//  2. Compute the splits with the requested strategy
//  3. Attach the splits to the aggregate (conservation re-check)
//  4. Persist the expense, apply each participant's debt to the payer,
//     stage the ExpenseCreated event in the outbox
//  5. Invalidate cached balance summaries (best effort, after commit)
type CreateExpenseUseCase struct {
	expenseRepo ports.ExpenseRepository
	balanceRepo ports.BalanceRepository
	outbox      ports.OutboxRepository
	cache       ports.BalanceCache
	engine      *split.Engine
	uow         ports.UnitOfWork
}

// NewCreateExpenseUseCase creates the use case.
func NewCreateExpenseUseCase(
	expenseRepo ports.ExpenseRepository,
	balanceRepo ports.BalanceRepository,
	outbox ports.OutboxRepository,
	cache ports.BalanceCache,
	engine *split.Engine,
	uow ports.UnitOfWork,
) *CreateExpenseUseCase {
	return &CreateExpenseUseCase{
		expenseRepo: expenseRepo,
		balanceRepo: balanceRepo,
		outbox:      outbox,
		cache:       cache,
		engine:      engine,
		uow:         uow,
	}
}

// Execute creates the expense.
func (uc *CreateExpenseUseCase) Execute(ctx context.Context, cmd dtos.CreateExpenseCommand) (*dtos.ExpenseDTO, error) {
	currency, err := valueobjects.NewCurrency(cmd.CurrencyCode)
	if err != nil {
		return nil, errors.ValidationError{Field: "currency_code", Message: err.Error()}
	}
	total, err := valueobjects.NewMoney(cmd.Amount, currency)
	if err != nil {
		return nil, errors.ValidationError{Field: "amount", Message: fmt.Sprintf("invalid amount: %v", err)}
	}
	payerID, err := uuid.Parse(cmd.PaidByUserID)
	if err != nil {
		return nil, errors.ValidationError{Field: "paid_by_user_id", Message: "invalid UUID"}
	}

	participants, err := parseParticipants(cmd.Participants, currency)
	if err != nil {
		return nil, err
	}

	var expenseDate = timeOrZero(cmd.ExpenseDate)
	exp, err := entities.NewExpense(
		cmd.Title,
		total,
		payerID,
		entities.ExpenseCategory(cmd.Category),
		entities.SplitType(cmd.SplitType),
		expenseDate,
	)
	if err != nil {
		return nil, err
	}

	groupID := uuid.Nil
	if cmd.GroupID != nil {
		groupID, err = uuid.Parse(*cmd.GroupID)
		if err != nil {
			return nil, errors.ValidationError{Field: "group_id", Message: "invalid UUID"}
		}
	}
	exp.SetDetails(cmd.Description, cmd.Notes, cmd.ReceiptURL, groupID)

	splits, err := uc.engine.Compute(exp.SplitType(), total, participants)
	if err != nil {
		return nil, err
	}
	if err := exp.AttachSplits(splits); err != nil {
		return nil, err
	}

	err = uc.uow.Execute(ctx, func(txCtx context.Context) error {
		if err := uc.expenseRepo.Save(txCtx, exp); err != nil {
			return fmt.Errorf("failed to save expense: %w", err)
		}
		if err := applyDebts(txCtx, uc.balanceRepo, exp); err != nil {
			return err
		}
		if err := uc.outbox.Save(txCtx, events.NewExpenseCreated(exp)); err != nil {
			return fmt.Errorf("failed to stage event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateBalances(ctx, uc.cache, exp)

	dto := dtos.ToExpenseDTO(exp)
	return &dto, nil
}

// parseParticipants converts the wire inputs to domain inputs, parsing the
// optional decimal fields in the expense currency.
func parseParticipants(in []dtos.ParticipantInputDTO, currency valueobjects.Currency) ([]split.ParticipantInput, error) {
	out := make([]split.ParticipantInput, 0, len(in))
	for _, p := range in {
		userID, err := uuid.Parse(p.UserID)
		if err != nil {
			return nil, errors.ValidationError{Field: "participants.user_id", Message: "invalid UUID"}
		}
		input := split.ParticipantInput{UserID: userID, Ratio: p.Ratio}

		if p.Amount != nil {
			m, err := valueobjects.NewMoney(*p.Amount, currency)
			if err != nil {
				return nil, errors.ValidationError{Field: "participants.amount", Message: err.Error()}
			}
			input.Amount = &m
		}
		if p.ItemTotal != nil {
			m, err := valueobjects.NewMoney(*p.ItemTotal, currency)
			if err != nil {
				return nil, errors.ValidationError{Field: "participants.item_total", Message: err.Error()}
			}
			input.ItemTotal = &m
		}
		if p.Adjustment != nil {
			m, err := valueobjects.NewMoney(*p.Adjustment, currency)
			if err != nil {
				return nil, errors.ValidationError{Field: "participants.adjustment", Message: err.Error()}
			}
			input.Adjustment = &m
		}
		out = append(out, input)
	}
	return out, nil
}
