// Package dtos - mappers from domain entities to DTOs.
package dtos

import (
	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/domain/entities"
)

// ============================================
// Split Mappers
// ============================================

// ToSplitDTO converts a split to its API representation.
func ToSplitDTO(s entities.Split) SplitDTO {
	dto := SplitDTO{
		ID:            s.ID().String(),
		UserID:        s.UserID().String(),
		Amount:        s.Amount().Decimal(),
		SettledAmount: s.SettledAmount().Decimal(),
		State:         string(s.State()),
		Notes:         s.Notes(),
		CreatedAt:     s.CreatedAt(),
		UpdatedAt:     s.UpdatedAt(),
	}
	if !s.Percentage().IsZero() {
		dto.Percentage = s.Percentage().String()
	}
	if s.Ratio() > 0 {
		dto.Ratio = s.Ratio()
	}
	if !s.ItemTotal().IsZero() {
		dto.ItemTotal = s.ItemTotal().Decimal()
	}
	if !s.Adjustment().IsZero() {
		dto.Adjustment = s.Adjustment().Decimal()
	}
	return dto
}

// ============================================
// Expense Mappers
// ============================================

// ToExpenseDTO converts an expense with its splits.
func ToExpenseDTO(e *entities.Expense) ExpenseDTO {
	splits := e.Splits()
	splitDTOs := make([]SplitDTO, len(splits))
	for i := range splits {
		splitDTOs[i] = ToSplitDTO(splits[i])
	}

	dto := ExpenseDTO{
		ID:           e.ID().String(),
		Title:        e.Title(),
		Description:  e.Description(),
		Amount:       e.Total().Decimal(),
		CurrencyCode: e.Currency().Code(),
		PaidByUserID: e.PaidByUserID().String(),
		Category:     string(e.Category()),
		SplitType:    string(e.SplitType()),
		Status:       string(e.Status()),
		ExpenseDate:  e.ExpenseDate(),
		Notes:        e.Notes(),
		ReceiptURL:   e.ReceiptURL(),
		Splits:       splitDTOs,
		CreatedAt:    e.CreatedAt(),
		UpdatedAt:    e.UpdatedAt(),
	}
	if e.GroupID() != uuid.Nil {
		dto.GroupID = e.GroupID().String()
	}
	return dto
}

// ToExpenseDTOList converts a slice of expenses.
func ToExpenseDTOList(expenses []*entities.Expense) []ExpenseDTO {
	result := make([]ExpenseDTO, len(expenses))
	for i, e := range expenses {
		result[i] = ToExpenseDTO(e)
	}
	return result
}

// ============================================
// Balance Mappers
// ============================================

// ToPairBalanceDTO converts a pair balance into the given user's
// perspective. The user must be part of the pair.
func ToPairBalanceDTO(b *entities.PairBalance, userID uuid.UUID) (PairBalanceDTO, error) {
	amount, err := b.AmountFor(userID)
	if err != nil {
		return PairBalanceDTO{}, err
	}
	counterparty, err := b.OtherUser(userID)
	if err != nil {
		return PairBalanceDTO{}, err
	}

	return PairBalanceDTO{
		UserID:         userID.String(),
		CounterpartyID: counterparty.String(),
		Amount:         amount.Decimal(),
		CurrencyCode:   amount.Currency().Code(),
		Settled:        b.IsSettled(),
		LastSettledAt:  b.LastSettledAt(),
		UpdatedAt:      b.UpdatedAt(),
	}, nil
}
