package dtos

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

func TestToExpenseDTO(t *testing.T) {
	payer := uuid.New()
	other := uuid.New()

	e, err := entities.NewExpense(
		"Dinner",
		valueobjects.NewMoneyFromCents(10000, valueobjects.USD),
		payer,
		entities.CategoryFood,
		entities.SplitTypeEqual,
		time.Now(),
	)
	require.NoError(t, err)

	require.NoError(t, e.AttachSplits([]entities.Split{
		entities.NewSplit(payer, valueobjects.NewMoneyFromCents(5000, valueobjects.USD)),
		entities.NewSplit(other, valueobjects.NewMoneyFromCents(5000, valueobjects.USD)),
	}))

	dto := ToExpenseDTO(e)

	assert.Equal(t, e.ID().String(), dto.ID)
	assert.Equal(t, "Dinner", dto.Title)
	assert.Equal(t, "100.00", dto.Amount)
	assert.Equal(t, "USD", dto.CurrencyCode)
	assert.Equal(t, payer.String(), dto.PaidByUserID)
	assert.Equal(t, "EQUAL", dto.SplitType)
	assert.Equal(t, "ACTIVE", dto.Status)
	assert.Empty(t, dto.GroupID)
	assert.Len(t, dto.Splits, 2)
	assert.Equal(t, "50.00", dto.Splits[0].Amount)
	assert.Equal(t, "UNSETTLED", dto.Splits[0].State)
	assert.Equal(t, "0.00", dto.Splits[0].SettledAmount)
}

func TestToSplitDTOAnnotations(t *testing.T) {
	userID := uuid.New()
	s := entities.NewAnnotatedSplit(userID,
		valueobjects.NewMoneyFromCents(3334, valueobjects.USD),
		entities.SplitAnnotations{
			Percentage: valueobjects.NewPercentageFromRatio(1, 3),
			Ratio:      1,
		})

	dto := ToSplitDTO(s)

	assert.Equal(t, "33.34", dto.Amount)
	assert.Equal(t, "33.3333%", dto.Percentage)
	assert.Equal(t, 1, dto.Ratio)
	assert.Empty(t, dto.ItemTotal)
	assert.Empty(t, dto.Adjustment)
}

func TestToPairBalanceDTO(t *testing.T) {
	u1, u2 := uuid.New(), uuid.New()
	b, err := entities.NewPairBalance(u1, u2, valueobjects.USD)
	require.NoError(t, err)
	require.NoError(t, b.ApplyDebt(u1, u2, valueobjects.NewMoneyFromCents(2500, valueobjects.USD)))

	dtoDebtor, err := ToPairBalanceDTO(b, u1)
	require.NoError(t, err)
	assert.Equal(t, "25.00", dtoDebtor.Amount)
	assert.Equal(t, u2.String(), dtoDebtor.CounterpartyID)
	assert.False(t, dtoDebtor.Settled)

	dtoCreditor, err := ToPairBalanceDTO(b, u2)
	require.NoError(t, err)
	assert.Equal(t, "-25.00", dtoCreditor.Amount)
	assert.Equal(t, u1.String(), dtoCreditor.CounterpartyID)

	_, err = ToPairBalanceDTO(b, uuid.New())
	assert.Error(t, err)
}
