package split

import (
	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// itemizedStrategy charges each participant their own item subtotal. Like
// EXACT, the subtotals must sum to the expense total; the item subtotal is
// also recorded on the split for display.
type itemizedStrategy struct{}

func (itemizedStrategy) Type() entities.SplitType {
	return entities.SplitTypeItemized
}

func (itemizedStrategy) Compute(total valueobjects.Money, participants []ParticipantInput) ([]entities.Split, error) {
	sum := valueobjects.Zero(total.Currency())
	for _, p := range participants {
		if p.ItemTotal == nil {
			return nil, errors.ValidationError{
				Field:   "item_total",
				Message: "itemized split requires an item total for every participant",
			}
		}
		if p.ItemTotal.IsNegative() {
			return nil, errors.ValidationError{
				Field:   "item_total",
				Message: "item total cannot be negative",
			}
		}
		var err error
		sum, err = sum.Add(*p.ItemTotal)
		if err != nil {
			return nil, err
		}
	}
	if !sum.Equals(total) {
		return nil, errors.NewSplitMismatchError(total.Decimal(), sum.Decimal())
	}

	splits := make([]entities.Split, 0, len(participants))
	for _, p := range participants {
		splits = append(splits, entities.NewAnnotatedSplit(p.UserID, *p.ItemTotal, entities.SplitAnnotations{
			Percentage: valueobjects.NewPercentageFromRatio(p.ItemTotal.Cents(), total.Cents()),
			ItemTotal:  *p.ItemTotal,
		}))
	}
	return splits, nil
}
