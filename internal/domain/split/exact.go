package split

import (
	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// exactStrategy takes caller-supplied amounts verbatim. The amounts must sum
// to the total at cent precision; a mismatch is rejected with both values,
// never silently corrected.
type exactStrategy struct{}

func (exactStrategy) Type() entities.SplitType {
	return entities.SplitTypeExact
}

func (exactStrategy) Compute(total valueobjects.Money, participants []ParticipantInput) ([]entities.Split, error) {
	sum := valueobjects.Zero(total.Currency())
	for _, p := range participants {
		if p.Amount == nil {
			return nil, errors.ValidationError{
				Field:   "amount",
				Message: "exact split requires an amount for every participant",
			}
		}
		if p.Amount.IsNegative() {
			return nil, errors.ValidationError{
				Field:   "amount",
				Message: "exact amount cannot be negative",
			}
		}
		var err error
		sum, err = sum.Add(*p.Amount)
		if err != nil {
			return nil, err
		}
	}
	if !sum.Equals(total) {
		return nil, errors.NewSplitMismatchError(total.Decimal(), sum.Decimal())
	}

	splits := make([]entities.Split, 0, len(participants))
	for _, p := range participants {
		splits = append(splits, entities.NewAnnotatedSplit(p.UserID, *p.Amount, entities.SplitAnnotations{
			Percentage: valueobjects.NewPercentageFromRatio(p.Amount.Cents(), total.Cents()),
		}))
	}
	return splits, nil
}
