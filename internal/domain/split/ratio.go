package split

import (
	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// ratioStrategy splits proportionally to integer weights. Each share is
// total * ratio / totalRatio rounded half up in a single step; the last
// participant gets the remainder so the shares always conserve the total.
type ratioStrategy struct{}

func (ratioStrategy) Type() entities.SplitType {
	return entities.SplitTypeCustomRatio
}

func (ratioStrategy) Compute(total valueobjects.Money, participants []ParticipantInput) ([]entities.Split, error) {
	var totalRatio int64
	for _, p := range participants {
		if p.Ratio <= 0 {
			return nil, errors.ValidationError{
				Field:   "ratio",
				Message: "ratio must be a positive integer",
			}
		}
		totalRatio += int64(p.Ratio)
	}

	splits := make([]entities.Split, 0, len(participants))
	running := valueobjects.Zero(total.Currency())
	for i, p := range participants {
		var amount valueobjects.Money
		var err error
		if i == len(participants)-1 {
			amount, err = total.Subtract(running)
		} else {
			amount, err = total.MultiplyRatio(int64(p.Ratio), totalRatio)
			if err == nil {
				running, err = running.Add(amount)
			}
		}
		if err != nil {
			return nil, err
		}

		splits = append(splits, entities.NewAnnotatedSplit(p.UserID, amount, entities.SplitAnnotations{
			Percentage: valueobjects.NewPercentageFromRatio(int64(p.Ratio), totalRatio),
			Ratio:      p.Ratio,
		}))
	}
	return splits, nil
}
