package split

import (
	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// equalStrategy divides the total evenly. Each participant gets the rounded
// per-head share; the last participant gets total minus everyone else, which
// absorbs the rounding residue.
type equalStrategy struct{}

func (equalStrategy) Type() entities.SplitType {
	return entities.SplitTypeEqual
}

func (equalStrategy) Compute(total valueobjects.Money, participants []ParticipantInput) ([]entities.Split, error) {
	n := int64(len(participants))
	base, err := total.DivideBy(n)
	if err != nil {
		return nil, err
	}
	percentage := valueobjects.NewPercentageFromRatio(1, n)

	splits := make([]entities.Split, 0, len(participants))
	running := valueobjects.Zero(total.Currency())
	for i, p := range participants {
		amount := base
		if i == len(participants)-1 {
			amount, err = total.Subtract(running)
			if err != nil {
				return nil, err
			}
		} else {
			running, err = running.Add(base)
			if err != nil {
				return nil, err
			}
		}
		splits = append(splits, entities.NewAnnotatedSplit(p.UserID, amount, entities.SplitAnnotations{
			Percentage: percentage,
		}))
	}
	return splits, nil
}
