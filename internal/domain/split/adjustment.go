package split

import (
	"log/slog"

	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// adjustmentStrategy starts from an equal split and shifts each share by a
// signed per-participant adjustment. When the adjustments sum to zero the
// shares conserve the total.
//
// A nonzero adjustment sum is tolerated: the imbalance is logged as a
// warning and the shares are returned as computed. The expense then carries
// splits that do not sum to its total, which is the caller's stated intent.
//
// A negative resulting share is rejected. A share records what a
// participant owes the payer; an adjustment large enough to flip that
// direction must be modeled as a separate expense paid the other way.
type adjustmentStrategy struct {
	log *slog.Logger
}

func (adjustmentStrategy) Type() entities.SplitType {
	return entities.SplitTypeAdjustment
}

func (s adjustmentStrategy) Compute(total valueobjects.Money, participants []ParticipantInput) ([]entities.Split, error) {
	n := int64(len(participants))
	base, err := total.DivideBy(n)
	if err != nil {
		return nil, err
	}

	zero := valueobjects.Zero(total.Currency())
	adjustmentSum := zero
	splits := make([]entities.Split, 0, len(participants))
	running := zero
	for i, p := range participants {
		share := base
		if i == len(participants)-1 {
			share, err = total.Subtract(running)
			if err != nil {
				return nil, err
			}
		} else {
			running, err = running.Add(base)
			if err != nil {
				return nil, err
			}
		}

		adjustment := zero
		if p.Adjustment != nil {
			adjustment = *p.Adjustment
		}
		adjustmentSum, err = adjustmentSum.Add(adjustment)
		if err != nil {
			return nil, err
		}

		amount, err := share.Add(adjustment)
		if err != nil {
			return nil, err
		}
		if amount.IsNegative() {
			return nil, errors.ValidationError{
				Field:   "adjustment",
				Message: "adjusted share cannot be negative",
			}
		}

		splits = append(splits, entities.NewAnnotatedSplit(p.UserID, amount, entities.SplitAnnotations{
			Adjustment: adjustment,
		}))
	}

	if !adjustmentSum.IsZero() && s.log != nil {
		s.log.Warn("adjustment amounts do not balance, splits will not sum to expense total",
			slog.String("adjustment_sum", adjustmentSum.String()),
			slog.String("total", total.String()),
		)
	}
	return splits, nil
}
