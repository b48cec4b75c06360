// Package split computes expense allocations. Each strategy takes the
// expense total and per-participant input, and returns one split per
// participant whose amounts sum exactly to the total. Rounding residue is
// absorbed by the last participant, never distributed or discarded.
package split

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// ParticipantInput is one participant's contribution to a split request.
// Which fields are read depends on the strategy; pointers distinguish
// "absent" from a legitimate zero value.
type ParticipantInput struct {
	UserID     uuid.UUID
	Amount     *valueobjects.Money // EXACT
	Ratio      int                 // CUSTOM_RATIO
	ItemTotal  *valueobjects.Money // ITEMIZED
	Adjustment *valueobjects.Money // ADJUSTMENT, may be negative
}

// Strategy computes splits for one split type.
type Strategy interface {
	// Type identifies the strategy.
	Type() entities.SplitType

	// Compute validates the input and returns one split per participant,
	// preserving input order. Implementations must not partially succeed:
	// either every participant gets a split or an error is returned.
	Compute(total valueobjects.Money, participants []ParticipantInput) ([]entities.Split, error)
}

// Engine dispatches split computation to the registered strategies.
type Engine struct {
	strategies map[entities.SplitType]Strategy
}

// NewEngine creates an engine with all supported strategies registered.
func NewEngine(log *slog.Logger) *Engine {
	e := &Engine{strategies: make(map[entities.SplitType]Strategy)}
	for _, s := range []Strategy{
		equalStrategy{},
		ratioStrategy{},
		exactStrategy{},
		itemizedStrategy{},
		adjustmentStrategy{log: log},
	} {
		e.strategies[s.Type()] = s
	}
	return e
}

// Compute runs the strategy for the given split type.
func (e *Engine) Compute(
	splitType entities.SplitType,
	total valueobjects.Money,
	participants []ParticipantInput,
) ([]entities.Split, error) {
	s, ok := e.strategies[splitType]
	if !ok {
		return nil, errors.ErrUnsupportedStrategy
	}
	if err := validateParticipants(participants); err != nil {
		return nil, err
	}
	return s.Compute(total, participants)
}

// validateParticipants enforces the checks common to every strategy.
func validateParticipants(participants []ParticipantInput) error {
	if len(participants) == 0 {
		return errors.ErrInvalidInput
	}
	seen := make(map[uuid.UUID]bool, len(participants))
	for _, p := range participants {
		if p.UserID == uuid.Nil {
			return errors.ValidationError{Field: "user_id", Message: "participant user id is required"}
		}
		if seen[p.UserID] {
			return errors.ValidationError{
				Field:   "participants",
				Message: "duplicate participant " + p.UserID.String(),
			}
		}
		seen[p.UserID] = true
	}
	return nil
}
