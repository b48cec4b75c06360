// Package entities - Split is one participant's share of an expense total.
// Splits are value records owned exclusively by their Expense: they never
// hold a reference back to the aggregate, and they are archived with it.
package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// SettlementState describes how far a split's debt has been paid off.
// The state is derived from settledAmount; it is never stored separately.
type SettlementState string

const (
	SettlementUnsettled        SettlementState = "UNSETTLED"
	SettlementPartiallySettled SettlementState = "PARTIALLY_SETTLED"
	SettlementSettled          SettlementState = "SETTLED"
)

// Split represents a single participant's allocated share.
//
// Settlement is monotonic: settledAmount only ever grows, and never past
// amount. Reversals are modeled as a new offsetting expense, not as a state
// change here.
type Split struct {
	id     uuid.UUID
	userID uuid.UUID
	amount valueobjects.Money

	// Strategy-dependent informational fields. At most one of these is
	// meaningful for a given strategy; the rest stay at their zero values.
	percentage valueobjects.Percentage // EQUAL, CUSTOM_RATIO, EXACT, ITEMIZED
	ratio      int                     // CUSTOM_RATIO
	itemTotal  valueobjects.Money      // ITEMIZED
	adjustment valueobjects.Money      // ADJUSTMENT

	settledAmount valueobjects.Money
	notes         string
	createdAt     time.Time
	updatedAt     time.Time
}

// NewSplit creates an unsettled split for a participant.
func NewSplit(userID uuid.UUID, amount valueobjects.Money) Split {
	now := time.Now()
	return Split{
		id:            uuid.New(),
		userID:        userID,
		amount:        amount,
		settledAmount: valueobjects.Zero(amount.Currency()),
		createdAt:     now,
		updatedAt:     now,
	}
}

// ReconstructSplit rebuilds a Split from stored data.
// Used by the repository to hydrate rows.
func ReconstructSplit(
	id, userID uuid.UUID,
	amount, settledAmount valueobjects.Money,
	percentage valueobjects.Percentage,
	ratio int,
	itemTotal, adjustment valueobjects.Money,
	notes string,
	createdAt, updatedAt time.Time,
) Split {
	return Split{
		id:            id,
		userID:        userID,
		amount:        amount,
		percentage:    percentage,
		ratio:         ratio,
		itemTotal:     itemTotal,
		adjustment:    adjustment,
		settledAmount: settledAmount,
		notes:         notes,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Getters

func (s *Split) ID() uuid.UUID {
	return s.id
}

func (s *Split) UserID() uuid.UUID {
	return s.userID
}

func (s *Split) Amount() valueobjects.Money {
	return s.amount
}

func (s *Split) Percentage() valueobjects.Percentage {
	return s.percentage
}

func (s *Split) Ratio() int {
	return s.ratio
}

func (s *Split) ItemTotal() valueobjects.Money {
	return s.itemTotal
}

func (s *Split) Adjustment() valueobjects.Money {
	return s.adjustment
}

func (s *Split) SettledAmount() valueobjects.Money {
	return s.settledAmount
}

func (s *Split) Notes() string {
	return s.notes
}

func (s *Split) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Split) UpdatedAt() time.Time {
	return s.updatedAt
}

// SplitAnnotations carries the strategy-specific detail fields recorded on a
// split at computation time. They are informational; the authoritative value
// is always amount.
type SplitAnnotations struct {
	Percentage valueobjects.Percentage
	Ratio      int
	ItemTotal  valueobjects.Money
	Adjustment valueobjects.Money
	Notes      string
}

// NewAnnotatedSplit creates an unsettled split carrying strategy detail.
// Annotations are set once here; after a split is attached to an expense,
// only settlement operations may mutate it.
func NewAnnotatedSplit(userID uuid.UUID, amount valueobjects.Money, ann SplitAnnotations) Split {
	s := NewSplit(userID, amount)
	s.percentage = ann.Percentage
	s.ratio = ann.Ratio
	s.itemTotal = ann.ItemTotal
	s.adjustment = ann.Adjustment
	s.notes = ann.Notes
	return s
}

// State returns the derived settlement state.
func (s *Split) State() SettlementState {
	switch {
	case s.settledAmount.IsZero():
		return SettlementUnsettled
	case s.settledAmount.Equals(s.amount):
		return SettlementSettled
	default:
		return SettlementPartiallySettled
	}
}

// IsSettled reports whether the split is fully settled.
// Derived: settledAmount == amount, exact compare.
func (s *Split) IsSettled() bool {
	return s.settledAmount.Equals(s.amount)
}

// RemainingAmount returns the amount still owed on this split.
func (s *Split) RemainingAmount() valueobjects.Money {
	remaining, _ := s.amount.Subtract(s.settledAmount)
	return remaining
}

// MarkAsSettled forces the split into the terminal SETTLED state.
// Idempotent: settling an already settled split is a no-op.
func (s *Split) MarkAsSettled() {
	s.settledAmount = s.amount
	s.updatedAt = time.Now()
}

// PartiallySettle records a partial payment against this split.
//
// Rules:
//   - delta must be strictly positive (ErrInvalidSettlementAmount)
//   - the new settled amount must not exceed the owed amount
//     (OverSettlementError; the split is left unchanged)
func (s *Split) PartiallySettle(delta valueobjects.Money) error {
	if !delta.IsPositive() {
		return errors.ErrInvalidSettlementAmount
	}

	newSettled, err := s.settledAmount.Add(delta)
	if err != nil {
		return err
	}

	exceeds, err := newSettled.GreaterThan(s.amount)
	if err != nil {
		return err
	}
	if exceeds {
		return errors.NewOverSettlementError(
			s.amount.Decimal(),
			s.settledAmount.Decimal(),
			delta.Decimal(),
		)
	}

	s.settledAmount = newSettled
	s.updatedAt = time.Now()
	return nil
}
