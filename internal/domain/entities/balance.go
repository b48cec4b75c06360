// Package entities - PairBalance is the running net debt between two users.
package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// OrderPair returns the two user IDs in canonical order: the
// lexicographically smaller UUID string first. Every pair of users maps to
// exactly one stored row regardless of which direction a debt flows.
func OrderPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() <= b.String() {
		return a, b
	}
	return b, a
}

// PairBalance holds the net amount between a canonically ordered user pair.
//
// Sign convention: a positive amount means user1 owes user2; negative means
// user2 owes user1. Zero means the pair is square.
//
// The version field backs optimistic locking in the repository: concurrent
// writers race on it and the loser retries with fresh state.
type PairBalance struct {
	id            uuid.UUID
	user1ID       uuid.UUID
	user2ID       uuid.UUID
	amount        valueobjects.Money
	version       int64
	lastSettledAt *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

// NewPairBalance creates a zero balance for a user pair. The pair is
// reordered into canonical form; callers may pass the users either way.
func NewPairBalance(userA, userB uuid.UUID, currency valueobjects.Currency) (*PairBalance, error) {
	if userA == uuid.Nil || userB == uuid.Nil {
		return nil, errors.ValidationError{Field: "user_id", Message: "user id is required"}
	}
	if userA == userB {
		return nil, errors.ValidationError{Field: "user_id", Message: "cannot hold a balance with oneself"}
	}

	u1, u2 := OrderPair(userA, userB)
	now := time.Now()
	return &PairBalance{
		id:        uuid.New(),
		user1ID:   u1,
		user2ID:   u2,
		amount:    valueobjects.Zero(currency),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructPairBalance rebuilds a PairBalance from stored data. The stored
// pair is already canonical.
func ReconstructPairBalance(
	id, user1ID, user2ID uuid.UUID,
	amount valueobjects.Money,
	version int64,
	lastSettledAt *time.Time,
	createdAt, updatedAt time.Time,
) *PairBalance {
	return &PairBalance{
		id:            id,
		user1ID:       user1ID,
		user2ID:       user2ID,
		amount:        amount,
		version:       version,
		lastSettledAt: lastSettledAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// Getters

func (b *PairBalance) ID() uuid.UUID {
	return b.id
}

func (b *PairBalance) User1ID() uuid.UUID {
	return b.user1ID
}

func (b *PairBalance) User2ID() uuid.UUID {
	return b.user2ID
}

// Amount returns the net balance in canonical orientation:
// positive when user1 owes user2.
func (b *PairBalance) Amount() valueobjects.Money {
	return b.amount
}

func (b *PairBalance) Version() int64 {
	return b.version
}

func (b *PairBalance) LastSettledAt() *time.Time {
	return b.lastSettledAt
}

func (b *PairBalance) CreatedAt() time.Time {
	return b.createdAt
}

func (b *PairBalance) UpdatedAt() time.Time {
	return b.updatedAt
}

// Involves reports whether the given user is part of this pair.
func (b *PairBalance) Involves(userID uuid.UUID) bool {
	return b.user1ID == userID || b.user2ID == userID
}

// OtherUser returns the counterparty of the given user.
func (b *PairBalance) OtherUser(userID uuid.UUID) (uuid.UUID, error) {
	switch userID {
	case b.user1ID:
		return b.user2ID, nil
	case b.user2ID:
		return b.user1ID, nil
	default:
		return uuid.Nil, errors.ErrPairNotFound
	}
}

// AmountFor returns the balance from the given user's perspective:
// positive when that user owes the counterparty, negative when the
// counterparty owes them. The canonical sign is negated for user2.
func (b *PairBalance) AmountFor(userID uuid.UUID) (valueobjects.Money, error) {
	switch userID {
	case b.user1ID:
		return b.amount, nil
	case b.user2ID:
		return b.amount.Negate(), nil
	default:
		return valueobjects.Money{}, errors.ErrPairNotFound
	}
}

// IsSettled reports whether the pair is square.
func (b *PairBalance) IsSettled() bool {
	return b.amount.IsZero()
}

// ApplyDebt records that debtor now owes creditor an additional share.
// The share is translated into the canonical orientation and accumulated;
// opposing debts cancel arithmetically.
func (b *PairBalance) ApplyDebt(debtorID, creditorID uuid.UUID, share valueobjects.Money) error {
	if !share.IsPositive() {
		return errors.ValidationError{Field: "amount", Message: "debt share must be positive"}
	}
	if !b.Involves(debtorID) || !b.Involves(creditorID) || debtorID == creditorID {
		return errors.ErrPairNotFound
	}

	delta := share
	if debtorID == b.user2ID {
		delta = share.Negate()
	}

	next, err := b.amount.Add(delta)
	if err != nil {
		return err
	}
	b.amount = next
	b.updatedAt = time.Now()
	return nil
}

// ReduceDebt cancels part of an existing debt from debtor to creditor, for
// example when the debtor settles a split. Arithmetically this is the
// opposite-signed counterpart of ApplyDebt; the balance may cross zero when
// the pair nets across several expenses.
func (b *PairBalance) ReduceDebt(debtorID, creditorID uuid.UUID, share valueobjects.Money) error {
	return b.ApplyDebt(creditorID, debtorID, share)
}

// Settle zeroes the pair's balance and stamps the settlement time.
// Settling an already square pair is a no-op that still bumps the stamp.
func (b *PairBalance) Settle() {
	b.amount = valueobjects.Zero(b.amount.Currency())
	now := time.Now()
	b.lastSettledAt = &now
	b.updatedAt = now
}

// PartiallySettle moves the balance toward zero by the given magnitude,
// paid by whoever currently owes. A payment larger than the outstanding
// debt flips the sign: the overshoot becomes a debt in the other
// direction. The caller states only how much was paid, not by whom; the
// current sign determines the payer.
func (b *PairBalance) PartiallySettle(payment valueobjects.Money) error {
	if !payment.IsPositive() {
		return errors.ErrInvalidSettlementAmount
	}
	if b.amount.IsZero() {
		return errors.ErrInvalidSettlementAmount
	}

	var next valueobjects.Money
	var err error
	if b.amount.IsPositive() {
		next, err = b.amount.Subtract(payment)
	} else {
		next, err = b.amount.Add(payment)
	}
	if err != nil {
		return err
	}

	b.amount = next
	now := time.Now()
	if next.IsZero() {
		b.lastSettledAt = &now
	}
	b.updatedAt = now
	return nil
}

// BumpVersion is called by the repository after a successful optimistic
// write so the in-memory entity matches the stored row.
func (b *PairBalance) BumpVersion() {
	b.version++
}
