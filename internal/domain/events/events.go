// Package events defines domain events that represent significant business
// occurrences. Events are immutable facts about what happened in the past.
// They are raised by the use cases after a state change commits and are
// delivered to interested consumers through the outbox.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/domain/entities"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID // ID of the expense that raised this event
}

// BaseEvent provides the common envelope fields. Embedded in specific event
// types; the payload fields of each event are exported so the publisher can
// serialize them directly.
type BaseEvent struct {
	eventID     uuid.UUID
	eventType   string
	occurredAt  time.Time
	aggregateID uuid.UUID
}

func newBaseEvent(eventType string, aggregateID uuid.UUID) BaseEvent {
	return BaseEvent{
		eventID:     uuid.New(),
		eventType:   eventType,
		occurredAt:  time.Now(),
		aggregateID: aggregateID,
	}
}

func (e BaseEvent) EventID() uuid.UUID {
	return e.eventID
}

func (e BaseEvent) EventType() string {
	return e.eventType
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.occurredAt
}

func (e BaseEvent) AggregateID() uuid.UUID {
	return e.aggregateID
}

// Event Types (constants for type checking)
const (
	EventTypeExpenseCreated = "expense.created"
	EventTypeExpenseUpdated = "expense.updated"
	EventTypeExpenseDeleted = "expense.deleted"
	EventTypeSplitSettled   = "expense.split_settled"
)

// ExpenseCreated is raised when a new expense with its splits is recorded.
type ExpenseCreated struct {
	BaseEvent
	Title          string      `json:"title"`
	Amount         string      `json:"amount"`
	Currency       string      `json:"currency"`
	PaidByUserID   uuid.UUID   `json:"paid_by_user_id"`
	SplitType      string      `json:"split_type"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

func NewExpenseCreated(e *entities.Expense) *ExpenseCreated {
	return &ExpenseCreated{
		BaseEvent:      newBaseEvent(EventTypeExpenseCreated, e.ID()),
		Title:          e.Title(),
		Amount:         e.Total().Decimal(),
		Currency:       e.Currency().Code(),
		PaidByUserID:   e.PaidByUserID(),
		SplitType:      string(e.SplitType()),
		ParticipantIDs: e.ParticipantIDs(),
	}
}

// ExpenseUpdated is raised when an expense's descriptive fields change.
type ExpenseUpdated struct {
	BaseEvent
	Title    string `json:"title"`
	Category string `json:"category"`
}

func NewExpenseUpdated(e *entities.Expense) *ExpenseUpdated {
	return &ExpenseUpdated{
		BaseEvent: newBaseEvent(EventTypeExpenseUpdated, e.ID()),
		Title:     e.Title(),
		Category:  string(e.Category()),
	}
}

// ExpenseDeleted is raised on logical deletion. Consumers that project
// balances reverse the expense's contribution.
type ExpenseDeleted struct {
	BaseEvent
	PaidByUserID   uuid.UUID   `json:"paid_by_user_id"`
	ParticipantIDs []uuid.UUID `json:"participant_ids"`
}

func NewExpenseDeleted(e *entities.Expense) *ExpenseDeleted {
	return &ExpenseDeleted{
		BaseEvent:      newBaseEvent(EventTypeExpenseDeleted, e.ID()),
		PaidByUserID:   e.PaidByUserID(),
		ParticipantIDs: e.ParticipantIDs(),
	}
}

// SplitSettled is raised when a participant's split is settled, fully or in
// part. SettledDelta is the amount newly settled by this operation.
type SplitSettled struct {
	BaseEvent
	UserID       uuid.UUID `json:"user_id"`
	SettledDelta string    `json:"settled_delta"`
	Currency     string    `json:"currency"`
	State        string    `json:"state"`
}

func NewSplitSettled(expenseID, userID uuid.UUID, delta string, currency string, state entities.SettlementState) *SplitSettled {
	return &SplitSettled{
		BaseEvent:    newBaseEvent(EventTypeSplitSettled, expenseID),
		UserID:       userID,
		SettledDelta: delta,
		Currency:     currency,
		State:        string(state),
	}
}
