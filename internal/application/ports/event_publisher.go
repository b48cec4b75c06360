// Package ports - event publishing contracts.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/domain/events"
)

// EventPublisher delivers domain events to interested consumers.
// Delivery is at-least-once; consumers must be idempotent.
type EventPublisher interface {
	// Publish publishes one event.
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch publishes several events in one call. Fails as a whole
	// if any event cannot be published.
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}

// OutboxMessage is a serialized domain event staged for delivery. Messages
// are written in the same transaction as the business change and relayed to
// the broker afterwards, so an event is never emitted for a change that did
// not commit.
type OutboxMessage struct {
	ID          uuid.UUID
	EventType   string
	AggregateID uuid.UUID
	Payload     []byte
	OccurredAt  time.Time
}

// OutboxRepository stages events inside the business transaction.
type OutboxRepository interface {
	// Save stages an event. Must run in the same transaction as the state
	// change that produced it.
	Save(ctx context.Context, event events.DomainEvent) error

	// FindUnpublished returns staged messages in occurrence order.
	FindUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)

	// MarkPublished records successful delivery of a message.
	MarkPublished(ctx context.Context, messageID uuid.UUID) error

	// MarkFailed records a delivery failure; the relay retries later.
	MarkFailed(ctx context.Context, messageID uuid.UUID, reason string) error
}
