// Package postgres - OutboxRepository implementation.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/events"
)

var _ ports.OutboxRepository = (*OutboxRepository)(nil)

// OutboxRepository persists domain events in outbox_events so that event
// delivery shares a transaction with the state change that produced them.
// A relay worker drains unpublished rows and forwards them to the broker.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates the repository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// Save stages an event. The payload is the event's JSON form; the envelope
// fields are stored in their own columns for querying.
func (r *OutboxRepository) Save(ctx context.Context, event events.DomainEvent) error {
	q := conn(ctx, r.pool)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}

	_, err = q.Exec(ctx, `
		INSERT INTO outbox_events (id, event_type, aggregate_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.EventID(), event.EventType(), event.AggregateID(), payload, event.OccurredAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save outbox event: %w", err)
	}
	return nil
}

// FindUnpublished returns staged messages oldest first.
func (r *OutboxRepository) FindUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	q := conn(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT id, event_type, aggregate_id, payload, occurred_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY occurred_at
		LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query outbox: %w", err)
	}
	defer rows.Close()

	var out []ports.OutboxMessage
	for rows.Next() {
		var m ports.OutboxMessage
		if err := rows.Scan(&m.ID, &m.EventType, &m.AggregateID, &m.Payload, &m.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkPublished stamps a message as delivered.
func (r *OutboxRepository) MarkPublished(ctx context.Context, messageID uuid.UUID) error {
	q := conn(ctx, r.pool)

	_, err := q.Exec(ctx,
		`UPDATE outbox_events SET published_at = $1 WHERE id = $2`,
		time.Now(), messageID)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event published: %w", err)
	}
	return nil
}

// MarkFailed records a delivery failure for later retry.
func (r *OutboxRepository) MarkFailed(ctx context.Context, messageID uuid.UUID, reason string) error {
	q := conn(ctx, r.pool)

	_, err := q.Exec(ctx, `
		UPDATE outbox_events
		SET failed_attempts = failed_attempts + 1, last_error = $1
		WHERE id = $2`,
		reason, messageID)
	if err != nil {
		return fmt.Errorf("failed to mark outbox event failed: %w", err)
	}
	return nil
}
