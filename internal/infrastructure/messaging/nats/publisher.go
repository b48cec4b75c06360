// Package nats publishes domain events to a NATS broker.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/events"
)

var _ ports.EventPublisher = (*Publisher)(nil)

// subjectPrefix namespaces every event subject, e.g. splitzy.expense.created.
const subjectPrefix = "splitzy."

// envelope is the wire format. The payload carries the event's own JSON
// body; the outer fields let consumers route and deduplicate without
// parsing it.
type envelope struct {
	EventID     uuid.UUID       `json:"event_id"`
	EventType   string          `json:"event_type"`
	AggregateID uuid.UUID       `json:"aggregate_id"`
	OccurredAt  time.Time       `json:"occurred_at"`
	Payload     json.RawMessage `json:"payload"`
}

// Publisher delivers domain events over a NATS connection.
type Publisher struct {
	conn *nats.Conn
	log  *slog.Logger
}

// NewPublisher creates a publisher over an established connection.
func NewPublisher(conn *nats.Conn, log *slog.Logger) *Publisher {
	return &Publisher{conn: conn, log: log}
}

// Connect dials the broker with reconnect handling suited for a long-lived
// service process.
func Connect(url string, log *slog.Logger) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("expense-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}
	return conn, nil
}

// Publish publishes one event.
func (p *Publisher) Publish(ctx context.Context, event events.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.EventType(), err)
	}

	return p.publishEnvelope(envelope{
		EventID:     event.EventID(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     payload,
	})
}

// PublishBatch publishes several events; the first failure aborts the batch.
func (p *Publisher) PublishBatch(ctx context.Context, batch []events.DomainEvent) error {
	for _, event := range batch {
		if err := p.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// PublishMessage publishes a staged outbox message. Used by the relay,
// which holds serialized payloads rather than live events.
func (p *Publisher) PublishMessage(ctx context.Context, msg ports.OutboxMessage) error {
	return p.publishEnvelope(envelope{
		EventID:     msg.ID,
		EventType:   msg.EventType,
		AggregateID: msg.AggregateID,
		OccurredAt:  msg.OccurredAt,
		Payload:     msg.Payload,
	})
}

func (p *Publisher) publishEnvelope(env envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	subject := subjectPrefix + env.EventType
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.log.Debug("event published",
		"subject", subject,
		"event_id", env.EventID,
		"aggregate_id", env.AggregateID,
	)
	return nil
}
