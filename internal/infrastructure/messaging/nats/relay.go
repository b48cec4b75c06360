package nats

import (
	"context"
	"log/slog"
	"time"

	"github.com/splitzy/expense-service/internal/application/ports"
)

// messagePublisher is what the relay needs from the transport.
type messagePublisher interface {
	PublishMessage(ctx context.Context, msg ports.OutboxMessage) error
}

// OutboxRelay drains staged outbox messages and forwards them to the
// broker. It runs as a background worker; delivery is at-least-once, so
// consumers must deduplicate on event_id.
type OutboxRelay struct {
	outbox    ports.OutboxRepository
	publisher messagePublisher
	log       *slog.Logger

	interval  time.Duration
	batchSize int
}

// NewOutboxRelay creates a relay polling at the given interval.
func NewOutboxRelay(
	outbox ports.OutboxRepository,
	publisher messagePublisher,
	log *slog.Logger,
	interval time.Duration,
	batchSize int,
) *OutboxRelay {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		log:       log,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run polls until the context is cancelled. Failures are recorded and
// retried on the next tick; the relay itself never stops on a delivery
// error.
func (r *OutboxRelay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("outbox relay started", "interval", r.interval, "batch_size", r.batchSize)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("outbox relay stopped")
			return
		case <-ticker.C:
			r.drain(ctx)
		}
	}
}

func (r *OutboxRelay) drain(ctx context.Context) {
	messages, err := r.outbox.FindUnpublished(ctx, r.batchSize)
	if err != nil {
		r.log.Error("failed to load outbox messages", "error", err)
		return
	}

	for _, msg := range messages {
		if err := r.publisher.PublishMessage(ctx, msg); err != nil {
			r.log.Error("failed to publish outbox message",
				"message_id", msg.ID,
				"event_type", msg.EventType,
				"error", err,
			)
			if markErr := r.outbox.MarkFailed(ctx, msg.ID, err.Error()); markErr != nil {
				r.log.Error("failed to mark outbox message failed",
					"message_id", msg.ID, "error", markErr)
			}
			continue
		}

		if err := r.outbox.MarkPublished(ctx, msg.ID); err != nil {
			r.log.Error("failed to mark outbox message published",
				"message_id", msg.ID, "error", err)
		}
	}
}
