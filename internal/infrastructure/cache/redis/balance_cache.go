// Package redis caches per-user balance summaries.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/splitzy/expense-service/internal/application/ports"
)

var _ ports.BalanceCache = (*BalanceCache)(nil)

const balanceKeyPrefix = "splitzy:balances:"

// BalanceCache stores serialized balance summaries keyed by user. Writers
// invalidate affected users; readers fall through to the repository on a
// miss. The TTL bounds staleness if an invalidation is ever lost.
type BalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBalanceCache creates the cache over an established client.
func NewBalanceCache(client *redis.Client, ttl time.Duration) *BalanceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BalanceCache{client: client, ttl: ttl}
}

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// GetUserBalances returns the cached payload; a miss is (nil, false, nil).
func (c *BalanceCache) GetUserBalances(ctx context.Context, userID uuid.UUID) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, balanceKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read balance cache: %w", err)
	}
	return payload, true, nil
}

// SetUserBalances stores the payload with the configured TTL.
func (c *BalanceCache) SetUserBalances(ctx context.Context, userID uuid.UUID, payload []byte) error {
	if err := c.client.Set(ctx, balanceKey(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write balance cache: %w", err)
	}
	return nil
}

// Invalidate drops the cached summaries for the given users.
func (c *BalanceCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := make([]string, len(userIDs))
	for i, id := range userIDs {
		keys[i] = balanceKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate balance cache: %w", err)
	}
	return nil
}

func balanceKey(userID uuid.UUID) string {
	return balanceKeyPrefix + userID.String()
}
