// Package ports - read-side cache contract.
package ports

import (
	"context"

	"github.com/google/uuid"
)

// BalanceCache caches per-user balance summaries. A miss returns
// (nil, false, nil); cache failures are reported but callers treat the
// cache as best effort and fall through to the repository.
type BalanceCache interface {
	// GetUserBalances returns the cached summary payload for a user.
	GetUserBalances(ctx context.Context, userID uuid.UUID) ([]byte, bool, error)

	// SetUserBalances stores the summary payload for a user.
	SetUserBalances(ctx context.Context, userID uuid.UUID, payload []byte) error

	// Invalidate drops the cached summaries for the given users.
	// Called after any write that moves a balance they participate in.
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error
}
