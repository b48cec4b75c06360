// Package postgres - BalanceRepository implementation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/entities"
	domainerrors "github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

var _ ports.BalanceRepository = (*BalanceRepository)(nil)

// BalanceRepository stores pair balances in user_balances. Rows are keyed
// by the canonical pair and written with an optimistic version check: two
// writers racing on the same pair make one of them retry.
type BalanceRepository struct {
	pool *pgxpool.Pool
}

// NewBalanceRepository creates the repository.
func NewBalanceRepository(pool *pgxpool.Pool) *BalanceRepository {
	return &BalanceRepository{pool: pool}
}

const balanceColumns = `
	id, user1_id, user2_id, amount_cents, currency, version,
	last_settled_at, created_at, updated_at`

// Save upserts the balance. A new pair inserts at version 1; an existing
// row updates only when the stored version matches the entity's, otherwise
// a ConcurrencyError is returned and the caller re-reads.
func (r *BalanceRepository) Save(ctx context.Context, b *entities.PairBalance) error {
	q := conn(ctx, r.pool)

	if b.Version() == 0 {
		_, err := q.Exec(ctx, `
			INSERT INTO user_balances (id, user1_id, user2_id, amount_cents,
				currency, version, last_settled_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, 1, $6, $7, $8)`,
			b.ID(), b.User1ID(), b.User2ID(), b.Amount().Cents(),
			b.Amount().Currency().Code(), b.LastSettledAt(),
			b.CreatedAt(), b.UpdatedAt(),
		)
		if err != nil {
			if isUniqueViolation(err, "user_balances_user1_id_user2_id_key") {
				return domainerrors.NewConcurrencyError("PairBalance", b.ID().String(),
					"pair was created concurrently")
			}
			return fmt.Errorf("failed to insert balance: %w", err)
		}
		b.BumpVersion()
		return nil
	}

	tag, err := q.Exec(ctx, `
		UPDATE user_balances
		SET amount_cents = $1,
			last_settled_at = $2,
			updated_at = $3,
			version = version + 1
		WHERE id = $4 AND version = $5`,
		b.Amount().Cents(), b.LastSettledAt(), b.UpdatedAt(),
		b.ID(), b.Version(),
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainerrors.NewConcurrencyError("PairBalance", b.ID().String(),
			fmt.Sprintf("version %d is stale", b.Version()))
	}
	b.BumpVersion()
	return nil
}

// FindByPair loads the balance for a user pair, in either order.
func (r *BalanceRepository) FindByPair(ctx context.Context, userA, userB uuid.UUID) (*entities.PairBalance, error) {
	q := conn(ctx, r.pool)

	u1, u2 := entities.OrderPair(userA, userB)
	row := q.QueryRow(ctx,
		`SELECT `+balanceColumns+` FROM user_balances WHERE user1_id = $1 AND user2_id = $2`,
		u1, u2)
	return scanBalance(row)
}

// FindByUser returns every pair balance the user participates in.
func (r *BalanceRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entities.PairBalance, error) {
	q := conn(ctx, r.pool)

	rows, err := q.Query(ctx,
		`SELECT `+balanceColumns+` FROM user_balances
		 WHERE user1_id = $1 OR user2_id = $1
		 ORDER BY updated_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list balances: %w", err)
	}
	defer rows.Close()

	var out []*entities.PairBalance
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBalance(row pgx.Row) (*entities.PairBalance, error) {
	var (
		id, user1ID, user2ID uuid.UUID
		amountCents          int64
		currency             string
		version              int64
		lastSettledAt        *time.Time
		createdAt, updatedAt time.Time
	)
	err := row.Scan(&id, &user1ID, &user2ID, &amountCents, &currency,
		&version, &lastSettledAt, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to scan balance: %w", err)
	}

	return entities.ReconstructPairBalance(
		id, user1ID, user2ID,
		valueobjects.NewMoneyFromCents(amountCents, valueobjects.MustNewCurrency(currency)),
		version, lastSettledAt, createdAt, updatedAt,
	), nil
}
