// Package postgres - ExpenseRepository implementation.
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

var _ ports.ExpenseRepository = (*ExpenseRepository)(nil)

// ExpenseRepository stores the expense aggregate across the expenses and
// expense_splits tables. Amounts are stored as integer cents alongside the
// ISO currency code.
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates the repository.
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `
	id, title, description, amount_cents, currency, paid_by_user_id,
	category, split_type, status, group_id, expense_date, notes,
	receipt_url, created_at, updated_at`

const splitColumns = `
	id, expense_id, user_id, amount_cents, settled_cents, percentage_units,
	ratio, item_total_cents, adjustment_cents, notes, created_at, updated_at`

// Save upserts the expense and its splits in one round of statements.
// Callers run it inside a unit of work; a bare call still works against the
// pool but loses atomicity across the two tables.
func (r *ExpenseRepository) Save(ctx context.Context, exp *entities.Expense) error {
	q := conn(ctx, r.pool)

	var groupID *uuid.UUID
	if exp.GroupID() != uuid.Nil {
		g := exp.GroupID()
		groupID = &g
	}

	_, err := q.Exec(ctx, `
		INSERT INTO expenses (id, title, description, amount_cents, currency,
			paid_by_user_id, category, split_type, status, group_id,
			expense_date, notes, receipt_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			expense_date = EXCLUDED.expense_date,
			notes = EXCLUDED.notes,
			receipt_url = EXCLUDED.receipt_url,
			updated_at = EXCLUDED.updated_at`,
		exp.ID(), exp.Title(), exp.Description(), exp.Total().Cents(),
		exp.Currency().Code(), exp.PaidByUserID(), string(exp.Category()),
		string(exp.SplitType()), string(exp.Status()), groupID,
		exp.ExpenseDate(), exp.Notes(), exp.ReceiptURL(),
		exp.CreatedAt(), exp.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save expense: %w", err)
	}

	for _, s := range exp.Splits() {
		_, err := q.Exec(ctx, `
			INSERT INTO expense_splits (id, expense_id, user_id, amount_cents,
				settled_cents, percentage_units, ratio, item_total_cents,
				adjustment_cents, notes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			ON CONFLICT (id) DO UPDATE SET
				settled_cents = EXCLUDED.settled_cents,
				notes = EXCLUDED.notes,
				updated_at = EXCLUDED.updated_at`,
			s.ID(), exp.ID(), s.UserID(), s.Amount().Cents(),
			s.SettledAmount().Cents(), s.Percentage().Units(), s.Ratio(),
			s.ItemTotal().Cents(), s.Adjustment().Cents(), s.Notes(),
			s.CreatedAt(), s.UpdatedAt(),
		)
		if err != nil {
			if isUniqueViolation(err, "expense_splits_expense_id_user_id_key") {
				return domainerrors.ErrEntityAlreadyExists
			}
			return fmt.Errorf("failed to save split: %w", err)
		}
	}
	return nil
}

// FindByID loads an expense with its splits.
func (r *ExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error) {
	q := conn(ctx, r.pool)

	row := q.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	exp, err := r.scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainerrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to load expense: %w", err)
	}

	splitsByExpense, err := r.loadSplits(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	return r.assemble(exp, splitsByExpense[id]), nil
}

// List returns matching expenses newest first, splits included.
func (r *ExpenseRepository) List(ctx context.Context, filter ports.ExpenseFilter, offset, limit int) ([]*entities.Expense, error) {
	q := conn(ctx, r.pool)

	where, args := buildExpenseWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM expenses e %s ORDER BY expense_date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		expenseColumns, where, len(args)-1, len(args))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	return r.collect(ctx, q, rows)
}

// Count returns the number of expenses matching the filter.
func (r *ExpenseRepository) Count(ctx context.Context, filter ports.ExpenseFilter) (int64, error) {
	q := conn(ctx, r.pool)

	where, args := buildExpenseWhere(filter)
	var count int64
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM expenses e `+where, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses: %w", err)
	}
	return count, nil
}

// FindUnsettledByUser returns active expenses with an open split for the
// user, newest first.
func (r *ExpenseRepository) FindUnsettledByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*entities.Expense, error) {
	q := conn(ctx, r.pool)

	rows, err := q.Query(ctx, `
		SELECT `+expenseColumns+`
		FROM expenses e
		WHERE e.status = 'ACTIVE'
		  AND EXISTS (
			SELECT 1 FROM expense_splits s
			WHERE s.expense_id = e.id
			  AND s.user_id = $1
			  AND s.settled_cents < s.amount_cents
		  )
		ORDER BY e.expense_date DESC, e.created_at DESC
		LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsettled expenses: %w", err)
	}
	defer rows.Close()

	return r.collect(ctx, q, rows)
}

// Statistics aggregates the user's totals over active and settled expenses
// (archived ones are excluded), restricted to the expense date range when
// bounds are given. Owed sums only the unsettled remainder of the user's
// splits. The service runs one currency per deployment; the aggregation
// currency is read from the user's rows.
func (r *ExpenseRepository) Statistics(ctx context.Context, userID uuid.UUID, from, to *time.Time) (ports.ExpenseStatistics, error) {
	q := conn(ctx, r.pool)

	var (
		paidCents int64
		owedCents int64
		count     int64
		currency  *string
	)
	err := q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(amount_cents) FILTER (WHERE paid_by_user_id = $1), 0),
			COUNT(*),
			MIN(currency)
		FROM expenses e
		WHERE e.status <> 'ARCHIVED'
		  AND ($2::timestamptz IS NULL OR e.expense_date >= $2)
		  AND ($3::timestamptz IS NULL OR e.expense_date <= $3)
		  AND (e.paid_by_user_id = $1 OR EXISTS (
			SELECT 1 FROM expense_splits s WHERE s.expense_id = e.id AND s.user_id = $1))`,
		userID, from, to).Scan(&paidCents, &count, &currency)
	if err != nil {
		return ports.ExpenseStatistics{}, fmt.Errorf("failed to aggregate expenses: %w", err)
	}

	err = q.QueryRow(ctx, `
		SELECT COALESCE(SUM(s.amount_cents - s.settled_cents), 0)
		FROM expense_splits s
		JOIN expenses e ON e.id = s.expense_id
		WHERE s.user_id = $1
		  AND e.paid_by_user_id <> $1
		  AND e.status <> 'ARCHIVED'
		  AND ($2::timestamptz IS NULL OR e.expense_date >= $2)
		  AND ($3::timestamptz IS NULL OR e.expense_date <= $3)`,
		userID, from, to).Scan(&owedCents)
	if err != nil {
		return ports.ExpenseStatistics{}, fmt.Errorf("failed to aggregate splits: %w", err)
	}

	code := "USD"
	if currency != nil {
		code = *currency
	}
	cur, err := valueobjects.NewCurrency(code)
	if err != nil {
		return ports.ExpenseStatistics{}, err
	}

	paid := valueobjects.NewMoneyFromCents(paidCents, cur)
	owed := valueobjects.NewMoneyFromCents(owedCents, cur)
	net := valueobjects.NewMoneyFromCents(paidCents-owedCents, cur)

	return ports.ExpenseStatistics{
		TotalPaid:    paid.Decimal(),
		TotalOwed:    owed.Decimal(),
		NetBalance:   net.Decimal(),
		Currency:     cur.Code(),
		ExpenseCount: count,
	}, nil
}

// expenseRow holds a scanned expenses row before split hydration.
type expenseRow struct {
	id          uuid.UUID
	title       string
	description string
	amountCents int64
	currency    string
	paidBy      uuid.UUID
	category    string
	splitType   string
	status      string
	groupID     *uuid.UUID
	expenseDate time.Time
	notes       string
	receiptURL  string
	createdAt   time.Time
	updatedAt   time.Time
}

func (r *ExpenseRepository) scanExpense(row pgx.Row) (*expenseRow, error) {
	var e expenseRow
	err := row.Scan(
		&e.id, &e.title, &e.description, &e.amountCents, &e.currency,
		&e.paidBy, &e.category, &e.splitType, &e.status, &e.groupID,
		&e.expenseDate, &e.notes, &e.receiptURL, &e.createdAt, &e.updatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// collect scans the remaining rows and hydrates their splits in one query.
func (r *ExpenseRepository) collect(ctx context.Context, q querier, rows pgx.Rows) ([]*entities.Expense, error) {
	var scanned []*expenseRow
	for rows.Next() {
		e, err := r.scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		scanned = append(scanned, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(scanned))
	for i, e := range scanned {
		ids[i] = e.id
	}
	splitsByExpense, err := r.loadSplits(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Expense, len(scanned))
	for i, e := range scanned {
		out[i] = r.assemble(e, splitsByExpense[e.id])
	}
	return out, nil
}

func (r *ExpenseRepository) loadSplits(ctx context.Context, q querier, expenseIDs []uuid.UUID) (map[uuid.UUID][]splitRow, error) {
	if len(expenseIDs) == 0 {
		return nil, nil
	}

	rows, err := q.Query(ctx, `
		SELECT `+splitColumns+`
		FROM expense_splits
		WHERE expense_id = ANY($1)
		ORDER BY created_at, id`,
		expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load splits: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]splitRow, len(expenseIDs))
	for rows.Next() {
		var s splitRow
		err := rows.Scan(&s.id, &s.expenseID, &s.userID, &s.amountCents,
			&s.settledCents, &s.percentageUnits, &s.ratio, &s.itemTotalCents,
			&s.adjustmentCents, &s.notes, &s.createdAt, &s.updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		out[s.expenseID] = append(out[s.expenseID], s)
	}
	return out, rows.Err()
}

type splitRow struct {
	id              uuid.UUID
	expenseID       uuid.UUID
	userID          uuid.UUID
	amountCents     int64
	settledCents    int64
	percentageUnits int64
	ratio           int
	itemTotalCents  int64
	adjustmentCents int64
	notes           string
	createdAt       time.Time
	updatedAt       time.Time
}

// assemble rebuilds the aggregate; split amounts carry the expense
// currency.
func (r *ExpenseRepository) assemble(e *expenseRow, splitRows []splitRow) *entities.Expense {
	currency := valueobjects.MustNewCurrency(e.currency)

	splits := make([]entities.Split, len(splitRows))
	for i, s := range splitRows {
		splits[i] = entities.ReconstructSplit(
			s.id, s.userID,
			valueobjects.NewMoneyFromCents(s.amountCents, currency),
			valueobjects.NewMoneyFromCents(s.settledCents, currency),
			valueobjects.NewPercentageFromUnits(s.percentageUnits),
			s.ratio,
			valueobjects.NewMoneyFromCents(s.itemTotalCents, currency),
			valueobjects.NewMoneyFromCents(s.adjustmentCents, currency),
			s.notes,
			s.createdAt, s.updatedAt,
		)
	}

	groupID := uuid.Nil
	if e.groupID != nil {
		groupID = *e.groupID
	}

	return entities.ReconstructExpense(
		e.id, e.title, e.description,
		valueobjects.NewMoneyFromCents(e.amountCents, currency),
		e.paidBy,
		entities.ExpenseCategory(e.category),
		entities.SplitType(e.splitType),
		entities.ExpenseStatus(e.status),
		groupID,
		e.expenseDate,
		e.notes, e.receiptURL,
		splits,
		e.createdAt, e.updatedAt,
	)
}

// buildExpenseWhere renders the filter as a WHERE clause with positional
// args. The alias e matches the callers' FROM clauses.
func buildExpenseWhere(f ports.ExpenseFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.UserID != nil {
		add(`(e.paid_by_user_id = $%[1]d OR EXISTS (
			SELECT 1 FROM expense_splits s WHERE s.expense_id = e.id AND s.user_id = $%[1]d))`, *f.UserID)
	}
	if f.PaidBy != nil {
		add("e.paid_by_user_id = $%d", *f.PaidBy)
	}
	if f.GroupID != nil {
		add("e.group_id = $%d", *f.GroupID)
	}
	if f.Category != nil {
		add("e.category = $%d", string(*f.Category))
	}
	if f.SplitType != nil {
		add("e.split_type = $%d", string(*f.SplitType))
	}
	if f.Status != nil {
		add("e.status = $%d", string(*f.Status))
	}
	if f.From != nil {
		add("e.expense_date >= $%d", *f.From)
	}
	if f.To != nil {
		add("e.expense_date <= $%d", *f.To)
	}

	if len(clauses) == 0 {
		return "", args
	}
	where := "WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}
