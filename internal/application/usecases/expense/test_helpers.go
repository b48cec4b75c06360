//go:build integration || !integration

// Package expense - in-memory fakes for use case tests.
package expense

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/domain/entities"
	"github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/events"
)

// ============================================
// Mock Expense Repository
// ============================================

type mockExpenseRepo struct {
	mu       sync.Mutex
	expenses map[uuid.UUID]*entities.Expense
	saveErr  error

	stats          ports.ExpenseStatistics
	statsFrom      *time.Time
	statsTo        *time.Time
	statsCallCount int
}

func newMockExpenseRepo() *mockExpenseRepo {
	return &mockExpenseRepo{expenses: make(map[uuid.UUID]*entities.Expense)}
}

func (m *mockExpenseRepo) Save(ctx context.Context, e *entities.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.expenses[e.ID()] = e
	return nil
}

func (m *mockExpenseRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.expenses[id]
	if !ok {
		return nil, errors.ErrEntityNotFound
	}
	return e, nil
}

func (m *mockExpenseRepo) List(ctx context.Context, filter ports.ExpenseFilter, offset, limit int) ([]*entities.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.Expense
	for _, e := range m.expenses {
		out = append(out, e)
	}
	return out, nil
}

func (m *mockExpenseRepo) Count(ctx context.Context, filter ports.ExpenseFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.expenses)), nil
}

func (m *mockExpenseRepo) FindUnsettledByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*entities.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.Expense
	for _, e := range m.expenses {
		if !e.IsActive() {
			continue
		}
		for _, s := range e.Splits() {
			if s.UserID() == userID && !s.IsSettled() {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (m *mockExpenseRepo) Statistics(ctx context.Context, userID uuid.UUID, from, to *time.Time) (ports.ExpenseStatistics, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsFrom = from
	m.statsTo = to
	m.statsCallCount++
	return m.stats, nil
}

// ============================================
// Mock Balance Repository
// ============================================

type mockBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]*entities.PairBalance
	saveErr  error
}

func newMockBalanceRepo() *mockBalanceRepo {
	return &mockBalanceRepo{balances: make(map[string]*entities.PairBalance)}
}

func pairKey(a, b uuid.UUID) string {
	u1, u2 := entities.OrderPair(a, b)
	return u1.String() + "/" + u2.String()
}

func (m *mockBalanceRepo) Save(ctx context.Context, b *entities.PairBalance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.balances[pairKey(b.User1ID(), b.User2ID())] = b
	b.BumpVersion()
	return nil
}

func (m *mockBalanceRepo) FindByPair(ctx context.Context, userA, userB uuid.UUID) (*entities.PairBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[pairKey(userA, userB)]
	if !ok {
		return nil, errors.ErrEntityNotFound
	}
	return b, nil
}

func (m *mockBalanceRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entities.PairBalance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.PairBalance
	for _, b := range m.balances {
		if b.Involves(userID) {
			out = append(out, b)
		}
	}
	return out, nil
}

// ============================================
// Mock Outbox
// ============================================

type mockOutbox struct {
	mu     sync.Mutex
	staged []events.DomainEvent
}

func newMockOutbox() *mockOutbox {
	return &mockOutbox{}
}

func (m *mockOutbox) Save(ctx context.Context, event events.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.staged = append(m.staged, event)
	return nil
}

func (m *mockOutbox) FindUnpublished(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	return nil, nil
}

func (m *mockOutbox) MarkPublished(ctx context.Context, messageID uuid.UUID) error {
	return nil
}

func (m *mockOutbox) MarkFailed(ctx context.Context, messageID uuid.UUID, reason string) error {
	return nil
}

func (m *mockOutbox) eventsOfType(eventType string) []events.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []events.DomainEvent
	for _, e := range m.staged {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// ============================================
// Mock Unit of Work and Cache
// ============================================

// mockUnitOfWork runs the function directly; there is no transaction to
// roll back, the mocks mutate in place.
type mockUnitOfWork struct{}

func (mockUnitOfWork) Execute(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type mockBalanceCache struct {
	mu          sync.Mutex
	payloads    map[uuid.UUID][]byte
	invalidated []uuid.UUID
}

func newMockBalanceCache() *mockBalanceCache {
	return &mockBalanceCache{payloads: make(map[uuid.UUID][]byte)}
}

func (m *mockBalanceCache) GetUserBalances(ctx context.Context, userID uuid.UUID) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payloads[userID]
	return p, ok, nil
}

func (m *mockBalanceCache) SetUserBalances(ctx context.Context, userID uuid.UUID, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads[userID] = payload
	return nil
}

func (m *mockBalanceCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range userIDs {
		delete(m.payloads, u)
	}
	m.invalidated = append(m.invalidated, userIDs...)
	return nil
}
