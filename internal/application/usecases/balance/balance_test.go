package balance

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/splitzy/expense-service/internal/application/dtos"
	"github.com/splitzy/expense-service/internal/domain/entities"
	domainerrors "github.com/splitzy/expense-service/internal/domain/errors"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
)

// ============================================
// In-memory fakes
// ============================================

type fakeBalanceRepo struct {
	mu       sync.Mutex
	balances map[string]*entities.PairBalance
}

func newFakeBalanceRepo() *fakeBalanceRepo {
	return &fakeBalanceRepo{balances: make(map[string]*entities.PairBalance)}
}

func key(a, b uuid.UUID) string {
	u1, u2 := entities.OrderPair(a, b)
	return u1.String() + "/" + u2.String()
}

func (f *fakeBalanceRepo) Save(ctx context.Context, b *entities.PairBalance) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[key(b.User1ID(), b.User2ID())] = b
	b.BumpVersion()
	return nil
}

func (f *fakeBalanceRepo) FindByPair(ctx context.Context, userA, userB uuid.UUID) (*entities.PairBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.balances[key(userA, userB)]
	if !ok {
		return nil, domainerrors.ErrEntityNotFound
	}
	return b, nil
}

func (f *fakeBalanceRepo) FindByUser(ctx context.Context, userID uuid.UUID) ([]*entities.PairBalance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.PairBalance
	for _, b := range f.balances {
		if b.Involves(userID) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu       sync.Mutex
	payloads map[uuid.UUID][]byte
	sets     int
	hits     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{payloads: make(map[uuid.UUID][]byte)}
}

func (f *fakeCache) GetUserBalances(ctx context.Context, userID uuid.UUID) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payloads[userID]
	if ok {
		f.hits++
	}
	return p, ok, nil
}

func (f *fakeCache) SetUserBalances(ctx context.Context, userID uuid.UUID, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads[userID] = payload
	f.sets++
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range userIDs {
		delete(f.payloads, u)
	}
	return nil
}

type passthroughUoW struct{}

func (passthroughUoW) Execute(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func seedDebt(t *testing.T, repo *fakeBalanceRepo, debtor, creditor uuid.UUID, cents int64) {
	t.Helper()
	b, err := entities.NewPairBalance(debtor, creditor, valueobjects.USD)
	if err != nil {
		t.Fatalf("NewPairBalance() error = %v", err)
	}
	if err := b.ApplyDebt(debtor, creditor, valueobjects.NewMoneyFromCents(cents, valueobjects.USD)); err != nil {
		t.Fatalf("ApplyDebt() error = %v", err)
	}
	if err := repo.Save(context.Background(), b); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
}

func queryFor(user, other uuid.UUID) dtos.GetPairBalanceQuery {
	return dtos.GetPairBalanceQuery{UserID: user.String(), OtherUserID: other.String()}
}

func userQuery(user uuid.UUID) dtos.GetUserBalancesQuery {
	return dtos.GetUserBalancesQuery{UserID: user.String()}
}

func settleCmd(user, other uuid.UUID) dtos.SettlePairCommand {
	return dtos.SettlePairCommand{UserID: user.String(), OtherUserID: other.String()}
}

func partialCmd(user, other uuid.UUID, amount string) dtos.PartiallySettlePairCommand {
	return dtos.PartiallySettlePairCommand{UserID: user.String(), OtherUserID: other.String(), Amount: amount}
}

// ============================================
// Tests
// ============================================

func TestGetPairBalance(t *testing.T) {
	repo := newFakeBalanceRepo()
	uc := NewGetPairBalanceUseCase(repo, valueobjects.USD)
	debtor, creditor := uuid.New(), uuid.New()
	seedDebt(t, repo, debtor, creditor, 4200)

	t.Run("debtor perspective", func(t *testing.T) {
		dto, err := uc.Execute(context.Background(), queryFor(debtor, creditor))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if dto.Amount != "42.00" {
			t.Errorf("Amount = %s, want 42.00", dto.Amount)
		}
	})

	t.Run("creditor perspective negates", func(t *testing.T) {
		dto, err := uc.Execute(context.Background(), queryFor(creditor, debtor))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if dto.Amount != "-42.00" {
			t.Errorf("Amount = %s, want -42.00", dto.Amount)
		}
	})

	t.Run("unknown pair reads as zero", func(t *testing.T) {
		dto, err := uc.Execute(context.Background(), queryFor(uuid.New(), uuid.New()))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if dto.Amount != "0.00" || !dto.Settled {
			t.Errorf("dto = %s settled=%v, want 0.00 settled", dto.Amount, dto.Settled)
		}
	})

	t.Run("zero balance uses the configured currency", func(t *testing.T) {
		eurUC := NewGetPairBalanceUseCase(repo, valueobjects.EUR)
		dto, err := eurUC.Execute(context.Background(), queryFor(uuid.New(), uuid.New()))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if dto.CurrencyCode != "EUR" {
			t.Errorf("CurrencyCode = %s, want EUR", dto.CurrencyCode)
		}
	})

	t.Run("same user twice is rejected", func(t *testing.T) {
		u := uuid.New()
		if _, err := uc.Execute(context.Background(), queryFor(u, u)); !domainerrors.IsValidationError(err) {
			t.Errorf("error = %v, want validation error", err)
		}
	})
}

func TestGetUserBalances(t *testing.T) {
	repo := newFakeBalanceRepo()
	cache := newFakeCache()
	uc := NewGetUserBalancesUseCase(repo, cache)

	user := uuid.New()
	friendOwed := uuid.New()   // user owes this friend 30.00
	friendOwing := uuid.New()  // this friend owes user 12.50
	seedDebt(t, repo, user, friendOwed, 3000)
	seedDebt(t, repo, friendOwing, user, 1250)

	dto, err := uc.Execute(context.Background(), userQuery(user))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(dto.Balances) != 2 {
		t.Fatalf("balances = %d, want 2", len(dto.Balances))
	}
	if dto.TotalOwed != "30.00" {
		t.Errorf("TotalOwed = %s, want 30.00", dto.TotalOwed)
	}
	if dto.TotalOwedToUser != "12.50" {
		t.Errorf("TotalOwedToUser = %s, want 12.50", dto.TotalOwedToUser)
	}
	if dto.Net != "-17.50" {
		t.Errorf("Net = %s, want -17.50", dto.Net)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}

	// Second read is served from cache.
	dto2, err := uc.Execute(context.Background(), userQuery(user))
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("cache hits = %d, want 1", cache.hits)
	}
	if dto2.Net != dto.Net {
		t.Errorf("cached Net = %s, want %s", dto2.Net, dto.Net)
	}
}

func TestGetUserBalancesPagination(t *testing.T) {
	repo := newFakeBalanceRepo()
	cache := newFakeCache()
	uc := NewGetUserBalancesUseCase(repo, cache)

	user := uuid.New()
	for i := int64(1); i <= 3; i++ {
		seedDebt(t, repo, user, uuid.New(), i*1000)
	}

	page := func(offset, limit int) dtos.GetUserBalancesQuery {
		q := userQuery(user)
		q.Offset = offset
		q.Limit = limit
		return q
	}

	t.Run("first page", func(t *testing.T) {
		dto, err := uc.Execute(context.Background(), page(0, 2))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(dto.Balances) != 2 {
			t.Errorf("balances = %d, want 2", len(dto.Balances))
		}
		if dto.TotalCount != 3 {
			t.Errorf("TotalCount = %d, want 3", dto.TotalCount)
		}
		// Totals span every pair, not just the page.
		if dto.TotalOwed != "60.00" {
			t.Errorf("TotalOwed = %s, want 60.00", dto.TotalOwed)
		}
	})

	t.Run("last page is short", func(t *testing.T) {
		dto, err := uc.Execute(context.Background(), page(2, 2))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(dto.Balances) != 1 {
			t.Errorf("balances = %d, want 1", len(dto.Balances))
		}
	})

	t.Run("offset past the end is empty", func(t *testing.T) {
		dto, err := uc.Execute(context.Background(), page(10, 2))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(dto.Balances) != 0 {
			t.Errorf("balances = %d, want 0", len(dto.Balances))
		}
		if dto.TotalCount != 3 {
			t.Errorf("TotalCount = %d, want 3", dto.TotalCount)
		}
	})

	t.Run("cache keeps the full summary", func(t *testing.T) {
		dto, err := uc.Execute(context.Background(), userQuery(user))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if len(dto.Balances) != 3 {
			t.Errorf("balances = %d, want 3", len(dto.Balances))
		}
		if cache.sets != 1 {
			t.Errorf("cache sets = %d, want 1", cache.sets)
		}
	})
}

func TestSettlePair(t *testing.T) {
	repo := newFakeBalanceRepo()
	cache := newFakeCache()
	uc := NewSettlePairUseCase(repo, cache, passthroughUoW{})
	debtor, creditor := uuid.New(), uuid.New()
	seedDebt(t, repo, debtor, creditor, 5000)

	dto, err := uc.Execute(context.Background(), settleCmd(debtor, creditor))
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if dto.Amount != "0.00" || !dto.Settled {
		t.Errorf("dto = %s settled=%v, want 0.00 settled", dto.Amount, dto.Settled)
	}
	if dto.LastSettledAt == nil {
		t.Error("LastSettledAt should be stamped")
	}

	t.Run("unknown pair", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), settleCmd(uuid.New(), uuid.New()))
		if !errors.Is(err, domainerrors.ErrPairNotFound) {
			t.Errorf("error = %v, want ErrPairNotFound", err)
		}
	})
}

func TestPartiallySettlePair(t *testing.T) {
	repo := newFakeBalanceRepo()
	cache := newFakeCache()
	uc := NewPartiallySettlePairUseCase(repo, cache, passthroughUoW{})
	debtor, creditor := uuid.New(), uuid.New()
	seedDebt(t, repo, debtor, creditor, 5000)

	t.Run("payment reduces the debt", func(t *testing.T) {
		dto, err := uc.Execute(context.Background(), partialCmd(debtor, creditor, "20.00"))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if dto.Amount != "30.00" {
			t.Errorf("Amount = %s, want 30.00", dto.Amount)
		}
	})

	t.Run("overshoot flips direction", func(t *testing.T) {
		dto, err := uc.Execute(context.Background(), partialCmd(debtor, creditor, "40.00"))
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		// 30.00 remaining, 40.00 paid: the creditor now owes 10.00.
		if dto.Amount != "-10.00" {
			t.Errorf("Amount = %s, want -10.00", dto.Amount)
		}
	})

	t.Run("bad amount", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), partialCmd(debtor, creditor, "lots"))
		if !domainerrors.IsValidationError(err) {
			t.Errorf("error = %v, want validation error", err)
		}
	})
}
