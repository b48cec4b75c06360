package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitzy/expense-service/internal/adapters/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestDefaultRouterConfig(t *testing.T) {
	cfg := DefaultRouterConfig()

	assert.NotNil(t, cfg.Logger)
	assert.Equal(t, "dev", cfg.Version)
	assert.Equal(t, "unknown", cfg.BuildTime)
	assert.Equal(t, "development", cfg.Environment)
	assert.Contains(t, cfg.AllowedOrigins, "*")
	assert.NotNil(t, cfg.AuthTokenValidator)
}

func TestNewRouterBuilder(t *testing.T) {
	cfg := DefaultRouterConfig()
	builder := NewRouterBuilder(cfg)

	require.NotNil(t, builder)
	assert.Equal(t, cfg, builder.config)
}

func TestNewRouterBuilder_NilConfig(t *testing.T) {
	builder := NewRouterBuilder(nil)

	require.NotNil(t, builder)
	assert.NotNil(t, builder.config)
	assert.Equal(t, "development", builder.config.Environment)
}

func TestRouterBuilder_WithExpenseUseCases(t *testing.T) {
	cfg := DefaultRouterConfig()
	expenseUC := &ExpenseUseCases{}

	builder := NewRouterBuilder(cfg).WithExpenseUseCases(expenseUC)

	assert.Equal(t, expenseUC, builder.expenses)
}

func TestRouterBuilder_WithBalanceUseCases(t *testing.T) {
	cfg := DefaultRouterConfig()
	balanceUC := &BalanceUseCases{}

	builder := NewRouterBuilder(cfg).WithBalanceUseCases(balanceUC)

	assert.Equal(t, balanceUC, builder.balances)
}

func TestRouterBuilder_Chain(t *testing.T) {
	cfg := DefaultRouterConfig()
	expenseUC := &ExpenseUseCases{}
	balanceUC := &BalanceUseCases{}

	builder := NewRouterBuilder(cfg).
		WithExpenseUseCases(expenseUC).
		WithBalanceUseCases(balanceUC)

	assert.Equal(t, expenseUC, builder.expenses)
	assert.Equal(t, balanceUC, builder.balances)
}

func TestRouterBuilder_Build_Development(t *testing.T) {
	cfg := &RouterConfig{
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:            "1.0.0",
		BuildTime:          "2024-01-01",
		Environment:        "development",
		AllowedOrigins:     []string{"*"},
		AuthTokenValidator: middleware.MockTokenValidator,
	}

	router := NewRouterBuilder(cfg).Build()

	require.NotNil(t, router)
}

func TestRouterBuilder_Build_Production(t *testing.T) {
	cfg := &RouterConfig{
		Logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		Version:            "1.0.0",
		BuildTime:          "2024-01-01",
		Environment:        "production",
		AllowedOrigins:     []string{"https://app.splitzy.io"},
		AuthTokenValidator: middleware.MockTokenValidator,
	}

	router := NewRouterBuilder(cfg).Build()

	require.NotNil(t, router)
}

func TestRouterBuilder_Build_HealthEndpoints(t *testing.T) {
	cfg := DefaultRouterConfig()
	router := NewRouterBuilder(cfg).Build()

	endpoints := []string{"/health", "/live", "/ready"}
	for _, endpoint := range endpoints {
		t.Run(endpoint, func(t *testing.T) {
			req := httptest.NewRequest("GET", endpoint, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRouterBuilder_Build_MetricsEndpoint(t *testing.T) {
	cfg := DefaultRouterConfig()
	router := NewRouterBuilder(cfg).Build()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_") // Prometheus Go metrics
}

func TestRouterBuilder_Build_404Handler(t *testing.T) {
	cfg := DefaultRouterConfig()
	router := NewRouterBuilder(cfg).Build()

	req := httptest.NewRequest("GET", "/nonexistent/path", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Endpoint not found")
}

func TestRouterBuilder_Build_APIRequiresAuth(t *testing.T) {
	cfg := DefaultRouterConfig()
	router := NewRouterBuilder(cfg).
		WithExpenseUseCases(&ExpenseUseCases{}).
		Build()

	req := httptest.NewRequest("GET", "/api/v1/expenses", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNewRouter(t *testing.T) {
	cfg := DefaultRouterConfig()
	router := NewRouter(cfg)

	require.NotNil(t, router)
}

func TestNewRouter_NilConfig(t *testing.T) {
	router := NewRouter(nil)

	require.NotNil(t, router)
}

func TestNewDevelopmentRouter(t *testing.T) {
	router := NewDevelopmentRouter()

	require.NotNil(t, router)
}

func TestRouter_CORS_Development(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.Environment = "development"
	router := NewRouterBuilder(cfg).Build()

	req := httptest.NewRequest("OPTIONS", "/health", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// OPTIONS request should return 204 or 200
	assert.True(t, w.Code == http.StatusNoContent || w.Code == http.StatusOK)
}

func TestRouter_CORS_Production(t *testing.T) {
	cfg := &RouterConfig{
		Logger:             slog.Default(),
		Version:            "1.0.0",
		Environment:        "production",
		AllowedOrigins:     []string{"https://app.splitzy.io"},
		AuthTokenValidator: middleware.MockTokenValidator,
	}
	router := NewRouterBuilder(cfg).Build()

	req := httptest.NewRequest("OPTIONS", "/health", nil)
	req.Header.Set("Origin", "https://app.splitzy.io")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Contains(t, w.Header().Get("Access-Control-Allow-Origin"), "https://app.splitzy.io")
}

func TestRouter_RequestID(t *testing.T) {
	cfg := DefaultRouterConfig()
	router := NewRouterBuilder(cfg).Build()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_WithExpenseUseCasesOnly(t *testing.T) {
	cfg := DefaultRouterConfig()

	router := NewRouterBuilder(cfg).
		WithExpenseUseCases(&ExpenseUseCases{}).
		Build()

	require.NotNil(t, router)
}

func TestRouter_WithBalanceUseCasesOnly(t *testing.T) {
	cfg := DefaultRouterConfig()

	router := NewRouterBuilder(cfg).
		WithBalanceUseCases(&BalanceUseCases{}).
		Build()

	require.NotNil(t, router)
}

func TestExpenseUseCases_Structure(t *testing.T) {
	uc := &ExpenseUseCases{}

	assert.Nil(t, uc.CreateExpense)
	assert.Nil(t, uc.GetExpense)
	assert.Nil(t, uc.ListExpenses)
	assert.Nil(t, uc.UpdateExpense)
	assert.Nil(t, uc.DeleteExpense)
	assert.Nil(t, uc.SettleSplit)
	assert.Nil(t, uc.PartiallySettleSplit)
	assert.Nil(t, uc.ListUnsettled)
	assert.Nil(t, uc.Statistics)
}

func TestBalanceUseCases_Structure(t *testing.T) {
	uc := &BalanceUseCases{}

	assert.Nil(t, uc.GetPairBalance)
	assert.Nil(t, uc.GetUserBalances)
	assert.Nil(t, uc.SettlePair)
	assert.Nil(t, uc.PartiallySettlePair)
}

func TestRouterConfig_AllFields(t *testing.T) {
	logger := slog.Default()
	validator := middleware.MockTokenValidator

	cfg := &RouterConfig{
		Logger:             logger,
		Pool:               nil,
		Version:            "1.0.0",
		BuildTime:          "2024-01-01",
		Environment:        "staging",
		AllowedOrigins:     []string{"https://staging.splitzy.io"},
		TracingEnabled:     true,
		AuthTokenValidator: validator,
	}

	assert.Equal(t, logger, cfg.Logger)
	assert.Nil(t, cfg.Pool)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.Equal(t, "2024-01-01", cfg.BuildTime)
	assert.Equal(t, "staging", cfg.Environment)
	assert.Contains(t, cfg.AllowedOrigins, "https://staging.splitzy.io")
	assert.True(t, cfg.TracingEnabled)
	assert.NotNil(t, cfg.AuthTokenValidator)
}
