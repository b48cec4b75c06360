// Package http - router configuration for the REST API.
//
// The router is the composition root of the HTTP adapter: it wires
// handlers and middleware into a single gin engine. Handlers receive
// only the use cases they need.
package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/splitzy/expense-service/internal/adapters/http/common"
	"github.com/splitzy/expense-service/internal/adapters/http/handlers"
	"github.com/splitzy/expense-service/internal/adapters/http/middleware"
)

// ============================================
// Router Configuration
// ============================================

// RouterConfig configures the router.
type RouterConfig struct {
	// Logger for middleware
	Logger *slog.Logger
	// Database pool for health checks
	Pool *pgxpool.Pool
	// NATS connection for health checks
	NATSConn *nats.Conn
	// Redis client for health checks
	RedisClient *redis.Client
	// Application version
	Version string
	// Build time
	BuildTime string
	// Environment (development, staging, production)
	Environment string
	// AllowedOrigins for CORS (production)
	AllowedOrigins []string
	// TracingEnabled turns on the otelgin middleware
	TracingEnabled bool
	// AuthTokenValidator validates bearer tokens
	AuthTokenValidator func(token string) (*middleware.AuthClaims, error)
}

// DefaultRouterConfig returns a development configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		Logger:             slog.Default(),
		Version:            "dev",
		BuildTime:          "unknown",
		Environment:        "development",
		AllowedOrigins:     []string{"*"},
		AuthTokenValidator: middleware.MockTokenValidator,
	}
}

// ============================================
// Use Case Providers
// ============================================

// ExpenseUseCases is the provider for the expense use cases.
type ExpenseUseCases struct {
	CreateExpense        handlers.CreateExpenseUseCase
	GetExpense           handlers.GetExpenseUseCase
	ListExpenses         handlers.ListExpensesUseCase
	UpdateExpense        handlers.UpdateExpenseUseCase
	DeleteExpense        handlers.DeleteExpenseUseCase
	SettleSplit          handlers.SettleSplitUseCase
	PartiallySettleSplit handlers.PartiallySettleSplitUseCase
	ListUnsettled        handlers.ListUnsettledUseCase
	Statistics           handlers.StatisticsUseCase
}

// BalanceUseCases is the provider for the balance use cases.
type BalanceUseCases struct {
	GetPairBalance      handlers.GetPairBalanceUseCase
	GetUserBalances     handlers.GetUserBalancesUseCase
	SettlePair          handlers.SettlePairUseCase
	PartiallySettlePair handlers.PartiallySettlePairUseCase
}

// ============================================
// Router Builder
// ============================================

// RouterBuilder assembles the gin engine step by step.
type RouterBuilder struct {
	config   *RouterConfig
	expenses *ExpenseUseCases
	balances *BalanceUseCases
}

// NewRouterBuilder creates a new builder.
func NewRouterBuilder(config *RouterConfig) *RouterBuilder {
	if config == nil {
		config = DefaultRouterConfig()
	}
	return &RouterBuilder{
		config: config,
	}
}

// WithExpenseUseCases adds the expense use cases.
func (b *RouterBuilder) WithExpenseUseCases(useCases *ExpenseUseCases) *RouterBuilder {
	b.expenses = useCases
	return b
}

// WithBalanceUseCases adds the balance use cases.
func (b *RouterBuilder) WithBalanceUseCases(useCases *BalanceUseCases) *RouterBuilder {
	b.balances = useCases
	return b
}

// Build creates the configured gin engine.
func (b *RouterBuilder) Build() *gin.Engine {
	if b.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Router without the default middleware
	router := gin.New()

	// Force registration of the custom validators
	_ = handlers.Validator()

	// ============================================
	// Global Middleware
	// ============================================

	// 1. Recovery goes first
	router.Use(middleware.Recovery(&middleware.RecoveryConfig{
		Logger:           b.config.Logger,
		EnableStackTrace: b.config.Environment != "production",
	}))

	// 2. Request ID
	router.Use(middleware.RequestID())

	// 3. Tracing
	if b.config.TracingEnabled {
		router.Use(otelgin.Middleware("expense-service"))
	}

	// 4. CORS
	if b.config.Environment == "production" {
		router.Use(middleware.CORS(middleware.ProductionCORSConfig(b.config.AllowedOrigins)))
	} else {
		router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	}

	// 5. Logging
	router.Use(middleware.Logging(&middleware.LoggingConfig{
		Logger:    b.config.Logger,
		SkipPaths: []string{"/health", "/live", "/ready", "/metrics"},
	}))

	// 6. Rate Limiting (global)
	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	// 7. Metrics (Prometheus)
	router.Use(middleware.Metrics())

	// ============================================
	// Metrics Endpoint (no auth)
	// ============================================

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ============================================
	// Health Check Routes (no auth)
	// ============================================

	healthHandler := handlers.NewHealthHandler(
		b.config.Pool,
		b.config.NATSConn,
		b.config.RedisClient,
		b.config.Version,
		b.config.BuildTime,
	)
	healthHandler.RegisterRoutes(router)

	// ============================================
	// API v1 Routes (auth required)
	// ============================================

	v1 := router.Group("/api/v1")
	v1.Use(middleware.Auth(&middleware.AuthConfig{
		TokenValidator: b.config.AuthTokenValidator,
		SkipPaths:      []string{},
	}))
	{
		// Expense routes
		if b.expenses != nil {
			expenseHandler := handlers.NewExpenseHandler(
				b.expenses.CreateExpense,
				b.expenses.GetExpense,
				b.expenses.ListExpenses,
				b.expenses.UpdateExpense,
				b.expenses.DeleteExpense,
				b.expenses.SettleSplit,
				b.expenses.PartiallySettleSplit,
				b.expenses.ListUnsettled,
				b.expenses.Statistics,
			)
			expenses := v1.Group("/expenses")
			{
				expenses.POST("", expenseHandler.CreateExpense)
				expenses.GET("", expenseHandler.ListExpenses)
				expenses.GET("/:id", expenseHandler.GetExpense)
				expenses.PATCH("/:id", expenseHandler.UpdateExpense)
				expenses.DELETE("/:id", expenseHandler.DeleteExpense)

				// Settlement operations with stricter rate limiting
				settlementOps := expenses.Group("")
				settlementOps.Use(middleware.SettlementRateLimit())
				{
					settlementOps.POST("/:id/settle", expenseHandler.SettleSplit)
					settlementOps.POST("/:id/partial-settle", expenseHandler.PartiallySettleSplit)
				}
			}

			v1.GET("/users/:user_id/expenses/unsettled", expenseHandler.ListUnsettled)
			v1.GET("/users/:user_id/expenses/statistics", expenseHandler.Statistics)
		}

		// Balance routes
		if b.balances != nil {
			balanceHandler := handlers.NewBalanceHandler(
				b.balances.GetPairBalance,
				b.balances.GetUserBalances,
				b.balances.SettlePair,
				b.balances.PartiallySettlePair,
			)
			balances := v1.Group("/users/:user_id/balances")
			{
				balances.GET("", balanceHandler.GetUserBalances)
				balances.GET("/:other_id", balanceHandler.GetPairBalance)

				settlementOps := balances.Group("")
				settlementOps.Use(middleware.SettlementRateLimit())
				{
					settlementOps.POST("/settle", balanceHandler.SettlePair)
					settlementOps.POST("/partial-settle", balanceHandler.PartiallySettlePair)
				}
			}
		}
	}

	// ============================================
	// Admin Routes (admin role required)
	// ============================================

	adminGroup := router.Group("/api/v1/admin")
	adminGroup.Use(middleware.Auth(&middleware.AuthConfig{
		TokenValidator: b.config.AuthTokenValidator,
	}))
	adminGroup.Use(middleware.RequireRole("admin"))
	{
		// Admin-only endpoints go here
	}

	// ============================================
	// 404 Handler
	// ============================================

	router.NoRoute(func(c *gin.Context) {
		common.Error(c, 404, &common.APIError{
			Code:    common.ErrCodeNotFound,
			Message: "Endpoint not found",
			Details: map[string]interface{}{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			},
		})
	})

	return router
}

// ============================================
// Quick Setup Functions
// ============================================

// NewRouter creates a router with the given configuration.
func NewRouter(config *RouterConfig) *gin.Engine {
	return NewRouterBuilder(config).Build()
}

// NewDevelopmentRouter creates a router for the development environment.
func NewDevelopmentRouter() *gin.Engine {
	config := DefaultRouterConfig()
	config.Environment = "development"
	return NewRouter(config)
}
