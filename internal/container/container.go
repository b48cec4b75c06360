// Package container - dependency injection container for the application.
//
// The container owns the lifecycle of every dependency:
// - creation (Initialize)
// - access (getters)
// - teardown (Shutdown)
//
// Pattern: Composition Root. Everything is assembled in one place, so
// swapping an implementation or wiring a test double stays local.
package container

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	natsclient "github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/splitzy/expense-service/internal/adapters/http"
	"github.com/splitzy/expense-service/internal/adapters/http/middleware"
	"github.com/splitzy/expense-service/internal/application/ports"
	"github.com/splitzy/expense-service/internal/application/usecases/balance"
	"github.com/splitzy/expense-service/internal/application/usecases/expense"
	"github.com/splitzy/expense-service/internal/config"
	"github.com/splitzy/expense-service/internal/domain/split"
	"github.com/splitzy/expense-service/internal/domain/valueobjects"
	rediscache "github.com/splitzy/expense-service/internal/infrastructure/cache/redis"
	natsinfra "github.com/splitzy/expense-service/internal/infrastructure/messaging/nats"
	"github.com/splitzy/expense-service/internal/infrastructure/persistence/postgres"
	"github.com/splitzy/expense-service/internal/pkg/logger"
	"github.com/splitzy/expense-service/internal/pkg/tracing"
)

// ============================================
// Container
// ============================================

// Container - the application DI container.
type Container struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	pool        *pgxpool.Pool
	natsConn    *natsclient.Conn
	redisClient *redis.Client
	tracer      *tracing.Provider

	// Repositories
	expenseRepo ports.ExpenseRepository
	balanceRepo ports.BalanceRepository
	outboxRepo  *postgres.OutboxRepository

	// Unit of Work
	uow ports.UnitOfWork

	// Domain services
	splitEngine *split.Engine

	// Cache
	balanceCache ports.BalanceCache

	// Messaging
	publisher   *natsinfra.Publisher
	relay       *natsinfra.OutboxRelay
	relayCancel context.CancelFunc

	// Use Cases
	createExpenseUC        *expense.CreateExpenseUseCase
	getExpenseUC           *expense.GetExpenseUseCase
	listExpensesUC         *expense.ListExpensesUseCase
	updateExpenseUC        *expense.UpdateExpenseUseCase
	deleteExpenseUC        *expense.DeleteExpenseUseCase
	settleSplitUC          *expense.SettleSplitUseCase
	partiallySettleUC      *expense.PartiallySettleSplitUseCase
	listUnsettledUC        *expense.ListUnsettledUseCase
	statisticsUC           *expense.StatisticsUseCase
	getPairBalanceUC       *balance.GetPairBalanceUseCase
	getUserBalancesUC      *balance.GetUserBalancesUseCase
	settlePairUC           *balance.SettlePairUseCase
	partiallySettlePairUC  *balance.PartiallySettlePairUseCase

	// HTTP
	httpServer *http.Server
}

// New creates a container with the given configuration.
func New(cfg *config.Config) *Container {
	return &Container{
		config: cfg,
	}
}

// ============================================
// Initialization
// ============================================

// Initialize wires every dependency. The order matters: logging first,
// then external connections, then the layers that depend on them.
func (c *Container) Initialize(ctx context.Context) error {
	c.logger = c.initLogger()
	c.logger.Info("Initializing application container...")

	// 1. Tracing (optional)
	if err := c.initTracing(ctx); err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	// 2. Database
	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("Database connected")

	// 3. NATS (optional)
	if err := c.initNATS(); err != nil {
		return fmt.Errorf("failed to initialize NATS: %w", err)
	}

	// 4. Redis (optional)
	if err := c.initRedis(ctx); err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}

	// 5. Repositories
	c.initRepositories()
	c.logger.Info("Repositories initialized")

	// 6. Use Cases
	if err := c.initUseCases(); err != nil {
		return fmt.Errorf("failed to initialize use cases: %w", err)
	}
	c.logger.Info("Use cases initialized")

	// 7. Outbox relay
	c.initRelay()

	// 8. HTTP Server
	c.initHTTPServer()
	c.logger.Info("HTTP server initialized")

	c.logger.Info("Container initialization complete")
	return nil
}

// initLogger builds the process-wide logger from the log config.
func (c *Container) initLogger() *slog.Logger {
	var output io.Writer = os.Stdout
	if c.config.Log.Output == "stderr" {
		output = os.Stderr
	}

	cfg := &logger.Config{
		Level:     c.config.Log.Level,
		Format:    c.config.Log.Format,
		Output:    output,
		AddSource: c.config.App.Debug,
	}

	logger.Setup(cfg)
	return slog.Default()
}

// initTracing installs the OTLP tracer provider when enabled.
func (c *Container) initTracing(ctx context.Context) error {
	if !c.config.Tracing.Enabled {
		return nil
	}

	provider, err := tracing.Init(ctx, tracing.Config{
		ServiceName:    c.config.App.Name,
		ServiceVersion: c.config.App.Version,
		Environment:    c.config.App.Environment,
		Endpoint:       c.config.Tracing.Endpoint,
		SampleRatio:    c.config.Tracing.SampleRatio,
	})
	if err != nil {
		return err
	}

	c.tracer = provider
	c.logger.Info("Tracing enabled", slog.String("endpoint", c.config.Tracing.Endpoint))
	return nil
}

// initDatabase opens the pgx connection pool.
func (c *Container) initDatabase(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(c.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = c.config.Database.MaxConnections
	poolConfig.MinConns = c.config.Database.MinConnections
	poolConfig.MaxConnLifetime = c.config.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = c.config.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.pool = pool
	return nil
}

// initNATS connects to the broker. Disabled NATS means events stay in
// the outbox table until a relay picks them up.
func (c *Container) initNATS() error {
	if !c.config.NATS.Enabled {
		c.logger.Info("NATS disabled, events will accumulate in the outbox")
		return nil
	}

	conn, err := natsclient.Connect(c.config.NATS.URL,
		natsclient.Name(c.config.App.Name),
		natsclient.MaxReconnects(-1),
		natsclient.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", c.config.NATS.URL, err)
	}

	c.natsConn = conn
	c.publisher = natsinfra.NewPublisher(conn, c.logger)
	c.logger.Info("NATS connected", slog.String("url", c.config.NATS.URL))
	return nil
}

// initRedis connects the balance cache. A missing cache degrades reads
// to the database, it never fails startup paths that can work without it.
func (c *Container) initRedis(ctx context.Context) error {
	if !c.config.Redis.Enabled {
		c.logger.Info("Redis disabled, balance reads go straight to the database")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.config.Redis.Addr,
		Password: c.config.Redis.Password,
		DB:       c.config.Redis.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping Redis at %s: %w", c.config.Redis.Addr, err)
	}

	c.redisClient = client
	c.balanceCache = rediscache.NewBalanceCache(client, c.config.Redis.CacheTTL)
	c.logger.Info("Redis connected", slog.String("addr", c.config.Redis.Addr))
	return nil
}

// initRepositories builds the persistence layer.
func (c *Container) initRepositories() {
	c.expenseRepo = postgres.NewExpenseRepository(c.pool)
	c.balanceRepo = postgres.NewBalanceRepository(c.pool)
	c.outboxRepo = postgres.NewOutboxRepository(c.pool)

	// Unit of Work
	c.uow = postgres.NewUnitOfWork(c.pool)

	// Split engine
	c.splitEngine = split.NewEngine(c.logger)
}

// initUseCases builds the application layer.
func (c *Container) initUseCases() error {
	defaultCurrency, err := valueobjects.NewCurrency(c.config.App.DefaultCurrency)
	if err != nil {
		return fmt.Errorf("invalid default currency %q: %w", c.config.App.DefaultCurrency, err)
	}

	// Expense Use Cases
	c.createExpenseUC = expense.NewCreateExpenseUseCase(
		c.expenseRepo,
		c.balanceRepo,
		c.outboxRepo,
		c.balanceCache,
		c.splitEngine,
		c.uow,
	)
	c.getExpenseUC = expense.NewGetExpenseUseCase(c.expenseRepo)
	c.listExpensesUC = expense.NewListExpensesUseCase(c.expenseRepo)
	c.updateExpenseUC = expense.NewUpdateExpenseUseCase(c.expenseRepo, c.outboxRepo, c.uow)
	c.deleteExpenseUC = expense.NewDeleteExpenseUseCase(
		c.expenseRepo,
		c.balanceRepo,
		c.outboxRepo,
		c.balanceCache,
		c.uow,
	)
	c.settleSplitUC = expense.NewSettleSplitUseCase(
		c.expenseRepo,
		c.balanceRepo,
		c.outboxRepo,
		c.balanceCache,
		c.uow,
	)
	c.partiallySettleUC = expense.NewPartiallySettleSplitUseCase(
		c.expenseRepo,
		c.balanceRepo,
		c.outboxRepo,
		c.balanceCache,
		c.uow,
	)
	c.listUnsettledUC = expense.NewListUnsettledUseCase(c.expenseRepo)
	c.statisticsUC = expense.NewStatisticsUseCase(c.expenseRepo)

	// Balance Use Cases
	c.getPairBalanceUC = balance.NewGetPairBalanceUseCase(c.balanceRepo, defaultCurrency)
	c.getUserBalancesUC = balance.NewGetUserBalancesUseCase(c.balanceRepo, c.balanceCache)
	c.settlePairUC = balance.NewSettlePairUseCase(c.balanceRepo, c.balanceCache, c.uow)
	c.partiallySettlePairUC = balance.NewPartiallySettlePairUseCase(c.balanceRepo, c.balanceCache, c.uow)
	return nil
}

// initRelay builds the outbox relay. It only runs when a broker
// connection exists; StartRelay launches it.
func (c *Container) initRelay() {
	if c.publisher == nil {
		return
	}

	c.relay = natsinfra.NewOutboxRelay(
		c.outboxRepo,
		c.publisher,
		c.logger,
		c.config.Outbox.PollInterval,
		c.config.Outbox.BatchSize,
	)
}

// initHTTPServer wires handlers, middleware and the server.
func (c *Container) initHTTPServer() {
	// Token validator
	var tokenValidator func(token string) (*middleware.AuthClaims, error)
	if c.config.Auth.EnableMockAuth {
		tokenValidator = middleware.MockTokenValidator
	} else {
		tokenValidator = middleware.JWTTokenValidator(c.config.Auth.JWTSecret)
	}

	// Router Config
	routerConfig := &http.RouterConfig{
		Logger:             c.logger,
		Pool:               c.pool,
		NATSConn:           c.natsConn,
		RedisClient:        c.redisClient,
		Version:            c.config.App.Version,
		BuildTime:          c.config.App.BuildTime,
		Environment:        c.config.App.Environment,
		AllowedOrigins:     c.config.CORS.AllowedOrigins,
		TracingEnabled:     c.config.Tracing.Enabled,
		AuthTokenValidator: tokenValidator,
	}

	// Build Router
	router := http.NewRouterBuilder(routerConfig).
		WithExpenseUseCases(&http.ExpenseUseCases{
			CreateExpense:        c.createExpenseUC,
			GetExpense:           c.getExpenseUC,
			ListExpenses:         c.listExpensesUC,
			UpdateExpense:        c.updateExpenseUC,
			DeleteExpense:        c.deleteExpenseUC,
			SettleSplit:          c.settleSplitUC,
			PartiallySettleSplit: c.partiallySettleUC,
			ListUnsettled:        c.listUnsettledUC,
			Statistics:           c.statisticsUC,
		}).
		WithBalanceUseCases(&http.BalanceUseCases{
			GetPairBalance:      c.getPairBalanceUC,
			GetUserBalances:     c.getUserBalancesUC,
			SettlePair:          c.settlePairUC,
			PartiallySettlePair: c.partiallySettlePairUC,
		}).
		Build()

	// Server Config
	serverConfig := &http.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            fmt.Sprintf("%d", c.config.Server.Port),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		Logger:          c.logger,
	}

	c.httpServer = http.NewServer(serverConfig, router)
}

// ============================================
// Getters
// ============================================

// Config returns the configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Pool returns the database connection pool.
func (c *Container) Pool() *pgxpool.Pool {
	return c.pool
}

// HTTPServer returns the HTTP server.
func (c *Container) HTTPServer() *http.Server {
	return c.httpServer
}

// ExpenseRepository returns the expense repository.
func (c *Container) ExpenseRepository() ports.ExpenseRepository {
	return c.expenseRepo
}

// BalanceRepository returns the pair balance repository.
func (c *Container) BalanceRepository() ports.BalanceRepository {
	return c.balanceRepo
}

// OutboxRepository returns the outbox repository.
func (c *Container) OutboxRepository() *postgres.OutboxRepository {
	return c.outboxRepo
}

// UnitOfWork returns the unit of work.
func (c *Container) UnitOfWork() ports.UnitOfWork {
	return c.uow
}

// SplitEngine returns the split calculation engine.
func (c *Container) SplitEngine() *split.Engine {
	return c.splitEngine
}

// BalanceCache returns the balance cache, nil when Redis is disabled.
func (c *Container) BalanceCache() ports.BalanceCache {
	return c.balanceCache
}

// OutboxRelay returns the relay, nil when NATS is disabled.
func (c *Container) OutboxRelay() *natsinfra.OutboxRelay {
	return c.relay
}

// ============================================
// Relay Lifecycle
// ============================================

// StartRelay launches the outbox relay worker. No-op when NATS is
// disabled.
func (c *Container) StartRelay(ctx context.Context) {
	if c.relay == nil {
		return
	}

	relayCtx, cancel := context.WithCancel(ctx)
	c.relayCancel = cancel

	go c.relay.Run(relayCtx)
}

// ============================================
// Shutdown
// ============================================

// Shutdown stops every component in reverse initialization order.
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("Shutting down container...")

	var errs []error

	// 1. HTTP Server
	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	// 2. Outbox relay
	if c.relayCancel != nil {
		c.relayCancel()
	}

	// 3. NATS (Drain flushes buffered publishes)
	if c.natsConn != nil {
		if err := c.natsConn.Drain(); err != nil {
			errs = append(errs, fmt.Errorf("NATS drain: %w", err))
		}
	}

	// 4. Redis
	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("Redis close: %w", err))
		}
	}

	// 5. Database (allow in-flight transactions to finish)
	if c.pool != nil {
		done := make(chan struct{})
		go func() {
			c.pool.Close()
			close(done)
		}()

		select {
		case <-done:
			c.logger.Info("Database connection closed")
		case <-ctx.Done():
			c.logger.Warn("Database close timeout")
		}
	}

	// 6. Tracer (flush remaining spans)
	if c.tracer != nil {
		if err := c.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	c.logger.Info("Container shutdown complete")
	return nil
}

// ============================================
// Run
// ============================================

// Run starts the HTTP server and blocks until a termination signal.
func (c *Container) Run() error {
	c.logger.Info("Starting Splitzy expense service",
		slog.String("version", c.config.App.Version),
		slog.String("environment", c.config.App.Environment),
		slog.String("address", c.config.Server.Address()),
	)

	return c.httpServer.Run()
}

// ============================================
// Builder Pattern (Alternative)
// ============================================

// ContainerBuilder creates a container with custom components, mainly
// for tests that inject their own pool or cache.
type ContainerBuilder struct {
	cfg          *config.Config
	logger       *slog.Logger
	pool         *pgxpool.Pool
	balanceCache ports.BalanceCache
}

// NewBuilder creates a builder.
func NewBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{
		cfg: cfg,
	}
}

// WithLogger sets a custom logger.
func (b *ContainerBuilder) WithLogger(logger *slog.Logger) *ContainerBuilder {
	b.logger = logger
	return b
}

// WithPool sets a ready connection pool.
func (b *ContainerBuilder) WithPool(pool *pgxpool.Pool) *ContainerBuilder {
	b.pool = pool
	return b
}

// WithBalanceCache sets a custom balance cache.
func (b *ContainerBuilder) WithBalanceCache(cache ports.BalanceCache) *ContainerBuilder {
	b.balanceCache = cache
	return b
}

// Build creates the container.
func (b *ContainerBuilder) Build(ctx context.Context) (*Container, error) {
	c := New(b.cfg)

	// Use provided or initialize
	if b.logger != nil {
		c.logger = b.logger
	} else {
		c.logger = c.initLogger()
	}

	if b.pool != nil {
		c.pool = b.pool
	} else {
		if err := c.initDatabase(ctx); err != nil {
			return nil, err
		}
	}

	c.initRepositories()

	if b.balanceCache != nil {
		c.balanceCache = b.balanceCache
	}

	if err := c.initUseCases(); err != nil {
		return nil, err
	}
	c.initHTTPServer()

	return c, nil
}

// ============================================
// Health Check
// ============================================

// HealthStatus - the aggregate health of the application.
type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  time.Duration     `json:"uptime"`
	Checks  map[string]string `json:"checks"`
}

// Health checks every connected dependency. Redis is advisory: a cache
// outage degrades reads but the service keeps working.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:  "healthy",
		Version: c.config.App.Version,
		Checks:  make(map[string]string),
	}

	// Database check
	if err := c.pool.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Checks["database"] = "error: " + err.Error()
	} else {
		status.Checks["database"] = "ok"
	}

	// NATS check
	if c.natsConn != nil {
		if c.natsConn.IsConnected() {
			status.Checks["nats"] = "ok"
		} else {
			status.Status = "unhealthy"
			status.Checks["nats"] = "error: not connected"
		}
	}

	// Redis check
	if c.redisClient != nil {
		if err := c.redisClient.Ping(ctx).Err(); err != nil {
			status.Checks["redis"] = "degraded: " + err.Error()
		} else {
			status.Checks["redis"] = "ok"
		}
	}

	return status
}
