package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/splitzy/expense-service/internal/config"
	"github.com/splitzy/expense-service/internal/container"
)

func main() {
	// 1. Environment (.env is optional, real env vars win)
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	// 2. Configuration
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// 3. Container
	c := container.New(cfg)

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelInit()

	if err := c.Initialize(initCtx); err != nil {
		log.Fatal("Failed to initialize application:", err)
	}

	logger := c.Logger()
	logger.Info("🚀 Starting Splitzy expense service",
		slog.String("version", cfg.App.Version),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Outbox relay (no-op when NATS is disabled)
	relayCtx, cancelRelay := context.WithCancel(context.Background())
	defer cancelRelay()
	c.StartRelay(relayCtx)

	// 5. HTTP Server (blocks until SIGINT/SIGTERM)
	logger.Info(fmt.Sprintf("🌍 Server listening on http://%s", cfg.Server.Address()))
	logger.Info("Press Ctrl+C to stop")

	runErr := c.Run()

	// 6. Graceful shutdown of everything the server left behind
	cancelRelay()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	if err := c.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", slog.String("error", err.Error()))
	}

	if runErr != nil {
		logger.Error("Server error", slog.String("error", runErr.Error()))
		os.Exit(1)
	}

	logger.Info("👋 Server stopped gracefully")
}
