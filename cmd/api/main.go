package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/PratikDhanave/habit-analytics-service/internal/config"
	"github.com/PratikDhanave/habit-analytics-service/internal/httpserver"
	"github.com/PratikDhanave/habit-analytics-service/internal/logging"
	"github.com/PratikDhanave/habit-analytics-service/internal/store"
)

// main boots the service: config → logger → DB → schema → HTTP server.
func main() {
	// Load runtime config from environment (DB_URL, API_KEYS, ...).
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// Connect to the relational store holding goals, sub-goals and daily logs.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := store.Open(ctx, cfg.DBDriver, cfg.DBURL)
	if err != nil {
		cancel()
		logger.Fatal("connect store", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer st.Close()

	// Ensure required tables/indexes exist so a fresh database is enough.
	err = st.EnsureSchema(ctx)
	cancel()
	if err != nil {
		logger.Fatal("ensure schema", zap.Error(err))
	}

	// Build HTTP router (public health + authenticated APIs).
	router := httpserver.NewRouter(cfg, st, logger, time.Now)

	logger.Info("server started", zap.String("addr", cfg.HTTPAddr), zap.String("driver", cfg.DBDriver))
	if err := router.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
