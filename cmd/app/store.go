package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/taskboard/internal/config"
	"github.com/BuzzLyutic/taskboard/internal/repo"
)

// openStore connects the configured gateway. Postgres is pinged and, when
// migrate is set, brought up to the embedded schema; sqlite applies its
// schema on open.
func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger, migrate bool) (repo.Gateway, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		logger.Info("Successfully connected to the Database!")

		store := repo.NewPostgres(pool)
		if migrate {
			if err := store.Migrate(ctx); err != nil {
				store.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
			logger.Info("schema applied")
		}
		return store, nil

	case config.DriverSQLite:
		store, err := repo.NewSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		logger.Info("sqlite store opened", zap.String("path", cfg.SQLitePath))
		return store, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store, data is lost on exit")
		return repo.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

// setup loads config and builds the logger every command starts from.
func setup(configPath string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}
