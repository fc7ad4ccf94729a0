// Package repository selects and opens the configured document store.
package repository

import (
	"context"
	"fmt"
	"log/slog"

	"sation/internal/config"
	"sation/internal/domain/repositories"
	docsysRepo "sation/internal/domain/repositories/docsystem"
	"sation/internal/repository/postgres"
	postgresDocsys "sation/internal/repository/postgres/docsystem"
	"sation/internal/repository/sqlite"
)

// Backend bundles the repositories of one storage driver
type Backend struct {
	Driver    string
	Documents docsysRepo.DocumentRepository
	TxManager repositories.TransactionManager

	// Clear deletes every document and keeps the schema
	Clear func(ctx context.Context) error
	// Drop removes the schema entirely (postgres only; sqlite clears instead)
	Drop  func(ctx context.Context) error
	Close func()
}

// Open connects to the store named by cfg.DatabaseDriver and makes sure its schema exists
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	switch cfg.DatabaseDriver {
	case config.DriverSQLite:
		return openSQLite(cfg, logger)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DatabaseDriver)
	}
}

func openSQLite(cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	store, err := sqlite.NewStore(cfg.SQLiteDir)
	if err != nil {
		return nil, err
	}

	logger.Info("database opened", "driver", config.DriverSQLite, "path", store.Path())

	return &Backend{
		Driver:    config.DriverSQLite,
		Documents: sqlite.NewDocumentRepository(store, logger),
		TxManager: sqlite.NewTransactionManager(store, logger),
		Clear:     store.Clear,
		Drop:      store.Clear,
		Close: func() {
			if err := store.Close(); err != nil {
				logger.Warn("closing sqlite store", "error", err)
			}
		},
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required for the postgres driver")
	}

	opts := postgres.DefaultPoolOptions()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		return nil, err
	}

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	logger.Info("database connected",
		"driver", config.DriverPostgres,
		"max_conns", opts.MaxConns,
		"min_conns", opts.MinConns,
		"table", tables.Documents,
	)

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &Backend{
		Driver:    config.DriverPostgres,
		Documents: postgresDocsys.NewDocumentRepository(repoConfig),
		TxManager: postgres.NewTransactionManager(pool, logger),
		Clear: func(ctx context.Context) error {
			return postgres.ClearDocuments(ctx, pool, tables)
		},
		Drop: func(ctx context.Context) error {
			if err := postgres.DropSchema(ctx, pool, tables); err != nil {
				return err
			}
			return postgres.EnsureSchema(ctx, pool, tables)
		},
		Close: pool.Close,
	}, nil
}
