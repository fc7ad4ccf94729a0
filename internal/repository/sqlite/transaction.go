package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"sation/internal/domain"
	"sation/internal/domain/repositories"
)

// executor is satisfied by both *sql.DB and *sql.Tx
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlTxKey struct{}

func withTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, sqlTxKey{}, tx)
}

// getExecutor returns the transaction stored in ctx, or db when there is none.
func getExecutor(ctx context.Context, db *sql.DB) executor {
	if tx, ok := ctx.Value(sqlTxKey{}).(*sql.Tx); ok && tx != nil {
		return tx
	}
	return db
}

// TransactionManager implements repositories.TransactionManager over database/sql
type TransactionManager struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTransactionManager creates a new transaction manager for the store
func NewTransactionManager(store *Store, logger *slog.Logger) repositories.TransactionManager {
	return &TransactionManager{db: store.DB(), logger: logger}
}

// ExecTx executes fn within a transaction. Nested calls join the outer transaction.
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if tx, ok := ctx.Value(sqlTxKey{}).(*sql.Tx); ok && tx != nil {
		return fn(ctx)
	}

	tx, err := tm.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("begin transaction", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			tm.logger.Error("rollback failed", "error", err)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStorageError("commit transaction", err)
	}

	return nil
}
