package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager runs multi-row operations (archive cascade, delete with
// child detach) atomically. Repositories called with the ctx passed to fn
// join the transaction.
type TransactionManager interface {
	// ExecTx executes fn within a transaction, committing only if fn returns nil
	ExecTx(ctx context.Context, fn TxFn) error
}
