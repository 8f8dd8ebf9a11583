package sqldb

import "context"

// Tx Transaction
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Savepoint(ctx context.Context, name string) error
	ReleaseSavepoint(ctx context.Context, name string) error
	RollbackToSavepoint(ctx context.Context, name string) error
	Active() bool
	// Close rolls back if still active and reports it; it never returns the rollback error.
	Close(ctx context.Context)
}
