package sqldb

import "context"

// Conn is one physical database connection. It is not safe for concurrent use;
// give each worker its own Conn.
type Conn interface {
	// Select runs query directly and returns a cursor over its rows.
	Select(ctx context.Context, query string) (Rows, error)
	// Insert, Update and Remove run query directly and return the affected row count.
	Insert(ctx context.Context, query string) (uint64, error)
	Update(ctx context.Context, query string) (uint64, error)
	Remove(ctx context.Context, query string) (uint64, error)

	Begin(ctx context.Context) (Tx, error)
	StartTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
	RollbackTransaction(ctx context.Context, report bool) error
	Savepoint(ctx context.Context, name string) error
	ReleaseSavepoint(ctx context.Context, name string) error
	RollbackToSavepoint(ctx context.Context, name string) error
	ReportRollbackFailure(message string)

	LastInsertID(ctx context.Context, table, field string) (uint64, error)
	Escape(s string) (string, error)
	Conf() *Conf
	Close(ctx context.Context) error
}
