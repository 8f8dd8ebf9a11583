package pgsql

import (
	"context"

	"github.com/zeptools/gw-pgconn/db/sqldb"
)

// Tx tracks one transaction on a Connection. Unlike the raw transaction
// commands it refuses a second concurrent transaction and validates savepoint
// names before they reach SQL.
type Tx struct {
	conn   *Connection
	active bool
}

// Ensure pgsql.Tx implements sqldb.Tx
var _ sqldb.Tx = (*Tx)(nil)

// Begin starts a transaction.
func (c *Connection) Begin(ctx context.Context) (sqldb.Tx, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	if c.tx != nil && c.tx.active {
		return nil, sqldb.ErrTxActive
	}
	if err := c.StartTransaction(ctx); err != nil {
		return nil, err
	}
	c.tx = &Tx{conn: c, active: true}
	return c.tx, nil
}

func (t *Tx) Active() bool {
	return t.active
}

// Commit ends the transaction. On failure it stays active so Close rolls it back.
func (t *Tx) Commit(ctx context.Context) error {
	if !t.active {
		return sqldb.ErrTxDone
	}
	if err := t.conn.CommitTransaction(ctx); err != nil {
		return err
	}
	t.active = false
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if !t.active {
		return sqldb.ErrTxDone
	}
	if err := t.conn.RollbackTransaction(ctx, false); err != nil {
		return err
	}
	t.active = false
	return nil
}

func (t *Tx) savepointCmd(ctx context.Context, name string, cmd func(context.Context, string) error) error {
	if !t.active {
		return sqldb.ErrTxDone
	}
	if err := sqldb.ValidIdentifier(name); err != nil {
		return err
	}
	return cmd(ctx, name)
}

func (t *Tx) Savepoint(ctx context.Context, name string) error {
	return t.savepointCmd(ctx, name, t.conn.Savepoint)
}

func (t *Tx) ReleaseSavepoint(ctx context.Context, name string) error {
	return t.savepointCmd(ctx, name, t.conn.ReleaseSavepoint)
}

func (t *Tx) RollbackToSavepoint(ctx context.Context, name string) error {
	return t.savepointCmd(ctx, name, t.conn.RollbackToSavepoint)
}

// Close rolls back a transaction that was neither committed nor rolled back,
// reporting it. A failing rollback is reported, not returned.
func (t *Tx) Close(ctx context.Context) {
	if !t.active {
		return
	}
	t.active = false
	if err := t.conn.RollbackTransaction(ctx, true); err != nil {
		t.conn.ReportRollbackFailure("rollback of unfinished transaction failed: " + err.Error())
	}
}
