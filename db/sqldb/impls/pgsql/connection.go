package pgsql

import (
	"context"
	"log"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/zeptools/gw-pgconn/db/sqldb"
	"github.com/zeptools/gw-pgconn/dbg"
)

// Connection is one physical PostgreSQL connection. It is not safe for
// concurrent use: every call blocks on the native client, and commands run in
// the order they are issued.
type Connection struct {
	handle *connHandle
	sink   dbg.Sink
	cache  map[stmtKey]*PreparedStmt
	tx     *Tx
	types  *pgtype.Map // text codecs for parameters and scans
}

// Ensure pgsql.Connection implements sqldb.Conn
var _ sqldb.Conn = (*Connection)(nil)

type stmtKey struct {
	query      string
	paramCount int
}

type options struct {
	dial Dialer
}

type Option func(*options)

// WithDialer replaces the native client, e.g. with a fake in tests.
func WithDialer(d Dialer) Option {
	return func(o *options) { o.dial = d }
}

// Open connects using conf. A nil sink means stderr.
func Open(ctx context.Context, conf *sqldb.Conf, sink dbg.Sink, opts ...Option) (*Connection, error) {
	o := options{dial: DialPgconn}
	for _, opt := range opts {
		opt(&o)
	}
	if sink == nil {
		sink = dbg.NewStderrSink()
	}
	handle, err := newConnHandle(ctx, conf, sink, o.dial)
	if err != nil {
		return nil, err
	}
	return &Connection{
		handle: handle,
		sink:   sink,
		cache:  make(map[stmtKey]*PreparedStmt),
		types:  pgtype.NewMap(),
	}, nil
}

func (c *Connection) live() error {
	if c.handle == nil || c.handle.native == nil {
		return sqldb.ErrClosed
	}
	return nil
}

func (c *Connection) debugSink() dbg.Sink {
	if c.handle.conf.Debug {
		return c.sink
	}
	return nil
}

// Conf returns the configuration the connection was opened with.
func (c *Connection) Conf() *sqldb.Conf {
	if c.handle == nil {
		return nil
	}
	return c.handle.conf
}

// Move transfers ownership of the native connection to the returned
// Connection. The receiver is left without a handle; calls on it return ErrClosed.
func (c *Connection) Move() *Connection {
	moved := &Connection{handle: c.handle, sink: c.sink, cache: c.cache, tx: c.tx, types: c.types}
	if moved.tx != nil {
		moved.tx.conn = moved
	}
	c.handle = nil
	c.cache = nil
	c.tx = nil
	return moved
}

// Close rolls back an unfinished Tx, drops cached statements and closes the
// native connection. Further calls are no-ops.
func (c *Connection) Close(ctx context.Context) error {
	if c.handle == nil {
		return nil
	}
	if c.tx != nil && c.tx.active && c.handle.native != nil {
		c.tx.Close(ctx)
	}
	for _, p := range c.cache {
		p.Close()
	}
	c.cache = nil
	handle := c.handle
	c.handle = nil
	if err := handle.close(ctx); err != nil {
		return &sqldb.Error{Kind: sqldb.ErrConnection, Op: "close", Err: err}
	}
	return nil
}

// Execute sends query as-is and returns its result. The caller owns the
// returned reference and must Release it.
func (c *Connection) Execute(ctx context.Context, query string) (*Result, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	c.handle.debugf("executing: %s", query)
	return wrapResult("execute", sqldb.ErrExecution, c.handle.native.Exec(ctx, query), c.debugSink())
}

func (c *Connection) exec(ctx context.Context, query string) error {
	res, err := c.Execute(ctx, query)
	if err != nil {
		return err
	}
	res.Release()
	return nil
}

func (c *Connection) affected(ctx context.Context, query string) (uint64, error) {
	res, err := c.Execute(ctx, query)
	if err != nil {
		return 0, err
	}
	defer res.Release()
	return res.AffectedRows(), nil
}

func (c *Connection) Select(ctx context.Context, query string) (sqldb.Rows, error) {
	res, err := c.Execute(ctx, query)
	if err != nil {
		return nil, err
	}
	return newRows(res, nil, c.types), nil
}

func (c *Connection) Insert(ctx context.Context, query string) (uint64, error) {
	return c.affected(ctx, query)
}

func (c *Connection) Update(ctx context.Context, query string) (uint64, error) {
	return c.affected(ctx, query)
}

func (c *Connection) Remove(ctx context.Context, query string) (uint64, error) {
	return c.affected(ctx, query)
}

// Prepare creates a named server-side statement. query must already carry
// $n placeholders for paramCount parameters.
func (c *Connection) Prepare(ctx context.Context, query string, paramCount int) (*PreparedStmt, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	if paramCount < 0 {
		return nil, stmtErr("prepare", nil, "negative parameter count %d", paramCount)
	}
	c.handle.debugf("preparing: %s", query)

	name := c.handle.uniqueName()
	native := c.handle.native.Prepare(ctx, name, query, paramCount)
	res, err := wrapResult("prepare", sqldb.ErrPreparedStatement, native, c.debugSink())
	if err != nil {
		return nil, err
	}
	c.handle.register(name)

	p := newPreparedStmt(name, query, paramCount, c.types)
	p.paramOIDs = native.ParamOIDs()
	p.result = res
	p.valid = true
	return p, nil
}

// PrepareCached returns the statement already prepared for the same query and
// parameter count, preparing it on first use.
func (c *Connection) PrepareCached(ctx context.Context, query string, paramCount int) (*PreparedStmt, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	key := stmtKey{query: query, paramCount: paramCount}
	if p, ok := c.cache[key]; ok && !p.closed {
		return p, nil
	}
	p, err := c.Prepare(ctx, query, paramCount)
	if err != nil {
		return nil, err
	}
	c.cache[key] = p
	return p, nil
}

// PrepareStored prepares (cached) the raw statement stored under key.
func (c *Connection) PrepareStored(ctx context.Context, key string) (*PreparedStmt, error) {
	query, ok := RawStmt(key)
	if !ok {
		return nil, stmtErr("prepare", nil, "no raw statement %q", key)
	}
	return c.PrepareCached(ctx, query, sqldb.MaxOrdinalPlaceholder(query, sqldb.PgPlaceholderPrefix))
}

// Run executes p with its current parameter buffers. The previous result of p
// is released first and its counters reset, whatever the outcome. The
// returned Result belongs to p; Retain it to keep it past the next run.
func (c *Connection) Run(ctx context.Context, p *PreparedStmt) (*Result, error) {
	if err := c.live(); err != nil {
		return nil, err
	}
	if p.closed {
		return nil, stmtErr("run", nil, "statement %s is closed", p.name)
	}
	values := p.paramValues()

	p.releaseResult()
	p.count = 0
	p.totalCount = 0

	native := c.handle.native.ExecPrepared(ctx, p.name, values)
	res, err := wrapResult("run", sqldb.ErrExecution, native, c.debugSink())
	if err != nil {
		return nil, err
	}
	p.result = res
	p.valid = true
	p.totalCount = res.NumRows()
	return res, nil
}

func (c *Connection) RunPreparedSelect(ctx context.Context, p *PreparedStmt) (sqldb.Rows, error) {
	res, err := c.Run(ctx, p)
	if err != nil {
		return nil, err
	}
	return newRows(res.Retain(), p, c.types), nil
}

func (c *Connection) runAffected(ctx context.Context, p *PreparedStmt) (uint64, error) {
	res, err := c.Run(ctx, p)
	if err != nil {
		return 0, err
	}
	return res.AffectedRows(), nil
}

func (c *Connection) RunPreparedExecute(ctx context.Context, p *PreparedStmt) (uint64, error) {
	return c.runAffected(ctx, p)
}

func (c *Connection) RunPreparedInsert(ctx context.Context, p *PreparedStmt) (uint64, error) {
	return c.runAffected(ctx, p)
}

func (c *Connection) RunPreparedUpdate(ctx context.Context, p *PreparedStmt) (uint64, error) {
	return c.runAffected(ctx, p)
}

func (c *Connection) RunPreparedRemove(ctx context.Context, p *PreparedStmt) (uint64, error) {
	return c.runAffected(ctx, p)
}

// Escape escapes s for use inside a single-quoted string literal. It is not
// meant for identifiers.
func (c *Connection) Escape(s string) (string, error) {
	if err := c.live(); err != nil {
		return "", err
	}
	escaped, err := c.handle.native.EscapeString(s)
	if err != nil {
		return "", &sqldb.Error{Kind: sqldb.ErrExecution, Op: "escape", Err: err}
	}
	return escaped, nil
}

// StartTransaction sends BEGIN. It does not check for an open transaction;
// use Begin for that.
func (c *Connection) StartTransaction(ctx context.Context) error {
	return c.exec(ctx, "BEGIN")
}

func (c *Connection) CommitTransaction(ctx context.Context) error {
	return c.exec(ctx, "COMMIT")
}

// RollbackTransaction sends ROLLBACK. With report set, a warning about the
// unfinished transaction goes to the diagnostic sink.
func (c *Connection) RollbackTransaction(ctx context.Context, report bool) error {
	if err := c.exec(ctx, "ROLLBACK"); err != nil {
		return err
	}
	if report {
		c.sink.Printf("[WARN][pgsql] rolling back unfinished transaction")
	}
	return nil
}

// Savepoint, ReleaseSavepoint and RollbackToSavepoint put name into the
// command verbatim. name must come from a trusted source; Tx validates it.
func (c *Connection) Savepoint(ctx context.Context, name string) error {
	return c.exec(ctx, "SAVEPOINT "+name)
}

func (c *Connection) ReleaseSavepoint(ctx context.Context, name string) error {
	return c.exec(ctx, "RELEASE SAVEPOINT "+name)
}

func (c *Connection) RollbackToSavepoint(ctx context.Context, name string) error {
	return c.exec(ctx, "ROLLBACK TO SAVEPOINT "+name)
}

// ReportRollbackFailure writes message to the diagnostic sink. It never fails.
func (c *Connection) ReportRollbackFailure(message string) {
	if c.sink == nil {
		log.Printf("[ERROR][pgsql] %s", message)
		return
	}
	c.sink.Printf("[ERROR][pgsql] %s", message)
}

// LastInsertID returns currval of the serial sequence <table>_<field>_seq.
// The value is parsed as a bigint; a negative one, from a descending
// sequence, fails with ErrParse.
func (c *Connection) LastInsertID(ctx context.Context, table, field string) (uint64, error) {
	seq, err := c.Escape(table + "_" + field + "_seq")
	if err != nil {
		return 0, err
	}
	res, err := c.Execute(ctx, "SELECT currval('"+seq+"')")
	if err != nil {
		return 0, err
	}
	defer res.Release()

	if res.NumRows() == 0 || res.NumFields() == 0 || res.IsNull(0, 0) {
		return 0, &sqldb.Error{Kind: sqldb.ErrParse, Op: "last insert id", Msg: "currval returned no value"}
	}
	raw := res.Value(0, 0)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &sqldb.Error{Kind: sqldb.ErrParse, Op: "last insert id", Msg: strconv.Quote(raw), Err: err}
	}
	if id < 0 {
		return 0, &sqldb.Error{Kind: sqldb.ErrParse, Op: "last insert id", Msg: "negative sequence value " + raw}
	}
	return uint64(id), nil
}

// PreparedNames reports how many statement names have been issued.
func (c *Connection) PreparedNames() int {
	if c.handle == nil {
		return 0
	}
	return len(c.handle.names)
}
