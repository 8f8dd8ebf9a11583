package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgconnNative implements Native on a single pgconn.PgConn.
type pgconnNative struct {
	conn *pgconn.PgConn
}

var _ Native = (*pgconnNative)(nil)

// DialPgconn is the default Dialer.
func DialPgconn(ctx context.Context, connString string) (Native, error) {
	conn, err := pgconn.Connect(ctx, connString)
	if err != nil {
		return nil, err
	}
	return &pgconnNative{conn: conn}, nil
}

// Exec uses the simple query protocol. Like PQexec, only the last result of a
// multi-statement string is kept.
func (n *pgconnNative) Exec(ctx context.Context, sql string) NativeResult {
	mrr := n.conn.Exec(ctx, sql)
	var last *pgconnResult
	for mrr.NextResult() {
		rr := mrr.ResultReader()
		res := rr.Read()
		// field descriptions live in a connection buffer reused by the next result
		last = fromPgconnResult(res, rr.FieldDescriptions())
	}
	if err := mrr.Close(); err != nil {
		return errorResult(err)
	}
	if last == nil {
		return &pgconnResult{status: StatusEmptyQuery, errMsg: "empty query"}
	}
	return last
}

// Prepare leaves parameter types for the server to infer and rejects a
// statement whose placeholders do not match paramCount.
func (n *pgconnNative) Prepare(ctx context.Context, name, sql string, paramCount int) NativeResult {
	sd, err := n.conn.Prepare(ctx, name, sql, nil)
	if err != nil {
		return errorResult(err)
	}
	if err := checkParamCount(sd, paramCount); err != nil {
		if derr := n.conn.Deallocate(ctx, name); derr != nil {
			return errorResult(errors.Join(err, derr))
		}
		return errorResult(err)
	}
	return &pgconnResult{status: StatusCommandOK, paramOIDs: sd.ParamOIDs}
}

func checkParamCount(sd *pgconn.StatementDescription, paramCount int) error {
	if len(sd.ParamOIDs) != paramCount {
		return fmt.Errorf("statement %s declares %d parameters, expected %d", sd.Name, len(sd.ParamOIDs), paramCount)
	}
	return nil
}

func (n *pgconnNative) ExecPrepared(ctx context.Context, name string, paramValues [][]byte) NativeResult {
	// nil formats: text parameters, text results
	rr := n.conn.ExecPrepared(ctx, name, paramValues, nil, nil)
	res := rr.Read()
	return fromPgconnResult(res, rr.FieldDescriptions())
}

func (n *pgconnNative) EscapeString(s string) (string, error) {
	return n.conn.EscapeString(s)
}

func (n *pgconnNative) Close(ctx context.Context) error {
	return n.conn.Close(ctx)
}

type pgconnResult struct {
	status    ExecStatus
	errMsg    string
	err       error
	tag       string
	fields    []string
	fieldOIDs []uint32
	paramOIDs []uint32
	rows      [][][]byte
}

var _ NativeResult = (*pgconnResult)(nil)

// fromPgconnResult classifies res. fields come from the ResultReader: a
// RowDescription makes the result TUPLES_OK even when no row follows.
func fromPgconnResult(res *pgconn.Result, fields []pgconn.FieldDescription) *pgconnResult {
	if res.Err != nil {
		return errorResult(res.Err)
	}
	r := &pgconnResult{tag: res.CommandTag.String(), rows: res.Rows}
	switch {
	case fields != nil:
		r.status = StatusTuplesOK
		r.setFields(fields)
	case r.tag == "":
		r.status = StatusEmptyQuery
		r.errMsg = "empty query"
	default:
		r.status = StatusCommandOK
	}
	return r
}

func (r *pgconnResult) setFields(fields []pgconn.FieldDescription) {
	r.fields = make([]string, len(fields))
	r.fieldOIDs = make([]uint32, len(fields))
	for i, fd := range fields {
		r.fields[i] = fd.Name
		r.fieldOIDs[i] = fd.DataTypeOID
	}
}

// errorResult maps a pgconn error to a result. The server reports every
// ErrorResponse as fatal at the result level, whatever its severity.
func errorResult(err error) *pgconnResult {
	r := &pgconnResult{status: StatusFatalError, err: err, errMsg: err.Error()}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		r.errMsg = pgErr.Severity + ":  " + pgErr.Message
		if pgErr.Detail != "" {
			r.errMsg += "\nDETAIL:  " + pgErr.Detail
		}
	}
	return r
}

func (r *pgconnResult) Status() ExecStatus   { return r.status }
func (r *pgconnResult) ErrorMessage() string { return r.errMsg }
func (r *pgconnResult) Err() error           { return r.err }
func (r *pgconnResult) NTuples() int         { return len(r.rows) }
func (r *pgconnResult) NFields() int         { return len(r.fields) }

func (r *pgconnResult) CmdTuples() string {
	return cmdTuples(r.tag)
}

func (r *pgconnResult) FieldName(col int) string {
	if col < 0 || col >= len(r.fields) {
		return ""
	}
	return r.fields[col]
}

func (r *pgconnResult) FieldOID(col int) uint32 {
	if col < 0 || col >= len(r.fieldOIDs) {
		return 0
	}
	return r.fieldOIDs[col]
}

func (r *pgconnResult) ParamOIDs() []uint32 { return r.paramOIDs }

func (r *pgconnResult) GetValue(row, col int) string {
	if row < 0 || row >= len(r.rows) || col < 0 || col >= len(r.rows[row]) {
		return ""
	}
	return string(r.rows[row][col])
}

func (r *pgconnResult) GetIsNull(row, col int) bool {
	if row < 0 || row >= len(r.rows) || col < 0 || col >= len(r.rows[row]) {
		return true
	}
	return r.rows[row][col] == nil
}

func (r *pgconnResult) Clear() {
	r.rows = nil
	r.fields = nil
	r.fieldOIDs = nil
}

// cmdTuples extracts the row count from a command tag the way the C client
// library does: only for commands that report one, empty otherwise.
func cmdTuples(tag string) string {
	fields := strings.Fields(tag)
	if len(fields) < 2 {
		return ""
	}
	switch fields[0] {
	case "INSERT":
		// INSERT oid rows
		if len(fields) == 3 {
			return fields[2]
		}
	case "SELECT", "UPDATE", "DELETE", "MOVE", "FETCH", "COPY", "MERGE":
		return fields[len(fields)-1]
	}
	return ""
}
