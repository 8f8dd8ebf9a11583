package mock

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zeptools/gw-pgconn/db/sqldb/impls/pgsql"
)

// Operation names recorded in Calls.
const (
	OpExec         = "EXEC"
	OpPrepare      = "PREPARE"
	OpExecPrepared = "EXEC_PREPARED"
	OpEscape       = "ESCAPE"
	OpClose        = "CLOSE"
)

// ErrDial is returned by a Dialer built with FailDial.
var ErrDial = errors.New("mock: connection refused")

// Response scripts one native result.
type Response struct {
	Status  pgsql.ExecStatus
	ErrMsg  string
	Tag     string
	Columns []string
	Rows    [][]*string // nil entry = NULL

	// ColumnOIDs and ParamOIDs are optional type OIDs; a prepare response
	// with ParamOIDs must match the requested parameter count.
	ColumnOIDs []uint32
	ParamOIDs  []uint32
}

// Command is a successful command result with the given tag, e.g. "UPDATE 3".
func Command(tag string) Response {
	return Response{Status: pgsql.StatusCommandOK, Tag: tag}
}

// Fail is a fatal-error result carrying msg.
func Fail(msg string) Response {
	return Response{Status: pgsql.StatusFatalError, ErrMsg: msg}
}

// Rows is a tuples result; each row is given as text values without NULLs.
func Rows(columns []string, rows ...[]string) Response {
	r := Response{Status: pgsql.StatusTuplesOK, Columns: columns, Tag: fmt.Sprintf("SELECT %d", len(rows))}
	for _, row := range rows {
		vals := make([]*string, len(row))
		for i := range row {
			v := row[i]
			vals[i] = &v
		}
		r.Rows = append(r.Rows, vals)
	}
	return r
}

// Call is one recorded boundary call.
type Call struct {
	Op     string
	Name   string
	SQL    string
	Params [][]byte
}

// Native is a fake native connection. Not safe for concurrent use.
type Native struct {
	Calls   []Call
	Results []*Result
	Closed  int

	CloseErr  error
	EscapeErr error

	exec     map[string]Response
	prepare  map[string]Response
	run      map[string]func(params [][]byte) Response
	prepared map[string]string // name -> sql
}

var _ pgsql.Native = (*Native)(nil)

func New() *Native {
	return &Native{
		exec:     make(map[string]Response),
		prepare:  make(map[string]Response),
		run:      make(map[string]func([][]byte) Response),
		prepared: make(map[string]string),
	}
}

// OnExec scripts the result of a direct execution of sql.
func (n *Native) OnExec(sql string, r Response) {
	n.exec[sql] = r
}

// OnPrepare scripts the result of preparing sql.
func (n *Native) OnPrepare(sql string, r Response) {
	n.prepare[sql] = r
}

// OnRun scripts executions of whichever statement was prepared from sql.
func (n *Native) OnRun(sql string, fn func(params [][]byte) Response) {
	n.run[sql] = fn
}

// Dialer returns a pgsql.Dialer handing out n.
func (n *Native) Dialer() pgsql.Dialer {
	return func(context.Context, string) (pgsql.Native, error) {
		return n, nil
	}
}

// FailDial returns a pgsql.Dialer that always fails with ErrDial.
func FailDial() pgsql.Dialer {
	return func(context.Context, string) (pgsql.Native, error) {
		return nil, ErrDial
	}
}

// PreparedSQL returns the SQL a statement name was prepared with.
func (n *Native) PreparedSQL(name string) (string, bool) {
	sql, ok := n.prepared[name]
	return sql, ok
}

// CallsOf returns the recorded calls of one operation.
func (n *Native) CallsOf(op string) []Call {
	var out []Call
	for _, c := range n.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Uncleared counts handed-out results not cleared yet.
func (n *Native) Uncleared() int {
	cnt := 0
	for _, r := range n.Results {
		if r.Cleared == 0 {
			cnt++
		}
	}
	return cnt
}

func (n *Native) result(r Response) *Result {
	res := &Result{resp: r}
	n.Results = append(n.Results, res)
	return res
}

func (n *Native) Exec(_ context.Context, sql string) pgsql.NativeResult {
	n.Calls = append(n.Calls, Call{Op: OpExec, SQL: sql})
	if r, ok := n.exec[sql]; ok {
		return n.result(r)
	}
	words := strings.Fields(sql)
	if len(words) == 0 {
		return n.result(Response{Status: pgsql.StatusEmptyQuery})
	}
	return n.result(Command(strings.ToUpper(words[0])))
}

func (n *Native) Prepare(_ context.Context, name, sql string, paramCount int) pgsql.NativeResult {
	n.Calls = append(n.Calls, Call{Op: OpPrepare, Name: name, SQL: sql})
	if _, exists := n.prepared[name]; exists {
		return n.result(Fail(fmt.Sprintf("ERROR:  prepared statement %q already exists", name)))
	}
	r, ok := n.prepare[sql]
	if ok && r.Status.IsError() {
		return n.result(r)
	}
	if ok && r.ParamOIDs != nil && len(r.ParamOIDs) != paramCount {
		return n.result(Fail(fmt.Sprintf("statement %s declares %d parameters, expected %d", name, len(r.ParamOIDs), paramCount)))
	}
	n.prepared[name] = sql
	return n.result(Response{Status: pgsql.StatusCommandOK, ParamOIDs: r.ParamOIDs})
}

func (n *Native) ExecPrepared(_ context.Context, name string, paramValues [][]byte) pgsql.NativeResult {
	params := make([][]byte, len(paramValues))
	for i, v := range paramValues {
		if v != nil {
			params[i] = append([]byte{}, v...)
		}
	}
	n.Calls = append(n.Calls, Call{Op: OpExecPrepared, Name: name, Params: params})
	sql, ok := n.prepared[name]
	if !ok {
		return n.result(Fail(fmt.Sprintf("ERROR:  prepared statement %q does not exist", name)))
	}
	if fn, ok := n.run[sql]; ok {
		return n.result(fn(params))
	}
	return n.result(Command(""))
}

// EscapeString doubles single quotes, as the server does with
// standard_conforming_strings on.
func (n *Native) EscapeString(s string) (string, error) {
	n.Calls = append(n.Calls, Call{Op: OpEscape, SQL: s})
	if n.EscapeErr != nil {
		return "", n.EscapeErr
	}
	return strings.ReplaceAll(s, "'", "''"), nil
}

func (n *Native) Close(context.Context) error {
	n.Calls = append(n.Calls, Call{Op: OpClose})
	n.Closed++
	return n.CloseErr
}

// Result is a scripted pgsql.NativeResult.
type Result struct {
	resp    Response
	Cleared int
}

var _ pgsql.NativeResult = (*Result)(nil)

func (r *Result) Status() pgsql.ExecStatus { return r.resp.Status }
func (r *Result) ErrorMessage() string     { return r.resp.ErrMsg }
func (r *Result) Err() error               { return nil }
func (r *Result) NTuples() int             { return len(r.resp.Rows) }
func (r *Result) NFields() int             { return len(r.resp.Columns) }

func (r *Result) CmdTuples() string {
	fields := strings.Fields(r.resp.Tag)
	if len(fields) < 2 {
		return ""
	}
	return fields[len(fields)-1]
}

func (r *Result) FieldName(col int) string {
	if col < 0 || col >= len(r.resp.Columns) {
		return ""
	}
	return r.resp.Columns[col]
}

func (r *Result) FieldOID(col int) uint32 {
	if col < 0 || col >= len(r.resp.ColumnOIDs) {
		return 0
	}
	return r.resp.ColumnOIDs[col]
}

func (r *Result) ParamOIDs() []uint32 { return r.resp.ParamOIDs }

func (r *Result) GetValue(row, col int) string {
	if r.GetIsNull(row, col) {
		return ""
	}
	return *r.resp.Rows[row][col]
}

func (r *Result) GetIsNull(row, col int) bool {
	if row < 0 || row >= len(r.resp.Rows) || col < 0 || col >= len(r.resp.Rows[row]) {
		return true
	}
	return r.resp.Rows[row][col] == nil
}

func (r *Result) Clear() {
	r.Cleared++
}
