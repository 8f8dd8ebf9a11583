package pgsql

import (
	"strconv"
	"sync/atomic"

	"github.com/zeptools/gw-pgconn/db/sqldb"
	"github.com/zeptools/gw-pgconn/dbg"
)

// Result owns one native result. It is reference counted: the native result
// is cleared exactly once, when the last holder calls Release.
//
// A Result never holds an error status; wrapResult turns those into errors.
type Result struct {
	native NativeResult
	status ExecStatus
	refs   atomic.Int32
	debug  dbg.Sink // nil unless the connection runs in debug mode
}

var _ sqldb.Result = (*Result)(nil)

func wrapResult(op string, kind error, native NativeResult, debug dbg.Sink) (*Result, error) {
	status := native.Status()
	if status.IsError() {
		msg := native.ErrorMessage()
		if msg == "" {
			msg = "native result has status " + status.String()
		}
		err := &sqldb.Error{Kind: kind, Op: op, Status: status.String(), Msg: msg, Err: native.Err()}
		native.Clear()
		return nil, err
	}
	r := &Result{native: native, status: status, debug: debug}
	r.refs.Store(1)
	return r, nil
}

// Retain adds a holder. Retaining a released Result is a no-op.
func (r *Result) Retain() *Result {
	for {
		n := r.refs.Load()
		if n <= 0 {
			return r
		}
		if r.refs.CompareAndSwap(n, n+1) {
			return r
		}
	}
}

// Release drops a holder; the last one clears the native result.
func (r *Result) Release() {
	for {
		n := r.refs.Load()
		if n <= 0 {
			return
		}
		if r.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				r.native.Clear()
			}
			return
		}
	}
}

// Valid reports whether the native result is still held.
func (r *Result) Valid() bool {
	return r != nil && r.refs.Load() > 0
}

func (r *Result) Status() ExecStatus {
	return r.status
}

// AffectedRows parses the command's row count. Commands that report none,
// and unparsable counts, yield 0.
func (r *Result) AffectedRows() uint64 {
	if !r.Valid() {
		return 0
	}
	n, err := strconv.ParseUint(r.native.CmdTuples(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func (r *Result) NumRows() int {
	if !r.Valid() {
		return 0
	}
	return r.native.NTuples()
}

func (r *Result) NumFields() int {
	if !r.Valid() {
		return 0
	}
	return r.native.NFields()
}

func (r *Result) Columns() []string {
	n := r.NumFields()
	cols := make([]string, n)
	for i := range cols {
		cols[i] = r.native.FieldName(i)
	}
	return cols
}

// FieldOID is the type OID of column col, 0 when unknown.
func (r *Result) FieldOID(col int) uint32 {
	if !r.Valid() {
		return 0
	}
	return r.native.FieldOID(col)
}

// Value returns the text form of a field; "" for NULL or out of range.
func (r *Result) Value(row, col int) string {
	if !r.Valid() {
		return ""
	}
	return r.native.GetValue(row, col)
}

func (r *Result) IsNull(row, col int) bool {
	if !r.Valid() {
		return true
	}
	return r.native.GetIsNull(row, col)
}

func (r *Result) debugf(format string, args ...any) {
	if r.debug != nil {
		r.debug.Printf("[DEBUG][pgsql] "+format, args...)
	}
}
