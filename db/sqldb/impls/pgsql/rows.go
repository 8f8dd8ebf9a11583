package pgsql

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/zeptools/gw-pgconn/db/sqldb"
)

// Rows reads a Result row by row. It holds its own reference to the Result,
// so re-running the statement that produced it does not disturb it.
type Rows struct {
	res    *Result
	stmt   *PreparedStmt // set when opened by RunPreparedSelect
	types  *pgtype.Map
	pos    int
	closed bool
	err    error
}

// Ensure pgsql.Rows implements sqldb.Rows
var _ sqldb.Rows = (*Rows)(nil)

func newRows(res *Result, stmt *PreparedStmt, types *pgtype.Map) *Rows {
	return &Rows{res: res, stmt: stmt, types: types, pos: -1}
}

func (r *Rows) Next() bool {
	if r.closed || r.err != nil {
		return false
	}
	if r.pos+1 >= r.res.NumRows() {
		r.pos = r.res.NumRows()
		return false
	}
	r.pos++
	if r.stmt != nil && r.stmt.result == r.res {
		r.stmt.count = r.pos + 1
	}
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.closed {
		return scanErr("rows are closed")
	}
	if r.pos < 0 || r.pos >= r.res.NumRows() {
		return scanErr("Scan called without a successful Next")
	}
	if len(dest) != r.res.NumFields() {
		return scanErr(fmt.Sprintf("expected %d destination arguments in Scan, not %d", r.res.NumFields(), len(dest)))
	}
	for i, d := range dest {
		col := textValue{oid: r.res.FieldOID(i), v: r.res.Value(r.pos, i), null: r.res.IsNull(r.pos, i)}
		if err := convertAssign(r.types, d, col); err != nil {
			return fmt.Errorf("pgsql: converting column %d (%s): %w", i, r.res.native.FieldName(i), err)
		}
	}
	return nil
}

func (r *Rows) Columns() []string {
	return r.res.Columns()
}

// Close releases this cursor's reference. Safe to call more than once.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	consumed := r.pos + 1
	if consumed > r.res.NumRows() {
		consumed = r.res.NumRows()
	}
	r.res.debugf("cursor closed after %d of %d rows", consumed, r.res.NumRows())
	r.res.Release()
	return nil
}

func (r *Rows) Err() error {
	return r.err
}

// NextResultSet is always false: one statement yields one result.
func (r *Rows) NextResultSet() bool {
	return false
}

// textValue is one text-format value of a result column.
type textValue struct {
	oid  uint32
	v    string
	null bool
}

// convertAssign stores col in dest. Scanners receive the text as is and the
// common scalar destinations are parsed from it; anything else is decoded by
// pgtype for the column type.
func convertAssign(types *pgtype.Map, dest any, col textValue) error {
	v, null := col.v, col.null
	if s, ok := dest.(sql.Scanner); ok {
		var src any
		if !null {
			src = v
		}
		if err := s.Scan(src); err != nil {
			return parseErr(v, err)
		}
		return nil
	}
	switch d := dest.(type) {
	case *string:
		*d = v
	case *[]byte:
		if null {
			*d = nil
		} else {
			*d = []byte(v)
		}
	case *any:
		if null {
			*d = nil
		} else {
			*d = v
		}
	case *bool:
		if null {
			*d = false
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return parseErr(v, err)
		}
		*d = b
	case *int:
		if null {
			*d = 0
			return nil
		}
		n, err := strconv.ParseInt(v, 10, strconv.IntSize)
		if err != nil {
			return parseErr(v, err)
		}
		*d = int(n)
	case *int32:
		if null {
			*d = 0
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return parseErr(v, err)
		}
		*d = int32(n)
	case *int64:
		if null {
			*d = 0
			return nil
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return parseErr(v, err)
		}
		*d = n
	case *uint64:
		if null {
			*d = 0
			return nil
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return parseErr(v, err)
		}
		*d = n
	case *float64:
		if null {
			*d = 0
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return parseErr(v, err)
		}
		*d = f
	default:
		var src []byte
		if !null {
			src = []byte(v)
		}
		if err := types.Scan(col.oid, pgtype.TextFormatCode, src, dest); err != nil {
			return parseErr(v, err)
		}
	}
	return nil
}

func scanErr(msg string) error {
	return &sqldb.Error{Kind: sqldb.ErrParse, Op: "scan", Msg: msg}
}

func parseErr(v string, err error) error {
	return &sqldb.Error{Kind: sqldb.ErrParse, Op: "scan", Msg: strconv.Quote(v), Err: err}
}
