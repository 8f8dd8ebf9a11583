package pgsql

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/zeptools/gw-pgconn/db/sqldb"
)

// Param is one parameter slot in text format.
type Param struct {
	Value string
	Null  bool
}

// PreparedStmt is a named statement on one connection together with its
// parameter buffers and the result of its latest run.
//
// Each run replaces the result slot; cursors opened on an earlier run keep
// their own reference to that earlier result.
type PreparedStmt struct {
	name       string
	query      string
	paramCount int
	params     []Param
	paramOIDs  []uint32 // as reported by the server, nil if unknown
	types      *pgtype.Map
	result     *Result
	valid      bool
	count      int // rows consumed by RunPreparedSelect cursors on the current result
	totalCount int
	closed     bool
}

func newPreparedStmt(name, query string, paramCount int, types *pgtype.Map) *PreparedStmt {
	params := make([]Param, paramCount)
	for i := range params {
		params[i].Null = true
	}
	if types == nil {
		types = pgtype.NewMap()
	}
	return &PreparedStmt{name: name, query: query, paramCount: paramCount, params: params, types: types}
}

func (p *PreparedStmt) Name() string    { return p.name }
func (p *PreparedStmt) Query() string   { return p.query }
func (p *PreparedStmt) ParamCount() int { return p.paramCount }

// Valid reports whether the statement holds a live result.
func (p *PreparedStmt) Valid() bool {
	return p.valid && p.result.Valid()
}

// Result is the result of the latest run, nil if none or if it failed.
func (p *PreparedStmt) Result() *Result {
	if !p.Valid() {
		return nil
	}
	return p.result
}

// Counters returns rows consumed and rows available in the current result.
func (p *PreparedStmt) Counters() (count, total int) {
	return p.count, p.totalCount
}

// Params returns a copy of the parameter buffers.
func (p *PreparedStmt) Params() []Param {
	out := make([]Param, len(p.params))
	copy(out, p.params)
	return out
}

func (p *PreparedStmt) checkIndex(i int) error {
	if i < 0 || i >= p.paramCount {
		return stmtErr("bind", nil, "parameter index %d out of range [0,%d) for statement %s", i, p.paramCount, p.name)
	}
	return nil
}

// Bind sets slot i (0-based) to a text value.
func (p *PreparedStmt) Bind(i int, value string) error {
	if err := p.checkIndex(i); err != nil {
		return err
	}
	p.params[i] = Param{Value: value}
	return nil
}

// BindNull sets slot i (0-based) to NULL.
func (p *PreparedStmt) BindNull(i int) error {
	if err := p.checkIndex(i); err != nil {
		return err
	}
	p.params[i] = Param{Null: true}
	return nil
}

// BindArgs replaces every slot. len(args) must equal ParamCount. Nil and
// nil pointers bind NULL; other values are encoded in their text form for the
// parameter type the server reported.
func (p *PreparedStmt) BindArgs(args ...any) error {
	if len(args) != p.paramCount {
		return stmtErr("bind", nil, "statement %s expects %d parameters, got %d", p.name, p.paramCount, len(args))
	}
	params := make([]Param, len(args))
	for i, arg := range args {
		prm, err := encodeParam(p.types, p.paramOID(i), arg)
		if err != nil {
			return stmtErr("bind", err, "parameter %d: %v", i+1, err)
		}
		params[i] = prm
	}
	p.params = params
	return nil
}

func (p *PreparedStmt) paramOID(i int) uint32 {
	if i < len(p.paramOIDs) {
		return p.paramOIDs[i]
	}
	return 0
}

// Close drops the statement's result. The name stays registered on the
// connection and the server-side statement is kept.
func (p *PreparedStmt) Close() {
	p.releaseResult()
	p.closed = true
}

func (p *PreparedStmt) releaseResult() {
	if p.result != nil {
		p.result.Release()
		p.result = nil
	}
	p.valid = false
}

// stmtErr reports misuse of a prepared statement.
func stmtErr(op string, err error, format string, args ...any) error {
	return &sqldb.Error{Kind: sqldb.ErrPreparedStatement, Op: op, Msg: fmt.Sprintf(format, args...), Err: err}
}

// paramValues builds the per-call value array; nil marks NULL.
func (p *PreparedStmt) paramValues() [][]byte {
	values := make([][]byte, len(p.params))
	for i, prm := range p.params {
		if prm.Null {
			continue
		}
		v := make([]byte, len(prm.Value))
		copy(v, prm.Value)
		values[i] = v
	}
	return values
}

// encodeParam converts arg to the server's text input format for type oid.
// A value with no encoding for oid is encoded for the type pgtype associates
// with its Go type instead, and the server casts the text.
func encodeParam(types *pgtype.Map, oid uint32, arg any) (Param, error) {
	// a non-nil buffer tells an empty value apart from NULL
	buf, err := types.Encode(oid, pgtype.TextFormatCode, arg, make([]byte, 0, 32))
	if err != nil && oid != 0 {
		buf, err = types.Encode(0, pgtype.TextFormatCode, arg, make([]byte, 0, 32))
	}
	if err != nil {
		return Param{}, fmt.Errorf("cannot encode %T: %w", arg, err)
	}
	if buf == nil {
		return Param{Null: true}, nil
	}
	return Param{Value: string(buf)}, nil
}
