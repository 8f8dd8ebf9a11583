package pgsql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeptools/gw-pgconn/db/sqldb"
	"github.com/zeptools/gw-pgconn/dbg"
)

type stubResult struct {
	status  ExecStatus
	msg     string
	tuples  string
	cleared int
}

func (r *stubResult) Status() ExecStatus       { return r.status }
func (r *stubResult) ErrorMessage() string     { return r.msg }
func (r *stubResult) Err() error               { return nil }
func (r *stubResult) CmdTuples() string        { return r.tuples }
func (r *stubResult) NTuples() int             { return 1 }
func (r *stubResult) NFields() int             { return 1 }
func (r *stubResult) FieldName(int) string     { return "x" }
func (r *stubResult) FieldOID(int) uint32      { return 0 }
func (r *stubResult) ParamOIDs() []uint32      { return nil }
func (r *stubResult) GetValue(int, int) string { return "v" }
func (r *stubResult) GetIsNull(int, int) bool  { return false }
func (r *stubResult) Clear()                   { r.cleared++ }

func TestWrapResultErrorStatuses(t *testing.T) {
	for _, s := range []ExecStatus{StatusEmptyQuery, StatusBadResponse, StatusFatalError, StatusNonfatalError, StatusCopyIn} {
		t.Run(s.String(), func(t *testing.T) {
			native := &stubResult{status: s}
			res, err := wrapResult("execute", sqldb.ErrExecution, native, nil)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, sqldb.ErrExecution)
			assert.NotEmpty(t, sqldb.Message(err))
			assert.Equal(t, 1, native.cleared)
		})
	}
}

func TestWrapResultKeepsNativeMessage(t *testing.T) {
	native := &stubResult{status: StatusFatalError, msg: `ERROR:  relation "nope" does not exist`}
	_, err := wrapResult("prepare", sqldb.ErrPreparedStatement, native, nil)

	var e *sqldb.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, "prepare", e.Op)
	assert.Equal(t, "FATAL_ERROR", e.Status)
	assert.Equal(t, `ERROR:  relation "nope" does not exist`, e.Msg)
	assert.ErrorIs(t, err, sqldb.ErrPreparedStatement)
	assert.NotErrorIs(t, err, sqldb.ErrExecution)
}

func TestWrapResultSuccessStatuses(t *testing.T) {
	for _, s := range []ExecStatus{StatusCommandOK, StatusTuplesOK, StatusSingleTuple, ExecStatus(99)} {
		res, err := wrapResult("execute", sqldb.ErrExecution, &stubResult{status: s}, nil)
		require.NoError(t, err, s.String())
		assert.True(t, res.Valid())
		assert.Equal(t, s, res.Status())
		res.Release()
	}
}

func TestResultRefCounting(t *testing.T) {
	native := &stubResult{status: StatusTuplesOK}
	res, err := wrapResult("execute", sqldb.ErrExecution, native, nil)
	require.NoError(t, err)

	res.Retain()
	res.Release()
	assert.True(t, res.Valid())
	assert.Equal(t, 0, native.cleared)

	res.Release()
	assert.False(t, res.Valid())
	assert.Equal(t, 1, native.cleared)

	// no resurrection, no double clear
	res.Retain()
	res.Release()
	assert.False(t, res.Valid())
	assert.Equal(t, 1, native.cleared)
	assert.Equal(t, "", res.Value(0, 0))
	assert.True(t, res.IsNull(0, 0))
	assert.Equal(t, 0, res.NumRows())

	var nilRes *Result
	assert.False(t, nilRes.Valid())
}

func TestResultAffectedRows(t *testing.T) {
	tests := []struct {
		tuples string
		want   uint64
	}{
		{"1", 1},
		{"42", 42},
		{"", 0},
		{"abc", 0},
		{"-3", 0},
		{"18446744073709551616", 0},
	}
	for _, tt := range tests {
		res, err := wrapResult("execute", sqldb.ErrExecution, &stubResult{status: StatusCommandOK, tuples: tt.tuples}, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.AffectedRows(), "cmd tuples %q", tt.tuples)
		res.Release()
	}
}

func TestResultDebugf(t *testing.T) {
	rec := &dbg.Recorder{}
	res, err := wrapResult("execute", sqldb.ErrExecution, &stubResult{status: StatusTuplesOK}, rec)
	require.NoError(t, err)
	res.debugf("cursor closed after %d rows", 3)
	assert.Equal(t, []string{"[DEBUG][pgsql] cursor closed after 3 rows"}, rec.Lines())
}
