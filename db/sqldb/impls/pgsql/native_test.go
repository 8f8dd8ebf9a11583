package pgsql

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestExecStatusIsError(t *testing.T) {
	errorStatuses := []ExecStatus{
		StatusEmptyQuery, StatusCopyOut, StatusCopyIn, StatusBadResponse,
		StatusNonfatalError, StatusFatalError, StatusCopyBoth,
	}
	for _, s := range errorStatuses {
		assert.True(t, s.IsError(), s.String())
	}
	for _, s := range []ExecStatus{StatusCommandOK, StatusTuplesOK, StatusSingleTuple, ExecStatus(42)} {
		assert.False(t, s.IsError(), s.String())
	}
}

func TestExecStatusString(t *testing.T) {
	assert.Equal(t, "FATAL_ERROR", StatusFatalError.String())
	assert.Equal(t, "TUPLES_OK", StatusTuplesOK.String())
	assert.Equal(t, "STATUS_42", ExecStatus(42).String())
	assert.Equal(t, "STATUS_-1", ExecStatus(-1).String())
}

func TestCmdTuples(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"INSERT 0 1", "1"},
		{"INSERT 0 25", "25"},
		{"UPDATE 3", "3"},
		{"DELETE 0", "0"},
		{"SELECT 12", "12"},
		{"MERGE 2", "2"},
		{"COPY 7", "7"},
		{"CREATE TABLE", ""},
		{"BEGIN", ""},
		{"", ""},
		{"INSERT 1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			assert.Equal(t, tt.want, cmdTuples(tt.tag))
		})
	}
}

func TestErrorResult(t *testing.T) {
	r := errorResult(&pgconn.PgError{Severity: "ERROR", Code: "42601", Message: `syntax error at or near "bad"`})
	assert.Equal(t, StatusFatalError, r.Status())
	assert.Equal(t, `ERROR:  syntax error at or near "bad"`, r.ErrorMessage())

	r = errorResult(&pgconn.PgError{Severity: "ERROR", Message: "duplicate key", Detail: "Key (id)=(1) already exists."})
	assert.Equal(t, "ERROR:  duplicate key\nDETAIL:  Key (id)=(1) already exists.", r.ErrorMessage())

	plain := errors.New("conn closed")
	r = errorResult(plain)
	assert.Equal(t, "conn closed", r.ErrorMessage())
	assert.ErrorIs(t, r.Err(), plain)
}

func TestPgconnResultAccessors(t *testing.T) {
	r := &pgconnResult{
		status: StatusTuplesOK,
		tag:    "SELECT 2",
		fields: []string{"id", "name"},
		rows:   [][][]byte{{[]byte("1"), []byte("a")}, {[]byte("2"), nil}},
	}
	assert.Equal(t, 2, r.NTuples())
	assert.Equal(t, 2, r.NFields())
	assert.Equal(t, "name", r.FieldName(1))
	assert.Equal(t, "", r.FieldName(5))
	assert.Equal(t, "a", r.GetValue(0, 1))
	assert.True(t, r.GetIsNull(1, 1))
	assert.True(t, r.GetIsNull(9, 0))
	assert.Equal(t, "2", r.CmdTuples())

	r.Clear()
	r.Clear()
	assert.Equal(t, 0, r.NTuples())
}

func TestFromPgconnResult(t *testing.T) {
	cols := []pgconn.FieldDescription{{Name: "id", DataTypeOID: 23}, {Name: "name", DataTypeOID: 25}}

	t.Run("select without rows", func(t *testing.T) {
		r := fromPgconnResult(&pgconn.Result{CommandTag: pgconn.NewCommandTag("SELECT 0")}, cols)
		assert.Equal(t, StatusTuplesOK, r.Status())
		assert.Equal(t, 2, r.NFields())
		assert.Equal(t, 0, r.NTuples())
		assert.Equal(t, "name", r.FieldName(1))
		assert.Equal(t, uint32(23), r.FieldOID(0))
		assert.Equal(t, "0", r.CmdTuples())
	})

	t.Run("select with rows", func(t *testing.T) {
		res := &pgconn.Result{
			CommandTag: pgconn.NewCommandTag("SELECT 1"),
			Rows:       [][][]byte{{[]byte("1"), []byte("ann")}},
		}
		r := fromPgconnResult(res, cols)
		assert.Equal(t, StatusTuplesOK, r.Status())
		assert.Equal(t, "ann", r.GetValue(0, 1))
	})

	t.Run("command", func(t *testing.T) {
		r := fromPgconnResult(&pgconn.Result{CommandTag: pgconn.NewCommandTag("INSERT 0 3")}, nil)
		assert.Equal(t, StatusCommandOK, r.Status())
		assert.Equal(t, 0, r.NFields())
		assert.Equal(t, "3", r.CmdTuples())
	})

	t.Run("empty query", func(t *testing.T) {
		r := fromPgconnResult(&pgconn.Result{}, nil)
		assert.Equal(t, StatusEmptyQuery, r.Status())
		assert.NotEmpty(t, r.ErrorMessage())
	})

	t.Run("error", func(t *testing.T) {
		pgErr := &pgconn.PgError{Severity: "ERROR", Message: `relation "nope" does not exist`}
		r := fromPgconnResult(&pgconn.Result{Err: pgErr}, cols)
		assert.Equal(t, StatusFatalError, r.Status())
		assert.ErrorIs(t, r.Err(), pgErr)
	})
}

func TestCheckParamCount(t *testing.T) {
	sd := &pgconn.StatementDescription{Name: "ABC123", ParamOIDs: []uint32{23, 25}}
	assert.NoError(t, checkParamCount(sd, 2))
	assert.EqualError(t, checkParamCount(sd, 3), "statement ABC123 declares 2 parameters, expected 3")
	assert.Error(t, checkParamCount(&pgconn.StatementDescription{Name: "ABC123"}, 1))
	assert.NoError(t, checkParamCount(&pgconn.StatementDescription{Name: "ABC123"}, 0))
}
