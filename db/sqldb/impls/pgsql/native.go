package pgsql

import (
	"context"
	"strconv"
)

// Native is the protocol boundary. Nothing outside this interface and its
// implementations touches a native connection or result.
type Native interface {
	Exec(ctx context.Context, sql string) NativeResult
	Prepare(ctx context.Context, name, sql string, paramCount int) NativeResult
	// ExecPrepared runs a named statement; a nil entry in paramValues is NULL.
	ExecPrepared(ctx context.Context, name string, paramValues [][]byte) NativeResult
	EscapeString(s string) (string, error)
	Close(ctx context.Context) error
}

// NativeResult is one native query result. Clear must be safe to call more than once.
type NativeResult interface {
	Status() ExecStatus
	ErrorMessage() string
	Err() error
	CmdTuples() string
	NTuples() int
	NFields() int
	FieldName(col int) string
	// FieldOID is the type OID of column col, 0 when unknown.
	FieldOID(col int) uint32
	// ParamOIDs are the parameter types reported by a prepare, nil otherwise.
	ParamOIDs() []uint32
	GetValue(row, col int) string
	GetIsNull(row, col int) bool
	Clear()
}

// Dialer opens a Native connection from a connection string.
type Dialer func(ctx context.Context, connString string) (Native, error)

// ExecStatus mirrors the result status codes of the PostgreSQL client protocol.
type ExecStatus int

const (
	StatusEmptyQuery ExecStatus = iota
	StatusCommandOK
	StatusTuplesOK
	StatusCopyOut
	StatusCopyIn
	StatusBadResponse
	StatusNonfatalError
	StatusFatalError
	StatusCopyBoth
	StatusSingleTuple
)

var statusNames = [...]string{
	StatusEmptyQuery:    "EMPTY_QUERY",
	StatusCommandOK:     "COMMAND_OK",
	StatusTuplesOK:      "TUPLES_OK",
	StatusCopyOut:       "COPY_OUT",
	StatusCopyIn:        "COPY_IN",
	StatusBadResponse:   "BAD_RESPONSE",
	StatusNonfatalError: "NONFATAL_ERROR",
	StatusFatalError:    "FATAL_ERROR",
	StatusCopyBoth:      "COPY_BOTH",
	StatusSingleTuple:   "SINGLE_TUPLE",
}

func (s ExecStatus) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "STATUS_" + strconv.Itoa(int(s))
}

// IsError classifies s. Codes this package does not know are treated as
// success so that newer server/client statuses are not rejected.
func (s ExecStatus) IsError() bool {
	switch s {
	case StatusEmptyQuery,
		StatusCopyOut,
		StatusCopyIn,
		StatusBadResponse,
		StatusNonfatalError,
		StatusFatalError,
		StatusCopyBoth:
		return true
	case StatusCommandOK, StatusTuplesOK, StatusSingleTuple:
		return false
	default:
		return false
	}
}
