package sqldb

import (
	"errors"
	"fmt"
)

// Failure kinds. An error from a connect, prepare, bind, run or scan is an
// *Error wrapping exactly one of the first four, except ErrClosed on a closed
// connection. The other sentinels are returned bare.
var (
	ErrConnection        = errors.New("connection failed")
	ErrPreparedStatement = errors.New("prepare failed")
	ErrExecution         = errors.New("execution failed")
	ErrParse             = errors.New("parse failed")

	ErrNoRows            = errors.New("no rows in result set")
	ErrClosed            = errors.New("connection is closed")
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
	ErrTxActive          = errors.New("a transaction is already active on this connection")
	ErrTxDone            = errors.New("transaction has already been committed or rolled back")
)

// Error carries the kind of failure together with the native error text.
type Error struct {
	Kind   error  // one of ErrConnection, ErrPreparedStatement, ErrExecution, ErrParse
	Op     string // e.g. "execute", "prepare", "run"
	Status string // native status name, if any
	Msg    string // native error text
	Err    error  // underlying native error, if any
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Status != "" {
		return fmt.Sprintf("%s: %v (%s): %s", e.Op, e.Kind, e.Status, msg)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Message returns the native error text, empty if none.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		if e.Err != nil {
			return e.Err.Error()
		}
	}
	return ""
}
