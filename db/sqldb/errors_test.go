package sqldb

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := &Error{Kind: ErrExecution, Op: "execute", Status: "FATAL_ERROR", Msg: `ERROR:  syntax error at or near "bad"`}
	assert.Equal(t, `execute: execution failed (FATAL_ERROR): ERROR:  syntax error at or near "bad"`, err.Error())

	cause := errors.New("dial tcp: connection refused")
	err = &Error{Kind: ErrConnection, Op: "connect", Err: cause}
	assert.Equal(t, "connect: connection failed: dial tcp: connection refused", err.Error())
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("io timeout")
	err := fmt.Errorf("query users: %w", &Error{Kind: ErrExecution, Op: "run", Err: cause})

	assert.ErrorIs(t, err, ErrExecution)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrParse)
	assert.Equal(t, "io timeout", Message(err))

	assert.Equal(t, "", Message(errors.New("plain")))
	assert.Equal(t, "m", Message(&Error{Kind: ErrParse, Msg: "m"}))
}
