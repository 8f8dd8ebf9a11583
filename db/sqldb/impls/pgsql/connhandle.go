package pgsql

import (
	"context"

	"github.com/zeptools/gw-pgconn/db/sqldb"
	"github.com/zeptools/gw-pgconn/dbg"
)

// connHandle owns the native connection and the names of every statement
// prepared on it. Names are never removed: the server keeps them for the
// life of the session.
type connHandle struct {
	native  Native
	conf    *sqldb.Conf
	sink    dbg.Sink
	names   map[string]struct{}
	newName func() string
}

func newConnHandle(ctx context.Context, conf *sqldb.Conf, sink dbg.Sink, dial Dialer) (*connHandle, error) {
	native, err := dial(ctx, conf.ConnString())
	if err != nil {
		return nil, &sqldb.Error{Kind: sqldb.ErrConnection, Op: "connect", Err: err}
	}
	return &connHandle{
		native:  native,
		conf:    conf,
		sink:    sink,
		names:   make(map[string]struct{}),
		newName: randomStmtName,
	}, nil
}

func (h *connHandle) debugf(format string, args ...any) {
	if h.conf.Debug {
		h.sink.Printf("[DEBUG][pgsql] "+format, args...)
	}
}

// uniqueName draws until the candidate is not registered yet.
func (h *connHandle) uniqueName() string {
	for {
		name := h.newName()
		if _, taken := h.names[name]; !taken {
			return name
		}
	}
}

func (h *connHandle) register(name string) {
	h.names[name] = struct{}{}
}

func (h *connHandle) registered(name string) bool {
	_, ok := h.names[name]
	return ok
}

func (h *connHandle) close(ctx context.Context) error {
	if h.native == nil {
		return nil
	}
	native := h.native
	h.native = nil
	return native.Close(ctx)
}
