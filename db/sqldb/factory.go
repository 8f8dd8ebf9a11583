package sqldb

import (
	"context"
	"sync"

	"github.com/zeptools/gw-pgconn/dbg"
)

// ConnFactory is a callback that opens a Conn from Conf.
// It is registered with RegisterFactory and called by sqldb.New.
type ConnFactory func(ctx context.Context, conf *Conf, sink dbg.Sink) (Conn, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]ConnFactory{}
)

func RegisterFactory(dbType string, factory ConnFactory) {
	registryMu.Lock()
	registry[dbType] = factory
	registryMu.Unlock()
}

// New opens a Conn for conf.Type. A nil sink means the default stderr sink.
func New(ctx context.Context, conf *Conf, sink dbg.Sink) (Conn, error) {
	registryMu.RLock()
	factory, ok := registry[conf.Type]
	registryMu.RUnlock()
	if !ok {
		return nil, &Error{Kind: ErrConnection, Op: "connect", Msg: "unsupported database type: " + conf.Type}
	}
	return factory(ctx, conf, sink)
}
