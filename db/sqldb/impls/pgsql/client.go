package pgsql

import (
	"context"
	"log"

	"github.com/zeptools/gw-pgconn/db/sqldb"
	"github.com/zeptools/gw-pgconn/dbg"
)

const DBType = "pgsql"

// Register makes sqldb.New open pgsql connections.
func Register() {
	sqldb.RegisterFactory(DBType, func(ctx context.Context, conf *sqldb.Conf, sink dbg.Sink) (sqldb.Conn, error) {
		conn, err := Open(ctx, conf, sink)
		if err != nil {
			return nil, err
		}
		log.Printf("[INFO][%s] connection opened (host=%s db=%s)", DBType, conf.Host, conf.DB)
		return conn, nil
	})
}
