package pgsql

import (
	"io/fs"
	"log"
	"sync"

	"github.com/zeptools/gw-pgconn/db/sqldb"
)

var (
	rawStmtStore  = sqldb.NewRawStore()
	rawGroupsMu   sync.Mutex
	rawStmtGroups []sqldb.GroupFS
)

// RegisterGroup adds a statement group; fsys must contain a `sql` directory.
func RegisterGroup(fsys fs.FS, group string) {
	rawGroupsMu.Lock()
	rawStmtGroups = append(rawStmtGroups, sqldb.GroupFS{FS: fsys, Group: group})
	rawGroupsMu.Unlock()
}

// LoadRawStmtsToStore
// WARNING: Ensure groups are registered beforehand
func LoadRawStmtsToStore() error {
	rawGroupsMu.Lock()
	groups := append([]sqldb.GroupFS(nil), rawStmtGroups...)
	rawGroupsMu.Unlock()

	stmtCnt, err := sqldb.LoadGroups(rawStmtStore, groups, DBType, sqldb.PgPlaceholderPrefix)
	if err != nil {
		return err
	}
	log.Printf("[INFO][%s] %d sql raw stmts loaded for %d groups", DBType, stmtCnt, len(groups))
	return nil
}

// RawStmt returns the stored statement for a "group.name" key.
func RawStmt(key string) (string, bool) {
	return rawStmtStore.Get(key)
}
