package sqldb

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
)

// RawSQLStore maps "group.name" keys to raw SQL text.
type RawSQLStore struct {
	mu    sync.RWMutex
	stmts map[string]string
}

func NewRawStore() *RawSQLStore {
	return &RawSQLStore{stmts: make(map[string]string)}
}

func (s *RawSQLStore) Set(key string, rawStmt string) {
	s.mu.Lock()
	s.stmts[key] = rawStmt
	s.mu.Unlock()
}

func (s *RawSQLStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stmt, exists := s.stmts[key]
	return stmt, exists
}

func (s *RawSQLStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.stmts)
}

type StoreGroupedStmtKey struct {
	Group    string
	StmtName string
}

func (k StoreGroupedStmtKey) String() string {
	return k.Group + "." + k.StmtName
}

// GroupFS is a statement group; FS must contain a `sql` directory.
type GroupFS struct {
	Group string
	FS    fs.FS
}

// LoadGroups reads every `sql/*` file of each group into store.
// A file whose extension equals dbType is used as-is and wins over a same-named
// `.sql` file; `.sql` files have `?` placeholders converted with placeholderPrefix.
// Returns the number of statements stored.
func LoadGroups(store *RawSQLStore, groups []GroupFS, dbType string, placeholderPrefix byte) (int, error) {
	stmtCnt := 0
	for _, groupFS := range groups {
		files, err := fs.ReadDir(groupFS.FS, "sql")
		if err != nil {
			return stmtCnt, fmt.Errorf("failed to read `sql` dir of group %q: %w", groupFS.Group, err)
		}
		// dialect files first so they take precedence regardless of dir order
		for _, pass := range []string{dbType, "sql"} {
			for _, f := range files {
				if f.IsDir() {
					continue
				}
				filename := f.Name()
				ext := path.Ext(filename)
				if strings.TrimPrefix(ext, ".") != pass {
					continue
				}
				key := StoreGroupedStmtKey{Group: groupFS.Group, StmtName: strings.TrimSuffix(filename, ext)}.String()
				if _, exists := store.Get(key); exists && pass == "sql" {
					continue
				}
				data, err := fs.ReadFile(groupFS.FS, path.Join("sql", filename))
				if err != nil {
					return stmtCnt, fmt.Errorf("failed to read %s: %w", filename, err)
				}
				raw := string(data)
				if pass == "sql" {
					raw = ReplaceStaticPlaceholders(raw, placeholderPrefix)
				}
				store.Set(key, raw)
				stmtCnt++
			}
		}
	}
	return stmtCnt, nil
}
