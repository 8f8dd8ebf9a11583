package sqldb

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() []string
	Close() error
	Err() error
	NextResultSet() bool
}

type Result interface {
	AffectedRows() uint64 // best-effort, 0 when not reported
	NumRows() int
	NumFields() int
	Value(row, col int) string
	IsNull(row, col int) bool
	Release()
}
