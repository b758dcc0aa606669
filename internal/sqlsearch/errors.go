package sqlsearch

import "errors"

var (
	// ErrNoSearchColumns is returned when a term has no domain to map and the
	// builder has no default columns to search.
	ErrNoSearchColumns = errors.New("sqlsearch: no search columns")

	// ErrUnsupportedDialect is returned by full text scopes for databases
	// other than SQLite and PostgreSQL.
	ErrUnsupportedDialect = errors.New("sqlsearch: unsupported dialect")
)
