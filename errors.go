package galach

import (
	"errors"

	"github.com/nlstn/go-galach/internal/generator"
	"github.com/nlstn/go-galach/internal/sqlsearch"
	"github.com/nlstn/go-galach/internal/tokenizer"
)

// Sentinel errors. Malformed queries are never errors; these report
// configuration faults and queries a backend cannot express.
// They can be used with errors.Is().
var (
	// ErrUnknownFormat indicates that no generator is registered under the
	// requested format name.
	ErrUnknownFormat = errors.New("galach: unknown format")

	// ErrInvalidRule indicates a tokenizer rule that does not compile or
	// lacks a lexeme group.
	ErrInvalidRule = tokenizer.ErrInvalidRule

	// ErrUnsupportedNode indicates a construct the output format cannot
	// express, such as a range in a full text query.
	ErrUnsupportedNode = generator.ErrUnsupportedNode

	// ErrUnboundedNegation indicates a query that only excludes, for formats
	// that need a positive clause to exclude from.
	ErrUnboundedNegation = generator.ErrUnboundedNegation

	// ErrInvalidFieldMap indicates a field map document that cannot be decoded.
	ErrInvalidFieldMap = generator.ErrInvalidFieldMap

	// ErrNoSearchColumns indicates a SQL search with neither default nor
	// mapped columns for a term.
	ErrNoSearchColumns = sqlsearch.ErrNoSearchColumns

	// ErrUnsupportedDialect indicates a full text search on a database other
	// than SQLite or PostgreSQL.
	ErrUnsupportedDialect = sqlsearch.ErrUnsupportedDialect
)
