package sqlsearch

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nlstn/go-galach/internal/generator"
	"github.com/nlstn/go-galach/internal/syntax"
)

// FTSTable returns the name of the FTS5 index kept for table.
func FTSTable(table string) string {
	return table + "_fts"
}

func (b Builder) key() string {
	if b.Key == "" {
		return "id"
	}
	return b.Key
}

// MatchScope returns a gorm scope filtering table by tree with the
// database's full text search: FTS5 on SQLite, tsvector matching on
// PostgreSQL. On SQLite the index must have been created with EnsureFTS5.
func (b Builder) MatchScope(table string, tree *syntax.SyntaxTree) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		var (
			expr clause.Expression
			err  error
		)
		switch name := db.Dialector.Name(); name {
		case "sqlite":
			expr, err = b.fts5Match(table, tree)
		case "postgres":
			expr, err = b.tsMatch(tree)
		default:
			err = fmt.Errorf("%w: %s", ErrUnsupportedDialect, name)
		}
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		if expr == nil {
			return db
		}
		return db.Clauses(clause.Where{Exprs: []clause.Expression{expr}})
	}
}

func (b Builder) fts5Match(table string, tree *syntax.SyntaxTree) (clause.Expression, error) {
	query, err := generator.FTS5{Fields: b.Fields}.Generate(tree)
	if err != nil || query == "" {
		return nil, err
	}
	index := clause.Table{Name: FTSTable(table)}
	return clause.Expr{
		SQL: "? IN (SELECT rowid FROM ? WHERE ? MATCH ?)",
		Vars: []interface{}{
			clause.Column{Table: table, Name: b.key()},
			index, index, query,
		},
	}, nil
}

func (b Builder) tsMatch(tree *syntax.SyntaxTree) (clause.Expression, error) {
	query, err := generator.TSQuery{}.Generate(tree)
	if err != nil || query == "" {
		return nil, err
	}
	if len(b.Columns) == 0 {
		return nil, ErrNoSearchColumns
	}

	vars := make([]interface{}, 0, len(b.Columns)+1)
	for _, column := range b.Columns {
		vars = append(vars, clause.Column{Name: column})
	}
	vars = append(vars, query)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(b.Columns)), ", ")

	return clause.Expr{
		SQL:  "to_tsvector('simple', concat_ws(' ', " + placeholders + ")) @@ to_tsquery('simple', ?)",
		Vars: vars,
	}, nil
}

// FTS5Available reports whether the SQLite library behind db was built with
// FTS5.
func FTS5Available(db *gorm.DB) bool {
	if db.Dialector.Name() != "sqlite" {
		return false
	}
	const probe = "_galach_fts5_probe"
	if err := db.Exec("CREATE VIRTUAL TABLE IF NOT EXISTS " + probe + " USING fts5(content)").Error; err != nil {
		return false
	}
	_ = db.Exec("DROP TABLE IF EXISTS " + probe).Error
	return true
}

// EnsureFTS5 creates the external content FTS5 index of table over the
// builder's columns and the mapped tag and user columns, together with the
// triggers keeping it in sync, and indexes the existing rows.
func (b Builder) EnsureFTS5(db *gorm.DB, table string) error {
	if db.Dialector.Name() != "sqlite" {
		return fmt.Errorf("%w: %s", ErrUnsupportedDialect, db.Dialector.Name())
	}
	columns := b.indexedColumns()
	if len(columns) == 0 {
		return ErrNoSearchColumns
	}

	index := FTSTable(table)
	key := b.key()
	cols := strings.Join(columns, ", ")
	newCols := "new." + strings.Join(columns, ", new.")
	oldCols := "old." + strings.Join(columns, ", old.")

	statements := []string{
		fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS %s USING fts5(%s, content='%s', content_rowid='%s')",
			index, cols, table, key),
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s_ai AFTER INSERT ON %s BEGIN
			INSERT INTO %s(rowid, %s) VALUES (new.%s, %s);
		END`, index, table, index, cols, key, newCols),
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s_ad AFTER DELETE ON %s BEGIN
			INSERT INTO %s(%s, rowid, %s) VALUES ('delete', old.%s, %s);
		END`, index, table, index, index, cols, key, oldCols),
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %s_au AFTER UPDATE ON %s BEGIN
			INSERT INTO %s(%s, rowid, %s) VALUES ('delete', old.%s, %s);
			INSERT INTO %s(rowid, %s) VALUES (new.%s, %s);
		END`, index, table, index, index, cols, key, oldCols, index, cols, key, newCols),
		fmt.Sprintf("INSERT INTO %s(%s) VALUES ('rebuild')", index, index),
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("sqlsearch: create FTS5 index %s: %w", index, err)
		}
	}
	return nil
}

func (b Builder) indexedColumns() []string {
	seen := make(map[string]bool)
	var columns []string
	add := func(column string) {
		if column != "" && !seen[column] {
			seen[column] = true
			columns = append(columns, column)
		}
	}
	for _, column := range b.Columns {
		add(column)
	}
	add(b.Fields.Tags)
	add(b.Fields.Users)
	add(b.Fields.Default)
	for _, column := range b.Fields.Domains {
		add(column)
	}
	return columns
}
