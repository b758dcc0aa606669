package sqlsearch

import (
	"strings"

	"gorm.io/gorm/clause"
)

const likeEscapeClause = "ESCAPE '\\'"

var likeEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"%", "\\%",
	"_", "\\_",
)

func escapeLikePattern(value string) string {
	return likeEscaper.Replace(value)
}

// containsExpr matches rows whose column contains value as a substring.
func containsExpr(column, value string) clause.Expression {
	return clause.Expr{
		SQL:  "? LIKE ? " + likeEscapeClause,
		Vars: []interface{}{clause.Column{Name: column}, "%" + escapeLikePattern(value) + "%"},
	}
}
