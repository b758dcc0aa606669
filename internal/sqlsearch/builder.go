// Package sqlsearch applies galach syntax trees to gorm queries, either as
// portable LIKE conditions or as full text MATCH conditions.
package sqlsearch

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nlstn/go-galach/internal/generator"
	"github.com/nlstn/go-galach/internal/syntax"
	"github.com/nlstn/go-galach/internal/token"
)

// Builder turns syntax trees into WHERE conditions.
type Builder struct {
	// Columns are searched by terms without a domain.
	Columns []string
	// Fields maps domains, tags and users onto columns. Domains without a
	// mapping never name a column.
	Fields generator.FieldMap
	// Key is the integer primary key joining full text matches back to the
	// searched table. Defaults to "id".
	Key string
}

// Build returns the condition for tree. A tree without clauses yields a nil
// expression.
func (b Builder) Build(tree *syntax.SyntaxTree) (clause.Expression, error) {
	return b.clauses(tree.Root.Nodes, "")
}

// Scope returns a gorm scope filtering by tree. Build errors are reported
// through the returned DB's Error.
func (b Builder) Scope(tree *syntax.SyntaxTree) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		expr, err := b.Build(tree)
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

// clauses combines sibling clauses: required clauses are ANDed, optional ones
// ORed when nothing is required, and excluded ones negated.
func (b Builder) clauses(nodes []syntax.Node, domain string) (clause.Expression, error) {
	cs := generator.SplitClauses(nodes)
	positive, required := cs.Positive()

	exprs := make([]clause.Expression, 0, len(positive))
	for _, n := range positive {
		expr, err := b.node(n, domain)
		if err != nil {
			return nil, err
		}
		exprs = appendExpr(exprs, expr)
	}

	combined := make([]clause.Expression, 0, len(cs.MustNot)+1)
	if required {
		combined = appendExpr(combined, and(exprs))
	} else {
		combined = appendExpr(combined, or(exprs))
	}
	for _, n := range cs.MustNot {
		expr, err := b.node(n, domain)
		if err != nil {
			return nil, err
		}
		if expr != nil {
			combined = append(combined, clause.Not(expr))
		}
	}
	return and(combined), nil
}

func (b Builder) node(n syntax.Node, domain string) (clause.Expression, error) {
	switch n := n.(type) {
	case *syntax.Query:
		return b.clauses(n.Nodes, domain)
	case *syntax.Group:
		if d := n.Domain(); d != "" {
			domain = d
		}
		return b.clauses(n.Nodes, domain)
	case *syntax.LogicalAnd:
		left, right, err := b.operands(n.Left, n.Right, domain)
		if err != nil {
			return nil, err
		}
		return and(appendExpr(appendExpr(nil, left), right)), nil
	case *syntax.LogicalOr:
		left, right, err := b.operands(n.Left, n.Right, domain)
		if err != nil {
			return nil, err
		}
		return or(appendExpr(appendExpr(nil, left), right)), nil
	case *syntax.LogicalNot:
		return b.not(n.Operand, domain)
	case *syntax.Prohibited:
		return b.not(n.Operand, domain)
	case *syntax.Mandatory:
		return b.node(n.Operand, domain)
	case *syntax.Term:
		return b.term(n.Token, domain)
	}
	return nil, fmt.Errorf("%w: %T", generator.ErrUnsupportedNode, n)
}

func (b Builder) operands(left, right syntax.Node, domain string) (clause.Expression, clause.Expression, error) {
	l, err := b.node(left, domain)
	if err != nil {
		return nil, nil, err
	}
	r, err := b.node(right, domain)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}

func (b Builder) not(operand syntax.Node, domain string) (clause.Expression, error) {
	expr, err := b.node(operand, domain)
	if err != nil || expr == nil {
		return nil, err
	}
	return clause.Not(expr), nil
}

func (b Builder) term(tok *token.Token, domain string) (clause.Expression, error) {
	switch v := tok.Value.(type) {
	case token.Word:
		return b.contains(firstDomain(v.Domain, domain), b.text(v.Domain, v.Word))
	case token.Phrase:
		return b.contains(firstDomain(v.Domain, domain), b.text(v.Domain, v.Phrase))
	case token.Tag:
		if b.Fields.Tags != "" {
			return containsExpr(b.Fields.Tags, v.Tag), nil
		}
		return b.contains(domain, v.Marker+v.Tag)
	case token.User:
		if b.Fields.Users != "" {
			return containsExpr(b.Fields.Users, v.User), nil
		}
		return b.contains(domain, v.Marker+v.User)
	case token.Range:
		return b.rangeExpr(firstDomain(v.Domain, domain), v)
	}
	return nil, fmt.Errorf("%w: term %q", generator.ErrUnsupportedNode, tok.Lexeme)
}

func (b Builder) contains(domain, value string) (clause.Expression, error) {
	columns, err := b.columns(domain)
	if err != nil {
		return nil, err
	}
	exprs := make([]clause.Expression, 0, len(columns))
	for _, column := range columns {
		exprs = append(exprs, containsExpr(column, value))
	}
	return or(exprs), nil
}

// rangeExpr bounds every searched column. Numeric bounds are bound as
// decimals so that they compare numerically.
func (b Builder) rangeExpr(domain string, r token.Range) (clause.Expression, error) {
	columns, err := b.columns(domain)
	if err != nil {
		return nil, err
	}
	exprs := make([]clause.Expression, 0, len(columns))
	for _, column := range columns {
		col := clause.Column{Name: column}
		var bounds []clause.Expression
		if r.From != token.Unbounded {
			if r.StartInclusive() {
				bounds = append(bounds, clause.Gte{Column: col, Value: boundValue(r.From)})
			} else {
				bounds = append(bounds, clause.Gt{Column: col, Value: boundValue(r.From)})
			}
		}
		if r.To != token.Unbounded {
			if r.EndInclusive() {
				bounds = append(bounds, clause.Lte{Column: col, Value: boundValue(r.To)})
			} else {
				bounds = append(bounds, clause.Lt{Column: col, Value: boundValue(r.To)})
			}
		}
		exprs = appendExpr(exprs, and(bounds))
	}
	return or(exprs), nil
}

func boundValue(s string) interface{} {
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	return s
}

// columns returns the columns a term with the given domain is searched in.
// Only mapped domains select a column; anything else searches Columns.
func (b Builder) columns(domain string) ([]string, error) {
	if field, ok := b.Fields.Lookup(domain); ok {
		return []string{field}, nil
	}
	if len(b.Columns) == 0 {
		return nil, ErrNoSearchColumns
	}
	return b.Columns, nil
}

// text returns the searched value of a term. The prefix of an unmapped
// domain, as in a typed URL, stays part of the text.
func (b Builder) text(domain, value string) string {
	if domain == "" {
		return value
	}
	if _, ok := b.Fields.Lookup(domain); ok {
		return value
	}
	return domain + ":" + value
}

func firstDomain(own, inherited string) string {
	if own != "" {
		return own
	}
	return inherited
}

func appendExpr(exprs []clause.Expression, expr clause.Expression) []clause.Expression {
	if expr == nil {
		return exprs
	}
	return append(exprs, expr)
}

// and and or never build single element conditions: gorm renders a lone
// OrConditions inside a list as an OR joiner.
func and(exprs []clause.Expression) clause.Expression {
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	return clause.AndConditions{Exprs: exprs}
}

func or(exprs []clause.Expression) clause.Expression {
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	}
	return clause.OrConditions{Exprs: exprs}
}
