package generator

import (
	"strings"

	"github.com/nlstn/go-galach/internal/syntax"
	"github.com/nlstn/go-galach/internal/token"
)

// FTS5 renders trees as SQLite FTS5 MATCH expressions.
//
// FTS5 has no unary negation, so excluded clauses are attached to the
// positive part of their query or group with the binary NOT operator.
// Ranges have no FTS5 form.
type FTS5 struct {
	// Fields maps domains onto FTS5 column filters. Only mapped domains
	// become filters.
	Fields FieldMap
}

// Generate implements Generator.
func (g FTS5) Generate(tree *syntax.SyntaxTree) (string, error) {
	return g.clauses(tree.Root.Nodes)
}

func (g FTS5) clauses(nodes []syntax.Node) (string, error) {
	cs := SplitClauses(nodes)
	positive, required := cs.Positive()

	op := " OR "
	if required {
		op = " AND "
	}
	if len(positive) == 1 && len(cs.MustNot) == 0 {
		return g.expr(positive[0])
	}
	expr, err := g.join(positive, op)
	if err != nil {
		return "", err
	}
	if len(cs.MustNot) == 0 {
		return expr, nil
	}
	if expr == "" {
		return "", ErrUnboundedNegation
	}
	if len(positive) > 1 {
		expr = "(" + expr + ")"
	}
	for _, n := range cs.MustNot {
		excluded, err := g.operand(n)
		if err != nil {
			return "", err
		}
		expr += " NOT " + excluded
	}
	return expr, nil
}

func (g FTS5) join(nodes []syntax.Node, op string) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s, err := g.operand(n)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	return joinNonEmpty(parts, op), nil
}

// operand renders n for use as an operand of a binary operator.
func (g FTS5) operand(n syntax.Node) (string, error) {
	s, err := g.expr(n)
	if err != nil {
		return "", err
	}
	if isComposite(n) {
		return "(" + s + ")", nil
	}
	return s, nil
}

func (g FTS5) expr(n syntax.Node) (string, error) {
	switch n := n.(type) {
	case *syntax.Query:
		return g.clauses(n.Nodes)
	case *syntax.Group:
		s, err := g.clauses(n.Nodes)
		if err != nil || s == "" {
			return s, err
		}
		if field, ok := g.Fields.Lookup(n.Domain()); ok {
			return field + " : (" + s + ")", nil
		}
		return "(" + s + ")", nil
	case *syntax.LogicalAnd:
		return g.and(n.Left, n.Right)
	case *syntax.LogicalOr:
		if negated(n.Left) || negated(n.Right) {
			return "", unsupported(n)
		}
		left, err := g.operand(n.Left)
		if err != nil {
			return "", err
		}
		right, err := g.operand(n.Right)
		if err != nil {
			return "", err
		}
		return joinNonEmpty([]string{left, right}, " OR "), nil
	case *syntax.Mandatory:
		return g.expr(n.Operand)
	case *syntax.LogicalNot, *syntax.Prohibited:
		return g.clauses([]syntax.Node{n})
	case *syntax.Term:
		return g.term(n)
	}
	return "", unsupported(n)
}

// and renders a conjunction, turning a negated operand into binary NOT.
func (g FTS5) and(left, right syntax.Node) (string, error) {
	if negated(left) && negated(right) {
		return "", ErrUnboundedNegation
	}
	if negated(left) {
		left, right = right, left
	}
	l, err := g.operand(left)
	if err != nil {
		return "", err
	}
	if negated(right) {
		r, err := g.operand(operandOf(right))
		if err != nil {
			return "", err
		}
		return l + " NOT " + r, nil
	}
	r, err := g.operand(right)
	if err != nil {
		return "", err
	}
	return joinNonEmpty([]string{l, r}, " AND "), nil
}

func (g FTS5) term(term *syntax.Term) (string, error) {
	switch v := term.Token.Value.(type) {
	case token.Word:
		return g.filtered(v.Domain, v.Word), nil
	case token.Phrase:
		return g.filtered(v.Domain, v.Phrase), nil
	case token.Tag:
		return g.column(g.Fields.Tags, quoteFTS5(v.Tag)), nil
	case token.User:
		return g.column(g.Fields.Users, quoteFTS5(v.User)), nil
	}
	return "", unsupported(term)
}

// filtered restricts s to the column mapped for domain. An unmapped domain
// names no indexed column and is matched as part of the text.
func (g FTS5) filtered(domain, s string) string {
	field, ok := g.Fields.Lookup(domain)
	if !ok && domain != "" {
		s = domain + ":" + s
	}
	return g.column(field, quoteFTS5(s))
}

func (g FTS5) column(field, s string) string {
	if field == "" {
		return s
	}
	return field + " : " + s
}

// quoteFTS5 makes s an FTS5 string, doubling embedded quotes.
func quoteFTS5(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// negated reports whether n excludes its operand.
func negated(n syntax.Node) bool {
	switch n.(type) {
	case *syntax.LogicalNot, *syntax.Prohibited:
		return true
	}
	return false
}

func operandOf(n syntax.Node) syntax.Node {
	switch n := n.(type) {
	case *syntax.LogicalNot:
		return n.Operand
	case *syntax.Prohibited:
		return n.Operand
	case *syntax.Mandatory:
		return n.Operand
	}
	return n
}
