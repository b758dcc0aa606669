package generator

import (
	"strings"

	"github.com/nlstn/go-galach/internal/syntax"
	"github.com/nlstn/go-galach/internal/token"
)

// TSQuery renders trees in PostgreSQL to_tsquery syntax. Domains are not
// representable and are ignored; ranges are unsupported.
type TSQuery struct{}

// Generate implements Generator.
func (g TSQuery) Generate(tree *syntax.SyntaxTree) (string, error) {
	return g.clauses(tree.Root.Nodes)
}

func (g TSQuery) clauses(nodes []syntax.Node) (string, error) {
	cs := SplitClauses(nodes)
	positive, required := cs.Positive()

	if len(positive) == 1 && len(cs.MustNot) == 0 {
		return g.expr(positive[0])
	}

	op := " | "
	if required {
		op = " & "
	}
	parts := make([]string, 0, len(positive))
	for _, n := range positive {
		s, err := g.operand(n)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	expr := joinNonEmpty(parts, op)
	if len(cs.MustNot) == 0 {
		return expr, nil
	}

	terms := make([]string, 0, len(cs.MustNot)+1)
	if expr != "" {
		if len(parts) > 1 && !required {
			expr = "(" + expr + ")"
		}
		terms = append(terms, expr)
	}
	for _, n := range cs.MustNot {
		s, err := g.operand(n)
		if err != nil {
			return "", err
		}
		if s != "" {
			terms = append(terms, "!"+s)
		}
	}
	return strings.Join(terms, " & "), nil
}

func (g TSQuery) operand(n syntax.Node) (string, error) {
	s, err := g.expr(n)
	if err != nil {
		return "", err
	}
	if hasTopLevelSpace(s) {
		return "(" + s + ")", nil
	}
	return s, nil
}

func (g TSQuery) expr(n syntax.Node) (string, error) {
	switch n := n.(type) {
	case *syntax.Query:
		return g.clauses(n.Nodes)
	case *syntax.Group:
		s, err := g.clauses(n.Nodes)
		if err != nil || s == "" {
			return s, err
		}
		return "(" + s + ")", nil
	case *syntax.LogicalAnd:
		return g.binary(n.Left, " & ", n.Right)
	case *syntax.LogicalOr:
		return g.binary(n.Left, " | ", n.Right)
	case *syntax.LogicalNot:
		return g.not(n.Operand)
	case *syntax.Prohibited:
		return g.not(n.Operand)
	case *syntax.Mandatory:
		return g.expr(n.Operand)
	case *syntax.Term:
		return g.term(n)
	}
	return "", unsupported(n)
}

func (g TSQuery) binary(left syntax.Node, op string, right syntax.Node) (string, error) {
	l, err := g.operand(left)
	if err != nil {
		return "", err
	}
	r, err := g.operand(right)
	if err != nil {
		return "", err
	}
	return joinNonEmpty([]string{l, r}, op), nil
}

func (g TSQuery) not(operand syntax.Node) (string, error) {
	s, err := g.operand(operand)
	if err != nil || s == "" {
		return s, err
	}
	return "!" + s, nil
}

func (g TSQuery) term(term *syntax.Term) (string, error) {
	switch v := term.Token.Value.(type) {
	case token.Word:
		return quoteLexeme(v.Word), nil
	case token.Phrase:
		words := strings.Fields(v.Phrase)
		for i, w := range words {
			words[i] = quoteLexeme(w)
		}
		return strings.Join(words, " <-> "), nil
	case token.Tag:
		return quoteLexeme(v.Tag), nil
	case token.User:
		return quoteLexeme(v.User), nil
	}
	return "", unsupported(term)
}

var lexemeQuoter = strings.NewReplacer(`'`, `''`, `\`, `\\`)

// quoteLexeme makes s a single quoted tsquery lexeme.
func quoteLexeme(s string) string {
	return "'" + lexemeQuoter.Replace(s) + "'"
}

// hasTopLevelSpace reports whether s contains a space outside of quotes and
// parentheses, i.e. whether it has to be parenthesized to act as a single
// operand.
func hasTopLevelSpace(s string) bool {
	depth := 0
	quoted := false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\' && quoted:
			i++
		case c == '\'':
			quoted = !quoted
		case quoted:
		case c == '(':
			depth++
		case c == ')':
			depth--
		case c == ' ' && depth == 0:
			return true
		}
	}
	return false
}
