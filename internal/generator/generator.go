// Package generator renders galach syntax trees into backend query strings.
//
// Every format is a type switch over the closed set of syntax nodes. Formats
// that cannot express a construct return ErrUnsupportedNode instead of
// silently dropping it.
package generator

import (
	"fmt"
	"strings"

	"github.com/nlstn/go-galach/internal/syntax"
)

// Generator renders a syntax tree. Implementations must not modify the tree.
type Generator interface {
	Generate(tree *syntax.SyntaxTree) (string, error)
}

// ClauseSet splits the sibling clauses of a query or group the way search
// engines read them: Must clauses are required, MustNot clauses excluded and
// Should clauses optional, with at least one of them required when there is
// no Must clause.
type ClauseSet struct {
	Must    []syntax.Node
	Should  []syntax.Node
	MustNot []syntax.Node
}

// SplitClauses classifies nodes by their top-level operator. Must and MustNot
// hold the operands, with the preference or negation stripped.
func SplitClauses(nodes []syntax.Node) ClauseSet {
	var cs ClauseSet
	for _, n := range nodes {
		switch n := n.(type) {
		case *syntax.Mandatory:
			cs.Must = append(cs.Must, n.Operand)
		case *syntax.Prohibited:
			cs.MustNot = append(cs.MustNot, n.Operand)
		case *syntax.LogicalNot:
			cs.MustNot = append(cs.MustNot, n.Operand)
		default:
			cs.Should = append(cs.Should, n)
		}
	}
	return cs
}

// Positive returns the clauses that decide whether a document matches:
// the Must clauses when there are any, the Should clauses otherwise. The
// boolean reports whether the returned clauses are all required.
func (cs ClauseSet) Positive() ([]syntax.Node, bool) {
	if len(cs.Must) > 0 {
		return cs.Must, true
	}
	return cs.Should, false
}

func unsupported(n syntax.Node) error {
	return fmt.Errorf("%w: %T", ErrUnsupportedNode, n)
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// isComposite reports whether n renders as more than one operand and needs
// parentheses when nested under an operator.
func isComposite(n syntax.Node) bool {
	switch n := n.(type) {
	case *syntax.LogicalAnd, *syntax.LogicalOr:
		return true
	case *syntax.Query:
		return len(n.Nodes) > 1
	}
	return false
}
