// Package syntax holds the galach syntax tree: the closed set of node
// variants, the corrections recorded while parsing and the tree itself.
package syntax

import "github.com/nlstn/go-galach/internal/token"

// Node is a syntax tree element. The set of implementations is closed:
// Query, Group, LogicalAnd, LogicalOr, LogicalNot, Mandatory, Prohibited and
// Term.
type Node interface {
	node()
}

// Query is the root node. More than one clause means the clauses were
// written next to each other without an operator.
type Query struct {
	Nodes []Node
}

// Group is a parenthesized sub-query.
type Group struct {
	Nodes []Node
	// TokenLeft is the group-begin token, carrying the optional domain.
	TokenLeft  *token.Token
	TokenRight *token.Token
}

// LogicalAnd combines two operands with AND (or &&).
type LogicalAnd struct {
	Left  Node
	Right Node
	Token *token.Token
}

// LogicalOr combines two operands with OR (or ||).
type LogicalOr struct {
	Left  Node
	Right Node
	Token *token.Token
}

// LogicalNot negates its operand. Token is either the NOT keyword or "!".
type LogicalNot struct {
	Operand Node
	Token   *token.Token
}

// Mandatory marks its operand as required (+).
type Mandatory struct {
	Operand Node
	Token   *token.Token
}

// Prohibited marks its operand as excluded (-).
type Prohibited struct {
	Operand Node
	Token   *token.Token
}

// Term wraps a single term token.
type Term struct {
	Token *token.Token
}

func (*Query) node()      {}
func (*Group) node()      {}
func (*LogicalAnd) node() {}
func (*LogicalOr) node()  {}
func (*LogicalNot) node() {}
func (*Mandatory) node()  {}
func (*Prohibited) node() {}
func (*Term) node()       {}

// Domain returns the domain the group was prefixed with, or "".
func (g *Group) Domain() string {
	return g.TokenLeft.Domain()
}

// Children returns the immediate children of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Query:
		return n.Nodes
	case *Group:
		return n.Nodes
	case *LogicalAnd:
		return []Node{n.Left, n.Right}
	case *LogicalOr:
		return []Node{n.Left, n.Right}
	case *LogicalNot:
		return []Node{n.Operand}
	case *Mandatory:
		return []Node{n.Operand}
	case *Prohibited:
		return []Node{n.Operand}
	}
	return nil
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}
