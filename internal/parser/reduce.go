package parser

import (
	"github.com/nlstn/go-galach/internal/syntax"
	"github.com/nlstn/go-galach/internal/token"
)

// reduction tries to combine n with the top of the stack. It returns n when
// it does not apply, a new node when it does, and nil when n was pushed back
// onto the stack or vanished.
type reduction func(s *state, n syntax.Node) syntax.Node

var (
	termReductions = []reduction{
		(*state).reducePreference,
		(*state).reduceLogicalNot,
		(*state).reduceLogicalAnd,
		(*state).reduceLogicalOrUnbounded,
	}
	unaryReductions = []reduction{
		(*state).reduceLogicalNot,
		(*state).reduceLogicalAnd,
		(*state).reduceLogicalOrUnbounded,
	}
	andReductions = []reduction{
		(*state).reduceLogicalOrUnbounded,
	}
)

func reductionsFor(n syntax.Node) []reduction {
	switch n.(type) {
	case *syntax.Term, *syntax.Group:
		return termReductions
	case *syntax.LogicalNot, *syntax.Mandatory, *syntax.Prohibited:
		return unaryReductions
	case *syntax.LogicalAnd:
		return andReductions
	}
	return nil
}

// reduce applies reductions to n until none applies and pushes the result.
// Whenever a reduction produces a new node the rule list starts over for it.
func (s *state) reduce(n syntax.Node) {
	rules := reductionsFor(n)
	for i := 0; i < len(rules); {
		next := rules[i](s, n)
		if next == nil {
			return
		}
		if next != n {
			n = next
			rules = reductionsFor(n)
			i = 0
			continue
		}
		i++
	}
	s.pushNode(n)
}

func (s *state) reducePreference(n syntax.Node) syntax.Node {
	if !s.topIs(token.OperatorPreference) {
		return n
	}
	tok := s.pop().tok
	if tok.Type == token.TypeMandatory {
		return &syntax.Mandatory{Operand: n, Token: tok}
	}
	return &syntax.Prohibited{Operand: n, Token: tok}
}

func (s *state) reduceLogicalNot(n syntax.Node) syntax.Node {
	if !s.topIs(token.OperatorNot) {
		return n
	}
	switch n.(type) {
	case *syntax.Mandatory, *syntax.Prohibited:
		ignored := s.popOperators(token.OperatorNot)
		s.correct(syntax.LogicalNotOperatorsPrecedingPreferenceIgnored, ignored...)
		return n
	}
	return &syntax.LogicalNot{Operand: n, Token: s.pop().tok}
}

func (s *state) reduceLogicalAnd(n syntax.Node) syntax.Node {
	if !s.binaryOperandAvailable(token.TypeLogicalAnd) {
		return n
	}
	tok := s.pop().tok
	left := s.pop().node
	return &syntax.LogicalAnd{Left: left, Right: n, Token: tok}
}

func (s *state) reduceLogicalOrUnbounded(n syntax.Node) syntax.Node {
	return s.reduceLogicalOr(n, false)
}

// reduceLogicalOr combines n with a pending OR. Outside a closed group the
// combination waits while an AND follows, since AND binds tighter. A closed
// group bounds the right operand, so inGroup disables the lookahead.
func (s *state) reduceLogicalOr(n syntax.Node, inGroup bool) syntax.Node {
	if !s.binaryOperandAvailable(token.TypeLogicalOr) {
		return n
	}
	if !inGroup {
		s.skipWhitespace()
		if s.peek().Is(token.SetOf(token.TypeLogicalAnd)) {
			s.pushNode(n)
			return nil
		}
	}
	tok := s.pop().tok
	left := s.pop().node
	return &syntax.LogicalOr{Left: left, Right: n, Token: tok}
}

// reduceRemainingLogicalOr resolves an OR whose right operand was deferred
// by the AND lookahead but never received its AND.
func (s *state) reduceRemainingLogicalOr(inGroup bool) {
	if !s.topIsNode() {
		return
	}
	if n := s.reduceLogicalOr(s.pop().node, inGroup); n != nil {
		s.pushNode(n)
	}
}

// reduceGroup closes the group ended by right. It returns nil when the group
// turned out to be empty and was dropped.
func (s *state) reduceGroup(right *token.Token) syntax.Node {
	s.popDanglingOperators(token.Any.Without(token.TypeGroupBegin))

	if s.topIs(token.SetOf(token.TypeGroupBegin)) {
		left := s.pop().tok
		preceding := s.popOperators(token.Operator)
		following := s.skipFollowingOperators()

		tokens := make([]*token.Token, 0, len(preceding)+2+len(following))
		tokens = append(tokens, preceding...)
		tokens = append(tokens, left, right)
		tokens = append(tokens, following...)
		s.correct(syntax.EmptyGroupIgnored, tokens...)

		s.reduceRemainingLogicalOr(true)
		return nil
	}

	s.reduceRemainingLogicalOr(true)
	group := &syntax.Group{Nodes: s.collectNodes(), TokenRight: right}
	if s.topIs(token.SetOf(token.TypeGroupBegin)) {
		group.TokenLeft = s.pop().tok
	}
	return group
}
