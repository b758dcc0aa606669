// Package parser builds galach syntax trees from token sequences.
//
// The parser is a single pass shift/reduce parser over an explicit stack of
// tokens and nodes. It never fails: malformed input is repaired locally and
// every repair is recorded as a syntax.Correction on the resulting tree.
package parser

import (
	"sort"

	"github.com/nlstn/go-galach/internal/syntax"
	"github.com/nlstn/go-galach/internal/token"
)

// Parser is stateless; one instance may be shared between goroutines.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse builds the syntax tree for seq.
func (p *Parser) Parse(seq *token.Sequence) *syntax.SyntaxTree {
	s := acquireState()
	defer releaseState(s)

	s.input = s.removeUnmatchedDelimiters(seq.Tokens)
	for s.next < len(s.input) {
		tok := s.input[s.next]
		s.next++
		s.shift(tok)
	}
	root := s.reduceQuery()

	return &syntax.SyntaxTree{
		Root:          root,
		TokenSequence: seq,
		Corrections:   s.corrections,
	}
}

// removeUnmatchedDelimiters drops group delimiters that nearest-neighbour
// matching cannot pair, so the main loop only sees balanced groups.
func (s *state) removeUnmatchedDelimiters(tokens []*token.Token) []*token.Token {
	var open, unmatched []int
	for i, tok := range tokens {
		switch tok.Type {
		case token.TypeGroupBegin:
			open = append(open, i)
		case token.TypeGroupEnd:
			if len(open) == 0 {
				unmatched = append(unmatched, i)
			} else {
				open = open[:len(open)-1]
			}
		}
	}
	if len(open) == 0 && len(unmatched) == 0 {
		return tokens
	}

	unmatched = append(unmatched, open...)
	sort.Ints(unmatched)

	kept := make([]*token.Token, 0, len(tokens)-len(unmatched))
	u := 0
	for i, tok := range tokens {
		if u < len(unmatched) && unmatched[u] == i {
			u++
			if tok.Type == token.TypeGroupBegin {
				s.correct(syntax.UnmatchedGroupLeftDelimiterIgnored, tok)
			} else {
				s.correct(syntax.UnmatchedGroupRightDelimiterIgnored, tok)
			}
			continue
		}
		kept = append(kept, tok)
	}
	return kept
}

func (s *state) shift(tok *token.Token) {
	switch tok.Type {
	case token.TypeWhitespace:
		s.shiftWhitespace()
	case token.TypeTerm:
		s.reduce(&syntax.Term{Token: tok})
	case token.TypeGroupBegin:
		s.pushToken(tok)
	case token.TypeGroupEnd:
		if group := s.reduceGroup(tok); group != nil {
			s.reduce(group)
		}
	case token.TypeLogicalAnd, token.TypeLogicalOr:
		s.shiftBinaryOperator(tok)
	case token.TypeLogicalNot:
		s.pushToken(tok)
	case token.TypeLogicalNot2:
		s.shiftAdjacentUnaryOperator(tok, token.Operator.Without(token.TypeLogicalNot2))
	case token.TypeMandatory, token.TypeProhibited:
		s.shiftAdjacentUnaryOperator(tok, token.Operator)
	default:
		s.correct(syntax.BailoutTokenIgnored, tok)
	}
}

// shiftWhitespace drops a prefix operator separated from its operand.
func (s *state) shiftWhitespace() {
	if s.topIs(token.OperatorPrefix) {
		s.correct(syntax.UnaryOperatorMissingOperandIgnored, s.pop().tok)
	}
}

// shiftAdjacentUnaryOperator pushes a prefix operator unless the next token
// is an operator of the given class.
func (s *state) shiftAdjacentUnaryOperator(tok *token.Token, adjacent token.Set) {
	if s.peek().Is(adjacent) {
		s.correct(syntax.AdjacentUnaryOperatorPrecedingOperatorIgnored, tok)
		return
	}
	s.pushToken(tok)
}

func (s *state) shiftBinaryOperator(tok *token.Token) {
	if len(s.stack) == 0 || s.topIs(token.SetOf(token.TypeGroupBegin)) {
		s.correct(syntax.BinaryOperatorMissingLeftOperandIgnored, tok)
		return
	}
	if s.topIs(token.Operator) {
		s.ignoreBinaryOperatorFollowingOperator(tok)
		return
	}
	s.pushToken(tok)
}

// ignoreBinaryOperatorFollowingOperator drops tok together with the unary
// operators right before it and the binary operators right after it.
func (s *state) ignoreBinaryOperatorFollowingOperator(tok *token.Token) {
	preceding := s.popOperators(token.OperatorUnary)
	following := s.skipFollowingOperators()

	tokens := make([]*token.Token, 0, len(preceding)+1+len(following))
	tokens = append(tokens, preceding...)
	tokens = append(tokens, tok)
	tokens = append(tokens, following...)
	s.correct(syntax.BinaryOperatorFollowingOperatorIgnored, tokens...)
}

// skipFollowingOperators consumes the binary operators and whitespace that
// come next in the input and returns the operators.
func (s *state) skipFollowingOperators() []*token.Token {
	var skipped []*token.Token
	for s.peek().Is(token.BinaryOperatorOrWhitespace) {
		tok := s.input[s.next]
		s.next++
		if tok.Is(token.OperatorBinary) {
			skipped = append(skipped, tok)
		}
	}
	return skipped
}

func (s *state) skipWhitespace() {
	if s.peek().Is(token.SetOf(token.TypeWhitespace)) {
		s.next++
	}
}

// popDanglingOperators pops the operator tokens of the given class that sit
// on top of the stack with nothing to apply to.
func (s *state) popDanglingOperators(set token.Set) {
	for s.topIs(set) {
		tok := s.pop().tok
		if tok.Is(token.OperatorUnary) {
			s.correct(syntax.UnaryOperatorMissingOperandIgnored, tok)
		} else {
			s.correct(syntax.BinaryOperatorMissingRightOperandIgnored, tok)
		}
	}
}

// reduceQuery finishes parsing and builds the root node from whatever is
// left on the stack.
func (s *state) reduceQuery() *syntax.Query {
	s.popDanglingOperators(token.Any)
	s.reduceRemainingLogicalOr(false)

	query := &syntax.Query{Nodes: make([]syntax.Node, 0, len(s.stack))}
	for _, it := range s.stack {
		if it.node != nil {
			query.Nodes = append(query.Nodes, it.node)
			continue
		}
		// Unreachable for well-formed stacks, reported rather than lost.
		if it.tok.Is(token.OperatorUnary) {
			s.correct(syntax.UnaryOperatorMissingOperandIgnored, it.tok)
		} else {
			s.correct(syntax.BinaryOperatorMissingRightOperandIgnored, it.tok)
		}
	}
	return query
}
