package parser

import (
	"sync"

	"github.com/nlstn/go-galach/internal/syntax"
	"github.com/nlstn/go-galach/internal/token"
)

// item is a parse stack entry: either a token waiting for an operand or a
// completed node. Exactly one field is set.
type item struct {
	tok  *token.Token
	node syntax.Node
}

// state is the transient data of one Parse call.
type state struct {
	input       []*token.Token
	next        int
	stack       []item
	corrections []syntax.Correction
}

// Parse states are pooled so that repeated parsing reuses stack storage.
var statePool = sync.Pool{
	New: func() interface{} { return &state{stack: make([]item, 0, 32)} },
}

func acquireState() *state {
	if s, ok := statePool.Get().(*state); ok {
		return s
	}
	return &state{stack: make([]item, 0, 32)}
}

// releaseState clears every reference held by s before pooling it. The
// corrections slice has been handed to the syntax tree and is not reused.
func releaseState(s *state) {
	if s == nil {
		return
	}
	for i := range s.stack {
		s.stack[i] = item{}
	}
	s.stack = s.stack[:0]
	s.input = nil
	s.next = 0
	s.corrections = nil
	statePool.Put(s)
}

func (s *state) peek() *token.Token {
	if s.next < len(s.input) {
		return s.input[s.next]
	}
	return nil
}

func (s *state) pushToken(tok *token.Token) {
	s.stack = append(s.stack, item{tok: tok})
}

func (s *state) pushNode(n syntax.Node) {
	s.stack = append(s.stack, item{node: n})
}

func (s *state) top() (item, bool) {
	if len(s.stack) == 0 {
		return item{}, false
	}
	return s.stack[len(s.stack)-1], true
}

func (s *state) pop() item {
	it := s.stack[len(s.stack)-1]
	s.stack[len(s.stack)-1] = item{}
	s.stack = s.stack[:len(s.stack)-1]
	return it
}

// topIs reports whether the top of the stack is a token of the given class.
func (s *state) topIs(set token.Set) bool {
	it, ok := s.top()
	return ok && it.tok.Is(set)
}

// topIsNode reports whether the top of the stack is a completed node.
func (s *state) topIsNode() bool {
	it, ok := s.top()
	return ok && it.node != nil
}

// binaryOperandAvailable reports whether a binary operator token of the
// given type sits on top of a node, ready to take that node as its left
// operand.
func (s *state) binaryOperandAvailable(t token.Type) bool {
	n := len(s.stack)
	return n >= 2 && s.stack[n-1].tok.Is(token.SetOf(t)) && s.stack[n-2].node != nil
}

// popOperators pops the contiguous run of tokens of the given class from the
// top of the stack and returns them in source order.
func (s *state) popOperators(set token.Set) []*token.Token {
	var popped []*token.Token
	for s.topIs(set) {
		popped = append(popped, s.pop().tok)
	}
	for i, j := 0, len(popped)-1; i < j; i, j = i+1, j-1 {
		popped[i], popped[j] = popped[j], popped[i]
	}
	return popped
}

// collectNodes pops the contiguous run of nodes from the top of the stack
// and returns them in source order.
func (s *state) collectNodes() []syntax.Node {
	start := len(s.stack)
	for start > 0 && s.stack[start-1].node != nil {
		start--
	}
	nodes := make([]syntax.Node, 0, len(s.stack)-start)
	for _, it := range s.stack[start:] {
		nodes = append(nodes, it.node)
	}
	for len(s.stack) > start {
		s.pop()
	}
	return nodes
}

func (s *state) correct(t syntax.CorrectionType, tokens ...*token.Token) {
	s.corrections = append(s.corrections, syntax.Correction{Type: t, Tokens: tokens})
}
