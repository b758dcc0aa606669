// Package token defines the lexical units produced by the tokenizer and
// consumed by the parser.
package token

import "strings"

// Type identifies what a token is. Every token carries exactly one Type.
// The values are distinct bits so that a Type converts directly into a Set.
type Type uint16

const (
	TypeWhitespace Type = 1 << iota
	TypeLogicalAnd
	TypeLogicalOr
	TypeLogicalNot  // keyword form: NOT
	TypeLogicalNot2 // prefix form: !
	TypeMandatory
	TypeProhibited
	TypeGroupBegin
	TypeGroupEnd
	TypeTerm
	TypeBailout
)

var typeNames = map[Type]string{
	TypeWhitespace:  "WHITESPACE",
	TypeLogicalAnd:  "LOGICAL_AND",
	TypeLogicalOr:   "LOGICAL_OR",
	TypeLogicalNot:  "LOGICAL_NOT",
	TypeLogicalNot2: "LOGICAL_NOT_2",
	TypeMandatory:   "MANDATORY",
	TypeProhibited:  "PROHIBITED",
	TypeGroupBegin:  "GROUP_BEGIN",
	TypeGroupEnd:    "GROUP_END",
	TypeTerm:        "TERM",
	TypeBailout:     "BAILOUT",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// Valid reports whether t is one of the declared types.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// Set is a grammar class: a mask of token types the parser asks membership
// questions about.
type Set uint16

// SetOf builds a Set from the given types.
func SetOf(types ...Type) Set {
	var s Set
	for _, t := range types {
		s |= Set(t)
	}
	return s
}

// Has reports whether t belongs to the set.
func (s Set) Has(t Type) bool {
	return s&Set(t) != 0
}

// Without returns a copy of the set with t removed.
func (s Set) Without(t Type) Set {
	return s &^ Set(t)
}

// Grammar classes used by the parser.
var (
	OperatorNot                = SetOf(TypeLogicalNot, TypeLogicalNot2)
	OperatorPreference         = SetOf(TypeMandatory, TypeProhibited)
	OperatorPrefix             = SetOf(TypeMandatory, TypeProhibited, TypeLogicalNot2)
	OperatorUnary              = SetOf(TypeMandatory, TypeProhibited, TypeLogicalNot, TypeLogicalNot2)
	OperatorBinary             = SetOf(TypeLogicalAnd, TypeLogicalOr)
	Operator                   = OperatorUnary | OperatorBinary
	GroupDelimiter             = SetOf(TypeGroupBegin, TypeGroupEnd)
	BinaryOperatorOrWhitespace = SetOf(TypeLogicalAnd, TypeLogicalOr, TypeWhitespace)
	Any                        = SetOf(TypeWhitespace, TypeLogicalAnd, TypeLogicalOr, TypeLogicalNot,
		TypeLogicalNot2, TypeMandatory, TypeProhibited, TypeGroupBegin, TypeGroupEnd, TypeTerm, TypeBailout)
)

// Token is a classified lexical unit. Tokens are created by an extractor and
// never modified afterwards; the parser refers to them by pointer.
type Token struct {
	Type Type
	// Lexeme is the exact substring of the source the token was read from.
	Lexeme string
	// Position is the byte offset of Lexeme in the source.
	Position int
	// Value holds the term payload for TypeTerm and TypeGroupBegin tokens.
	Value Payload
}

// Is reports whether the token belongs to the set. A nil token belongs to
// no set, which lets callers test lookahead without bounds checks.
func (t *Token) Is(s Set) bool {
	return t != nil && s.Has(t.Type)
}

// End returns the offset just past the token's lexeme.
func (t *Token) End() int {
	return t.Position + len(t.Lexeme)
}

// Payload is the closed set of token payload variants.
type Payload interface {
	payload()
}

// Word is a plain term, optionally restricted to a domain.
type Word struct {
	Domain string
	// Word is the unescaped value.
	Word string
}

// Phrase is a quoted term.
type Phrase struct {
	Domain string
	Quote  string
	// Phrase is the unescaped content between the quotes.
	Phrase string
}

// Tag is a #tag term.
type Tag struct {
	Marker string
	Tag    string
}

// User is an @user term.
type User struct {
	Marker string
	User   string
}

// Range is a [from TO to] term. "*" stands for an open bound.
type Range struct {
	Domain      string
	From        string
	To          string
	StartSymbol string
	EndSymbol   string
}

// Group is the payload of a group-begin token.
type Group struct {
	Domain    string
	Delimiter string
}

func (Word) payload()   {}
func (Phrase) payload() {}
func (Tag) payload()    {}
func (User) payload()   {}
func (Range) payload()  {}
func (Group) payload()  {}

// Unbounded is the range bound meaning "no limit".
const Unbounded = "*"

// StartInclusive reports whether the lower bound is part of the range.
func (r Range) StartInclusive() bool {
	return r.StartSymbol == "["
}

// EndInclusive reports whether the upper bound is part of the range.
func (r Range) EndInclusive() bool {
	return r.EndSymbol == "]"
}

// Domain returns the domain carried by the token's payload, if any.
func (t *Token) Domain() string {
	if t == nil {
		return ""
	}
	switch v := t.Value.(type) {
	case Word:
		return v.Domain
	case Phrase:
		return v.Domain
	case Range:
		return v.Domain
	case Group:
		return v.Domain
	}
	return ""
}

// Sequence is the tokenizer output: the tokens in source order together with
// the source they partition.
type Sequence struct {
	Tokens []*Token
	Source string
}

// String reassembles the source from the token lexemes.
func (s *Sequence) String() string {
	var b strings.Builder
	b.Grow(len(s.Source))
	for _, t := range s.Tokens {
		b.WriteString(t.Lexeme)
	}
	return b.String()
}
