package galach

import (
	"github.com/nlstn/go-galach/internal/generator"
	"github.com/nlstn/go-galach/internal/sqlsearch"
	"github.com/nlstn/go-galach/internal/syntax"
	"github.com/nlstn/go-galach/internal/token"
	"github.com/nlstn/go-galach/internal/tokenizer"
)

// Syntax and token types.
type (
	Token          = token.Token
	TokenType      = token.Type
	TokenSequence  = token.Sequence
	SyntaxTree     = syntax.SyntaxTree
	Node           = syntax.Node
	Correction     = syntax.Correction
	CorrectionType = syntax.CorrectionType

	Query      = syntax.Query
	Group      = syntax.Group
	LogicalAnd = syntax.LogicalAnd
	LogicalOr  = syntax.LogicalOr
	LogicalNot = syntax.LogicalNot
	Mandatory  = syntax.Mandatory
	Prohibited = syntax.Prohibited
	Term       = syntax.Term
)

// Term payloads, found in Token.Value.
type (
	Word   = token.Word
	Phrase = token.Phrase
	Tag    = token.Tag
	User   = token.User
	Range  = token.Range
)

// Rule is a tokenizer rule, see WithTextRules.
type Rule = tokenizer.Rule

// Generator renders a syntax tree in some backend format.
type Generator = generator.Generator

// FieldMap maps query domains, tags and users onto backend fields.
type FieldMap = generator.FieldMap

// SQLBuilder applies syntax trees to gorm queries.
type SQLBuilder = sqlsearch.Builder

// Correction types.
const (
	AdjacentUnaryOperatorPrecedingOperatorIgnored = syntax.AdjacentUnaryOperatorPrecedingOperatorIgnored
	UnaryOperatorMissingOperandIgnored            = syntax.UnaryOperatorMissingOperandIgnored
	BinaryOperatorMissingLeftOperandIgnored       = syntax.BinaryOperatorMissingLeftOperandIgnored
	BinaryOperatorMissingRightOperandIgnored      = syntax.BinaryOperatorMissingRightOperandIgnored
	BinaryOperatorFollowingOperatorIgnored        = syntax.BinaryOperatorFollowingOperatorIgnored
	LogicalNotOperatorsPrecedingPreferenceIgnored = syntax.LogicalNotOperatorsPrecedingPreferenceIgnored
	EmptyGroupIgnored                             = syntax.EmptyGroupIgnored
	UnmatchedGroupLeftDelimiterIgnored            = syntax.UnmatchedGroupLeftDelimiterIgnored
	UnmatchedGroupRightDelimiterIgnored           = syntax.UnmatchedGroupRightDelimiterIgnored
	BailoutTokenIgnored                           = syntax.BailoutTokenIgnored
)

// ParseFieldMap decodes a JSON field map such as
//
//	{"default":"text","tags":"tags","users":"author","domains":{"title":"title_t"}}
func ParseFieldMap(data []byte) (FieldMap, error) {
	return generator.ParseFieldMap(data)
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of the visited node.
func Walk(n Node, fn func(Node) bool) {
	syntax.Walk(n, fn)
}
