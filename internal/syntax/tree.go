package syntax

import "github.com/nlstn/go-galach/internal/token"

// CorrectionType identifies a grammar repair made by the parser.
type CorrectionType int

const (
	AdjacentUnaryOperatorPrecedingOperatorIgnored CorrectionType = iota + 1
	UnaryOperatorMissingOperandIgnored
	BinaryOperatorMissingLeftOperandIgnored
	BinaryOperatorMissingRightOperandIgnored
	BinaryOperatorFollowingOperatorIgnored
	LogicalNotOperatorsPrecedingPreferenceIgnored
	EmptyGroupIgnored
	UnmatchedGroupLeftDelimiterIgnored
	UnmatchedGroupRightDelimiterIgnored
	BailoutTokenIgnored
)

var correctionNames = map[CorrectionType]string{
	AdjacentUnaryOperatorPrecedingOperatorIgnored: "ADJACENT_UNARY_OPERATOR_PRECEDING_OPERATOR_IGNORED",
	UnaryOperatorMissingOperandIgnored:            "UNARY_OPERATOR_MISSING_OPERAND_IGNORED",
	BinaryOperatorMissingLeftOperandIgnored:       "BINARY_OPERATOR_MISSING_LEFT_OPERAND_IGNORED",
	BinaryOperatorMissingRightOperandIgnored:      "BINARY_OPERATOR_MISSING_RIGHT_OPERAND_IGNORED",
	BinaryOperatorFollowingOperatorIgnored:        "BINARY_OPERATOR_FOLLOWING_OPERATOR_IGNORED",
	LogicalNotOperatorsPrecedingPreferenceIgnored: "LOGICAL_NOT_OPERATORS_PRECEDING_PREFERENCE_IGNORED",
	EmptyGroupIgnored:                             "EMPTY_GROUP_IGNORED",
	UnmatchedGroupLeftDelimiterIgnored:            "UNMATCHED_GROUP_LEFT_DELIMITER_IGNORED",
	UnmatchedGroupRightDelimiterIgnored:           "UNMATCHED_GROUP_RIGHT_DELIMITER_IGNORED",
	BailoutTokenIgnored:                           "BAILOUT_TOKEN_IGNORED",
}

func (c CorrectionType) String() string {
	if name, ok := correctionNames[c]; ok {
		return name
	}
	return "UNKNOWN_CORRECTION"
}

// Correction records one grammar repair together with the tokens it
// discarded.
type Correction struct {
	Type   CorrectionType
	Tokens []*token.Token
}

// SyntaxTree is the parse result. The root is always a Query.
type SyntaxTree struct {
	Root          *Query
	TokenSequence *token.Sequence
	Corrections   []Correction
}

// Source returns the string the tree was parsed from.
func (t *SyntaxTree) Source() string {
	if t.TokenSequence == nil {
		return ""
	}
	return t.TokenSequence.Source
}

// Corrected reports whether the parser had to repair the input.
func (t *SyntaxTree) Corrected() bool {
	return len(t.Corrections) > 0
}

// Tokens returns the tokens the tree was parsed from, including the ones the
// parser discarded.
func (t *SyntaxTree) Tokens() []*token.Token {
	if t.TokenSequence == nil {
		return nil
	}
	return t.TokenSequence.Tokens
}
