package tokenizer

import "github.com/nlstn/go-galach/internal/token"

const (
	// Keywords must be followed by one of these or by the end of input, so
	// that ANDROID is a word and not AND followed by ROID.
	fullKeywordEnd = `(?:[\s"()+\-!]|$)`
	textKeywordEnd = `(?:[\s"'()+\-!]|$)`
	markerEnd      = `(?:[\s"()+!]|$)`
	domainPrefix   = `(?:(?P<domain>[a-zA-Z_][a-zA-Z0-9_\-.]*):)?`
	rangeBound     = `\*|[a-zA-Z0-9,._\-]+`
)

var fullRules = []Rule{
	{Pattern: `(?P<lexeme>\s+)`, Type: token.TypeWhitespace},
	{Pattern: `(?P<lexeme>\+)`, Type: token.TypeMandatory},
	{Pattern: `(?P<lexeme>-)`, Type: token.TypeProhibited},
	{Pattern: `(?P<lexeme>!)`, Type: token.TypeLogicalNot2},
	{Pattern: `(?P<lexeme>\))`, Type: token.TypeGroupEnd},
	{Pattern: `(?P<lexeme>NOT)` + fullKeywordEnd, Type: token.TypeLogicalNot},
	{Pattern: `(?P<lexeme>AND|&&)` + fullKeywordEnd, Type: token.TypeLogicalAnd},
	{Pattern: `(?P<lexeme>OR|\|\|)` + fullKeywordEnd, Type: token.TypeLogicalOr},
	{Pattern: `(?P<lexeme>` + domainPrefix + `(?P<delimiter>\())`, Type: token.TypeGroupBegin},
	{Pattern: `(?P<lexeme>(?P<marker>#)(?P<tag>[a-zA-Z0-9_][a-zA-Z0-9_\-.]*))` + markerEnd, Type: token.TypeTerm},
	{Pattern: `(?P<lexeme>(?P<marker>@)(?P<user>[a-zA-Z0-9_][a-zA-Z0-9_\-.]*))` + markerEnd, Type: token.TypeTerm},
	{Pattern: `(?P<lexeme>` + domainPrefix + `(?P<quote>")(?P<phrase>(?s:\\.|[^"\\])*)")`, Type: token.TypeTerm},
	{Pattern: `(?P<lexeme>` + domainPrefix + `(?P<start>[\[{])(?P<from>` + rangeBound + `)\s+TO\s+(?P<to>` + rangeBound + `)(?P<end>[\]}]))`, Type: token.TypeTerm},
	{Pattern: `(?P<lexeme>` + domainPrefix + `(?P<word>(?:\\[\\ ()"]|[^"()\s])+))`, Type: token.TypeTerm},
}

var textRules = []Rule{
	{Pattern: `(?P<lexeme>\s+)`, Type: token.TypeWhitespace},
	{Pattern: `(?P<lexeme>\+)`, Type: token.TypeMandatory},
	{Pattern: `(?P<lexeme>-)`, Type: token.TypeProhibited},
	{Pattern: `(?P<lexeme>!)`, Type: token.TypeLogicalNot2},
	{Pattern: `(?P<lexeme>\))`, Type: token.TypeGroupEnd},
	{Pattern: `(?P<lexeme>NOT)` + textKeywordEnd, Type: token.TypeLogicalNot},
	{Pattern: `(?P<lexeme>AND|&&)` + textKeywordEnd, Type: token.TypeLogicalAnd},
	{Pattern: `(?P<lexeme>OR|\|\|)` + textKeywordEnd, Type: token.TypeLogicalOr},
	{Pattern: `(?P<lexeme>(?P<delimiter>\())`, Type: token.TypeGroupBegin},
	{Pattern: `(?P<lexeme>(?P<quote>")(?P<phrase>(?s:\\.|[^"\\])*)")`, Type: token.TypeTerm},
	{Pattern: `(?P<lexeme>(?P<quote>')(?P<phrase>(?s:\\.|[^'\\])*)')`, Type: token.TypeTerm},
	{Pattern: `(?P<lexeme>(?P<word>(?:\\[\\ ()"']|[^"'()\s])+))`, Type: token.TypeTerm},
}

// FullRules returns a copy of the rule table of the full syntax: keywords,
// preference operators, domain groups, tags, users, phrases, ranges and
// domain words.
func FullRules() []Rule {
	return append([]Rule(nil), fullRules...)
}

// TextRules returns a copy of the rule table of the reduced text syntax.
func TextRules() []Rule {
	return append([]Rule(nil), textRules...)
}

var fullExtractor = MustRegexpExtractor(fullRules, FullWordEscapes)

// Full returns the extractor for the full syntax.
func Full() *RegexpExtractor {
	return fullExtractor
}

// Text returns an extractor for the text syntax. When rules are given they
// replace the default table.
func Text(rules ...Rule) (*RegexpExtractor, error) {
	if len(rules) == 0 {
		rules = textRules
	}
	return NewRegexpExtractor(rules, TextWordEscapes)
}
