package tokenizer

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/nlstn/go-galach/internal/token"
)

// ErrInvalidRule is returned when a rule pattern cannot serve as a token rule.
var ErrInvalidRule = errors.New("tokenizer: invalid rule")

// Extractor recognizes one token starting exactly at position. It must always
// return a token with a non-empty lexeme; when nothing matches it returns a
// one-character bailout token.
type Extractor interface {
	Extract(source string, position int) *token.Token
}

// Rule maps a regular expression to the token type it produces.
//
// The pattern is anchored at the extraction position and must contain a
// capturing group named "lexeme" holding the consumed text; anything matched
// outside of it (a trailing delimiter, for instance) is only looked at.
// Term and group-begin rules report their payload through further named
// groups: domain, word, quote, phrase, marker, tag, user, start, from, to,
// end and delimiter.
type Rule struct {
	Pattern string
	Type    token.Type
}

type compiledRule struct {
	re     *regexp.Regexp
	typ    token.Type
	groups map[string]int
}

// RegexpExtractor tries its rules in order and the first match wins.
// It is immutable and safe for concurrent use.
type RegexpExtractor struct {
	rules       []compiledRule
	wordEscapes string
}

// NewRegexpExtractor compiles rules. wordEscapes lists the characters a
// backslash escapes inside words.
func NewRegexpExtractor(rules []Rule, wordEscapes string) (*RegexpExtractor, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w: no rules", ErrInvalidRule)
	}
	e := &RegexpExtractor{
		rules:       make([]compiledRule, 0, len(rules)),
		wordEscapes: wordEscapes,
	}
	for i, r := range rules {
		re, err := regexp.Compile(`^(?:` + r.Pattern + `)`)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %d: %w", ErrInvalidRule, i, err)
		}
		groups := make(map[string]int)
		for idx, name := range re.SubexpNames() {
			if name != "" {
				groups[name] = idx
			}
		}
		if _, ok := groups["lexeme"]; !ok {
			return nil, fmt.Errorf("%w: rule %d has no lexeme group", ErrInvalidRule, i)
		}
		if !r.Type.Valid() || r.Type == token.TypeBailout {
			return nil, fmt.Errorf("%w: rule %d has unusable type %v", ErrInvalidRule, i, r.Type)
		}
		e.rules = append(e.rules, compiledRule{re: re, typ: r.Type, groups: groups})
	}
	return e, nil
}

// MustRegexpExtractor is like NewRegexpExtractor but panics on error. It is
// meant for the built-in rule tables.
func MustRegexpExtractor(rules []Rule, wordEscapes string) *RegexpExtractor {
	e, err := NewRegexpExtractor(rules, wordEscapes)
	if err != nil {
		panic(err)
	}
	return e
}

// Extract implements Extractor.
func (e *RegexpExtractor) Extract(source string, position int) *token.Token {
	rest := source[position:]
	for i := range e.rules {
		r := &e.rules[i]
		m := r.re.FindStringSubmatchIndex(rest)
		if m == nil {
			continue
		}
		lexeme := r.groups["lexeme"]
		start, end := m[2*lexeme], m[2*lexeme+1]
		if start != 0 || end <= 0 {
			continue
		}
		return e.build(r, rest, m, position)
	}
	return Bailout(source, position)
}

// Bailout returns the fallback token holding the single character at
// position.
func Bailout(source string, position int) *token.Token {
	_, size := utf8.DecodeRuneInString(source[position:])
	return &token.Token{
		Type:     token.TypeBailout,
		Lexeme:   source[position : position+size],
		Position: position,
	}
}

func (e *RegexpExtractor) build(r *compiledRule, rest string, m []int, position int) *token.Token {
	group := func(name string) (string, bool) {
		idx, ok := r.groups[name]
		if !ok || m[2*idx] < 0 {
			return "", false
		}
		return rest[m[2*idx]:m[2*idx+1]], true
	}

	lexeme, _ := group("lexeme")
	tok := &token.Token{Type: r.typ, Lexeme: lexeme, Position: position}
	domain, _ := group("domain")

	switch r.typ {
	case token.TypeGroupBegin:
		delimiter, ok := group("delimiter")
		if !ok {
			delimiter = lexeme[len(lexeme)-1:]
		}
		tok.Value = token.Group{Domain: domain, Delimiter: delimiter}
	case token.TypeTerm:
		tok.Value = e.termValue(group, lexeme, domain)
	}
	return tok
}

func (e *RegexpExtractor) termValue(group func(string) (string, bool), lexeme, domain string) token.Payload {
	marker, _ := group("marker")
	if tag, ok := group("tag"); ok {
		return token.Tag{Marker: marker, Tag: tag}
	}
	if user, ok := group("user"); ok {
		return token.User{Marker: marker, User: user}
	}
	if phrase, ok := group("phrase"); ok {
		quote, _ := group("quote")
		return token.Phrase{Domain: domain, Quote: quote, Phrase: Unescape(phrase, PhraseEscapes(quote))}
	}
	if from, ok := group("from"); ok {
		to, _ := group("to")
		start, _ := group("start")
		end, _ := group("end")
		return token.Range{Domain: domain, From: from, To: to, StartSymbol: start, EndSymbol: end}
	}
	word, ok := group("word")
	if !ok {
		word = lexeme
	}
	return token.Word{Domain: domain, Word: Unescape(word, e.wordEscapes)}
}
