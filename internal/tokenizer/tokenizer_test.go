package tokenizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlstn/go-galach/internal/token"
)

func types(seq *token.Sequence) []token.Type {
	out := make([]token.Type, 0, len(seq.Tokens))
	for _, tok := range seq.Tokens {
		out = append(out, tok.Type)
	}
	return out
}

func TestTokenizeFull(t *testing.T) {
	const (
		ws   = token.TypeWhitespace
		and  = token.TypeLogicalAnd
		or   = token.TypeLogicalOr
		not  = token.TypeLogicalNot
		not2 = token.TypeLogicalNot2
		must = token.TypeMandatory
		mnot = token.TypeProhibited
		gb   = token.TypeGroupBegin
		ge   = token.TypeGroupEnd
		term = token.TypeTerm
		bail = token.TypeBailout
	)

	tests := []struct {
		input string
		want  []token.Type
	}{
		{"", []token.Type{}},
		{"one", []token.Type{term}},
		{"one AND two", []token.Type{term, ws, and, ws, term}},
		{"one && two || three", []token.Type{term, ws, and, ws, term, ws, or, ws, term}},
		{"NOT one", []token.Type{not, ws, term}},
		{"NOT(one)", []token.Type{not, gb, term, ge}},
		{"ANDROID", []token.Type{term}},
		{"AND", []token.Type{and}},
		{"+one -two !three", []token.Type{must, term, ws, mnot, term, ws, not2, term}},
		{"title:(one)", []token.Type{gb, term, ge}},
		{`"one two"`, []token.Type{term}},
		{`"one`, []token.Type{bail, term}},
		{"#tag @user", []token.Type{term, ws, term}},
		{"[1 TO 5]", []token.Type{term}},
		{"one-two", []token.Type{term}},
		{"\t\n ", []token.Type{ws}},
	}

	tk := New(nil)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			seq := tk.Tokenize(tt.input)
			assert.Equal(t, tt.want, types(seq))
			assert.Equal(t, tt.input, seq.String())
			assert.Equal(t, tt.input, seq.Source)
		})
	}
}

func TestTokenizePayloads(t *testing.T) {
	tests := []struct {
		input string
		want  token.Payload
	}{
		{"one", token.Word{Word: "one"}},
		{"title:one", token.Word{Domain: "title", Word: "one"}},
		{`\+one\ two`, token.Word{Word: "+one two"}},
		{`a\:b`, token.Word{Word: "a:b"}},
		{`a\x`, token.Word{Word: `a\x`}},
		{"one:", token.Word{Word: "one:"}},
		{`"one \"two\""`, token.Phrase{Quote: `"`, Phrase: `one "two"`}},
		{`body:"one two"`, token.Phrase{Domain: "body", Quote: `"`, Phrase: "one two"}},
		{"#tag.one", token.Tag{Marker: "#", Tag: "tag.one"}},
		{"@user_name", token.User{Marker: "@", User: "user_name"}},
		{"size:[1 TO *}", token.Range{Domain: "size", From: "1", To: "*", StartSymbol: "[", EndSymbol: "}"}},
		{"[1  TO\t2]", token.Range{From: "1", To: "2", StartSymbol: "[", EndSymbol: "]"}},
	}

	tk := New(nil)
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			seq := tk.Tokenize(tt.input)
			require.Len(t, seq.Tokens, 1)
			assert.Equal(t, token.TypeTerm, seq.Tokens[0].Type)
			assert.Equal(t, tt.input, seq.Tokens[0].Lexeme)
			assert.Equal(t, tt.want, seq.Tokens[0].Value)
		})
	}
}

func TestTokenizeGroupPayload(t *testing.T) {
	seq := New(nil).Tokenize("title:(")
	require.Len(t, seq.Tokens, 1)
	assert.Equal(t, token.Group{Domain: "title", Delimiter: "("}, seq.Tokens[0].Value)
	assert.Equal(t, "title", seq.Tokens[0].Domain())
}

func TestTokenizePositions(t *testing.T) {
	seq := New(nil).Tokenize("日本 OR \"x\"")
	require.Len(t, seq.Tokens, 5)
	want := []int{0, 6, 7, 9, 10}
	for i, tok := range seq.Tokens {
		assert.Equal(t, want[i], tok.Position, tok.Lexeme)
	}
}

func TestBailoutTakesOneRune(t *testing.T) {
	tok := Bailout("é!", 0)
	assert.Equal(t, token.TypeBailout, tok.Type)
	assert.Equal(t, "é", tok.Lexeme)
	assert.Equal(t, 2, tok.End())
}

func TestTokenizeText(t *testing.T) {
	ext, err := Text()
	require.NoError(t, err)
	tk := New(ext)

	seq := tk.Tokenize(`#one @two title:three 'four five' (six)`)
	require.Equal(t, []token.Type{
		token.TypeTerm, token.TypeWhitespace,
		token.TypeTerm, token.TypeWhitespace,
		token.TypeTerm, token.TypeWhitespace,
		token.TypeTerm, token.TypeWhitespace,
		token.TypeGroupBegin, token.TypeTerm, token.TypeGroupEnd,
	}, types(seq))

	assert.Equal(t, token.Word{Word: "#one"}, seq.Tokens[0].Value)
	assert.Equal(t, token.Word{Word: "@two"}, seq.Tokens[2].Value)
	assert.Equal(t, token.Word{Word: "title:three"}, seq.Tokens[4].Value)
	assert.Equal(t, token.Phrase{Quote: "'", Phrase: "four five"}, seq.Tokens[6].Value)
}

func TestTextRulesInjection(t *testing.T) {
	rules := append([]Rule{{Pattern: `(?P<lexeme>~)`, Type: token.TypeLogicalNot2}}, TextRules()...)
	ext, err := Text(rules...)
	require.NoError(t, err)

	seq := New(ext).Tokenize("~one")
	assert.Equal(t, []token.Type{token.TypeLogicalNot2, token.TypeTerm}, types(seq))
}

func TestNewRegexpExtractorErrors(t *testing.T) {
	tests := []struct {
		name  string
		rules []Rule
	}{
		{"no rules", nil},
		{"bad pattern", []Rule{{Pattern: `(?P<lexeme>(`, Type: token.TypeTerm}}},
		{"no lexeme group", []Rule{{Pattern: `\s+`, Type: token.TypeWhitespace}}},
		{"bailout type", []Rule{{Pattern: `(?P<lexeme>x)`, Type: token.TypeBailout}}},
		{"combined type", []Rule{{Pattern: `(?P<lexeme>x)`, Type: token.TypeTerm | token.TypeWhitespace}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegexpExtractor(tt.rules, FullWordEscapes)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRule))
		})
	}
}

func TestMustRegexpExtractorPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustRegexpExtractor(nil, FullWordEscapes)
	})
}

// stubExtractor returns tokens that violate the extractor contract.
type stubExtractor struct{}

func (stubExtractor) Extract(source string, position int) *token.Token {
	if position%2 == 0 {
		return nil
	}
	return &token.Token{Type: token.TypeTerm, Lexeme: "zz", Position: position}
}

func TestTokenizeRepairsBadExtractor(t *testing.T) {
	seq := New(stubExtractor{}).Tokenize("abcd")
	assert.Equal(t, "abcd", seq.String())
	for _, tok := range seq.Tokens {
		assert.Equal(t, token.TypeBailout, tok.Type)
	}
}

func TestEscapeRoundTrip(t *testing.T) {
	for _, s := range []string{"", "plain", `+one`, `a b`, `(x)`, `back\slash`, `#@:`, `"q"`} {
		assert.Equal(t, s, Unescape(Escape(s, FullWordEscapes), FullWordEscapes), s)
	}
	assert.Equal(t, `\+one`, Escape("+one", FullWordEscapes))
	assert.Equal(t, `it\'s`, Escape("it's", TextWordEscapes))
	assert.Equal(t, `a\"b`, Escape(`a"b`, PhraseEscapes(`"`)))
}

func BenchmarkTokenize(b *testing.B) {
	tk := New(nil)
	const input = `title:(one OR "two three") AND -four +#tag @user NOT size:[1 TO 5] (six OR seven AND eight)`
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tk.Tokenize(input)
	}
}
