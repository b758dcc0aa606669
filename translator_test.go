package galach

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/nlstn/go-galach/internal/observability"
	"github.com/nlstn/go-galach/internal/token"
	"github.com/nlstn/go-galach/internal/tokenizer"
)

func newTranslator(t *testing.T, opts ...Option) *Translator {
	t.Helper()
	tr, err := New(opts...)
	require.NoError(t, err)
	return tr
}

func TestNewDefaults(t *testing.T) {
	tr := newTranslator(t)

	assert.Equal(t, GrammarFull, tr.Grammar())
	assert.Equal(t, "full", tr.Grammar().String())
	assert.Equal(t, []string{"dismax", "fts5", "native", "querystring", "tsquery"}, tr.Formats())
}

func TestNewErrors(t *testing.T) {
	_, err := New(WithTextRules(Rule{Pattern: "(", Type: token.TypeTerm}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRule), "got %v", err)

	_, err = New(WithGrammar(Grammar(42)))
	assert.Error(t, err)
	assert.Equal(t, "unknown", Grammar(42).String())
}

func TestParseReportsCorrections(t *testing.T) {
	tr := newTranslator(t)

	res := tr.Parse(context.Background(), "one AND (two")
	require.True(t, res.Corrected())
	require.Len(t, res.Corrections, 1)
	assert.Equal(t, UnmatchedGroupLeftDelimiterIgnored, res.Corrections[0].Type)
	assert.Equal(t, "(", res.Corrections[0].Tokens[0].Lexeme)
	assert.Equal(t, 8, res.Corrections[0].Tokens[0].Position)
	assert.Equal(t, "one AND (two", res.Tree.Source())

	assert.Equal(t, "one AND two", tr.Clean(context.Background(), "one AND (two"))
}

func TestParseCache(t *testing.T) {
	tr := newTranslator(t)
	ctx := context.Background()

	first := tr.Parse(ctx, "one OR two")
	second := tr.Parse(ctx, "one OR two")

	assert.False(t, first.Cached)
	assert.True(t, second.Cached)
	assert.Same(t, first.Tree, second.Tree)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, tr.cache.len())
}

func TestParseCacheDisabled(t *testing.T) {
	tr := newTranslator(t, WithCacheSize(0))
	ctx := context.Background()

	assert.False(t, tr.Parse(ctx, "one").Cached)
	assert.False(t, tr.Parse(ctx, "one").Cached)
	assert.Equal(t, 0, tr.cache.len())
}

func TestParseCacheSeparatesGrammars(t *testing.T) {
	assert.NotEqual(t, cacheKey(GrammarFull, "#tag"), cacheKey(GrammarText, "#tag"))
}

func TestTranslate(t *testing.T) {
	tr := newTranslator(t, WithFieldMap(FieldMap{
		Tags:    "tags",
		Domains: map[string]string{"title": "title_t"},
	}))

	tests := []struct {
		format string
		input  string
		want   string
		err    error
	}{
		{format: FormatNative, input: "one   two", want: "one two"},
		{format: FormatNative, input: "AND AND one AND AND two", want: "one AND two"},
		{format: FormatDisMax, input: "title:one two", want: "title_t:one two"},
		{format: FormatDisMax, input: "!one && two", want: "NOT one AND two"},
		{format: FormatQueryString, input: "a=b", want: `a\=b`},
		{format: FormatFTS5, input: "one -two", want: `"one" NOT "two"`},
		{format: FormatFTS5, input: "-one", err: ErrUnboundedNegation},
		{format: FormatTSQuery, input: "one two -three", want: "('one' | 'two') & !'three'"},
		{format: FormatTSQuery, input: "[1 TO 2]", err: ErrUnsupportedNode},
		{format: "sql", input: "one", err: ErrUnknownFormat},
	}

	for _, tt := range tests {
		t.Run(tt.format+"/"+tt.input, func(t *testing.T) {
			out, err := tr.Translate(context.Background(), tt.input, tt.format)
			if tt.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				assert.Empty(t, out)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

type sourceGenerator struct{}

func (sourceGenerator) Generate(tree *SyntaxTree) (string, error) {
	return strings.ToUpper(tree.Source()), nil
}

func TestWithGenerator(t *testing.T) {
	tr := newTranslator(t,
		WithGenerator("upper", sourceGenerator{}),
		WithGenerator(FormatNative, sourceGenerator{}),
	)

	assert.Contains(t, tr.Formats(), "upper")

	out, err := tr.Translate(context.Background(), "one (", "upper")
	require.NoError(t, err)
	assert.Equal(t, "ONE (", out)

	out, err = tr.Translate(context.Background(), "one", FormatNative)
	require.NoError(t, err)
	assert.Equal(t, "ONE", out)

	// Clean always normalizes, whatever is registered as native.
	assert.Equal(t, "one", tr.Clean(context.Background(), "one ("))
}

func TestTextGrammar(t *testing.T) {
	tr := newTranslator(t, WithGrammar(GrammarText))
	ctx := context.Background()

	assert.Equal(t, "text", tr.Grammar().String())
	assert.Equal(t, `it\'s 'a \' b' title:x`, tr.Clean(ctx, `it\'s 'a \' b' title:x`))

	res := tr.Parse(ctx, "#tag")
	require.Len(t, res.Tree.Root.Nodes, 1)
	term, ok := res.Tree.Root.Nodes[0].(*Term)
	require.True(t, ok)
	assert.Equal(t, Word{Word: "#tag"}, term.Token.Value)
}

func TestWithTextRules(t *testing.T) {
	rules := append([]Rule{{Pattern: `(?P<lexeme>~)`, Type: token.TypeLogicalNot2}}, tokenizer.TextRules()...)
	tr := newTranslator(t, WithTextRules(rules...))

	res := tr.Parse(context.Background(), "~one two")
	assert.Empty(t, res.Corrections)
	require.Len(t, res.Tree.Root.Nodes, 2)
	_, ok := res.Tree.Root.Nodes[0].(*LogicalNot)
	assert.True(t, ok)
	assert.Equal(t, "~one two", tr.Clean(context.Background(), "~one  two"))
}

func TestTokenize(t *testing.T) {
	tr := newTranslator(t)

	seq := tr.Tokenize("one AND")
	require.Len(t, seq.Tokens, 3)
	assert.Equal(t, "one AND", seq.String())
}

func decodeRecords(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var records []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		records = append(records, rec)
	}
	return records
}

func TestCorrectionsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tr := newTranslator(t, WithLogger(logger))

	res := tr.Parse(context.Background(), "one AND")

	records := decodeRecords(t, &buf)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "DEBUG", rec["level"])
	assert.Equal(t, "query corrected", rec["msg"])
	assert.Equal(t, res.ID.String(), rec[observability.LogFieldTranslationID])
	assert.Equal(t, "BINARY_OPERATOR_MISSING_RIGHT_OPERAND_IGNORED", rec[observability.LogFieldCorrection])
	assert.Equal(t, []interface{}{"AND"}, rec[observability.LogFieldLexemes])
	assert.Equal(t, []interface{}{float64(4)}, rec[observability.LogFieldPositions])
}

func TestCleanInputIsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tr := newTranslator(t, WithLogger(logger))

	tr.Parse(context.Background(), "one AND two")
	assert.Empty(t, buf.String())
}

func TestGenerateErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	tr := newTranslator(t, WithLogger(logger))

	_, err := tr.Translate(context.Background(), "size:[1 TO 5]", FormatFTS5)
	require.Error(t, err)

	records := decodeRecords(t, &buf)
	require.Len(t, records, 1)
	assert.Equal(t, "WARN", records[0]["level"])
	assert.Equal(t, FormatFTS5, records[0][observability.LogFieldFormat])
}

func TestObservability(t *testing.T) {
	tr := newTranslator(t,
		WithTracerProvider(tracenoop.NewTracerProvider()),
		WithMeterProvider(noop.NewMeterProvider()),
		WithServiceName("search"),
		WithServiceVersion("1.0.0"),
		WithServerTiming(),
	)
	assert.True(t, tr.obs.IsEnabled())
	assert.Equal(t, "1.0.0", tr.obs.ServiceVersion)

	ctx, header := observability.NewServerTimingContext(context.Background())
	out, err := tr.Translate(ctx, "one two", FormatTSQuery)
	require.NoError(t, err)
	assert.Equal(t, "'one' | 'two'", out)

	require.Len(t, header.Metrics, 2)
	assert.Equal(t, observability.TimingParse, header.Metrics[0].Name)
	assert.Equal(t, "full", header.Metrics[0].Desc)
	assert.Equal(t, observability.TimingGenerate, header.Metrics[1].Name)
	assert.Equal(t, FormatTSQuery, header.Metrics[1].Desc)
}

func TestServerTimingDisabled(t *testing.T) {
	tr := newTranslator(t)

	ctx, header := observability.NewServerTimingContext(context.Background())
	tr.Parse(ctx, "one")
	assert.Empty(t, header.Metrics)
}

func TestConcurrentTranslate(t *testing.T) {
	tr := newTranslator(t, WithCacheSize(4))
	inputs := []string{"one two", "one AND (two", "+a -b", "NOT NOT x", "title:(x y)", "a OR b AND c"}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				input := inputs[j%len(inputs)]
				clean := tr.Clean(context.Background(), input)
				assert.Empty(t, tr.Parse(context.Background(), clean).Corrections, input)
			}
		}()
	}
	wg.Wait()
}

func TestParseFieldMap(t *testing.T) {
	fields, err := ParseFieldMap([]byte(`{"tags":"labels","domains":{"title":"headline"}}`))
	require.NoError(t, err)
	assert.Equal(t, "labels", fields.Tags)
	assert.Equal(t, "headline", fields.Field("title"))

	_, err = ParseFieldMap([]byte(`{`))
	assert.True(t, errors.Is(err, ErrInvalidFieldMap), "got %v", err)
}

func TestWalk(t *testing.T) {
	tr := newTranslator(t)
	res := tr.Parse(context.Background(), "a OR (b -c)")

	var terms []string
	Walk(res.Tree.Root, func(n Node) bool {
		if term, ok := n.(*Term); ok {
			terms = append(terms, term.Token.Lexeme)
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c"}, terms)
}
