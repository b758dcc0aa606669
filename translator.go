package galach

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/nlstn/go-galach/internal/generator"
	"github.com/nlstn/go-galach/internal/observability"
	"github.com/nlstn/go-galach/internal/parser"
	"github.com/nlstn/go-galach/internal/tokenizer"
)

// Translator parses queries of one grammar and renders them in the
// registered output formats. It is safe for concurrent use.
type Translator struct {
	grammar    Grammar
	tokenizer  *tokenizer.Tokenizer
	parser     *parser.Parser
	native     generator.Native
	generators map[string]Generator
	fields     FieldMap
	cache      *parseCache
	logger     *slog.Logger
	obs        *observability.Config
}

// Result is the outcome of one Parse call.
type Result struct {
	// ID identifies this parse in logs and traces.
	ID uuid.UUID
	// Tree may be shared with other results of the same input and must not
	// be modified.
	Tree        *SyntaxTree
	Corrections []Correction
	// Cached reports whether the tree came from the parse cache.
	Cached bool
}

// Corrected reports whether the input had to be repaired.
func (r *Result) Corrected() bool {
	return len(r.Corrections) > 0
}

// New creates a Translator. It fails only when custom text rules are invalid.
func New(opts ...Option) (*Translator, error) {
	cfg := &config{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(cfg)
	}

	t := &Translator{
		grammar: cfg.grammar,
		parser:  parser.New(),
		fields:  cfg.fields,
		cache:   newParseCache(cfg.cacheSize),
		logger:  cfg.logger,
		obs:     observability.NewConfig(cfg.obs...),
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}
	if err := t.obs.Initialize(); err != nil {
		return nil, fmt.Errorf("galach: initialize observability: %w", err)
	}

	switch cfg.grammar {
	case GrammarFull:
		t.tokenizer = tokenizer.New(tokenizer.Full())
		t.native = generator.Native{WordEscapes: tokenizer.FullWordEscapes}
	case GrammarText:
		ext, err := tokenizer.Text(cfg.textRules...)
		if err != nil {
			return nil, fmt.Errorf("galach: text grammar: %w", err)
		}
		t.tokenizer = tokenizer.New(ext)
		t.native = generator.Native{WordEscapes: tokenizer.TextWordEscapes}
	default:
		return nil, fmt.Errorf("galach: unknown grammar %d", cfg.grammar)
	}

	t.generators = map[string]Generator{
		FormatNative:      t.native,
		FormatDisMax:      generator.NewDisMax(cfg.fields),
		FormatQueryString: generator.NewQueryString(cfg.fields),
		FormatFTS5:        generator.FTS5{Fields: cfg.fields},
		FormatTSQuery:     generator.TSQuery{},
	}
	for name, g := range cfg.generators {
		t.generators[name] = g
	}

	return t, nil
}

// Grammar returns the grammar the translator parses.
func (t *Translator) Grammar() Grammar {
	return t.grammar
}

// Formats returns the registered format names in sorted order.
func (t *Translator) Formats() []string {
	names := make([]string, 0, len(t.generators))
	for name := range t.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tokenize splits input into tokens without parsing it.
func (t *Translator) Tokenize(input string) *TokenSequence {
	return t.tokenizer.Tokenize(input)
}

// Parse tokenizes and parses input. It never fails; repairs are listed in
// the result's Corrections and logged at debug level.
func (t *Translator) Parse(ctx context.Context, input string) *Result {
	start := time.Now()
	timing := t.startTiming(ctx, observability.TimingParse, t.grammar.String())
	defer timing.Stop()

	tracer := t.obs.Tracer()
	ctx, span := tracer.StartParse(ctx, t.grammar.String(), len(input))
	defer span.End()

	key := cacheKey(t.grammar, input)
	tree, cached := t.cache.get(key, input)
	if !cached {
		tree = t.parser.Parse(t.tokenizer.Tokenize(input))
		t.cache.put(key, input, tree)
	}

	res := &Result{
		ID:          uuid.New(),
		Tree:        tree,
		Corrections: tree.Corrections,
		Cached:      cached,
	}

	tokens := len(tree.Tokens())
	tracer.AddParseResult(span, res.ID.String(), tokens, len(res.Corrections), cached)
	t.obs.Metrics().RecordParse(ctx, t.grammar.String(), tokens, cached, time.Since(start))
	t.reportCorrections(ctx, span, res)

	return res
}

func (t *Translator) reportCorrections(ctx context.Context, span trace.Span, res *Result) {
	if len(res.Corrections) == 0 {
		return
	}
	logger := observability.LoggerWithTrace(ctx, t.logger)
	for _, c := range res.Corrections {
		lexemes := make([]string, len(c.Tokens))
		positions := make([]int, len(c.Tokens))
		for i, tok := range c.Tokens {
			lexemes[i] = tok.Lexeme
			positions[i] = tok.Position
		}
		kind := c.Type.String()

		logger.DebugContext(ctx, "query corrected",
			slog.String(observability.LogFieldTranslationID, res.ID.String()),
			slog.String(observability.LogFieldCorrection, kind),
			slog.Any(observability.LogFieldLexemes, lexemes),
			slog.Any(observability.LogFieldPositions, positions),
		)
		t.obs.Tracer().AddCorrection(span, kind, lexemes)
		t.obs.Metrics().RecordCorrection(ctx, t.grammar.String(), kind)
	}
}

// Generate renders a parse result in the named format.
func (t *Translator) Generate(ctx context.Context, res *Result, format string) (string, error) {
	g, ok := t.generators[format]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	start := time.Now()
	timing := t.startTiming(ctx, observability.TimingGenerate, format)
	defer timing.Stop()

	tracer := t.obs.Tracer()
	ctx, span := tracer.StartGenerate(ctx, format, res.ID.String())
	defer span.End()

	out, err := g.Generate(res.Tree)
	if err != nil {
		tracer.RecordError(span, err)
		t.obs.Metrics().RecordGenerateError(ctx, format, errorType(err))
		observability.LoggerWithTrace(ctx, t.logger).WarnContext(ctx, "query not translatable",
			slog.String(observability.LogFieldTranslationID, res.ID.String()),
			slog.String(observability.LogFieldFormat, format),
			slog.String(observability.LogFieldError, err.Error()),
		)
		return "", fmt.Errorf("galach: generate %s: %w", format, err)
	}
	t.obs.Metrics().RecordGenerate(ctx, format, time.Since(start))
	return out, nil
}

// Translate parses input and renders it in the named format.
func (t *Translator) Translate(ctx context.Context, input, format string) (string, error) {
	if _, ok := t.generators[format]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return t.Generate(ctx, t.Parse(ctx, input), format)
}

// Clean returns input in normalized galach syntax with every ignored token
// removed. The result parses without corrections.
func (t *Translator) Clean(ctx context.Context, input string) string {
	res := t.Parse(ctx, input)
	return t.native.Render(res.Tree.Root)
}

func (t *Translator) startTiming(ctx context.Context, name, desc string) *observability.ServerTimingMetric {
	if !t.obs.ServerTimingEnabled() {
		return &observability.ServerTimingMetric{}
	}
	return observability.StartServerTimingWithDesc(ctx, name, desc)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, generator.ErrUnsupportedNode):
		return "unsupported_node"
	case errors.Is(err, generator.ErrUnboundedNegation):
		return "unbounded_negation"
	}
	return "other"
}
