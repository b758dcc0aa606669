package galach

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nlstn/go-galach/internal/observability"
)

// Grammar selects the query syntax a Translator accepts.
type Grammar int

const (
	// GrammarFull accepts the complete syntax: domains, tags, users,
	// ranges and double quoted phrases.
	GrammarFull Grammar = iota
	// GrammarText accepts plain text with operators, groups and single or
	// double quoted phrases. Domains, tags, users and ranges are words.
	GrammarText
)

func (g Grammar) String() string {
	switch g {
	case GrammarFull:
		return "full"
	case GrammarText:
		return "text"
	}
	return "unknown"
}

// Output formats registered by default.
const (
	FormatNative      = "native"
	FormatDisMax      = "dismax"
	FormatQueryString = "querystring"
	FormatFTS5        = "fts5"
	FormatTSQuery     = "tsquery"
)

// DefaultCacheSize is the number of parse results kept when WithCacheSize
// is not given.
const DefaultCacheSize = 256

type config struct {
	grammar    Grammar
	textRules  []Rule
	logger     *slog.Logger
	obs        []observability.Option
	cacheSize  int
	fields     FieldMap
	generators map[string]Generator
}

// Option configures a Translator.
type Option func(*config)

// WithGrammar selects the query syntax.
func WithGrammar(g Grammar) Option {
	return func(c *config) {
		c.grammar = g
	}
}

// WithTextRules replaces the rule table of the text grammar and selects it.
func WithTextRules(rules ...Rule) Option {
	return func(c *config) {
		c.grammar = GrammarText
		c.textRules = append([]Rule(nil), rules...)
	}
}

// WithLogger sets the logger corrections and generator failures are
// reported to. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithTracerProvider enables tracing of parse and generate calls.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.obs = append(c.obs, observability.WithTracerProvider(tp))
	}
}

// WithMeterProvider enables parse, correction and generate metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.obs = append(c.obs, observability.WithMeterProvider(mp))
	}
}

// WithServiceName names the service on every span.
func WithServiceName(name string) Option {
	return func(c *config) {
		c.obs = append(c.obs, observability.WithServiceName(name))
	}
}

// WithServiceVersion records the service version on every span.
func WithServiceVersion(version string) Option {
	return func(c *config) {
		c.obs = append(c.obs, observability.WithServiceVersion(version))
	}
}

// WithServerTiming reports parse, generate and database durations to the
// Server-Timing header found in the request context.
func WithServerTiming() Option {
	return func(c *config) {
		c.obs = append(c.obs, observability.WithServerTiming())
	}
}

// WithDBTracing traces every query issued on a database passed to
// Translator.Instrument. Requires a tracer provider.
func WithDBTracing() Option {
	return func(c *config) {
		c.obs = append(c.obs, observability.WithDetailedDBTracing())
	}
}

// WithCacheSize bounds the parse cache. Zero or less disables caching.
func WithCacheSize(n int) Option {
	return func(c *config) {
		c.cacheSize = n
	}
}

// WithFieldMap sets the field map used by the default generators and by
// SQLBuilder.
func WithFieldMap(fields FieldMap) Option {
	return func(c *config) {
		c.fields = fields
	}
}

// WithGenerator registers g under name, replacing a default format of the
// same name.
func WithGenerator(name string, g Generator) Option {
	return func(c *config) {
		if c.generators == nil {
			c.generators = make(map[string]Generator)
		}
		c.generators[name] = g
	}
}
