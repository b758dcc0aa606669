// Package observability provides OpenTelemetry-based instrumentation for
// query parsing and translation.
//
// It supports distributed tracing, metrics collection, and structured
// logging enriched with trace context.
//
// All observability features are opt-in. When not configured, no-op
// implementations are used.
package observability

import "go.opentelemetry.io/otel/attribute"

// Instrumentation identity constants
const (
	// TracerName is the instrumentation name for tracing.
	TracerName = "github.com/nlstn/go-galach"
	// MeterName is the instrumentation name for metrics.
	MeterName = "github.com/nlstn/go-galach"
)

// Span names.
const (
	SpanParse    = "galach.parse"
	SpanGenerate = "galach.generate"
	SpanDBQuery  = "galach.db.query"
)

// Semantic attribute keys.
const (
	AttrGrammar       = "galach.grammar"
	AttrFormat        = "galach.format"
	AttrTranslationID = "galach.translation_id"
	AttrInputLength   = "galach.input.length"
	AttrTokenCount    = "galach.tokens"
	AttrCorrections   = "galach.corrections"
	AttrCorrection    = "galach.correction"
	AttrCacheHit      = "galach.cache_hit"

	AttrServiceName    = "service.name"
	AttrServiceVersion = "service.version"
	AttrDBOperation    = "db.operation"

	AttrErrorType = "error.type"
)

// Log field keys for structured logging with trace context.
const (
	LogFieldTraceID       = "trace_id"
	LogFieldSpanID        = "span_id"
	LogFieldTranslationID = "translation_id"
	LogFieldCorrection    = "correction"
	LogFieldLexemes       = "lexemes"
	LogFieldPositions     = "positions"
	LogFieldFormat        = "format"
	LogFieldDuration      = "duration_ms"
	LogFieldError         = "error"
)

// GrammarAttr creates an attribute for the tokenizer grammar name.
func GrammarAttr(name string) attribute.KeyValue {
	return attribute.String(AttrGrammar, name)
}

// FormatAttr creates an attribute for the generator format name.
func FormatAttr(format string) attribute.KeyValue {
	return attribute.String(AttrFormat, format)
}

// TranslationIDAttr creates an attribute for the translation id.
func TranslationIDAttr(id string) attribute.KeyValue {
	return attribute.String(AttrTranslationID, id)
}

// CorrectionAttr creates an attribute for a correction kind.
func CorrectionAttr(kind string) attribute.KeyValue {
	return attribute.String(AttrCorrection, kind)
}

// ErrorTypeAttr creates an attribute classifying an error.
func ErrorTypeAttr(errorType string) attribute.KeyValue {
	return attribute.String(AttrErrorType, errorType)
}
