package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer wraps an OpenTelemetry tracer with translation-specific span
// creation methods. Every span carries the service identity.
type Tracer struct {
	tracer  trace.Tracer
	service []attribute.KeyValue
}

// NewTracer creates a new Tracer using the given TracerProvider.
func NewTracer(tp trace.TracerProvider, serviceName, serviceVersion string) *Tracer {
	t := &Tracer{tracer: tp.Tracer(TracerName)}
	if serviceName != "" {
		t.service = append(t.service, attribute.String(AttrServiceName, serviceName))
	}
	if serviceVersion != "" {
		t.service = append(t.service, attribute.String(AttrServiceVersion, serviceVersion))
	}
	return t
}

// StartSpan starts a new span with the given name, the service identity and
// attrs.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	all := make([]attribute.KeyValue, 0, len(t.service)+len(attrs))
	all = append(all, t.service...)
	all = append(all, attrs...)
	return t.tracer.Start(ctx, name, trace.WithAttributes(all...))
}

// StartParse starts a span for tokenizing and parsing one input string.
func (t *Tracer) StartParse(ctx context.Context, grammar string, inputLength int) (context.Context, trace.Span) {
	return t.StartSpan(ctx, SpanParse,
		GrammarAttr(grammar),
		attribute.Int(AttrInputLength, inputLength),
	)
}

// StartGenerate starts a span for rendering a syntax tree in a target format.
func (t *Tracer) StartGenerate(ctx context.Context, format, translationID string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, SpanGenerate,
		FormatAttr(format),
		TranslationIDAttr(translationID),
	)
}

// StartDBQuery starts a span for a database query.
func (t *Tracer) StartDBQuery(ctx context.Context, operation string) (context.Context, trace.Span) {
	return t.StartSpan(ctx, SpanDBQuery, attribute.String(AttrDBOperation, operation))
}

// AddParseResult annotates a parse span with the outcome.
func (t *Tracer) AddParseResult(span trace.Span, translationID string, tokens, corrections int, cacheHit bool) {
	span.SetAttributes(
		TranslationIDAttr(translationID),
		attribute.Int(AttrTokenCount, tokens),
		attribute.Int(AttrCorrections, corrections),
		attribute.Bool(AttrCacheHit, cacheHit),
	)
}

// AddCorrection records a correction as a span event.
func (t *Tracer) AddCorrection(span trace.Span, kind string, lexemes []string) {
	span.AddEvent("correction", trace.WithAttributes(
		CorrectionAttr(kind),
		attribute.StringSlice(LogFieldLexemes, lexemes),
	))
}

// RecordError records an error on the span.
func (t *Tracer) RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// LoggerWithTrace returns a logger enriched with trace context.
func LoggerWithTrace(ctx context.Context, logger *slog.Logger) *slog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}
	return logger.With(
		slog.String(LogFieldTraceID, span.SpanContext().TraceID().String()),
		slog.String(LogFieldSpanID, span.SpanContext().SpanID().String()),
	)
}
