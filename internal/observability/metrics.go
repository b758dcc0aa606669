package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the translation metric instruments.
type Metrics struct {
	parseDuration    metric.Float64Histogram
	parseTokens      metric.Int64Histogram
	corrections      metric.Int64Counter
	generateDuration metric.Float64Histogram
	generateErrors   metric.Int64Counter
	dbQueryDuration  metric.Float64Histogram
}

// NewMetrics creates a new Metrics instance with the given MeterProvider.
func NewMetrics(mp metric.MeterProvider) *Metrics {
	meter := mp.Meter(MeterName)
	m := &Metrics{}

	// Instrument creation only fails on invalid parameters; fall back to an
	// undescribed instrument so recording never dereferences nil.
	var err error

	m.parseDuration, err = meter.Float64Histogram(
		"galach.parse.duration",
		metric.WithDescription("Duration of tokenizing and parsing a query in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.parseDuration, _ = meter.Float64Histogram("galach.parse.duration")
	}

	m.parseTokens, err = meter.Int64Histogram(
		"galach.parse.tokens",
		metric.WithDescription("Number of tokens per parsed query"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		m.parseTokens, _ = meter.Int64Histogram("galach.parse.tokens")
	}

	m.corrections, err = meter.Int64Counter(
		"galach.corrections",
		metric.WithDescription("Number of grammar corrections applied while parsing"),
		metric.WithUnit("{correction}"),
	)
	if err != nil {
		m.corrections, _ = meter.Int64Counter("galach.corrections")
	}

	m.generateDuration, err = meter.Float64Histogram(
		"galach.generate.duration",
		metric.WithDescription("Duration of rendering a syntax tree in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.generateDuration, _ = meter.Float64Histogram("galach.generate.duration")
	}

	m.generateErrors, err = meter.Int64Counter(
		"galach.generate.errors",
		metric.WithDescription("Number of syntax trees a generator could not render"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		m.generateErrors, _ = meter.Int64Counter("galach.generate.errors")
	}

	m.dbQueryDuration, err = meter.Float64Histogram(
		"galach.db.query.duration",
		metric.WithDescription("Duration of search queries in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		m.dbQueryDuration, _ = meter.Float64Histogram("galach.db.query.duration")
	}

	return m
}

// RecordParse records metrics for a completed parse.
func (m *Metrics) RecordParse(ctx context.Context, grammar string, tokens int, cacheHit bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		GrammarAttr(grammar),
		attribute.Bool(AttrCacheHit, cacheHit),
	)
	m.parseDuration.Record(ctx, milliseconds(duration), attrs)
	m.parseTokens.Record(ctx, int64(tokens), attrs)
}

// RecordCorrection counts one correction of the given kind.
func (m *Metrics) RecordCorrection(ctx context.Context, grammar, kind string) {
	m.corrections.Add(ctx, 1, metric.WithAttributes(
		GrammarAttr(grammar),
		CorrectionAttr(kind),
	))
}

// RecordGenerate records the duration of rendering a tree.
func (m *Metrics) RecordGenerate(ctx context.Context, format string, duration time.Duration) {
	m.generateDuration.Record(ctx, milliseconds(duration), metric.WithAttributes(FormatAttr(format)))
}

// RecordGenerateError counts a tree the generator refused.
func (m *Metrics) RecordGenerateError(ctx context.Context, format, errorType string) {
	m.generateErrors.Add(ctx, 1, metric.WithAttributes(
		FormatAttr(format),
		ErrorTypeAttr(errorType),
	))
}

// RecordDBQuery records metrics for a database query.
func (m *Metrics) RecordDBQuery(ctx context.Context, operation string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String(AttrDBOperation, operation))
	m.dbQueryDuration.Record(ctx, milliseconds(duration), attrs)
}

func milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
