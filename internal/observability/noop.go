package observability

import (
	"go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// NewNoopTracer creates a tracer that does nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{tracer: tracenoop.NewTracerProvider().Tracer("")}
}

// NewNoopMetrics creates metrics that do nothing.
func NewNoopMetrics() *Metrics {
	meter := noop.NewMeterProvider().Meter("")
	m := &Metrics{}

	// Note: noop meter never returns errors.
	m.parseDuration, _ = meter.Float64Histogram("galach.parse.duration")       //nolint:errcheck
	m.parseTokens, _ = meter.Int64Histogram("galach.parse.tokens")             //nolint:errcheck
	m.corrections, _ = meter.Int64Counter("galach.corrections")                //nolint:errcheck
	m.generateDuration, _ = meter.Float64Histogram("galach.generate.duration") //nolint:errcheck
	m.generateErrors, _ = meter.Int64Counter("galach.generate.errors")         //nolint:errcheck
	m.dbQueryDuration, _ = meter.Float64Histogram("galach.db.query.duration")  //nolint:errcheck

	return m
}
