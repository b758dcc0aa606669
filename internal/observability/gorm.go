package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	gormSpanKey             = "galach:gorm:span"
	gormStartTimeKey        = "galach:gorm:start"
	gormTimingKey           = "galach:gorm:timing"
	gormTracingCallbackName = "galach"
	gormTimingCallbackName  = "galach_server_timing"
)

// RegisterGORMCallbacks registers GORM callbacks that trace the queries
// issued by search scopes. It does nothing unless a tracer provider is set
// and detailed DB tracing is enabled.
func RegisterGORMCallbacks(db *gorm.DB, cfg *Config) error {
	if cfg == nil || cfg.TracerProvider == nil || !cfg.EnableDetailedDBTracing {
		return nil
	}

	tracer := cfg.Tracer()

	if err := db.Callback().Query().Before("gorm:query").Register(gormTracingCallbackName+":before_query", beforeQuery(tracer)); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register(gormTracingCallbackName+":after_query", afterQuery(tracer, cfg, "SELECT")); err != nil {
		return err
	}

	if err := db.Callback().Row().Before("gorm:row").Register(gormTracingCallbackName+":before_row", beforeQuery(tracer)); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register(gormTracingCallbackName+":after_row", afterQuery(tracer, cfg, "ROW")); err != nil {
		return err
	}

	return nil
}

// RegisterServerTimingCallbacks registers GORM callbacks that add a db
// metric to the Server-Timing header carried by the statement context.
// It is independent of the tracing callbacks.
func RegisterServerTimingCallbacks(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register(gormTimingCallbackName+":before_query", beforeTiming); err != nil {
		return err
	}
	if err := db.Callback().Query().After("gorm:query").Register(gormTimingCallbackName+":after_query", afterTiming); err != nil {
		return err
	}

	if err := db.Callback().Row().Before("gorm:row").Register(gormTimingCallbackName+":before_row", beforeTiming); err != nil {
		return err
	}
	if err := db.Callback().Row().After("gorm:row").Register(gormTimingCallbackName+":after_row", afterTiming); err != nil {
		return err
	}

	return nil
}

func beforeTiming(db *gorm.DB) {
	if db.Statement == nil || db.Statement.Context == nil {
		return
	}
	db.InstanceSet(gormTimingKey, StartServerTiming(db.Statement.Context, TimingDB))
}

func afterTiming(db *gorm.DB) {
	v, ok := db.InstanceGet(gormTimingKey)
	if !ok {
		return
	}
	if m, ok := v.(*ServerTimingMetric); ok {
		m.Stop()
	}
}

func beforeQuery(tracer *Tracer) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		ctx, span := tracer.StartDBQuery(ctx, "search")
		span.SetAttributes(attribute.String("db.system", db.Dialector.Name()))

		db.Statement.Context = ctx
		db.InstanceSet(gormSpanKey, span)
		db.InstanceSet(gormStartTimeKey, time.Now())
	}
}

func afterQuery(tracer *Tracer, cfg *Config, operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		spanVal, ok := db.InstanceGet(gormSpanKey)
		if !ok {
			return
		}
		span, ok := spanVal.(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		if db.Statement != nil {
			if db.Statement.Table != "" {
				span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
			}
			span.SetAttributes(attribute.Int64("db.rows_affected", db.RowsAffected))
		}

		tracer.RecordError(span, db.Error)

		if startTimeVal, ok := db.InstanceGet(gormStartTimeKey); ok {
			if startTime, ok := startTimeVal.(time.Time); ok {
				cfg.Metrics().RecordDBQuery(db.Statement.Context, operation, time.Since(startTime))
			}
		}
	}
}
