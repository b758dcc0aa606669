package galach

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nlstn/go-galach/internal/observability"
)

// SQLBuilder returns a builder searching columns for terms without a domain
// and resolving domains, tags and users with the translator's field map.
func (t *Translator) SQLBuilder(columns ...string) SQLBuilder {
	return SQLBuilder{Columns: columns, Fields: t.fields}
}

// Scope parses input and returns a gorm scope restricting a query to rows
// matching it with LIKE conditions.
//
//	db.Scopes(t.Scope(ctx, input, t.SQLBuilder("title", "body"))).Find(&docs)
func (t *Translator) Scope(ctx context.Context, input string, b SQLBuilder) func(*gorm.DB) *gorm.DB {
	return b.Scope(t.Parse(ctx, input).Tree)
}

// MatchScope parses input and returns a gorm scope restricting a query on
// table to rows matching it through the database's full text search.
func (t *Translator) MatchScope(ctx context.Context, input, table string, b SQLBuilder) func(*gorm.DB) *gorm.DB {
	return b.MatchScope(table, t.Parse(ctx, input).Tree)
}

// Instrument registers callbacks on db that trace search queries (with
// WithDBTracing) and report their duration to Server-Timing (with
// WithServerTiming).
func (t *Translator) Instrument(db *gorm.DB) error {
	if err := observability.RegisterGORMCallbacks(db, t.obs); err != nil {
		return fmt.Errorf("galach: register tracing callbacks: %w", err)
	}
	if t.obs.ServerTimingEnabled() {
		if err := observability.RegisterServerTimingCallbacks(db); err != nil {
			return fmt.Errorf("galach: register server timing callbacks: %w", err)
		}
	}
	return nil
}
