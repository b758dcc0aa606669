// Package galach parses user-entered search queries and translates them
// into backend query languages.
//
// The query syntax supports AND, OR and NOT (also written &&, || and !),
// the + and - preference operators, parenthesized groups, domain prefixes
// (title:word, title:(...)), quoted phrases, #tags, @users and ranges
// ([1 TO 10], {a TO *}). Parsing never fails: malformed input is repaired
// and every repair is reported as a Correction, so a query box can show
// the user what was ignored.
//
// A Translator bundles a grammar, a parser, a set of output formats and a
// small parse cache:
//
//	t, err := galach.New(galach.WithFieldMap(galach.FieldMap{Tags: "tags"}))
//	if err != nil {
//		return err
//	}
//	q, err := t.Translate(ctx, `title:go -java #parsing`, galach.FormatDisMax)
//
// Trees can also be applied to gorm queries, either as portable LIKE
// conditions (Scope) or as full text conditions on SQLite FTS5 and
// PostgreSQL (MatchScope).
package galach
