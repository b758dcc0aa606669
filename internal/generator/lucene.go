package generator

import (
	"strings"

	"github.com/nlstn/go-galach/internal/syntax"
	"github.com/nlstn/go-galach/internal/token"
	"github.com/nlstn/go-galach/internal/tokenizer"
)

const (
	luceneReserved      = `+-&|!(){}[]^"~*?:\/ `
	queryStringReserved = luceneReserved + `=`
	queryStringDropped  = `<>`
)

// Lucene renders trees in Lucene classic query syntax. The two variants
// differ only in how term text is escaped.
type Lucene struct {
	Fields FieldMap

	reserved string
	dropped  string
}

// NewDisMax returns a generator for Solr extended DisMax queries.
func NewDisMax(fields FieldMap) *Lucene {
	return &Lucene{Fields: fields, reserved: luceneReserved}
}

// NewQueryString returns a generator for Elasticsearch query_string queries.
// '<' and '>' cannot be escaped there and are removed from terms.
func NewQueryString(fields FieldMap) *Lucene {
	return &Lucene{Fields: fields, reserved: queryStringReserved, dropped: queryStringDropped}
}

// Generate implements Generator.
func (g *Lucene) Generate(tree *syntax.SyntaxTree) (string, error) {
	var b strings.Builder
	if err := g.write(&b, tree.Root); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (g *Lucene) write(b *strings.Builder, n syntax.Node) error {
	switch n := n.(type) {
	case *syntax.Query:
		return g.writeList(b, n.Nodes)
	case *syntax.Group:
		g.writeField(b, n.Domain())
		b.WriteByte('(')
		if err := g.writeList(b, n.Nodes); err != nil {
			return err
		}
		b.WriteByte(')')
		return nil
	case *syntax.LogicalAnd:
		return g.writeBinary(b, n.Left, " AND ", n.Right)
	case *syntax.LogicalOr:
		return g.writeBinary(b, n.Left, " OR ", n.Right)
	case *syntax.LogicalNot:
		b.WriteString("NOT ")
		return g.write(b, n.Operand)
	case *syntax.Mandatory:
		b.WriteByte('+')
		return g.write(b, n.Operand)
	case *syntax.Prohibited:
		b.WriteByte('-')
		return g.write(b, n.Operand)
	case *syntax.Term:
		return g.writeTerm(b, n)
	}
	return unsupported(n)
}

func (g *Lucene) writeList(b *strings.Builder, nodes []syntax.Node) error {
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		if err := g.write(b, n); err != nil {
			return err
		}
	}
	return nil
}

func (g *Lucene) writeBinary(b *strings.Builder, left syntax.Node, op string, right syntax.Node) error {
	if err := g.write(b, left); err != nil {
		return err
	}
	b.WriteString(op)
	return g.write(b, right)
}

func (g *Lucene) writeTerm(b *strings.Builder, term *syntax.Term) error {
	switch v := term.Token.Value.(type) {
	case token.Word:
		g.writeField(b, v.Domain)
		b.WriteString(g.escape(v.Word))
	case token.Phrase:
		g.writeField(b, v.Domain)
		b.WriteByte('"')
		b.WriteString(tokenizer.Escape(g.strip(v.Phrase), `\"`))
		b.WriteByte('"')
	case token.Tag:
		g.writeMarked(b, g.Fields.Tags, v.Marker, v.Tag)
	case token.User:
		g.writeMarked(b, g.Fields.Users, v.Marker, v.User)
	case token.Range:
		g.writeField(b, v.Domain)
		b.WriteString(v.StartSymbol)
		b.WriteString(g.bound(v.From))
		b.WriteString(" TO ")
		b.WriteString(g.bound(v.To))
		b.WriteString(v.EndSymbol)
	default:
		return unsupported(term)
	}
	return nil
}

// writeMarked renders a tag or user term. Without a configured field the
// marker stays part of the searched text.
func (g *Lucene) writeMarked(b *strings.Builder, field, marker, value string) {
	if field == "" {
		b.WriteString(g.escape(marker + value))
		return
	}
	b.WriteString(field)
	b.WriteByte(':')
	b.WriteString(g.escape(value))
}

func (g *Lucene) writeField(b *strings.Builder, domain string) {
	if field := g.Fields.Field(domain); field != "" {
		b.WriteString(field)
		b.WriteByte(':')
	}
}

func (g *Lucene) bound(s string) string {
	if s == token.Unbounded {
		return s
	}
	return g.escape(s)
}

func (g *Lucene) escape(s string) string {
	return tokenizer.Escape(g.strip(s), g.reserved)
}

func (g *Lucene) strip(s string) string {
	if g.dropped == "" || !strings.ContainsAny(s, g.dropped) {
		return s
	}
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(g.dropped, r) {
			return -1
		}
		return r
	}, s)
}
