package generator

import (
	"strings"

	"github.com/nlstn/go-galach/internal/syntax"
	"github.com/nlstn/go-galach/internal/token"
	"github.com/nlstn/go-galach/internal/tokenizer"
)

// Native renders a tree back into galach syntax. The output is normalized:
// discarded tokens are gone, clauses are separated by a single space and
// term values are escaped again, so parsing it yields no corrections.
type Native struct {
	// WordEscapes lists the characters escaped inside words. It defaults to
	// the full syntax set and should match the grammar the output is
	// parsed with.
	WordEscapes string
}

// Generate implements Generator. It never fails.
func (g Native) Generate(tree *syntax.SyntaxTree) (string, error) {
	var b strings.Builder
	g.write(&b, tree.Root)
	return b.String(), nil
}

// Render returns the native form of a single node.
func (g Native) Render(n syntax.Node) string {
	var b strings.Builder
	g.write(&b, n)
	return b.String()
}

func (g Native) write(b *strings.Builder, n syntax.Node) {
	switch n := n.(type) {
	case *syntax.Query:
		g.writeList(b, n.Nodes)
	case *syntax.Group:
		if n.TokenLeft != nil {
			b.WriteString(n.TokenLeft.Lexeme)
		} else {
			b.WriteByte('(')
		}
		g.writeList(b, n.Nodes)
		b.WriteByte(')')
	case *syntax.LogicalAnd:
		g.write(b, n.Left)
		b.WriteByte(' ')
		b.WriteString(n.Token.Lexeme)
		b.WriteByte(' ')
		g.write(b, n.Right)
	case *syntax.LogicalOr:
		g.write(b, n.Left)
		b.WriteByte(' ')
		b.WriteString(n.Token.Lexeme)
		b.WriteByte(' ')
		g.write(b, n.Right)
	case *syntax.LogicalNot:
		b.WriteString(n.Token.Lexeme)
		if n.Token.Type == token.TypeLogicalNot {
			b.WriteByte(' ')
			g.write(b, n.Operand)
			return
		}
		// "!" directly before keyword NOT would be dropped when parsed again.
		if inner, ok := n.Operand.(*syntax.LogicalNot); ok && inner.Token.Type == token.TypeLogicalNot {
			b.WriteByte('(')
			g.write(b, inner)
			b.WriteByte(')')
			return
		}
		g.write(b, n.Operand)
	case *syntax.Mandatory:
		b.WriteString(n.Token.Lexeme)
		g.write(b, n.Operand)
	case *syntax.Prohibited:
		b.WriteString(n.Token.Lexeme)
		g.write(b, n.Operand)
	case *syntax.Term:
		g.writeTerm(b, n.Token)
	}
}

func (g Native) writeList(b *strings.Builder, nodes []syntax.Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		g.write(b, n)
	}
}

func (g Native) writeTerm(b *strings.Builder, tok *token.Token) {
	escapes := g.WordEscapes
	if escapes == "" {
		escapes = tokenizer.FullWordEscapes
	}

	switch v := tok.Value.(type) {
	case token.Word:
		writeDomain(b, v.Domain)
		b.WriteString(tokenizer.Escape(v.Word, escapes))
	case token.Phrase:
		writeDomain(b, v.Domain)
		b.WriteString(v.Quote)
		b.WriteString(tokenizer.Escape(v.Phrase, tokenizer.PhraseEscapes(v.Quote)))
		b.WriteString(v.Quote)
	case token.Tag:
		b.WriteString(v.Marker)
		b.WriteString(v.Tag)
	case token.User:
		b.WriteString(v.Marker)
		b.WriteString(v.User)
	case token.Range:
		writeDomain(b, v.Domain)
		b.WriteString(v.StartSymbol)
		b.WriteString(v.From)
		b.WriteString(" TO ")
		b.WriteString(v.To)
		b.WriteString(v.EndSymbol)
	default:
		b.WriteString(tok.Lexeme)
	}
}

func writeDomain(b *strings.Builder, domain string) {
	if domain != "" {
		b.WriteString(domain)
		b.WriteByte(':')
	}
}
