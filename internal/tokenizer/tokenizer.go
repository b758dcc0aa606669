// Package tokenizer splits galach query strings into token sequences.
//
// The tokenizer itself holds no grammar knowledge: classification, payload
// extraction and unescaping belong to the configured Extractor.
package tokenizer

import "github.com/nlstn/go-galach/internal/token"

// Tokenizer turns source strings into token sequences using an Extractor.
// It keeps no state between calls and is safe for concurrent use as long as
// its extractor is.
type Tokenizer struct {
	extractor Extractor
}

// New creates a Tokenizer. A nil extractor selects the full syntax.
func New(extractor Extractor) *Tokenizer {
	if extractor == nil {
		extractor = Full()
	}
	return &Tokenizer{extractor: extractor}
}

// Tokenize partitions source into tokens. Concatenating the lexemes of the
// result always reproduces source.
func (t *Tokenizer) Tokenize(source string) *token.Sequence {
	tokens := make([]*token.Token, 0, len(source)/2+1)
	for position := 0; position < len(source); {
		tok := t.extractor.Extract(source, position)
		if tok == nil || tok.Position != position || len(tok.Lexeme) == 0 ||
			len(tok.Lexeme) > len(source)-position || source[position:tok.End()] != tok.Lexeme {
			// A misbehaving extractor must not stall or break the tiling.
			tok = Bailout(source, position)
		}
		tokens = append(tokens, tok)
		position += len(tok.Lexeme)
	}
	return &token.Sequence{Tokens: tokens, Source: source}
}
