package tokenizer

import "strings"

// Characters that a backslash escapes inside words.
const (
	FullWordEscapes = `\"+-!():#@ `
	TextWordEscapes = `\"'+-!() `
)

// Unescape drops the backslash in front of every character listed in chars.
// A backslash followed by anything else is kept as is.
func Unescape(s, chars string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && strings.IndexByte(chars, s[i+1]) >= 0 {
			b.WriteByte(s[i+1])
			i++
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Escape is the inverse of Unescape: it puts a backslash in front of every
// character listed in chars.
func Escape(s, chars string) string {
	if !strings.ContainsAny(s, chars) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(chars, s[i]) >= 0 {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// PhraseEscapes returns the characters escaped inside a phrase delimited by
// quote.
func PhraseEscapes(quote string) string {
	return `\` + quote
}
