package corpus_reader

import (
	"strings"
	"unicode"

	"github.com/wbrown/corpus_reader/types"
)

// Tokenizer turns one line into a TokenSequence. Implementations hold no
// per-line state and are safe to share.
type Tokenizer interface {
	Tokenize(line string) types.TokenSequence
}

// IsWhitespace
// Reports whether r separates whitespace tokens: the Unicode White_Space
// runes plus the ASCII information separators U+001C through U+001F.
func IsWhitespace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// SplitWhitespace
// Splits text on runs of whitespace, dropping leading and trailing
// whitespace along with any line terminator. Whitespace-only text gives an
// empty, non-nil sequence.
func SplitWhitespace(text string) types.TokenSequence {
	fields := strings.FieldsFunc(text, IsWhitespace)
	if len(fields) == 0 {
		return types.TokenSequence{}
	}
	return fields
}

// WhitespaceTokenizer splits lines on whitespace runs.
type WhitespaceTokenizer struct{}

func (WhitespaceTokenizer) Tokenize(line string) types.TokenSequence {
	return SplitWhitespace(line)
}
