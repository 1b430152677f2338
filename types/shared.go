package types

import "fmt"

// Token is one unit of text produced by a tokenizer. Tokens from the
// alnum-group tokenizer may be a lone space or a line terminator.
type Token = string

// TokenSequence is the tokenization of a single line. It is empty for a
// blank line or a missing delimited column.
type TokenSequence []Token

// Line is one decoded record of a corpus file.
type Line struct {
	Path   string // The file the line was read from.
	Number int    // 1-based line number within Path.
	Text   string // Decoded text, terminator included.
}

func (line Line) String() string {
	return fmt.Sprintf("%s:%d", line.Path, line.Number)
}
