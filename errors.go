package corpus_reader

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/wbrown/corpus_reader/resources"
)

var (
	ErrUnterminatedQuote = errors.New("unexpected end of data in quoted field")
	ErrNewlineInField    = errors.New("new-line character seen in unquoted field")
	ErrInvalidColumn     = errors.New("column index must be 1 or greater")
	ErrInvalidDelimiter  = errors.New("delimiter must be a single character")
	ErrInvalidQuoteChar  = errors.New("quote character must be a single character")
	ErrUnknownTokenizer  = errors.New("unknown tokenizer")
	ErrDecode            = resources.ErrDecode
	ErrUnknownEncoding   = resources.ErrUnknownEncoding
)

// ParseError reports a malformed delimited record.
type ParseError struct {
	Path   string // File the record came from.
	Line   int    // 1-based line number of the record.
	Column int    // 1-based field the parser was in when it failed.
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: parse error in field %d: %v", e.Path, e.Line,
		e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Cause lets errors.Cause from github.com/pkg/errors reach the sentinel.
func (e *ParseError) Cause() error {
	return e.Err
}
