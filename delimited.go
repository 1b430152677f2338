package corpus_reader

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/wbrown/corpus_reader/types"
)

// NoQuote disables quoting in a Dialect.
const NoQuote rune = -1

// Dialect describes how a line is split into fields.
//
// When QuoteChar is set, a field that starts with it runs until the
// matching quote, may contain the delimiter, and writes a doubled quote as
// a literal one. Spaces at the start of a field are always skipped.
type Dialect struct {
	Delimiter rune
	QuoteChar rune
}

var (
	CSVDialect = Dialect{Delimiter: ',', QuoteChar: '"'}
	TSVDialect = Dialect{Delimiter: '\t', QuoteChar: NoQuote}
)

func (dialect Dialect) validate() error {
	if dialect.Delimiter < 0 || !utf8.ValidRune(dialect.Delimiter) ||
		dialect.Delimiter == '\n' || dialect.Delimiter == '\r' {
		return errors.Wrapf(ErrInvalidDelimiter, "%q", dialect.Delimiter)
	}
	if dialect.QuoteChar == NoQuote {
		return nil
	}
	if !utf8.ValidRune(dialect.QuoteChar) ||
		dialect.QuoteChar == dialect.Delimiter ||
		dialect.QuoteChar == '\n' || dialect.QuoteChar == '\r' {
		return errors.Wrapf(ErrInvalidQuoteChar, "%q", dialect.QuoteChar)
	}
	return nil
}

const (
	startField = iota
	inField
	inQuotedField
	quoteInQuotedField
)

// ParseRecord
// Splits text into fields. Empty text has no fields. An unquoted `\r` or
// `\n` may only be followed by more line terminators; anything else after
// it fails with ErrNewlineInField. Input that ends inside a quoted field
// fails with ErrUnterminatedQuote.
func (dialect Dialect) ParseRecord(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	quoting := dialect.QuoteChar != NoQuote
	fields := make([]string, 0, 8)
	var field strings.Builder
	saveField := func() {
		fields = append(fields, field.String())
		field.Reset()
	}

	endRecord := func(pos int) ([]string, error) {
		if strings.TrimLeft(text[pos+1:], "\r\n") != "" {
			return nil, &ParseError{Column: len(fields) + 1,
				Err: ErrNewlineInField}
		}
		if pos == 0 {
			return nil, nil
		}
		saveField()
		return fields, nil
	}

	state := startField
	for pos, r := range text {
		switch state {
		case startField:
			switch {
			case r == '\n' || r == '\r':
				return endRecord(pos)
			case quoting && r == dialect.QuoteChar:
				state = inQuotedField
			case r == ' ':
			case r == dialect.Delimiter:
				saveField()
			default:
				field.WriteRune(r)
				state = inField
			}
		case inField:
			switch {
			case r == '\n' || r == '\r':
				return endRecord(pos)
			case r == dialect.Delimiter:
				saveField()
				state = startField
			default:
				field.WriteRune(r)
			}
		case inQuotedField:
			if r == dialect.QuoteChar {
				state = quoteInQuotedField
			} else {
				field.WriteRune(r)
			}
		case quoteInQuotedField:
			switch {
			case r == dialect.QuoteChar:
				// Doubled quote.
				field.WriteRune(r)
				state = inQuotedField
			case r == dialect.Delimiter:
				saveField()
				state = startField
			case r == '\n' || r == '\r':
				return endRecord(pos)
			default:
				field.WriteRune(r)
				state = inField
			}
		}
	}
	if state == inQuotedField {
		return nil, &ParseError{Column: len(fields) + 1,
			Err: ErrUnterminatedQuote}
	}
	saveField()
	return fields, nil
}

// ColumnExtractor
// Pulls one 1-based column out of each delimited line and splits it on
// whitespace. It remembers the column count of the first non-blank record
// and warns about later records that differ. One extractor serves one
// pass over a file list.
type ColumnExtractor struct {
	dialect  Dialect
	column   int
	logger   *slog.Logger
	expected int
}

func NewColumnExtractor(dialect Dialect, column int,
	logger *slog.Logger) (*ColumnExtractor, error) {
	if column < 1 {
		return nil, errors.Wrapf(ErrInvalidColumn, "got %d", column)
	}
	if err := dialect.validate(); err != nil {
		return nil, err
	}
	return &ColumnExtractor{
		dialect:  dialect,
		column:   column,
		logger:   loggerOrDefault(logger),
		expected: -1,
	}, nil
}

// Extract
// Tokenizes the configured column of line. A record without that column
// yields an empty sequence and a warning. Malformed records return a
// *ParseError.
func (extractor *ColumnExtractor) Extract(
	line types.Line,
) (types.TokenSequence, error) {
	text := strings.TrimFunc(line.Text, IsWhitespace)
	fields, err := extractor.dialect.ParseRecord(text)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			parseErr.Path = line.Path
			parseErr.Line = line.Number
			return nil, parseErr
		}
		return nil, err
	}

	columns := len(fields)
	if columns > 0 {
		if extractor.expected < 0 {
			extractor.expected = columns
		} else if columns != extractor.expected {
			extractor.logger.Warn("A mismatch in number of columns",
				"path", line.Path, "line", line.Number,
				"expected", extractor.expected, "got", columns)
		}
	}
	if columns < extractor.column {
		extractor.logger.Warn("Missing column in the dataset",
			"path", line.Path, "line", line.Number,
			"column", extractor.column, "got", columns)
		return types.TokenSequence{}, nil
	}
	return SplitWhitespace(fields[extractor.column-1]), nil
}
