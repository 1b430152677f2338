package corpus_reader

import (
	"iter"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/wbrown/corpus_reader/resources"
	"github.com/wbrown/corpus_reader/types"
)

type TokenSequence = types.TokenSequence

// Tokenizer names accepted by ReaderOptions.Tokenizer.
const (
	PlainTokenizer    = "plain"
	T2TTokenizer      = "t2t"
	CSVTokenizer      = "csv"
	TSVTokenizer      = "tsv"
	ColumnTokenizer   = "column"
	TreebankTokenizer = "treebank"
)

var tokenizerAliases = map[string]string{
	"":           PlainTokenizer,
	"plain":      PlainTokenizer,
	"whitespace": PlainTokenizer,
	"tokenized":  PlainTokenizer,
	"t2t":        T2TTokenizer,
	"alnum":      T2TTokenizer,
	"csv":        CSVTokenizer,
	"tsv":        TSVTokenizer,
	"column":     ColumnTokenizer,
	"treebank":   TreebankTokenizer,
}

// ReaderOptions
// Declarative configuration for NewReader. Delimiter and QuoteChar hold
// at most one character; an empty QuoteChar disables quoting. The csv and
// tsv tokenizers fill in their own delimiter and quote when left empty.
type ReaderOptions struct {
	Tokenizer string       `mapstructure:"tokenizer"`
	Encoding  string       `mapstructure:"encoding"`
	Delimiter string       `mapstructure:"delimiter"`
	QuoteChar string       `mapstructure:"quote_char"`
	Column    int          `mapstructure:"column"`
	Mmap      bool         `mapstructure:"mmap"`
	CacheSize int          `mapstructure:"cache_size"`
	Logger    *slog.Logger `mapstructure:"-"`
}

// Reader
// An immutable, configured corpus reader. Each call to Read starts an
// independent pass over the given files; no I/O happens before the
// returned sequence is ranged over.
type Reader struct {
	name      string
	stream    lineStream
	tokenizer Tokenizer
	dialect   Dialect
	column    int
}

func singleRune(value string, fallback rune, invalid error) (rune, error) {
	if value == "" {
		return fallback, nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, errors.Wrapf(invalid, "%q", value)
	}
	r, _ := utf8.DecodeRuneInString(value)
	return r, nil
}

// NewReader builds a Reader from opts, validating every option.
func NewReader(opts ReaderOptions) (*Reader, error) {
	name, ok := tokenizerAliases[strings.ToLower(opts.Tokenizer)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownTokenizer, "%q", opts.Tokenizer)
	}
	encoding, err := resources.ResolveEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}
	logger := loggerOrDefault(opts.Logger)
	reader := &Reader{
		name: name,
		stream: lineStream{
			encoding: encoding,
			mmap:     opts.Mmap,
			logger:   logger,
		},
	}

	switch name {
	case PlainTokenizer:
		reader.tokenizer = WhitespaceTokenizer{}
	case T2TTokenizer:
		reader.tokenizer = NewAlnumGroupTokenizer()
	case TreebankTokenizer:
		if reader.tokenizer, err = newTreebankTokenizer(logger); err != nil {
			return nil, err
		}
	case CSVTokenizer, TSVTokenizer, ColumnTokenizer:
		defaults := TSVDialect
		if name == CSVTokenizer {
			defaults = CSVDialect
		}
		if reader.dialect.Delimiter, err = singleRune(opts.Delimiter,
			defaults.Delimiter, ErrInvalidDelimiter); err != nil {
			return nil, err
		}
		if reader.dialect.QuoteChar, err = singleRune(opts.QuoteChar,
			defaults.QuoteChar, ErrInvalidQuoteChar); err != nil {
			return nil, err
		}
		if opts.Column < 1 {
			return nil, errors.Wrapf(ErrInvalidColumn, "got %d", opts.Column)
		}
		if err = reader.dialect.validate(); err != nil {
			return nil, err
		}
		reader.column = opts.Column
	}

	if opts.CacheSize > 0 && reader.tokenizer != nil {
		if reader.tokenizer, err = NewCachedTokenizer(reader.tokenizer,
			opts.CacheSize); err != nil {
			return nil, err
		}
	}
	return reader, nil
}

// NewReaderFromMap
// Decodes declarative options, such as a parsed JSON config, into
// ReaderOptions and builds the Reader. Unknown keys are rejected.
func NewReaderFromMap(config map[string]any) (*Reader, error) {
	var opts ReaderOptions
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &opts,
	})
	if err != nil {
		return nil, err
	}
	if err = decoder.Decode(config); err != nil {
		return nil, errors.Wrap(err, "decoding reader options")
	}
	return NewReader(opts)
}

// PlainTextReader reads whitespace-tokenized text.
func PlainTextReader(encoding string) (*Reader, error) {
	return NewReader(ReaderOptions{Tokenizer: PlainTokenizer,
		Encoding: encoding})
}

// T2TReader reads text split into alphanumeric and non-alphanumeric runs.
func T2TReader(encoding string) (*Reader, error) {
	return NewReader(ReaderOptions{Tokenizer: T2TTokenizer,
		Encoding: encoding})
}

// ColumnReader
// Reads one column of delimiter-separated text. Pass NoQuote as quoteChar
// to disable quoting.
func ColumnReader(column int, delimiter rune, quoteChar rune,
	encoding string) (*Reader, error) {
	quote := ""
	if quoteChar != NoQuote {
		quote = string(quoteChar)
	}
	return NewReader(ReaderOptions{
		Tokenizer: ColumnTokenizer,
		Encoding:  encoding,
		Delimiter: string(delimiter),
		QuoteChar: quote,
		Column:    column,
	})
}

// CSVReader reads a column of comma-separated, double-quoted text.
func CSVReader(column int) (*Reader, error) {
	return NewReader(ReaderOptions{Tokenizer: CSVTokenizer, Column: column})
}

// TSVReader reads a column of tab-separated text, without quoting.
func TSVReader(column int) (*Reader, error) {
	return NewReader(ReaderOptions{Tokenizer: TSVTokenizer, Column: column})
}

// Name returns the canonical tokenizer name of the reader.
func (reader *Reader) Name() string {
	return reader.name
}

// Encoding returns the resolved name of the encoding used for plain files.
func (reader *Reader) Encoding() string {
	return reader.stream.encoding.Name
}

// Tokenizer returns the line tokenizer, or nil for delimited readers.
func (reader *Reader) Tokenizer() Tokenizer {
	return reader.tokenizer
}

// Lines
// Yields the decoded lines of paths, terminators included, without
// tokenizing them.
func (reader *Reader) Lines(paths []string) iter.Seq2[types.Line, error] {
	return reader.stream.lines(paths)
}

// LineTokenizer
// Returns a function tokenizing one line at a time the way Read does.
// Delimited readers get a fresh column extractor, so the column-count
// check runs across the lines given to one returned function.
func (reader *Reader) LineTokenizer() func(types.Line) (TokenSequence,
	error) {
	if reader.tokenizer != nil {
		tokenizer := reader.tokenizer
		return func(line types.Line) (TokenSequence, error) {
			return tokenizer.Tokenize(line.Text), nil
		}
	}
	// Construction already validated the dialect and column.
	extractor, _ := NewColumnExtractor(reader.dialect, reader.column,
		reader.stream.logger)
	return extractor.Extract
}

// Read
// Yields one TokenSequence per line of paths. A fatal error is yielded
// once, with a nil sequence, and ends the pass.
func (reader *Reader) Read(paths []string) iter.Seq2[TokenSequence, error] {
	paths = append([]string(nil), paths...)
	return func(yield func(TokenSequence, error) bool) {
		tokenize := reader.LineTokenizer()
		for line, err := range reader.stream.lines(paths) {
			if err != nil {
				yield(nil, err)
				return
			}
			tokens, tokErr := tokenize(line)
			if tokErr != nil {
				yield(nil, tokErr)
				return
			}
			if !yield(tokens, nil) {
				return
			}
		}
	}
}

// TokenSequencesIterator returns the next sequence, or nil at the end.
type TokenSequencesIterator func() (*TokenSequence, error)

// Iterator
// A pull-style view of Read. The caller must call stop when finishing
// early so that the open file is released.
func (reader *Reader) Iterator(paths []string) (
	next TokenSequencesIterator, stop func()) {
	pull, stop := iter.Pull2(reader.Read(paths))
	return func() (*TokenSequence, error) {
		tokens, err, ok := pull()
		if !ok {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &tokens, nil
	}, stop
}
