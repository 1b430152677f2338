package corpus_reader

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/corpus_reader/types"
)

type ParseRecordTest struct {
	Name     string
	Dialect  Dialect
	Input    string
	Expected []string
}

var parseRecordTests = []ParseRecordTest{
	{"empty", CSVDialect, "", nil},
	{"quoted delimiter", CSVDialect, `a,"b,c",d`,
		[]string{"a", "b,c", "d"}},
	{"skip initial space", CSVDialect, "a,  b", []string{"a", "b"}},
	{"space before quote", CSVDialect, `a,  "b, c"`, []string{"a", "b, c"}},
	{"doubled quote", CSVDialect, `"a""b",c`, []string{`a"b`, "c"}},
	{"quote inside unquoted field", CSVDialect, `a"b,c`,
		[]string{`a"b`, "c"}},
	{"text after closing quote", CSVDialect, `"ab"cd,e`,
		[]string{"abcd", "e"}},
	{"trailing delimiter", CSVDialect, "a,", []string{"a", ""}},
	{"lone delimiter", CSVDialect, ",", []string{"", ""}},
	{"whole line quoted", CSVDialect, `"a,b"`, []string{"a,b"}},
	{"empty quoted field", CSVDialect, `"",x`, []string{"", "x"}},
	{"newline inside quotes", CSVDialect, "\"a\nb\",c",
		[]string{"a\nb", "c"}},
	{"trailing terminators", CSVDialect, "a,b\r\n", []string{"a", "b"}},
	{"terminator after quote", CSVDialect, "\"a\"\n", []string{"a"}},
	{"lone terminator", CSVDialect, "\n", nil},
	{"trailing spaces kept", CSVDialect, "a ,b", []string{"a ", "b"}},
	{"tabs unquoted", TSVDialect, "a\t\"b\tc\"",
		[]string{"a", `"b`, `c"`}},
	{"tab skip initial space", TSVDialect, "a\t b", []string{"a", "b"}},
	{"tab keeps inner spaces", TSVDialect, "a b\tc", []string{"a b", "c"}},
	{"custom dialect", Dialect{';', '\''}, "'x;y'; z", []string{"x;y", "z"}},
}

func TestDialect_ParseRecord(t *testing.T) {
	for _, test := range parseRecordTests {
		t.Run(test.Name, func(t *testing.T) {
			fields, err := test.Dialect.ParseRecord(test.Input)
			require.NoError(t, err)
			assert.Equal(t, test.Expected, fields)
		})
	}
}

func TestDialect_ParseRecord_UnterminatedQuote(t *testing.T) {
	for _, input := range []string{`"a`, `a,"b`, `"a""`} {
		_, err := CSVDialect.ParseRecord(input)
		assert.True(t, errors.Is(err, ErrUnterminatedQuote), input)
	}
	_, err := CSVDialect.ParseRecord(`a,"b`)
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Column)

	// Quoting disabled: a lone quote is plain text.
	fields, err := TSVDialect.ParseRecord(`"a`)
	require.NoError(t, err)
	assert.Equal(t, []string{`"a`}, fields)
}

func TestDialect_ParseRecord_NewlineInField(t *testing.T) {
	tests := []struct {
		Input  string
		Column int
	}{
		{"a\rb,c", 1},
		{"x,a\rb c,y", 2},
		{"x,\nb", 2},
		{"\"a\"\rb", 1},
		{"\r\nz", 1},
		{"a\tb\nc", 2},
	}
	for _, test := range tests {
		dialect := CSVDialect
		if strings.Contains(test.Input, "\t") {
			dialect = TSVDialect
		}
		fields, err := dialect.ParseRecord(test.Input)
		assert.Nil(t, fields, "%q", test.Input)
		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), "%q", test.Input)
		assert.True(t, errors.Is(err, ErrNewlineInField), "%q", test.Input)
		assert.Equal(t, test.Column, parseErr.Column, "%q", test.Input)
	}
}

func TestDialect_Validate(t *testing.T) {
	assert.NoError(t, CSVDialect.validate())
	assert.NoError(t, TSVDialect.validate())
	assert.True(t, errors.Is(Dialect{'\n', NoQuote}.validate(),
		ErrInvalidDelimiter))
	assert.True(t, errors.Is(Dialect{NoQuote, NoQuote}.validate(),
		ErrInvalidDelimiter))
	assert.True(t, errors.Is(Dialect{',', ','}.validate(),
		ErrInvalidQuoteChar))
}

func newCapturingLogger() (*slog.Logger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	handler := slog.NewTextHandler(buffer,
		&slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), buffer
}

func countWarnings(buffer *bytes.Buffer) int {
	return strings.Count(buffer.String(), "level=WARN")
}

func TestColumnExtractor_Extract(t *testing.T) {
	logger, logs := newCapturingLogger()
	extractor, err := NewColumnExtractor(CSVDialect, 2, logger)
	require.NoError(t, err)

	tests := []struct {
		Text     string
		Expected types.TokenSequence
		Warnings int
	}{
		{"a,\"b,c\",d\n", types.TokenSequence{"b,c"}, 0},
		{"e, f  g ,h\n", types.TokenSequence{"f", "g"}, 0},
		{"i,j\n", types.TokenSequence{"j"}, 1},
		{"k\n", types.TokenSequence{}, 2},
		{"\n", types.TokenSequence{}, 1},
		{"  l,m,n  \r\n", types.TokenSequence{"m"}, 0},
	}
	for idx, test := range tests {
		logs.Reset()
		line := types.Line{Path: "data.csv", Number: idx + 1, Text: test.Text}
		tokens, err := extractor.Extract(line)
		require.NoError(t, err)
		assert.Equal(t, test.Expected, tokens, "line %d", idx+1)
		assert.Equal(t, test.Warnings, countWarnings(logs), "line %d: %s",
			idx+1, logs.String())
	}
}

func TestColumnExtractor_MissingColumn(t *testing.T) {
	logger, logs := newCapturingLogger()
	extractor, err := NewColumnExtractor(CSVDialect, 5, logger)
	require.NoError(t, err)

	tokens, err := extractor.Extract(types.Line{Path: "data.csv", Number: 1,
		Text: "a,b,c\n"})
	require.NoError(t, err)
	assert.Equal(t, types.TokenSequence{}, tokens)
	assert.Equal(t, 1, countWarnings(logs))
	assert.Contains(t, logs.String(), "column=5")

	tokens, err = extractor.Extract(types.Line{Path: "data.csv", Number: 2,
		Text: "a,b,c,d,e f\n"})
	require.NoError(t, err)
	assert.Equal(t, types.TokenSequence{"e", "f"}, tokens)
}

func TestColumnExtractor_ParseError(t *testing.T) {
	extractor, err := NewColumnExtractor(CSVDialect, 1, nil)
	require.NoError(t, err)
	_, err = extractor.Extract(types.Line{Path: "bad.csv", Number: 7,
		Text: "a,\"b\n"})
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, "bad.csv", parseErr.Path)
	assert.Equal(t, 7, parseErr.Line)
	assert.True(t, errors.Is(err, ErrUnterminatedQuote))
	assert.Equal(t, ErrUnterminatedQuote, errors.Cause(err))
	assert.Contains(t, err.Error(), "bad.csv:7")
}

func TestNewColumnExtractor_Invalid(t *testing.T) {
	_, err := NewColumnExtractor(CSVDialect, 0, nil)
	assert.True(t, errors.Is(err, ErrInvalidColumn))
	_, err = NewColumnExtractor(Dialect{',', ','}, 1, nil)
	assert.True(t, errors.Is(err, ErrInvalidQuoteChar))
}
