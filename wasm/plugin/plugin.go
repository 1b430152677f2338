// Package plugin holds the host-independent half of the wasm plugin:
// msgpack payloads in, msgpack payloads or text out.
package plugin

import (
	"github.com/pkg/errors"
	msgpack "github.com/vmihailenco/msgpack/v5"
	"github.com/wbrown/corpus_reader"
	"github.com/wbrown/corpus_reader/types"
)

// Alnum-group tokenization unless a request names another reader
var tokenizer corpus_reader.Tokenizer = corpus_reader.NewAlnumGroupTokenizer()

type TokenizeResult = []string

// TokenizeRequest is the msgpack input of TokenizeWith.
type TokenizeRequest struct {
	Reader    string `msgpack:"reader"`
	Column    int    `msgpack:"column"`
	Delimiter string `msgpack:"delimiter"`
	Text      string `msgpack:"text"`
}

// Tokenize splits text into alnum-group tokens and returns them as a
// msgpack array.
func Tokenize(text string) ([]byte, error) {
	tokens := TokenizeResult(tokenizer.Tokenize(text))
	return msgpack.Marshal(&tokens)
}

// TokenizeWith decodes a msgpack TokenizeRequest and tokenizes its text
// with the named reader.
func TokenizeWith(payload []byte) ([]byte, error) {
	var request TokenizeRequest
	if err := msgpack.Unmarshal(payload, &request); err != nil {
		return nil, errors.Wrap(err, "decoding tokenize request")
	}
	tokens, err := TokenizeRequestText(request)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(&tokens)
}

func TokenizeRequestText(request TokenizeRequest) (TokenizeResult, error) {
	column := request.Column
	if column == 0 {
		column = 1
	}
	reader, err := corpus_reader.NewReader(corpus_reader.ReaderOptions{
		Tokenizer: request.Reader,
		Column:    column,
		Delimiter: request.Delimiter,
	})
	if err != nil {
		return nil, err
	}
	tokens, err := reader.LineTokenizer()(types.Line{
		Path: "<wasm>", Number: 1, Text: request.Text,
	})
	if err != nil {
		return nil, err
	}
	return TokenizeResult(tokens), nil
}

// Detokenize concatenates a msgpack array of tokens back into text.
func Detokenize(payload []byte) ([]byte, error) {
	var tokens TokenizeResult
	if err := msgpack.Unmarshal(payload, &tokens); err != nil {
		return nil, errors.Wrap(err, "decoding token array")
	}
	return []byte(types.TokenSequence(tokens).Concat()), nil
}
