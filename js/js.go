package main

//go:generate gopherjs build --minify

import (
	"log"

	"github.com/gopherjs/gopherjs/js"
	"github.com/wbrown/corpus_reader"
	"github.com/wbrown/corpus_reader/types"
)

var tokenizers = map[string]corpus_reader.Tokenizer{
	corpus_reader.PlainTokenizer: corpus_reader.WhitespaceTokenizer{},
	corpus_reader.T2TTokenizer:   corpus_reader.NewAlnumGroupTokenizer(),
}

// Tokenize splits text with the named tokenizer, or returns nil when
// there is no such tokenizer in the browser build.
func Tokenize(name string, text string) []string {
	tokenizer, ok := tokenizers[name]
	if !ok {
		return nil
	}
	return tokenizer.Tokenize(text)
}

func Detokenize(tokens []string) string {
	return types.TokenSequence(tokens).Concat()
}

func init() {
	js.Module.Get("exports").Set("tokenize", Tokenize)
	js.Module.Get("exports").Set("detokenize", Detokenize)
	log.Printf("Corpus tokenizers loaded")
}

func main() {

}
