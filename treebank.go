//go:build !wasip1 && !js

package corpus_reader

import (
	"log/slog"

	"github.com/jdkato/prose/v2"
	"github.com/wbrown/corpus_reader/types"
)

// treebankTokenizer
// Splits a line into Penn Treebank style word tokens: punctuation and
// contractions become tokens of their own. Sentence segmentation, tagging
// and entity extraction are turned off.
type treebankTokenizer struct {
	logger   *slog.Logger
	tokenize func(line string) (types.TokenSequence, error)
}

func newTreebankTokenizer(logger *slog.Logger) (Tokenizer, error) {
	return &treebankTokenizer{
		logger:   loggerOrDefault(logger),
		tokenize: proseTokens,
	}, nil
}

func proseTokens(line string) (types.TokenSequence, error) {
	doc, err := prose.NewDocument(
		line,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, err
	}
	tokens := make(types.TokenSequence, 0)
	for _, token := range doc.Tokens() {
		tokens = append(tokens, token.Text)
	}
	return tokens, nil
}

func (tokenizer *treebankTokenizer) Tokenize(line string) types.TokenSequence {
	tokens, err := tokenizer.tokenize(line)
	if err != nil {
		tokenizer.logger.Warn(
			"Treebank tokenization failed, splitting on whitespace",
			"error", err)
		return SplitWhitespace(line)
	}
	return tokens
}
