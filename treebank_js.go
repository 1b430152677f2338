//go:build js || wasip1

package corpus_reader

import (
	"log/slog"

	"github.com/pkg/errors"
)

func newTreebankTokenizer(*slog.Logger) (Tokenizer, error) {
	return nil, errors.New("treebank tokenizer is not implemented")
}
