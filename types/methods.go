package types

import (
	"encoding/json"
	"strings"
)

// Concat
// Joins the tokens with no separator. For alnum-group tokenized lines this
// reconstructs the source line, minus the dropped interior single spaces.
func (tokens TokenSequence) Concat() string {
	return strings.Join(tokens, "")
}

// Join
// Joins the tokens with sep between each.
func (tokens TokenSequence) Join(sep string) string {
	return strings.Join(tokens, sep)
}

func (tokens TokenSequence) Len() int {
	return len(tokens)
}

// Equal reports whether both sequences hold the same tokens in order.
func (tokens TokenSequence) Equal(other TokenSequence) bool {
	if len(tokens) != len(other) {
		return false
	}
	for idx := range tokens {
		if tokens[idx] != other[idx] {
			return false
		}
	}
	return true
}

// ToJSON
// Serializes the sequence as a JSON array. An empty or nil sequence is
// written as `[]`, never `null`.
func (tokens TokenSequence) ToJSON() ([]byte, error) {
	if tokens == nil {
		tokens = TokenSequence{}
	}
	return json.Marshal([]string(tokens))
}

// TokenSequenceFromJSON
// Parses a JSON array of strings, as written by ToJSON.
func TokenSequenceFromJSON(data []byte) (TokenSequence, error) {
	tokens := make(TokenSequence, 0)
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = TokenSequence{}
	}
	return tokens, nil
}
