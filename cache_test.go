package corpus_reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/corpus_reader/types"
)

func TestCachedTokenizer(t *testing.T) {
	cached, err := NewCachedTokenizer(NewAlnumGroupTokenizer(), 2)
	require.NoError(t, err)

	first := cached.Tokenize("a,b")
	assert.Equal(t, types.TokenSequence{"a", ",", "b"}, first)
	// Callers own the returned slice.
	first[0] = "mutated"
	assert.Equal(t, types.TokenSequence{"a", ",", "b"}, cached.Tokenize("a,b"))

	cached.Tokenize("c d")
	cached.Tokenize("e f")
	stats := cached.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(3), stats.Misses)
	assert.LessOrEqual(t, stats.Len, 2)
	assert.Equal(t, 2, stats.Size)
	assert.InDelta(t, 0.25, stats.HitRate(), 1e-9)
}

func TestCachedTokenizer_DefaultSize(t *testing.T) {
	cached, err := NewCachedTokenizer(WhitespaceTokenizer{}, 0)
	require.NoError(t, err)
	assert.Equal(t, TOKEN_LRU_SZ, cached.Stats().Size)
	assert.Equal(t, 0.0, cached.Stats().HitRate())
}
