package corpus_reader

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"github.com/wbrown/corpus_reader/types"
)

const TOKEN_LRU_SZ = 65536

// CachedTokenizer
// Memoizes another Tokenizer by line text in an ARC cache. Corpora often
// repeat lines (boilerplate, empty records, headers), and repeated lines
// skip tokenization. Returned sequences are copies and may be modified.
type CachedTokenizer struct {
	Tokenizer Tokenizer
	Cache     *lru.ARCCache
	hits      atomic.Int64
	misses    atomic.Int64
	size      int
}

// NewCachedTokenizer wraps tokenizer with a cache of up to size lines.
// A size of zero or less uses TOKEN_LRU_SZ.
func NewCachedTokenizer(tokenizer Tokenizer,
	size int) (*CachedTokenizer, error) {
	if size <= 0 {
		size = TOKEN_LRU_SZ
	}
	cache, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}
	return &CachedTokenizer{Tokenizer: tokenizer, Cache: cache, size: size},
		nil
}

func (cached *CachedTokenizer) Tokenize(line string) types.TokenSequence {
	if hit, ok := cached.Cache.Get(line); ok {
		cached.hits.Add(1)
		return append(types.TokenSequence{}, hit.(types.TokenSequence)...)
	}
	cached.misses.Add(1)
	tokens := cached.Tokenizer.Tokenize(line)
	cached.Cache.Add(line, append(types.TokenSequence{}, tokens...))
	return tokens
}

// CacheStats is a snapshot of a CachedTokenizer's counters.
type CacheStats struct {
	Hits   int64
	Misses int64
	Len    int
	Size   int
}

func (stats CacheStats) HitRate() float64 {
	if stats.Hits+stats.Misses == 0 {
		return 0
	}
	return float64(stats.Hits) / float64(stats.Hits+stats.Misses)
}

func (cached *CachedTokenizer) Stats() CacheStats {
	return CacheStats{
		Hits:   cached.hits.Load(),
		Misses: cached.misses.Load(),
		Len:    cached.Cache.Len(),
		Size:   cached.size,
	}
}
