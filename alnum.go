package corpus_reader

import (
	"math/bits"
	"sync"
	"unicode"

	"github.com/wbrown/corpus_reader/types"
)

const alnumWords = (unicode.MaxRune + 1 + 63) / 64

// AlphanumericCharset is the set of code points whose general category is
// a letter (L*) or a number (N*). It is a bitset over the whole code space
// and never changes once built.
type AlphanumericCharset struct {
	bits [alnumWords]uint64
}

var (
	alphanumericsOnce sync.Once
	alphanumerics     *AlphanumericCharset
)

// Alphanumerics
// Returns the process-wide AlphanumericCharset, building it on first use.
func Alphanumerics() *AlphanumericCharset {
	alphanumericsOnce.Do(func() {
		alphanumerics = buildAlphanumericCharset()
	})
	return alphanumerics
}

func buildAlphanumericCharset() *AlphanumericCharset {
	charset := &AlphanumericCharset{}
	for _, table := range []*unicode.RangeTable{unicode.Letter,
		unicode.Number} {
		for _, r16 := range table.R16 {
			for r := rune(r16.Lo); r <= rune(r16.Hi); r += rune(r16.Stride) {
				charset.add(r)
			}
		}
		for _, r32 := range table.R32 {
			for r := rune(r32.Lo); r <= rune(r32.Hi); r += rune(r32.Stride) {
				charset.add(r)
			}
		}
	}
	return charset
}

func (charset *AlphanumericCharset) add(r rune) {
	charset.bits[r>>6] |= 1 << (uint(r) & 63)
}

// Contains reports whether r is alphanumeric.
func (charset *AlphanumericCharset) Contains(r rune) bool {
	if r < 0 || r > unicode.MaxRune {
		return false
	}
	return charset.bits[r>>6]&(1<<(uint(r)&63)) != 0
}

// Len returns the number of code points in the set.
func (charset *AlphanumericCharset) Len() int {
	count := 0
	for _, word := range charset.bits {
		count += bits.OnesCount64(word)
	}
	return count
}

// AlnumGroupTokenizer
// Splits a line into maximal runs of alphanumeric and non-alphanumeric
// characters. A run that is exactly one space is dropped unless it opens
// the line, and the last run is always kept, so concatenating the tokens
// gives back the line minus its interior single spaces. The line is
// tokenized as is, terminator included.
type AlnumGroupTokenizer struct {
	charset *AlphanumericCharset
}

func NewAlnumGroupTokenizer() *AlnumGroupTokenizer {
	return &AlnumGroupTokenizer{charset: Alphanumerics()}
}

func (tokenizer *AlnumGroupTokenizer) Tokenize(
	line string,
) types.TokenSequence {
	tokens := make(types.TokenSequence, 0)
	if line == "" {
		return tokens
	}
	charset := tokenizer.charset
	if charset == nil {
		charset = Alphanumerics()
	}

	runStart := 0
	var prevAlnum bool
	for pos, r := range line {
		isAlnum := charset.Contains(r)
		if pos > 0 && isAlnum != prevAlnum {
			token := line[runStart:pos]
			// Drop single spaces, except at the start of the line.
			if token != " " || runStart == 0 {
				tokens = append(tokens, token)
			}
			runStart = pos
		}
		prevAlnum = isAlnum
	}
	// The final run is kept even when it is a single space.
	return append(tokens, line[runStart:])
}
