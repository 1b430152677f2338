package main

/*
#include <stdlib.h>

typedef struct {
	char **tokens;
	size_t len;
} TokenList;

static inline char **allocTokens(size_t n) {
	return (char **)calloc(n == 0 ? 1 : n, sizeof(char *));
}

static inline void setToken(char **tokens, size_t idx, char *token) {
	tokens[idx] = token;
}

static inline char *getToken(char **tokens, size_t idx) {
	return tokens[idx];
}
*/
import "C"
import (
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/wbrown/corpus_reader"
	"github.com/wbrown/corpus_reader/resources"
	"github.com/wbrown/corpus_reader/types"
)

var (
	readersMu sync.Mutex
	readers   = make(map[string]*corpus_reader.Reader)
)

func readerFor(name string) (*corpus_reader.Reader, error) {
	readersMu.Lock()
	defer readersMu.Unlock()
	if reader, ok := readers[name]; ok {
		return reader, nil
	}
	reader, err := corpus_reader.NewReader(corpus_reader.ReaderOptions{
		Tokenizer: name,
		Column:    1,
		CacheSize: corpus_reader.TOKEN_LRU_SZ,
	})
	if err != nil {
		return nil, err
	}
	readers[name] = reader
	return reader, nil
}

// initReader accepts a reader name as a C string, such as "t2t" or "csv",
// and builds that reader if it is not in the global readers map yet.
// Delimited readers extract their first column.
//
//export initReader
func initReader(name *C.char) bool {
	_, err := readerFor(C.GoString(name))
	return err == nil
}

func toTokenList(tokens types.TokenSequence) C.TokenList {
	arr := C.allocTokens(C.size_t(len(tokens)))
	for idx, token := range tokens {
		C.setToken(arr, C.size_t(idx), C.CString(token))
	}
	return C.TokenList{tokens: arr, len: C.size_t(len(tokens))}
}

// tokenizeLine tokenizes one line of text with the named reader, and
// returns a TokenList of malloc'ed C strings. A failed line, or an unknown
// reader, gives a list with a NULL tokens pointer.
//
//export tokenizeLine
func tokenizeLine(name *C.char, str *C.char) C.TokenList {
	reader, err := readerFor(C.GoString(name))
	if err != nil {
		return C.TokenList{}
	}
	tokens, err := reader.LineTokenizer()(types.Line{
		Path: "<c>", Number: 1, Text: C.GoString(str),
	})
	if err != nil {
		return C.TokenList{}
	}
	return toTokenList(tokens)
}

// tokenizeBuffer tokenizes every line of a buffer, and returns all of the
// tokens flattened into one TokenList.
//
//export tokenizeBuffer
func tokenizeBuffer(name *C.char, buf *C.char, sz C.size_t) C.TokenList {
	reader, err := readerFor(C.GoString(name))
	if err != nil {
		return C.TokenList{}
	}
	text := C.GoStringN(buf, C.int(sz))
	tokenize := reader.LineTokenizer()
	all := make(types.TokenSequence, 0)
	scanner := resources.NewLineScanner(strings.NewReader(text), true)
	for number := 1; scanner.Scan(); number++ {
		tokens, tokErr := tokenize(types.Line{
			Path: "<c>", Number: number, Text: scanner.Text(),
		})
		if tokErr != nil {
			return C.TokenList{}
		}
		all = append(all, tokens...)
	}
	return toTokenList(all)
}

// freeTokenList releases a TokenList returned by tokenizeLine or
// tokenizeBuffer.
//
//export freeTokenList
func freeTokenList(list C.TokenList) {
	if list.tokens == nil {
		return
	}
	for idx := C.size_t(0); idx < list.len; idx++ {
		C.free(unsafe.Pointer(C.getToken(list.tokens, idx)))
	}
	C.free(unsafe.Pointer(list.tokens))
}

// goTokens copies a TokenList back into Go memory.
func goTokens(list C.TokenList) types.TokenSequence {
	tokens := make(types.TokenSequence, 0, int(list.len))
	for idx := C.size_t(0); idx < list.len; idx++ {
		tokens = append(tokens, C.GoString(C.getToken(list.tokens, idx)))
	}
	return tokens
}

// testBuffer tests the C interface to the readers, and is here rather than
// in the test package as the test package is incompatible with CGo.
func testBuffer(name string, buf []byte) (time.Duration, uint64) {
	nameC := C.CString(name)
	defer C.free(unsafe.Pointer(nameC))
	corpusBuff := (*C.char)(C.CBytes(buf))
	defer C.free(unsafe.Pointer(corpusBuff))
	start := time.Now()
	tokens := tokenizeBuffer(nameC, corpusBuff, C.size_t(len(buf)))
	duration := time.Since(start)
	count := uint64(tokens.len)
	freeTokenList(tokens)
	return duration, count
}

// wrapTokenizeLine is a wrapper around tokenizeLine that simulates a C call
// from golang.
func wrapTokenizeLine(name string, line string) (types.TokenSequence, bool) {
	nameC := C.CString(name)
	defer C.free(unsafe.Pointer(nameC))
	lineC := C.CString(line)
	defer C.free(unsafe.Pointer(lineC))
	list := tokenizeLine(nameC, lineC)
	defer freeTokenList(list)
	if list.tokens == nil {
		return nil, false
	}
	return goTokens(list), true
}

// wrapInitReader is a wrapper around initReader that simulates a C call
// from golang.
func wrapInitReader(name string) bool {
	nameC := C.CString(name)
	defer C.free(unsafe.Pointer(nameC))
	return initReader(nameC)
}

func main() {}
