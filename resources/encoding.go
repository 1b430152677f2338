package resources

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const DefaultEncoding = "utf-8"

// CompressedEncoding is the encoding every compressed file is decoded
// with, whatever encoding the caller asked for. Existing corpora were
// produced under this rule, so it is kept as is.
const CompressedEncoding = "utf-8"

var (
	ErrUnknownEncoding = errors.New("unknown text encoding")
	ErrDecode          = errors.New("invalid byte sequence for encoding")
)

const replacementChar = "\uFFFD"

var replacementUTF8 = []byte(replacementChar)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Names accepted on top of the IANA and WHATWG registries. latin-1 must
// not resolve through htmlindex, which maps it to windows-1252.
var encodingAliases = map[string]encoding.Encoding{
	"utf-8":      unicode.UTF8,
	"utf8":       unicode.UTF8,
	"utf-8-sig":  unicode.UTF8BOM,
	"utf8-sig":   unicode.UTF8BOM,
	"latin-1":    charmap.ISO8859_1,
	"latin1":     charmap.ISO8859_1,
	"iso-8859-1": charmap.ISO8859_1,
	"l1":         charmap.ISO8859_1,
	"utf-16":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"utf-16-le":  unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16-be":  unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// TextEncoding is a resolved text encoding.
type TextEncoding struct {
	Name     string
	Encoding encoding.Encoding
}

func encodingNameCandidates(name string) []string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if lowered == "" {
		return []string{DefaultEncoding}
	}
	hyphenated := strings.ReplaceAll(lowered, "_", "-")
	if hyphenated == lowered {
		return []string{lowered}
	}
	return []string{lowered, hyphenated}
}

// ResolveEncoding
// Looks up an encoding by name. Aliases are tried first, then the IANA
// registry, then the WHATWG labels. Underscores may stand in for hyphens,
// and an empty name yields DefaultEncoding.
func ResolveEncoding(name string) (TextEncoding, error) {
	candidates := encodingNameCandidates(name)
	for _, candidate := range candidates {
		if enc, ok := encodingAliases[candidate]; ok {
			return TextEncoding{candidate, enc}, nil
		}
	}
	for _, candidate := range candidates {
		if enc, err := ianaindex.IANA.Encoding(candidate); err == nil &&
			enc != nil {
			return TextEncoding{candidate, enc}, nil
		}
		if enc, err := htmlindex.Get(candidate); err == nil {
			return TextEncoding{candidate, enc}, nil
		}
	}
	return TextEncoding{}, errors.Wrapf(ErrUnknownEncoding, "%q", name)
}

// IsUTF8 reports whether the encoding is UTF-8, with or without BOM
// stripping. UTF-8 text is passed through and validated per line
// instead of being transformed.
func (enc TextEncoding) IsUTF8() bool {
	return enc.Encoding == unicode.UTF8 || enc.Encoding == unicode.UTF8BOM
}

// NewDecodingReader
// Wraps r so that it yields UTF-8. UTF-8 input is returned untouched,
// apart from a leading BOM for utf-8-sig.
func (enc TextEncoding) NewDecodingReader(r io.Reader) io.Reader {
	switch enc.Encoding {
	case unicode.UTF8:
		return r
	case unicode.UTF8BOM:
		buffered := bufio.NewReader(r)
		if prefix, err := buffered.Peek(len(utf8BOM)); err == nil &&
			bytes.Equal(prefix, utf8BOM) {
			buffered.Discard(len(utf8BOM))
		}
		return buffered
	default:
		return transform.NewReader(r, enc.newStrictDecoder())
	}
}

// strictDecoder
// Wraps a decoder that replaces invalid input with U+FFFD and fails with
// ErrDecode instead. When the encoding can represent U+FFFD itself, input
// is decoded a rune or so at a time, and a replacement is only accepted if
// the source span it came from holds the encoded U+FFFD.
type strictDecoder struct {
	decoder transform.Transformer
	// U+FFFD in the source encoding, nil if it has no representation.
	replacement []byte
}

func (enc TextEncoding) newStrictDecoder() *strictDecoder {
	return &strictDecoder{
		decoder:     enc.Encoding.NewDecoder(),
		replacement: enc.encodedReplacement(),
	}
}

// encodedReplacement encodes U+FFFD without any BOM the encoder may put
// in front of its first output.
func (enc TextEncoding) encodedReplacement() []byte {
	one, err := enc.Encoding.NewEncoder().String(replacementChar)
	if err != nil {
		return nil
	}
	two, err := enc.Encoding.NewEncoder().String(replacementChar +
		replacementChar)
	if err != nil || len(two) <= len(one) {
		return nil
	}
	return []byte(two[len(one):])
}

func (strict *strictDecoder) Reset() {
	strict.decoder.Reset()
}

func (strict *strictDecoder) Transform(dst, src []byte,
	atEOF bool) (nDst, nSrc int, err error) {
	if strict.replacement == nil {
		nDst, nSrc, err = strict.decoder.Transform(dst, src, atEOF)
		if idx := bytes.Index(dst[:nDst], replacementUTF8); idx >= 0 {
			return idx, nSrc, ErrDecode
		}
		return nDst, nSrc, err
	}

	for {
		end := min(nDst+utf8.UTFMax, len(dst))
		written, read, stepErr := strict.decoder.Transform(dst[nDst:end],
			src[nSrc:], atEOF)
		idx := bytes.Index(dst[nDst:nDst+written], replacementUTF8)
		if idx >= 0 &&
			!bytes.Contains(src[nSrc:nSrc+read], strict.replacement) {
			return nDst + idx, nSrc, ErrDecode
		}
		nDst += written
		nSrc += read
		if stepErr != transform.ErrShortDst || end == len(dst) ||
			(written == 0 && read == 0) {
			return nDst, nSrc, stepErr
		}
	}
}
