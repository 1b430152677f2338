package corpus_reader

import (
	"iter"
	"log/slog"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/wbrown/corpus_reader/resources"
	"github.com/wbrown/corpus_reader/types"
)

var compressedEncoding resources.TextEncoding

// openCorpusFile is swapped out by tests that watch file handles.
var openCorpusFile = resources.OpenCorpusFile

func init() {
	var err error
	compressedEncoding, err = resources.ResolveEncoding(
		resources.CompressedEncoding)
	if err != nil {
		panic(err)
	}
}

// lineStream is the configuration of a pass over corpus files.
type lineStream struct {
	encoding resources.TextEncoding
	mmap     bool
	logger   *slog.Logger
}

// lines
// Yields every line of every path, in order. Compressed files are always
// decoded as resources.CompressedEncoding and split on `\n` only; plain
// files use the configured encoding with universal newlines. The first
// error ends the sequence. Each file is closed before the next is opened,
// or as soon as the consumer stops.
func (stream lineStream) lines(paths []string) iter.Seq2[types.Line, error] {
	return func(yield func(types.Line, error) bool) {
		for _, path := range paths {
			if !stream.fileLines(path, yield) {
				return
			}
		}
	}
}

func (stream lineStream) fileLines(path string,
	yield func(types.Line, error) bool) bool {
	file, err := openCorpusFile(path, stream.mmap)
	if err != nil {
		yield(types.Line{Path: path}, errors.Wrap(err, "opening corpus"))
		return false
	}
	defer file.Close()
	stream.logger.Debug("Reading corpus file", "path", path,
		"size", humanize.Bytes(uint64(file.Size)),
		"compressed", file.Compressed, "mmap", file.Mapped)

	encoding := stream.encoding
	if file.Compressed {
		encoding = compressedEncoding
	}
	scanner := resources.NewLineScanner(
		encoding.NewDecodingReader(file), !file.Compressed)

	number := 0
	for scanner.Scan() {
		number++
		line := types.Line{Path: path, Number: number, Text: scanner.Text()}
		if encoding.IsUTF8() && !utf8.ValidString(line.Text) {
			yield(line, errors.Wrapf(ErrDecode, "%s at %s", encoding.Name,
				line))
			return false
		}
		if !yield(line, nil) {
			return false
		}
	}
	if err := scanner.Err(); err != nil {
		line := types.Line{Path: path, Number: number + 1}
		if errors.Is(err, ErrDecode) {
			err = errors.Wrapf(err, "%s at %s", encoding.Name, line)
		} else {
			err = errors.Wrapf(err, "reading %s", path)
		}
		yield(line, err)
		return false
	}
	return true
}
