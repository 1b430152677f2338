package resources

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

const (
	GzipSuffix = ".gz"
	ZstdSuffix = ".zst"
)

const READBUF_SZ = 1024 * 1024

// IsCompressed reports whether path is decompressed transparently on open.
func IsCompressed(path string) bool {
	return strings.HasSuffix(path, GzipSuffix) ||
		strings.HasSuffix(path, ZstdSuffix)
}

// CorpusFile is an open corpus file yielding decompressed bytes.
type CorpusFile struct {
	Path       string
	Size       int64 // On-disk size, before decompression.
	Compressed bool
	Mapped     bool
	reader     io.Reader
	closers    []func() error
	closed     bool
}

func (file *CorpusFile) Read(p []byte) (int, error) {
	return file.reader.Read(p)
}

// Close releases every handle acquired by OpenCorpusFile, innermost first.
func (file *CorpusFile) Close() error {
	var firstErr error
	for idx := len(file.closers) - 1; idx >= 0; idx-- {
		if err := file.closers[idx](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	file.closers = nil
	file.closed = true
	return firstErr
}

// Closed reports whether Close has been called.
func (file *CorpusFile) Closed() bool {
	return file.closed
}

// OpenCorpusFile
// Opens path for reading. Files ending in GzipSuffix or ZstdSuffix are
// decompressed on the fly. Uncompressed files are memory-mapped when
// useMmap is set, and read through a buffered reader otherwise.
func OpenCorpusFile(path string, useMmap bool) (*CorpusFile, error) {
	handle, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	stat, err := handle.Stat()
	if err != nil {
		handle.Close()
		return nil, err
	}
	if stat.IsDir() {
		handle.Close()
		return nil, errors.Errorf("%s is a directory", path)
	}
	file := &CorpusFile{
		Path:    path,
		Size:    stat.Size(),
		closers: []func() error{handle.Close},
	}

	switch {
	case strings.HasSuffix(path, GzipSuffix):
		gzReader, gzErr := gzip.NewReader(
			bufio.NewReaderSize(handle, READBUF_SZ))
		if gzErr != nil {
			file.Close()
			return nil, errors.Wrapf(gzErr, "opening gzip stream %s", path)
		}
		file.Compressed = true
		file.reader = gzReader
		file.closers = append(file.closers, gzReader.Close)
	case strings.HasSuffix(path, ZstdSuffix):
		zstdReader, zstdErr := zstd.NewReader(
			bufio.NewReaderSize(handle, READBUF_SZ),
			zstd.WithDecoderConcurrency(1))
		if zstdErr != nil {
			file.Close()
			return nil, errors.Wrapf(zstdErr, "opening zstd stream %s",
				path)
		}
		file.Compressed = true
		file.reader = zstdReader
		file.closers = append(file.closers, func() error {
			zstdReader.Close()
			return nil
		})
	case useMmap && stat.Size() > 0:
		mapped, unmap, mapErr := readMmap(handle)
		if mapErr != nil {
			file.Close()
			return nil, errors.Wrapf(mapErr, "mapping %s", path)
		}
		file.Mapped = true
		file.reader = bytes.NewReader(mapped)
		file.closers = append(file.closers, unmap)
	default:
		file.reader = bufio.NewReaderSize(handle, READBUF_SZ)
	}
	return file, nil
}
