package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/wbrown/corpus_reader"
	"github.com/wbrown/corpus_reader/types"
	"github.com/yargevad/filepathx"
	"golang.org/x/sync/errgroup"
)

const SEQCHAN_SZ = 1024

var DefaultExtensions = []string{".txt", ".csv", ".tsv"}

type PathInfo struct {
	Path    string
	Size    int64
	ModTime time.Time
}

func hasCorpusExtension(path string, extensions []string) bool {
	for _, suffix := range []string{"", ".gz", ".zst"} {
		for _, ext := range extensions {
			if strings.HasSuffix(path, ext+suffix) {
				return true
			}
		}
	}
	return false
}

func hasGlobMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// GlobInputs
// Expands each input into corpus files. Directories are searched
// recursively for files with one of the extensions, optionally followed by
// a compression suffix. Glob patterns, `**` included, are expanded as is.
// Any other input must name an existing file. The expansion of each input
// is sorted by path, and inputs keep their command line order.
func GlobInputs(inputs []string, extensions []string) ([]PathInfo, error) {
	pathInfos := make([]PathInfo, 0)
	for _, input := range inputs {
		var matches []string
		if stat, err := os.Stat(input); err == nil && stat.IsDir() {
			found, globErr := filepathx.Glob(
				strings.TrimRight(input, "/") + "/**/*")
			if globErr != nil {
				return nil, globErr
			}
			for _, match := range found {
				if hasCorpusExtension(match, extensions) {
					matches = append(matches, match)
				}
			}
		} else if hasGlobMeta(input) {
			found, globErr := filepathx.Glob(input)
			if globErr != nil {
				return nil, globErr
			}
			matches = found
		} else if err != nil {
			return nil, err
		} else {
			matches = []string{input}
		}
		sort.Strings(matches)

		for _, match := range matches {
			stat, statErr := os.Stat(match)
			if statErr != nil {
				return nil, statErr
			}
			if stat.IsDir() {
				continue
			}
			pathInfos = append(pathInfos, PathInfo{
				Path:    match,
				Size:    stat.Size(),
				ModTime: stat.ModTime(),
			})
		}
	}
	if len(pathInfos) == 0 {
		return nil, errors.Errorf("no corpus files found in %s",
			strings.Join(inputs, ", "))
	}
	return pathInfos, nil
}

func SortPathInfoBySize(pathInfos []PathInfo, ascending bool) {
	sort.SliceStable(pathInfos, func(i, j int) bool {
		if ascending {
			return pathInfos[i].Size < pathInfos[j].Size
		}
		return pathInfos[i].Size > pathInfos[j].Size
	})
}

func SortPathInfoByPath(pathInfos []PathInfo, ascending bool) {
	sort.SliceStable(pathInfos, func(i, j int) bool {
		if ascending {
			return pathInfos[i].Path < pathInfos[j].Path
		}
		return pathInfos[i].Path > pathInfos[j].Path
	})
}

func ShufflePathInfos(pathInfos []PathInfo, rng *rand.Rand) {
	for i := len(pathInfos) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		pathInfos[i], pathInfos[j] = pathInfos[j], pathInfos[i]
	}
}

// ReorderPaths
// Applies a reorder mode: size_ascending, size_descending, path_ascending,
// path_descending, shuffle, or none/"" to keep the input order.
func ReorderPaths(pathInfos []PathInfo, order string, seed int64) error {
	switch order {
	case "", "none":
	case "size_ascending":
		SortPathInfoBySize(pathInfos, true)
	case "size_descending":
		SortPathInfoBySize(pathInfos, false)
	case "path_ascending":
		SortPathInfoByPath(pathInfos, true)
	case "path_descending":
		SortPathInfoByPath(pathInfos, false)
	case "shuffle":
		ShufflePathInfos(pathInfos, rand.New(rand.NewSource(seed)))
	default:
		return errors.Errorf("invalid reorder mode: %s", order)
	}
	return nil
}

func PathsOf(pathInfos []PathInfo) []string {
	paths := make([]string, 0, len(pathInfos))
	for _, pathInfo := range pathInfos {
		paths = append(paths, pathInfo.Path)
	}
	return paths
}

// EncodeSequence formats one TokenSequence for output: a JSON array for
// "jsonl", tokens joined by single spaces for "text".
func EncodeSequence(tokens types.TokenSequence, format string) ([]byte,
	error) {
	switch format {
	case "jsonl":
		return tokens.ToJSON()
	case "text":
		return []byte(tokens.Join(" ")), nil
	default:
		return nil, errors.Errorf("invalid output format: %s", format)
	}
}

// WriteTotals counts what WriteSequences wrote.
type WriteTotals struct {
	Sequences int
	Tokens    int
	Bytes     int64
}

// WriteSequences
// Drains sequences into out, one per line. Reading and tokenizing run in
// their own goroutine so that output writes overlap with input I/O. The
// first error from either side stops both.
func WriteSequences(ctx context.Context, out io.Writer,
	sequences iter.Seq2[types.TokenSequence, error],
	format string) (WriteTotals, error) {
	if _, err := EncodeSequence(nil, format); err != nil {
		return WriteTotals{}, err
	}
	group, ctx := errgroup.WithContext(ctx)
	encoded := make(chan []byte, SEQCHAN_SZ)
	var totals WriteTotals

	group.Go(func() error {
		defer close(encoded)
		for tokens, err := range sequences {
			if err != nil {
				return err
			}
			line, encodeErr := EncodeSequence(tokens, format)
			if encodeErr != nil {
				return encodeErr
			}
			totals.Sequences++
			totals.Tokens += len(tokens)
			select {
			case encoded <- line:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	group.Go(func() error {
		writer := bufio.NewWriterSize(out, 1024*1024)
		for line := range encoded {
			written, err := writer.Write(line)
			if err == nil {
				err = writer.WriteByte('\n')
				written++
			}
			if err != nil {
				return err
			}
			totals.Bytes += int64(written)
		}
		return writer.Flush()
	})

	err := group.Wait()
	return totals, err
}

// FileStats summarizes one corpus file as read by a Reader.
type FileStats struct {
	Path       string
	Size       int64
	Lines      int
	Tokens     int
	EmptyLines int
}

// CollectStats reads each path on its own and counts lines and tokens.
func CollectStats(reader *corpus_reader.Reader,
	pathInfos []PathInfo) ([]FileStats, error) {
	allStats := make([]FileStats, 0, len(pathInfos))
	for _, pathInfo := range pathInfos {
		stats := FileStats{Path: pathInfo.Path, Size: pathInfo.Size}
		for tokens, err := range reader.Read([]string{pathInfo.Path}) {
			if err != nil {
				return allStats, err
			}
			stats.Lines++
			stats.Tokens += len(tokens)
			if len(tokens) == 0 {
				stats.EmptyLines++
			}
		}
		allStats = append(allStats, stats)
	}
	return allStats, nil
}

// RenderStats writes a table of per-file stats with a totals row.
func RenderStats(out io.Writer, allStats []FileStats) {
	var data [][]string
	var total FileStats
	for _, stats := range allStats {
		data = append(data, []string{
			stats.Path,
			humanize.Bytes(uint64(stats.Size)),
			humanize.Comma(int64(stats.Lines)),
			humanize.Comma(int64(stats.Tokens)),
			humanize.Comma(int64(stats.EmptyLines)),
		})
		total.Size += stats.Size
		total.Lines += stats.Lines
		total.Tokens += stats.Tokens
		total.EmptyLines += stats.EmptyLines
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"PATH", "SIZE", "LINES", "TOKENS", "EMPTY"})
	table.SetFooter([]string{
		fmt.Sprintf("%d files", len(allStats)),
		humanize.Bytes(uint64(total.Size)),
		humanize.Comma(int64(total.Lines)),
		humanize.Comma(int64(total.Tokens)),
		humanize.Comma(int64(total.EmptyLines)),
	})
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.AppendBulk(data)
	table.Render()
}

// LoadConfig reads a JSON object of reader options.
func LoadConfig(path string) (map[string]any, error) {
	config := make(map[string]any)
	if path == "" {
		return config, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err = json.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return config, nil
}
