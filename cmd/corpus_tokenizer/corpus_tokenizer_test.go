package main

import (
	"bytes"
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/corpus_reader"
	"github.com/wbrown/corpus_reader/types"
)

func writeFile(t *testing.T, path string, data string) string {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	return path
}

func makeTree(t *testing.T) string {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.txt"), "b one\nb two\n")
	writeFile(t, filepath.Join(dir, "nested", "a.txt"), "a\n")
	writeFile(t, filepath.Join(dir, "nested", "deeper", "c.csv"), "x,y\n")
	writeFile(t, filepath.Join(dir, "nested", "d.txt.gz"), "")
	writeFile(t, filepath.Join(dir, "ignored.bin"), "\x00\x01")
	return dir
}

func relPaths(t *testing.T, dir string, pathInfos []PathInfo) []string {
	rel := make([]string, 0, len(pathInfos))
	for _, path := range PathsOf(pathInfos) {
		relPath, err := filepath.Rel(dir, path)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(relPath))
	}
	return rel
}

func TestGlobInputs_Directory(t *testing.T) {
	dir := makeTree(t)
	pathInfos, err := GlobInputs([]string{dir}, DefaultExtensions)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.txt", "nested/a.txt", "nested/d.txt.gz",
		"nested/deeper/c.csv"}, relPaths(t, dir, pathInfos))

	pathInfos, err = GlobInputs([]string{dir}, []string{".csv"})
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/deeper/c.csv"},
		relPaths(t, dir, pathInfos))
}

func TestGlobInputs_PatternsAndFiles(t *testing.T) {
	dir := makeTree(t)
	pathInfos, err := GlobInputs([]string{
		filepath.Join(dir, "ignored.bin"),
		filepath.Join(dir, "**", "*.txt"),
	}, DefaultExtensions)
	require.NoError(t, err)
	assert.Equal(t, []string{"ignored.bin", "b.txt", "nested/a.txt"},
		relPaths(t, dir, pathInfos))
	assert.Equal(t, int64(2), pathInfos[0].Size)

	_, err = GlobInputs([]string{filepath.Join(dir, "missing.txt")},
		DefaultExtensions)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = GlobInputs([]string{filepath.Join(dir, "*.nothing")},
		DefaultExtensions)
	assert.Error(t, err)
}

func TestReorderPaths(t *testing.T) {
	pathInfos := func() []PathInfo {
		return []PathInfo{{Path: "b", Size: 1}, {Path: "c", Size: 3},
			{Path: "a", Size: 2}}
	}
	tests := []struct {
		Order    string
		Expected []string
	}{
		{"", []string{"b", "c", "a"}},
		{"none", []string{"b", "c", "a"}},
		{"size_ascending", []string{"b", "a", "c"}},
		{"size_descending", []string{"c", "a", "b"}},
		{"path_ascending", []string{"a", "b", "c"}},
		{"path_descending", []string{"c", "b", "a"}},
	}
	for _, test := range tests {
		infos := pathInfos()
		require.NoError(t, ReorderPaths(infos, test.Order, 1))
		assert.Equal(t, test.Expected, PathsOf(infos), test.Order)
	}

	shuffled := pathInfos()
	require.NoError(t, ReorderPaths(shuffled, "shuffle", 42))
	assert.ElementsMatch(t, []string{"a", "b", "c"}, PathsOf(shuffled))
	again := pathInfos()
	ShufflePathInfos(again, rand.New(rand.NewSource(42)))
	assert.Equal(t, PathsOf(again), PathsOf(shuffled))

	assert.Error(t, ReorderPaths(pathInfos(), "random_walk", 1))
}

func sequencesOf(sequences ...types.TokenSequence) func(
	func(types.TokenSequence, error) bool) {
	return func(yield func(types.TokenSequence, error) bool) {
		for _, tokens := range sequences {
			if !yield(tokens, nil) {
				return
			}
		}
	}
}

func TestWriteSequences(t *testing.T) {
	var out bytes.Buffer
	totals, err := WriteSequences(context.Background(), &out,
		sequencesOf(types.TokenSequence{"a", "b"}, types.TokenSequence{},
			types.TokenSequence{" ", "c\n"}), "jsonl")
	require.NoError(t, err)
	assert.Equal(t, "[\"a\",\"b\"]\n[]\n[\" \",\"c\\n\"]\n", out.String())
	assert.Equal(t, 3, totals.Sequences)
	assert.Equal(t, 4, totals.Tokens)
	assert.Equal(t, int64(out.Len()), totals.Bytes)

	out.Reset()
	_, err = WriteSequences(context.Background(), &out,
		sequencesOf(types.TokenSequence{"a", "b"}, types.TokenSequence{}),
		"text")
	require.NoError(t, err)
	assert.Equal(t, "a b\n\n", out.String())

	_, err = WriteSequences(context.Background(), &out, sequencesOf(), "xml")
	assert.Error(t, err)
}

func TestWriteSequences_ReadError(t *testing.T) {
	failing := func(yield func(types.TokenSequence, error) bool) {
		if !yield(types.TokenSequence{"ok"}, nil) {
			return
		}
		yield(nil, corpus_reader.ErrDecode)
	}
	var out bytes.Buffer
	_, err := WriteSequences(context.Background(), &out, failing, "jsonl")
	assert.True(t, errors.Is(err, corpus_reader.ErrDecode))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteSequences_WriteError(t *testing.T) {
	many := make([]types.TokenSequence, 0)
	for idx := 0; idx < 4*SEQCHAN_SZ; idx++ {
		many = append(many, types.TokenSequence{strings.Repeat("x", 1024)})
	}
	_, err := WriteSequences(context.Background(), failingWriter{},
		sequencesOf(many...), "text")
	assert.EqualError(t, err, "disk full")
}

func TestCollectStats(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, filepath.Join(dir, "one.txt"), "a b\n\nc\n")
	second := writeFile(t, filepath.Join(dir, "two.txt"), "d e f\n")
	pathInfos, err := GlobInputs([]string{first, second}, DefaultExtensions)
	require.NoError(t, err)

	reader, err := corpus_reader.PlainTextReader("utf-8")
	require.NoError(t, err)
	allStats, err := CollectStats(reader, pathInfos)
	require.NoError(t, err)
	assert.Equal(t, []FileStats{
		{Path: first, Size: 7, Lines: 3, Tokens: 3, EmptyLines: 1},
		{Path: second, Size: 6, Lines: 1, Tokens: 3, EmptyLines: 0},
	}, allStats)

	var out bytes.Buffer
	RenderStats(&out, allStats)
	assert.Contains(t, out.String(), "one.txt")
	assert.Contains(t, out.String(), "2 FILES")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, config)

	path := writeFile(t, filepath.Join(dir, "reader.json"),
		`{"tokenizer": "csv", "column": 2}`)
	config, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "csv", config["tokenizer"])
	assert.Equal(t, float64(2), config["column"])

	bad := writeFile(t, filepath.Join(dir, "bad.json"), `{"tokenizer":`)
	_, err = LoadConfig(bad)
	assert.Error(t, err)
}

func TestCLI_Tokenize(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "data.csv"),
		"1,\"x, y\"\n2,z\n")
	config := writeFile(t, filepath.Join(dir, "reader.json"),
		`{"tokenizer": "csv", "column": 1}`)
	output := filepath.Join(dir, "out.jsonl")

	cli := NewCLI()
	cli.SetArgs([]string{"tokenize", "--config", config, "--column", "2",
		"-o", output, input})
	require.NoError(t, cli.ExecuteContext(context.Background()))

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "[\"x,\",\"y\"]\n[\"z\"]\n", string(written))
}
