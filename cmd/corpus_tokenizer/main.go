package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/wbrown/corpus_reader"
)

// readerFlags maps command line flags onto ReaderOptions keys.
var readerFlags = map[string]string{
	"reader":    "tokenizer",
	"encoding":  "encoding",
	"delimiter": "delimiter",
	"quote":     "quote_char",
	"column":    "column",
	"mmap":      "mmap",
	"cache":     "cache_size",
}

func addReaderFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("reader", corpus_reader.PlainTokenizer,
		"reader to use [plain, t2t, csv, tsv, column, treebank]")
	flags.String("encoding", "utf-8",
		"text encoding of uncompressed inputs")
	flags.String("delimiter", "", "field delimiter for column readers")
	flags.String("quote", "", "quote character for column readers, "+
		"empty to disable quoting")
	flags.Int("column", 1, "1-based column to read with column readers")
	flags.Bool("mmap", false, "memory-map uncompressed inputs")
	flags.Int("cache", 0, "tokenization cache size in lines, 0 to disable")
	flags.String("config", "", "JSON file with reader options; flags "+
		"given on the command line take precedence")
	flags.String("reorder", "", "reorder input files [size_ascending, "+
		"size_descending, path_ascending, path_descending, shuffle, none]")
	flags.Int64("seed", 0, "random seed for -reorder shuffle, 0 for time")
	flags.StringSlice("ext", DefaultExtensions,
		"file extensions searched for in input directories")
	flags.BoolP("verbose", "v", false, "log debug messages")
}

// buildReader merges the config file with explicitly set flags.
func buildReader(cmd *cobra.Command) (*corpus_reader.Reader, error) {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	for flagName, key := range readerFlags {
		flag := flags.Lookup(flagName)
		if _, fromConfig := config[key]; fromConfig && !flag.Changed {
			continue
		}
		switch flag.Value.Type() {
		case "int":
			config[key], _ = flags.GetInt(flagName)
		case "bool":
			config[key], _ = flags.GetBool(flagName)
		default:
			config[key] = flag.Value.String()
		}
	}
	// Column readers reject an explicit empty delimiter.
	if delimiter, ok := config["delimiter"].(string); ok && delimiter == "" {
		delete(config, "delimiter")
	}
	if delimiter, ok := config["delimiter"].(string); ok &&
		delimiter == `\t` {
		config["delimiter"] = "\t"
	}
	return corpus_reader.NewReaderFromMap(config)
}

func setupLogging(cmd *cobra.Command) {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	corpus_reader.SetLogger(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: level})))
}

func inputPaths(cmd *cobra.Command, args []string) ([]PathInfo, error) {
	extensions, _ := cmd.Flags().GetStringSlice("ext")
	pathInfos, err := GlobInputs(args, extensions)
	if err != nil {
		return nil, err
	}
	reorder, _ := cmd.Flags().GetString("reorder")
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if err = ReorderPaths(pathInfos, reorder, seed); err != nil {
		return nil, err
	}
	return pathInfos, nil
}

func TokenizeHandler(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	reader, err := buildReader(cmd)
	if err != nil {
		return err
	}
	pathInfos, err := inputPaths(cmd, args)
	if err != nil {
		return err
	}
	outputPath, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	log.Printf("Reader: %s (%s)", reader.Name(), reader.Encoding())
	log.Printf("Inputs: %d files", len(pathInfos))
	log.Printf("Output: %s (%s)", outputPath, format)

	out := os.Stdout
	if outputPath != "-" {
		if out, err = os.Create(outputPath); err != nil {
			return err
		}
		defer out.Close()
	}

	begin := time.Now()
	totals, err := WriteSequences(cmd.Context(), out,
		reader.Read(PathsOf(pathInfos)), format)
	if err != nil {
		return err
	}
	duration := time.Since(begin).Seconds()
	log.Printf("%s lines, %s tokens, %s written in %0.2fs, %0.2f tokens/s",
		humanize.Comma(int64(totals.Sequences)),
		humanize.Comma(int64(totals.Tokens)),
		humanize.Bytes(uint64(totals.Bytes)), duration,
		float64(totals.Tokens)/duration)
	if cached, ok := reader.Tokenizer().(*corpus_reader.CachedTokenizer); ok {
		stats := cached.Stats()
		log.Printf("Cache: %d hits, %d misses, %0.2f%% hit rate, %d/%d",
			stats.Hits, stats.Misses, 100*stats.HitRate(), stats.Len,
			stats.Size)
	}
	return nil
}

func StatsHandler(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)
	reader, err := buildReader(cmd)
	if err != nil {
		return err
	}
	pathInfos, err := inputPaths(cmd, args)
	if err != nil {
		return err
	}
	allStats, err := CollectStats(reader, pathInfos)
	if err != nil {
		return err
	}
	RenderStats(os.Stdout, allStats)
	return nil
}

func NewCLI() *cobra.Command {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:           "corpus_tokenizer",
		Short:         "Stream text corpora into tokenized lines",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	tokenizeCmd := &cobra.Command{
		Use:   "tokenize INPUT...",
		Short: "Tokenize corpus files line by line",
		Args:  cobra.MinimumNArgs(1),
		RunE:  TokenizeHandler,
	}
	addReaderFlags(tokenizeCmd)
	tokenizeCmd.Flags().StringP("output", "o", "tokenized.jsonl",
		"output file, - for stdout")
	tokenizeCmd.Flags().String("format", "jsonl",
		"output format [jsonl, text]")

	statsCmd := &cobra.Command{
		Use:   "stats INPUT...",
		Short: "Show line and token counts per corpus file",
		Args:  cobra.MinimumNArgs(1),
		RunE:  StatsHandler,
	}
	addReaderFlags(statsCmd)

	rootCmd.AddCommand(tokenizeCmd, statsCmd)
	return rootCmd
}

func main() {
	if err := NewCLI().ExecuteContext(context.Background()); err != nil {
		log.Fatal(strings.TrimSpace(err.Error()))
	}
}
